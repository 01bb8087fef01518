package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	pc "github.com/shibukawa/parsercombinator"
	"github.com/spoonlib/spoon"
	cmn "github.com/spoonlib/spoon/parser/parsercommon"
	"github.com/spoonlib/spoon/parser/subvariable"
	tok "github.com/spoonlib/spoon/tokenizer"
)

// expressionNamespace seeds the name-based expression IDs.
var expressionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/spoonlib/spoon/expression"))

// Expression is one compiled tag.
type Expression struct {
	ID     string `json:"id"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Source string `json:"source"`
	Code   string `json:"code"`
}

// Compiled is the result of compiling a template.
type Compiled struct {
	Filename    string       `json:"filename"`
	Expressions []Expression `json:"expressions"`
}

// Compiler turns template tags into expression code.
//
// A tag is a variable or a method call followed by any number of
// modifiers:
//
//	{$user.name}                    lookup(context, ["user", "name"])
//	{$title|truncate(10)}           modifier("truncate", lookup(context, ["title"]), 10)
//	{now()|date('Y', $fmt.year)}    modifier("date", call("now"), "Y", lookup(context, ["fmt", "year"]))
type Compiler struct {
	env      *spoon.Environment
	filename string
	pctx     *pc.ParseContext[tok.Token]
}

// NewCompiler creates a compiler for one template. A nil environment
// falls back to spoon.DefaultEnvironment.
func NewCompiler(env *spoon.Environment, filename string) *Compiler {
	if env == nil {
		env = spoon.DefaultEnvironment()
	}

	return &Compiler{
		env:      env,
		filename: filename,
		pctx:     pc.NewParseContext[tok.Token](),
	}
}

// CompileTemplate compiles every tag of source. Compilation continues
// after a failing tag; all syntax errors are returned together as a
// *parsercommon.ParseError and no result is returned in that case.
func (c *Compiler) CompileTemplate(source string) (*Compiled, error) {
	tokens, err := tok.Tokenize(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.displayName(), err)
	}

	runes := []rune(source)
	stream := cmn.NewTokenStream(tokens, c.filename)
	compiled := &Compiled{Filename: c.filename}
	perr := &cmn.ParseError{}

	for !stream.IsEOF() {
		start := stream.Current()
		if start.Type != tok.TAG_START {
			stream.Next()
			continue
		}

		stream.Next()

		code, err := c.CompileTag(stream)
		if err != nil {
			perr.Add(err)
			skipTag(stream)

			continue
		}

		end := stream.Look(-1)
		src := string(runes[start.Position.Offset : end.Position.Offset+1])

		compiled.Expressions = append(compiled.Expressions, Expression{
			ID:     c.expressionID(start, code),
			Line:   start.Position.Line,
			Column: start.Position.Column,
			Source: src,
			Code:   code,
		})
	}

	if err := perr.ErrOrNil(); err != nil {
		return nil, err
	}

	return compiled, nil
}

// CompileTag compiles one tag body. The stream must be positioned on
// the first token after the opening brace; on success it is left after
// the closing brace.
func (c *Compiler) CompileTag(stream *cmn.TokenStream) (string, error) {
	var body []tok.Token

	for {
		token := stream.Current()
		if token.Type == tok.TAG_END {
			body = append(body, tok.Token{Type: tok.EOF, Position: token.Position})
			break
		}

		if token.Type == tok.EOF {
			return "", cmn.NewSyntaxError(cmn.ErrUnexpectedEOF, token, c.filename, "tag is not closed")
		}

		body = append(body, token)
		stream.Next()
	}

	code, err := c.compileBody(body)
	if err != nil {
		return "", err
	}

	stream.Next()

	return code, nil
}

type modifierCall struct {
	name tok.Token
	args []tok.Token
}

// compileBody compiles the tokens between the braces. body ends with an
// EOF token positioned on the closing brace.
func (c *Compiler) compileBody(body []tok.Token) (string, error) {
	eof := body[len(body)-1]
	tokens := body[:len(body)-1]

	if len(tokens) == 0 {
		return "", cmn.NewSyntaxError(cmn.ErrMissingName, eof, c.filename, "empty tag")
	}

	var leading []tok.Token
	var modifiers []modifierCall

	first := true
	for _, part := range pc.FindIter(c.pctx, cmn.ModifierHead, cmn.ToParserToken(tokens)) {
		skipped := cmn.ToToken(part.Skipped)
		if first {
			leading = skipped
			first = false
		} else {
			modifiers[len(modifiers)-1].args = skipped
		}

		if part.Last {
			break
		}

		modifiers = append(modifiers, modifierCall{name: part.Match[1].Val})
	}

	if first {
		leading = tokens
	}

	value, err := c.compileLeading(leading, eof)
	if err != nil {
		return "", err
	}

	for _, m := range modifiers {
		if c.env.Strict() && !c.env.HasModifier(m.name.Value) {
			return "", cmn.NewSyntaxError(cmn.ErrUnknownModifier, m.name, c.filename, "%q", m.name.Value)
		}

		args, err := c.compileArguments(m.args, eof)
		if err != nil {
			return "", err
		}

		value = renderCall("modifier", strconv.Quote(m.name.Value), append([]string{value}, args...)...)
	}

	return value, nil
}

// compileLeading compiles the part of a tag before its first modifier:
// either a variable path or a method call.
func (c *Compiler) compileLeading(tokens []tok.Token, eof tok.Token) (string, error) {
	if len(tokens) == 0 {
		return "", cmn.NewSyntaxError(cmn.ErrMissingName, eof, c.filename, "tag has no value before its modifiers")
	}

	head := tokens[0]
	if cmn.Match(c.pctx, cmn.CallHead, cmn.ToParserToken(tokens)) {
		args, err := c.compileArguments(tokens[2:], eof)
		if err != nil {
			return "", err
		}

		return renderCall("call", strconv.Quote(head.Value), args...), nil
	}

	return c.compileVariable(tokens)
}

// compileVariable runs the sub-variable grammar over tokens closed by a
// synthesized ')', which must be the token that ends the path.
func (c *Compiler) compileVariable(tokens []tok.Token) (string, error) {
	last := tokens[len(tokens)-1]
	closing := tok.Token{Type: tok.PUNCTUATION, Value: ")", Position: after(last)}

	view := make([]tok.Token, 0, len(tokens)+1)
	view = append(view, tokens...)
	view = append(view, closing)

	stream := cmn.NewTokenStream(view, c.filename)

	code, err := subvariable.New(stream, c.env).Compile()
	if err != nil {
		if serr, ok := cmn.AsSyntaxError(err); ok && serr.Kind == cmn.ErrUnterminatedExpression {
			return "", cmn.NewSyntaxError(cmn.ErrUnexpectedToken, serr.Token, c.filename, "%s %q after variable", serr.Token.Type, serr.Token.Value)
		}

		return "", err
	}

	if stream.Index() != len(view) {
		extra := stream.Look(-1)
		return "", cmn.NewSyntaxError(cmn.ErrUnexpectedToken, extra, c.filename, "%s %q after variable", extra.Type, extra.Value)
	}

	return code, nil
}

// compileArguments compiles an argument list whose opening parenthesis
// was already consumed. tokens must end with the closing parenthesis.
// A sub-variable argument consumes that parenthesis itself, so it has
// to be the last argument.
func (c *Compiler) compileArguments(tokens []tok.Token, eof tok.Token) ([]string, error) {
	view := make([]tok.Token, 0, len(tokens)+1)
	view = append(view, tokens...)
	view = append(view, eof)

	stream := cmn.NewTokenStream(view, c.filename)
	ptokens := cmn.ToParserToken(stream.Tokens())
	at := func(parser pc.Parser[tok.Token]) bool {
		return cmn.Match(c.pctx, parser, ptokens[stream.Index():])
	}

	var args []string
	if at(cmn.ParenClose) {
		stream.Next()
		return args, c.expectEnd(stream)
	}

	for {
		token := stream.Current()

		switch {
		case at(cmn.Literal):
			if token.Type == tok.STRING {
				args = append(args, strconv.Quote(token.Value))
			} else {
				args = append(args, token.Value)
			}
			stream.Next()
		case at(cmn.SignedNumber):
			args = append(args, "-"+stream.Next().Value)
			stream.Next()
		case at(cmn.Variable):
			code, err := subvariable.New(stream, c.env).Compile()
			if err != nil {
				return nil, err
			}

			args = append(args, code)

			if at(cmn.Comma) {
				return nil, cmn.NewSyntaxError(cmn.ErrUnexpectedToken, stream.Current(), c.filename, "variable %s must be the last argument", token.Value)
			}

			return args, c.expectEnd(stream)
		case token.Type == tok.EOF:
			return nil, cmn.NewSyntaxError(cmn.ErrUnexpectedEOF, token, c.filename, "argument list is not closed")
		default:
			return nil, cmn.NewSyntaxError(cmn.ErrUnexpectedToken, token, c.filename, "%s %q in argument list", token.Type, token.Value)
		}

		switch next := stream.Current(); {
		case at(cmn.Comma):
			stream.Next()
		case at(cmn.ParenClose):
			stream.Next()
			return args, c.expectEnd(stream)
		case next.Type == tok.EOF:
			return nil, cmn.NewSyntaxError(cmn.ErrUnexpectedEOF, next, c.filename, "argument list is not closed")
		default:
			return nil, cmn.NewSyntaxError(cmn.ErrUnexpectedToken, next, c.filename, "%s %q, expected \",\" or \")\"", next.Type, next.Value)
		}
	}
}

func (c *Compiler) expectEnd(stream *cmn.TokenStream) error {
	if token := stream.Current(); token.Type != tok.EOF {
		return cmn.NewSyntaxError(cmn.ErrUnexpectedToken, token, c.filename, "%s %q after argument list", token.Type, token.Value)
	}

	return nil
}

func (c *Compiler) expressionID(start tok.Token, code string) string {
	name := c.filename + ":" + strconv.Itoa(start.Position.Offset) + ":" + code
	return uuid.NewSHA1(expressionNamespace, []byte(name)).String()
}

func (c *Compiler) displayName() string {
	if c.filename == "" {
		return "<input>"
	}

	return c.filename
}

// skipTag moves the stream past the closing brace of the current tag, or
// to EOF when the tag is not closed.
func skipTag(stream *cmn.TokenStream) {
	tokens := stream.Tokens()
	for i := stream.Index(); i < len(tokens); i++ {
		if tokens[i].Type == tok.TAG_END {
			stream.Seek(i + 1)
			return
		}
	}

	stream.Seek(len(tokens) - 1)
}

// renderCall renders function(name, args...) where name is already quoted.
func renderCall(function, name string, args ...string) string {
	return function + "(" + strings.Join(append([]string{name}, args...), ", ") + ")"
}

// after returns the position right behind token.
func after(token tok.Token) tok.Position {
	pos := token.Position
	width := len([]rune(token.Value))

	if token.Type == tok.STRING {
		width += 2
	}

	pos.Column += width
	pos.Offset += width

	return pos
}
