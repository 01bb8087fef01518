// Package subvariable parses the restricted variable paths allowed as
// modifier and method-call arguments, e.g. the "$user.tags.0" in
// {$title|sprintf('%s', $user.tags.0)}.
//
// A sub-variable is a sigil-prefixed root name followed by zero or more
// ".key" accessors, where each key is a name or a number. Unlike general
// variables, keys can never be computed from another variable, and the
// expression always ends at the closing parenthesis of the argument list.
package subvariable

import (
	"strconv"
	"strings"

	"github.com/spoonlib/spoon"
	"github.com/spoonlib/spoon/parser/parsercommon"
	tok "github.com/spoonlib/spoon/tokenizer"
)

// Path is the ordered list of keys of a sub-variable. The first element
// is the root variable name without its sigil.
type Path []string

// Render returns the lookup call for the path.
func (p Path) Render() string {
	var sb strings.Builder
	sb.WriteString("lookup(context, [")

	for i, segment := range p {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(segment))
	}

	sb.WriteString("])")

	return sb.String()
}

// String returns the path in source form, e.g. "$foo.bar.3".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}

	return string(tok.Sigil) + strings.Join(p, ".")
}

// Parser compiles a single sub-variable expression read from a cursor.
// A Parser is meant for one expression; create a new one per argument.
type Parser struct {
	cursor parsercommon.Cursor
	env    *spoon.Environment
}

// New creates a parser reading from cursor.
func New(cursor parsercommon.Cursor, env *spoon.Environment) *Parser {
	return &Parser{cursor: cursor, env: env}
}

// Environment returns the environment the parser was created with.
func (p *Parser) Environment() *spoon.Environment {
	return p.env
}

// Compile parses one sub-variable terminated by ')' and returns its
// lookup expression. The closing parenthesis is consumed. On error the
// cursor is left at the offending token and no code is returned.
func (p *Parser) Compile() (string, error) {
	path, err := p.Parse()
	if err != nil {
		return "", err
	}

	return path.Render(), nil
}

// Parse is Compile without rendering.
func (p *Parser) Parse() (Path, error) {
	root := p.cursor.Current()
	if root.Type != tok.NAME || len(root.Value) < 2 || root.Value[0] != byte(tok.Sigil) {
		return nil, p.errorf(parsercommon.ErrMissingName, root, "found %s %q", root.Type, root.Value)
	}

	path := Path{root.Value[1:]}
	current := p.cursor.Next()

	if current.Test(tok.PUNCTUATION, ".") && isKey(p.cursor.Look(1)) {
		for {
			key := p.cursor.Next()

			if !isKey(key) {
				return nil, p.errorf(parsercommon.ErrInvalidKeyKind, key, "%s %q cannot be used as a key", key.Type, key.Value)
			}

			if strings.ContainsRune(key.Value, tok.Sigil) {
				return nil, p.errorf(parsercommon.ErrDynamicKey, key, "key %q after %s", key.Value, path)
			}

			path = append(path, key.Value)

			if !p.cursor.Next().Test(tok.PUNCTUATION, ".") {
				break
			}
		}
	}

	if last, err := p.cursor.Expect(tok.PUNCTUATION, ")"); err != nil {
		return nil, p.errorf(parsercommon.ErrUnterminatedExpression, last, "expected \")\" after %s, found %s %q", path, last.Type, last.Value)
	}

	return path, nil
}

func (p *Parser) errorf(kind error, token tok.Token, format string, args ...any) error {
	return parsercommon.NewSyntaxError(kind, token, p.cursor.Filename(), format, args...)
}

func isKey(token tok.Token) bool {
	return token.Type == tok.NAME || token.Type == tok.NUMBER
}
