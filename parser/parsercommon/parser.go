package parsercommon

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/spoonlib/spoon/tokenizer"
)

var (
	// Pipe parses the '|' modifier separator.
	Pipe = PunctuationType("pipe", "|")
	// Comma parses an argument delimiter.
	Comma = PunctuationType("comma", ",")
	// ParenOpen parses an opening parenthesis.
	ParenOpen = PunctuationType("parenOpen", "(")
	// ParenClose parses a closing parenthesis.
	ParenClose = PunctuationType("parenClose", ")")
	// Minus parses the sign of a negative number.
	Minus = OperatorType("minus", "-")

	// Name parses a plain or sigil-prefixed name.
	Name = PrimitiveType("name", tok.NAME)
	// Number parses a numeric literal.
	Number = PrimitiveType("number", tok.NUMBER)
	// String parses a string literal.
	String = PrimitiveType("string", tok.STRING)
	// Variable parses a sigil-prefixed name.
	Variable = NameType("variable", true)
	// Function parses a name without sigil.
	Function = NameType("function", false)

	// Literal parses a string or number argument.
	Literal = pc.Or(String, Number)
	// SignedNumber parses "-" followed by a number.
	SignedNumber = pc.Seq(Minus, Number)
	// ModifierHead parses "|name(".
	ModifierHead = pc.Seq(Pipe, Name, ParenOpen)
	// CallHead parses "name(" at the start of a method call tag.
	CallHead = pc.Seq(Function, ParenOpen)
)

// PrimitiveType matches one token of any of the given types.
func PrimitiveType(typeName string, types ...tok.TokenType) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// PunctuationType matches one punctuation token with one of the given values.
func PunctuationType(typeName string, values ...string) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && tokens[0].Val.Test(tok.PUNCTUATION, values...) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// OperatorType matches one operator token with one of the given values.
func OperatorType(typeName string, values ...string) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && tokens[0].Val.Test(tok.OPERATOR, values...) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// NameType matches one NAME token that carries the sigil when sigil is
// set and lacks it otherwise.
func NameType(typeName string, sigil bool) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && tokens[0].Val.Type == tok.NAME && tokens[0].Val.Value != "" {
			if (tokens[0].Val.Value[0] == byte(tok.Sigil)) == sigil {
				return 1, tokens[:1], nil
			}
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// Match reports whether parser accepts the start of tokens.
func Match(pctx *pc.ParseContext[tok.Token], parser pc.Parser[tok.Token], tokens []pc.Token[tok.Token]) bool {
	_, _, err := parser(pctx, tokens)
	return err == nil
}

// ToParserToken wraps lexer tokens for the parser combinators.
func ToParserToken(tokens []tok.Token) []pc.Token[tok.Token] {
	results := make([]pc.Token[tok.Token], len(tokens))

	for i, token := range tokens {
		results[i] = pc.Token[tok.Token]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: token,
			Raw: token.Value,
		}
	}

	return results
}

// ToToken unwraps parser combinator tokens.
func ToToken(entities []pc.Token[tok.Token]) []tok.Token {
	results := make([]tok.Token, 0, len(entities))
	for _, entity := range entities {
		results = append(results, entity.Val)
	}

	return results
}
