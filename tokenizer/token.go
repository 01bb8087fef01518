package tokenizer

import (
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedTag     = errors.New("unterminated tag")
	ErrUnterminatedComment = errors.New("unterminated comment")
)

// Sigil marks a name as a variable reference rather than a literal.
const Sigil = '$'

// TokenType represents the type of a token
type TokenType int

const (
	EOF         TokenType = iota
	TEXT                  // raw template text outside of tags
	TAG_START             // {
	TAG_END               // }
	NAME                  // identifiers, optionally sigil-prefixed ($foo)
	NUMBER                // numeric literals
	STRING                // string literals, stored unquoted
	PUNCTUATION           // . , ( ) [ ] | : ?
	OPERATOR              // + - * / % = < > ! and two-char forms
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case TEXT:
		return "TEXT"
	case TAG_START:
		return "TAG_START"
	case TAG_END:
		return "TAG_END"
	case NAME:
		return "NAME"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case PUNCTUATION:
		return "PUNCTUATION"
	case OPERATOR:
		return "OPERATOR"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the template source.
// Line and Column are 1-based, Offset is the 0-based rune index.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns the position as line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// Test reports whether the token has the given type and, when values are
// given, whether its value is one of them.
func (t Token) Test(typ TokenType, values ...string) bool {
	if t.Type != typ {
		return false
	}

	return len(values) == 0 || slices.Contains(values, t.Value)
}
