package parsercommon

import (
	"strings"

	tok "github.com/spoonlib/spoon/tokenizer"
)

// Cursor is the token access a sub-parser needs. Next advances and
// Previous rewinds, both returning the new current token. Look returns
// the token n positions away without moving.
type Cursor interface {
	Current() tok.Token
	Next() tok.Token
	Previous() tok.Token
	Look(n int) tok.Token
	Expect(typ tok.TokenType, values ...string) (tok.Token, error)
	Filename() string
}

// TokenStream is a Cursor over a token slice. The slice always ends with
// an EOF token and the stream never moves past it.
type TokenStream struct {
	tokens   []tok.Token
	current  int
	filename string
}

var _ Cursor = (*TokenStream)(nil)

// NewTokenStream creates a stream over tokens, appending EOF when missing.
func NewTokenStream(tokens []tok.Token, filename string) *TokenStream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tok.EOF {
		var pos tok.Position
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			pos = last.Position
			pos.Column += len([]rune(last.Value))
			pos.Offset += len([]rune(last.Value))
		} else {
			pos = tok.Position{Line: 1, Column: 1}
		}

		tokens = append(tokens[:len(tokens):len(tokens)], tok.Token{Type: tok.EOF, Position: pos})
	}

	return &TokenStream{tokens: tokens, filename: filename}
}

// Current returns the token under the cursor.
func (s *TokenStream) Current() tok.Token {
	return s.tokens[s.current]
}

// Next advances by one token and returns the new current token.
func (s *TokenStream) Next() tok.Token {
	if s.current < len(s.tokens)-1 {
		s.current++
	}

	return s.tokens[s.current]
}

// Previous rewinds one token and returns the new current token. The
// cursor stays on the first token when already there.
func (s *TokenStream) Previous() tok.Token {
	if s.current > 0 {
		s.current--
	}

	return s.tokens[s.current]
}

// Look peeks n tokens ahead. Positions past the end yield the EOF token.
func (s *TokenStream) Look(n int) tok.Token {
	i := s.current + n
	switch {
	case i < 0:
		return s.tokens[0]
	case i >= len(s.tokens):
		return s.tokens[len(s.tokens)-1]
	}

	return s.tokens[i]
}

// Expect consumes the current token if it matches, otherwise returns an
// ErrUnexpectedToken syntax error and leaves the cursor in place.
func (s *TokenStream) Expect(typ tok.TokenType, values ...string) (tok.Token, error) {
	token := s.Current()
	if !token.Test(typ, values...) {
		expected := typ.String()
		if len(values) > 0 {
			expected += " \"" + strings.Join(values, "\" or \"") + "\""
		}

		return token, NewSyntaxError(ErrUnexpectedToken, token, s.filename, "%s \"%s\", expected %s", token.Type, token.Value, expected)
	}

	s.Next()

	return token, nil
}

// IsEOF reports whether the cursor sits on the EOF token.
func (s *TokenStream) IsEOF() bool {
	return s.Current().Type == tok.EOF
}

// Index returns the cursor position.
func (s *TokenStream) Index() int {
	return s.current
}

// Seek moves the cursor to i, clamped to the stream.
func (s *TokenStream) Seek(i int) {
	s.current = max(0, min(i, len(s.tokens)-1))
}

// Tokens returns the underlying tokens including the trailing EOF.
func (s *TokenStream) Tokens() []tok.Token {
	return s.tokens
}

// Filename returns the name used in error messages.
func (s *TokenStream) Filename() string {
	return s.filename
}
