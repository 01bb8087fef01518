package parsercommon

import (
	"errors"
	"fmt"

	tok "github.com/spoonlib/spoon/tokenizer"
)

// SyntaxError is a compile-time error tied to the token that caused it.
// Kind is one of the sentinel errors of this package and is what
// errors.Is matches against.
type SyntaxError struct {
	Kind     error
	Message  string
	Token    tok.Token
	Filename string
}

// NewSyntaxError builds a SyntaxError for token.
func NewSyntaxError(kind error, token tok.Token, filename, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Token:    token,
		Filename: filename,
	}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	filename := e.Filename
	if filename == "" {
		filename = "<input>"
	}

	if e.Message == "" {
		return fmt.Sprintf("%v in %s at line %d, column %d", e.Kind, filename, e.Token.Position.Line, e.Token.Position.Column)
	}

	return fmt.Sprintf("%v: %s in %s at line %d, column %d", e.Kind, e.Message, filename, e.Token.Position.Line, e.Token.Position.Column)
}

// Unwrap returns the error kind.
func (e *SyntaxError) Unwrap() error {
	return e.Kind
}

// Line returns the source line of the offending token.
func (e *SyntaxError) Line() int {
	return e.Token.Position.Line
}

// AsSyntaxError is a helper to extract *SyntaxError from error using errors.As.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return serr, true
	}

	return nil, false
}
