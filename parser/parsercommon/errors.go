package parsercommon

import "errors"

// Sentinel errors - kinds carried by SyntaxError
var (
	// ErrMissingName indicates an expression did not start with a sigil-prefixed name.
	ErrMissingName = errors.New("expected name")
	// ErrInvalidKeyKind indicates a sub-variable key was neither a name nor a number.
	ErrInvalidKeyKind = errors.New("invalid key kind")
	// ErrDynamicKey indicates a sub-variable key referenced another variable.
	ErrDynamicKey = errors.New("dynamic keys not permitted")
	// ErrUnterminatedExpression indicates a closing parenthesis was missing.
	ErrUnterminatedExpression = errors.New("unterminated sub-variable")
	// ErrUnexpectedToken is returned by TokenStream.Expect on a mismatch.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrUnknownModifier indicates a modifier that is not registered in the environment.
	ErrUnknownModifier = errors.New("unknown modifier")
	// ErrUnexpectedEOF indicates a tag body ended in the middle of an expression.
	ErrUnexpectedEOF = errors.New("unexpected end of expression")
)
