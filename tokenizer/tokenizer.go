package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// Tokenizer splits template source into text and tag tokens.
//
// A tag opens with '{' directly followed by the sigil, a letter, '_' or
// '*' and closes with '}'. A '{' followed by anything else (whitespace
// in inline CSS or JavaScript, for example) is plain text. "{* ... *}"
// is a comment and produces no tokens.
type Tokenizer struct {
	input string
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// Tokens returns an iterator of tokens. Iteration stops after the EOF
// token or after the first error.
func (t *Tokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		lexer := newLexer(t.input)

		for {
			token, err := lexer.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if !yield(token, nil) {
				return
			}

			if token.Type == EOF {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice ending with EOF
func (t *Tokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Tokenize is a shorthand for NewTokenizer(input).AllTokens()
func Tokenize(input string) ([]Token, error) {
	return NewTokenizer(input).AllTokens()
}

// Internal lexer implementation
type lexer struct {
	input  []rune
	offset int
	line   int
	column int
	inTag  bool
	tagPos Position
	last   Token
}

func newLexer(input string) *lexer {
	return &lexer{
		input:  []rune(input),
		line:   1,
		column: 1,
	}
}

// nextToken gets the next token
func (l *lexer) nextToken() (Token, error) {
	token, err := l.scan()
	if err == nil {
		l.last = token
	}

	return token, err
}

func (l *lexer) scan() (Token, error) {
	if !l.inTag {
		return l.scanText()
	}

	l.skipWhitespace()

	start := l.pos()
	ch := l.current()

	switch {
	case l.eof():
		return Token{}, fmt.Errorf("%w: tag opened at line %d, column %d", ErrUnterminatedTag, l.tagPos.Line, l.tagPos.Column)
	case ch == '}':
		l.readChar()
		l.inTag = false

		return Token{Type: TAG_END, Value: "}", Position: start}, nil
	case ch == Sigil || isNameStart(ch):
		return l.readName()
	case unicode.IsDigit(ch):
		return l.readNumber(), nil
	case ch == '\'' || ch == '"':
		return l.readString(ch)
	case strings.ContainsRune(".,()[]|:?", ch):
		l.readChar()
		return Token{Type: PUNCTUATION, Value: string(ch), Position: start}, nil
	case strings.ContainsRune("+-*/%=<>!", ch):
		return l.readOperator(), nil
	default:
		return Token{}, fmt.Errorf("%w: %q at line %d, column %d", ErrUnexpectedCharacter, ch, start.Line, start.Column)
	}
}

// scanText reads template text up to the next tag, entering tag mode
// when one starts. Comments are skipped entirely.
func (l *lexer) scanText() (Token, error) {
	for {
		if l.eof() {
			return Token{Type: EOF, Position: l.pos()}, nil
		}

		if !l.atTagStart() {
			return l.readText(), nil
		}

		start := l.pos()
		if l.peekChar() == '*' {
			if err := l.skipComment(start); err != nil {
				return Token{}, err
			}

			continue
		}

		l.readChar()
		l.inTag = true
		l.tagPos = start

		return Token{Type: TAG_START, Value: "{", Position: start}, nil
	}
}

func (l *lexer) atTagStart() bool {
	if l.current() != '{' {
		return false
	}

	next := l.peekChar()

	return next == Sigil || next == '*' || isNameStart(next)
}

// readText reads raw text until a tag start or the end of input
func (l *lexer) readText() Token {
	var builder strings.Builder
	start := l.pos()

	for !l.eof() && !l.atTagStart() {
		builder.WriteRune(l.current())
		l.readChar()
	}

	return Token{Type: TEXT, Value: builder.String(), Position: start}
}

// skipComment consumes "{* ... *}"
func (l *lexer) skipComment(start Position) error {
	l.readChar()
	l.readChar()

	for !l.eof() {
		if l.current() == '*' && l.peekChar() == '}' {
			l.readChar()
			l.readChar()

			return nil
		}

		l.readChar()
	}

	return fmt.Errorf("%w at line %d, column %d", ErrUnterminatedComment, start.Line, start.Column)
}

// readName reads identifiers, keeping a leading sigil in the value
func (l *lexer) readName() (Token, error) {
	var builder strings.Builder
	start := l.pos()

	if l.current() == Sigil {
		builder.WriteRune(l.current())
		l.readChar()

		if !isNameStart(l.current()) {
			return Token{}, fmt.Errorf("%w: %q after %q at line %d, column %d", ErrUnexpectedCharacter, l.current(), Sigil, start.Line, start.Column)
		}
	}

	for isNamePart(l.current()) {
		builder.WriteRune(l.current())
		l.readChar()
	}

	return Token{Type: NAME, Value: builder.String(), Position: start}, nil
}

// readNumber reads numeric literals. Directly after the '.' accessor only
// the integer part is read, so "$list.1.2" yields the keys 1 and 2.
func (l *lexer) readNumber() Token {
	var builder strings.Builder
	start := l.pos()

	for unicode.IsDigit(l.current()) {
		builder.WriteRune(l.current())
		l.readChar()
	}

	accessor := l.last.Test(PUNCTUATION, ".")
	if !accessor && l.current() == '.' && unicode.IsDigit(l.peekChar()) {
		builder.WriteRune(l.current())
		l.readChar()

		for unicode.IsDigit(l.current()) {
			builder.WriteRune(l.current())
			l.readChar()
		}
	}

	return Token{Type: NUMBER, Value: builder.String(), Position: start}
}

// readString reads string literals, resolving backslash escapes
func (l *lexer) readString(delimiter rune) (Token, error) {
	var builder strings.Builder
	start := l.pos()

	l.readChar() // opening quote

	for !l.eof() && l.current() != delimiter {
		if l.current() == '\\' {
			l.readChar()

			switch l.current() {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			case 0:
				continue
			default:
				builder.WriteRune(l.current())
			}

			l.readChar()

			continue
		}

		builder.WriteRune(l.current())
		l.readChar()
	}

	if l.eof() {
		return Token{}, fmt.Errorf("%w: %c at line %d, column %d", ErrUnterminatedString, delimiter, start.Line, start.Column)
	}

	l.readChar() // closing quote

	return Token{Type: STRING, Value: builder.String(), Position: start}, nil
}

// readOperator reads one or two character operators
func (l *lexer) readOperator() Token {
	start := l.pos()
	first := l.current()
	l.readChar()

	if l.current() == '=' && strings.ContainsRune("=!<>", first) {
		l.readChar()
		return Token{Type: OPERATOR, Value: string(first) + "=", Position: start}
	}

	return Token{Type: OPERATOR, Value: string(first), Position: start}
}

func (l *lexer) skipWhitespace() {
	for unicode.IsSpace(l.current()) {
		l.readChar()
	}
}

// readChar advances past the current character
func (l *lexer) readChar() {
	if l.eof() {
		return
	}

	if l.input[l.offset] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	l.offset++
}

func (l *lexer) current() rune {
	if l.eof() {
		return 0
	}

	return l.input[l.offset]
}

// peekChar looks ahead at the next character
func (l *lexer) peekChar() rune {
	if l.offset+1 >= len(l.input) {
		return 0
	}

	return l.input[l.offset+1]
}

func (l *lexer) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexer) pos() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.offset}
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}
