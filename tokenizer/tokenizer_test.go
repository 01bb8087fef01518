package tokenizer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTokenIterator(t *testing.T) {
	src := "Hello {$user.name|uppercase()}!"
	tokenizer := NewTokenizer(src)

	expectedTypes := []TokenType{
		TEXT, TAG_START, NAME, PUNCTUATION, NAME, PUNCTUATION, NAME, PUNCTUATION, PUNCTUATION, TAG_END, TEXT, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestTokenPositions(t *testing.T) {
	tokens, err := Tokenize("Hello {$user.name|uppercase()}!")
	assert.NoError(t, err)

	expected := []Token{
		{Type: TEXT, Value: "Hello ", Position: Position{Line: 1, Column: 1, Offset: 0}},
		{Type: TAG_START, Value: "{", Position: Position{Line: 1, Column: 7, Offset: 6}},
		{Type: NAME, Value: "$user", Position: Position{Line: 1, Column: 8, Offset: 7}},
		{Type: PUNCTUATION, Value: ".", Position: Position{Line: 1, Column: 13, Offset: 12}},
		{Type: NAME, Value: "name", Position: Position{Line: 1, Column: 14, Offset: 13}},
		{Type: PUNCTUATION, Value: "|", Position: Position{Line: 1, Column: 18, Offset: 17}},
		{Type: NAME, Value: "uppercase", Position: Position{Line: 1, Column: 19, Offset: 18}},
		{Type: PUNCTUATION, Value: "(", Position: Position{Line: 1, Column: 28, Offset: 27}},
		{Type: PUNCTUATION, Value: ")", Position: Position{Line: 1, Column: 29, Offset: 28}},
		{Type: TAG_END, Value: "}", Position: Position{Line: 1, Column: 30, Offset: 29}},
		{Type: TEXT, Value: "!", Position: Position{Line: 1, Column: 31, Offset: 30}},
		{Type: EOF, Value: "", Position: Position{Line: 1, Column: 32, Offset: 31}},
	}

	assert.Equal(t, expected, tokens)
}

func TestMultilinePositions(t *testing.T) {
	tokens, err := Tokenize("a\nb {$x\n.y}")
	assert.NoError(t, err)

	assert.Equal(t, TEXT, tokens[0].Type)
	assert.Equal(t, "a\nb ", tokens[0].Value)
	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 4}, tokens[1].Position)
	assert.Equal(t, Position{Line: 2, Column: 4, Offset: 5}, tokens[2].Position)
	assert.Equal(t, Token{Type: PUNCTUATION, Value: ".", Position: Position{Line: 3, Column: 1, Offset: 8}}, tokens[3])
	assert.Equal(t, Position{Line: 3, Column: 2, Offset: 9}, tokens[4].Position)
}

func TestTagValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "sigil key is a name",
			input: "{$foo.$bar}",
			expected: []Token{
				{Type: NAME, Value: "$foo"},
				{Type: PUNCTUATION, Value: "."},
				{Type: NAME, Value: "$bar"},
			},
		},
		{
			name:  "numeric keys after accessor",
			input: "{$list.1.2}",
			expected: []Token{
				{Type: NAME, Value: "$list"},
				{Type: PUNCTUATION, Value: "."},
				{Type: NUMBER, Value: "1"},
				{Type: PUNCTUATION, Value: "."},
				{Type: NUMBER, Value: "2"},
			},
		},
		{
			name:  "decimal argument",
			input: "{$price|sprintf('%.2f', 1.5)}",
			expected: []Token{
				{Type: NAME, Value: "$price"},
				{Type: PUNCTUATION, Value: "|"},
				{Type: NAME, Value: "sprintf"},
				{Type: PUNCTUATION, Value: "("},
				{Type: STRING, Value: "%.2f"},
				{Type: PUNCTUATION, Value: ","},
				{Type: NUMBER, Value: "1.5"},
				{Type: PUNCTUATION, Value: ")"},
			},
		},
		{
			name:  "escaped string",
			input: `{$a|sprintf("say \"hi\"\n")}`,
			expected: []Token{
				{Type: NAME, Value: "$a"},
				{Type: PUNCTUATION, Value: "|"},
				{Type: NAME, Value: "sprintf"},
				{Type: PUNCTUATION, Value: "("},
				{Type: STRING, Value: "say \"hi\"\n"},
				{Type: PUNCTUATION, Value: ")"},
			},
		},
		{
			name:  "operators",
			input: "{$a >= 1 != 2}",
			expected: []Token{
				{Type: NAME, Value: "$a"},
				{Type: OPERATOR, Value: ">="},
				{Type: NUMBER, Value: "1"},
				{Type: OPERATOR, Value: "!="},
				{Type: NUMBER, Value: "2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			assert.NoError(t, err)

			// strip TAG_START, TAG_END and EOF, ignore positions
			var got []Token
			for _, token := range tokens[1 : len(tokens)-2] {
				got = append(got, Token{Type: token.Type, Value: token.Value})
			}

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPlainBracesAreText(t *testing.T) {
	tokens, err := Tokenize("body { color: red } {$x}")
	assert.NoError(t, err)

	assert.Equal(t, Token{Type: TEXT, Value: "body { color: red } ", Position: Position{Line: 1, Column: 1, Offset: 0}}, tokens[0])
	assert.Equal(t, TAG_START, tokens[1].Type)
}

func TestCommentsAreSkipped(t *testing.T) {
	tokens, err := Tokenize("a{* {$ignored} *}b")
	assert.NoError(t, err)

	var types []TokenType
	var values []string
	for _, token := range tokens {
		types = append(types, token.Type)
		values = append(values, token.Value)
	}

	assert.Equal(t, []TokenType{TEXT, TEXT, EOF}, types)
	assert.Equal(t, []string{"a", "b", ""}, values)
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"unterminated tag", "{$foo.bar", ErrUnterminatedTag},
		{"unterminated comment", "{* never closed", ErrUnterminatedComment},
		{"unterminated string", "{$a|date('Y-m-d)}", ErrUnterminatedString},
		{"bare sigil", "{$ }", ErrUnexpectedCharacter},
		{"unknown character", "{$a # b}", ErrUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestIteratorEarlyTermination(t *testing.T) {
	tokenizer := NewTokenizer("{$a.b.c}")

	count := 0
	for _, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		count++
		if count == 3 {
			break
		}
	}

	assert.Equal(t, 3, count)
}

func TestTokenTest(t *testing.T) {
	token := Token{Type: PUNCTUATION, Value: "."}

	assert.True(t, token.Test(PUNCTUATION))
	assert.True(t, token.Test(PUNCTUATION, "."))
	assert.True(t, token.Test(PUNCTUATION, ")", "."))
	assert.False(t, token.Test(PUNCTUATION, ")"))
	assert.False(t, token.Test(NAME))
}
