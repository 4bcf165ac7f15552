// Package token defines the lossless token stream that rewrites are applied to.
//
// Every byte of a source file belongs to exactly one token, so joining the
// Src of all tokens reproduces the file. Rewrite callbacks splice tokens in
// place; untouched tokens keep their original text and formatting.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // token names follow the Python tokenize module
const (
	// Special tokens
	ENDMARKER TokenType = iota
	ERRORTOKEN

	// Significant tokens
	NAME   // identifiers and keywords
	NUMBER // 123, 4.5, 0x1f, 1j
	STRING // 'x', b"y", f"{z}" (always a single token)
	OP     // operators and delimiters

	// Trivia
	COMMENT        // # comment
	NEWLINE        // \n, \r\n or \r
	UNIMPORTANT_WS // spaces, tabs and form feeds
	ESCAPED_NL     // backslash line continuation
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	ENDMARKER:      "ENDMARKER",
	ERRORTOKEN:     "ERRORTOKEN",
	NAME:           "NAME",
	NUMBER:         "NUMBER",
	STRING:         "STRING",
	OP:             "OP",
	COMMENT:        "COMMENT",
	NEWLINE:        "NEWLINE",
	UNIMPORTANT_WS: "UNIMPORTANT_WS",
	ESCAPED_NL:     "ESCAPED_NL",
}

// IsTrivia returns true for tokens that carry no syntax: whitespace,
// newlines, comments and line continuations.
func IsTrivia(t TokenType) bool {
	return t >= COMMENT && t <= ESCAPED_NL
}

// Token is a single lexical token with the position of its first byte.
type Token struct {
	Type TokenType
	Src  string
	Line int // 1-based line number
	Col  int // 0-based UTF-8 byte column
}

// Offset returns the position key of the token.
func (t Token) Offset() Offset {
	return Offset{Line: t.Line, Col: t.Col}
}

// Is returns true if the token has the given type and source text.
func (t Token) Is(typ TokenType, src string) bool {
	return t.Type == typ && t.Src == src
}

// Name returns a NAME token with the given text.
func Name(src string) Token {
	return Token{Type: NAME, Src: src}
}

// Op returns an OP token with the given text.
func Op(src string) Token {
	return Token{Type: OP, Src: src}
}

// Whitespace returns an UNIMPORTANT_WS token with the given text.
func Whitespace(src string) Token {
	return Token{Type: UNIMPORTANT_WS, Src: src}
}

// Classify guesses the type of a replacement token from its text.
func Classify(src string) TokenType {
	if src == "" {
		return ERRORTOKEN
	}
	switch c := src[0]; {
	case c == '\'' || c == '"':
		return STRING
	case c >= '0' && c <= '9':
		return NUMBER
	case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80:
		return NAME
	}
	return OP
}
