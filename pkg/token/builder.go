package token

import "unicode/utf8"

// Builder assembles a Tokens stream from the significant leaves of a parse
// tree. Bytes between leaves are classified as trivia so that the result is
// lossless.
type Builder struct {
	src   string
	lines *LineIndex
	toks  Tokens
	pos   int
}

// NewBuilder returns a builder over src.
func NewBuilder(src string) *Builder {
	return &Builder{src: src, lines: NewLineIndex(src)}
}

// Add appends a token covering src[start:end]. Leaves must be added in
// source order; a leaf overlapping the previous one is ignored.
func (b *Builder) Add(typ TokenType, start, end int) {
	if start < b.pos || end <= start || end > len(b.src) {
		return
	}
	b.trivia(start)
	b.emit(typ, start, end)
}

// Tokens fills the trailing gap and returns the stream.
func (b *Builder) Tokens() Tokens {
	b.trivia(len(b.src))
	return b.toks
}

func (b *Builder) emit(typ TokenType, start, end int) {
	p := b.lines.Position(start)
	b.toks = append(b.toks, Token{Type: typ, Src: b.src[start:end], Line: p.Line, Col: p.Column})
	b.pos = end
}

// trivia classifies src[b.pos:until].
func (b *Builder) trivia(until int) {
	for b.pos < until {
		start := b.pos
		switch c := b.src[start]; {
		case c == ' ' || c == '\t' || c == '\f':
			end := start
			for end < until && (b.src[end] == ' ' || b.src[end] == '\t' || b.src[end] == '\f') {
				end++
			}
			b.emit(UNIMPORTANT_WS, start, end)
		case c == '\r' || c == '\n':
			end := start + 1
			if c == '\r' && end < until && b.src[end] == '\n' {
				end++
			}
			b.emit(NEWLINE, start, end)
		case c == '\\' && start+1 < until && (b.src[start+1] == '\n' || b.src[start+1] == '\r'):
			end := start + 2
			if b.src[start+1] == '\r' && end < until && b.src[end] == '\n' {
				end++
			}
			b.emit(ESCAPED_NL, start, end)
		case c == '#':
			end := start
			for end < until && b.src[end] != '\n' && b.src[end] != '\r' {
				end++
			}
			b.emit(COMMENT, start, end)
		default:
			_, size := utf8.DecodeRuneInString(b.src[start:until])
			b.emit(ERRORTOKEN, start, start+size)
		}
	}
}
