package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderIsLossless(t *testing.T) {
	src := "x = (1,  \\\n  2)  # two\r\n\tpass\n"
	b := NewBuilder(src)
	b.Add(NAME, 0, 1)   // x
	b.Add(OP, 2, 3)     // =
	b.Add(OP, 4, 5)     // (
	b.Add(NUMBER, 5, 6) // 1
	b.Add(OP, 6, 7)     // ,
	b.Add(NUMBER, 13, 14)
	b.Add(OP, 14, 15)
	b.Add(NAME, 25, 29) // pass

	toks := b.Tokens()
	assert.Equal(t, src, toks.String())

	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		NAME, UNIMPORTANT_WS, OP, UNIMPORTANT_WS, OP, NUMBER, OP, UNIMPORTANT_WS,
		ESCAPED_NL, UNIMPORTANT_WS, NUMBER, OP, UNIMPORTANT_WS, COMMENT, NEWLINE,
		UNIMPORTANT_WS, NAME, NEWLINE,
	}, types)
}

func TestBuilderPositions(t *testing.T) {
	src := "a\n  bb\n"
	b := NewBuilder(src)
	b.Add(NAME, 0, 1)
	b.Add(NAME, 4, 6)
	toks := b.Tokens()

	require.Len(t, toks, 5)
	assert.Equal(t, Offset{Line: 1, Col: 0}, toks[0].Offset())
	assert.Equal(t, Offset{Line: 2, Col: 0}, toks[2].Offset())
	assert.Equal(t, Offset{Line: 2, Col: 2}, toks[3].Offset())
	assert.Equal(t, "bb", toks[3].Src)
}

func TestBuilderIgnoresOverlap(t *testing.T) {
	b := NewBuilder("abc")
	b.Add(NAME, 0, 2)
	b.Add(NAME, 1, 3)
	toks := b.Tokens()
	assert.Equal(t, "abc", toks.String())
	assert.Equal(t, ERRORTOKEN, toks[1].Type)
}

func TestLineIndex(t *testing.T) {
	idx := NewLineIndex("ab\ncd\n\nef")
	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{Line: 1, Column: 0, Offset: 0}},
		{2, Position{Line: 1, Column: 2, Offset: 2}},
		{3, Position{Line: 2, Column: 0, Offset: 3}},
		{6, Position{Line: 3, Column: 0, Offset: 6}},
		{8, Position{Line: 4, Column: 1, Offset: 8}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, idx.Position(tt.offset))
	}
}

func TestSplice(t *testing.T) {
	toks := Tokens{
		{Type: NAME, Src: "io", Line: 1, Col: 0},
		{Type: OP, Src: ".", Line: 1, Col: 2},
		{Type: NAME, Src: "open", Line: 1, Col: 3},
		{Type: OP, Src: "(", Line: 1, Col: 7},
	}
	toks.Splice(0, 3, Name("open"))

	require.Len(t, toks, 2)
	assert.Equal(t, "open(", toks.String())
	assert.Equal(t, Offset{Line: 1, Col: 0}, toks[0].Offset())
}

func TestIndexAt(t *testing.T) {
	toks := Tokens{
		{Type: NAME, Src: "a", Line: 1, Col: 0},
		{Type: NEWLINE, Src: "\n", Line: 1, Col: 1},
		{Type: NAME, Src: "b", Line: 2, Col: 0},
	}
	assert.Equal(t, 1, toks.IndexAt(0, Offset{Line: 1, Col: 1}))
	assert.Equal(t, 2, toks.IndexAt(0, Offset{Line: 1, Col: 5}))
	assert.Equal(t, 3, toks.IndexAt(0, Offset{Line: 3, Col: 0}))
	assert.Equal(t, 0, toks.PrevSignificant(2))
	assert.Equal(t, 2, toks.Find(0, NAME, "b"))
	assert.Equal(t, -1, toks.Find(0, OP, "b"))
}

func TestOffsetLess(t *testing.T) {
	assert.True(t, Offset{Line: 1, Col: 9}.Less(Offset{Line: 2, Col: 0}))
	assert.True(t, Offset{Line: 2, Col: 0}.Less(Offset{Line: 2, Col: 1}))
	assert.False(t, Offset{Line: 2, Col: 1}.Less(Offset{Line: 2, Col: 1}))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, NAME, Classify("OSError"))
	assert.Equal(t, STRING, Classify("'r'"))
	assert.Equal(t, NUMBER, Classify("3"))
	assert.Equal(t, OP, Classify("("))
	assert.Equal(t, ERRORTOKEN, Classify(""))
}
