package token

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 0-based UTF-8 byte column
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Key returns the line/column identity of the position.
func (p Position) Key() Offset {
	return Offset{Line: p.Line, Col: p.Column}
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// Offset identifies a token start by line and byte column. Syntax nodes and
// tokens computed from the same source agree on it, which makes it the key
// that rewrite edits are collected under.
type Offset struct {
	Line int
	Col  int
}

// Less orders offsets by line, then column.
func (o Offset) Less(other Offset) bool {
	if o.Line != other.Line {
		return o.Line < other.Line
	}
	return o.Col < other.Col
}

// LineIndex maps byte offsets to line/column positions.
type LineIndex struct {
	starts []int
}

// NewLineIndex indexes the line starts of src. Lines end at "\n".
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Position returns the position of the byte at offset.
func (l *LineIndex) Position(offset int) Position {
	lo, hi := 0, len(l.starts)
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if l.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid
		}
	}
	return Position{Line: lo + 1, Column: offset - l.starts[lo], Offset: offset}
}
