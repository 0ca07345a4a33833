package source

// OffsetToLineCol maps a byte offset in text to a zero-based line and column.
// Every byte other than '\n' advances the column by one, so columns count
// bytes. Offsets past the end of text keep advancing the column instead of
// failing.
func OffsetToLineCol(text string, offset int) (line, col int) {
	for p := 0; p < offset; p++ {
		if p < len(text) && text[p] == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

// LineEnd returns the smallest offset >= offset holding a line break, or
// len(text) when the rest of the text has none.
func LineEnd(text string, offset int) int {
	if offset < 0 {
		offset = 0
	}
	for p := offset; p < len(text); p++ {
		if text[p] == '\n' {
			return p
		}
	}
	if offset > len(text) {
		return offset
	}
	return len(text)
}
