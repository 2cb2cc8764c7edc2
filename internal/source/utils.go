package source

import (
	"path/filepath"
	"slices"
)

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
// Returns the (possibly new) slice and whether any replacement happened.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // file size bounded by Load
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based line/column pair. A '\n' byte
// belongs to the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// line0 = number of newlines strictly before off
	line0, _ := slices.BinarySearch(lineIdx, off)
	var startOff uint32
	if line0 > 0 {
		startOff = lineIdx[line0-1] + 1
	}
	return LineCol{Line: uint32(line0 + 1), Col: off - startOff + 1} //nolint:gosec // line count bounded by file size
}

func normalizePath(p string) string {
	// one canonical shape for cross-platform output
	return filepath.ToSlash(filepath.Clean(p))
}
