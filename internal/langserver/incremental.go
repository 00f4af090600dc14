package langserver

import (
	"fmt"
	"unicode/utf8"

	"github.com/shaderlang/shaderls/internal/transport"
)

// PositionEncoding is the negotiated encoding for LSP Position.character
// offsets, chosen during initialize: "utf-8", "utf-16" (the default
// every client assumes absent negotiation), or "utf-32".
type PositionEncoding string

const (
	EncodingUTF8  PositionEncoding = "utf-8"
	EncodingUTF16 PositionEncoding = "utf-16"
	EncodingUTF32 PositionEncoding = "utf-32"
)

// ApplyIncrementalChange splices newContent into content at the byte
// range r denotes, for any negotiated encoding.
func ApplyIncrementalChange(r transport.Range, newContent, content string, encoding PositionEncoding) string {
	start, _ := PositionToOffset(r.Start, content, encoding)
	end, _ := PositionToOffset(r.End, content, encoding)
	return content[:start] + newContent + content[end:]
}

// PositionToOffset converts an LSP Position into a byte offset into s,
// counting UTF-16 surrogate pairs as two code units when encoding is
// utf-16.
func PositionToOffset(pos transport.Position, s string, encoding PositionEncoding) (uint, error) {
	if len(s) == 0 {
		return 0, nil
	}
	indices := GetLineIndices(s)
	if pos.Line > uint32(len(indices)) {
		return 0, fmt.Errorf("invalid line number %d", pos.Line)
	} else if pos.Line == uint32(len(indices)) {
		return uint(len(s)), nil
	}
	currChar := indices[pos.Line]
	for i := 0; i < int(pos.Character); i++ {
		if int(currChar) >= len(s) {
			break
		}
		r, w := utf8.DecodeRuneInString(s[currChar:])
		if w == 0 {
			break
		}
		currChar += uint(w)
		if encoding == EncodingUTF16 && r >= 0x10000 {
			i++
			if i == int(pos.Character) {
				break
			}
		}
	}
	return currChar, nil
}

// OffsetToPosition is PositionToOffset's inverse, used to report a
// symbol's source range back as an LSP Position.
func OffsetToPosition(offset uint, s string, encoding PositionEncoding) (transport.Position, error) {
	if len(s) == 0 || offset == 0 {
		return transport.Position{Line: 0, Character: 0}, nil
	}
	line := uint32(0)
	char := uint32(0)
	str := []byte(s)

	for i := uint(0); i < offset && i < uint(len(str)); {
		r, w := utf8.DecodeRune(str[i:])
		if w == 0 {
			break
		}
		if r == '\n' {
			line++
			char = 0
		} else {
			char++
			if r >= 0x10000 && encoding == EncodingUTF16 {
				char++
			}
		}
		i += uint(w)
	}

	return transport.Position{Line: line, Character: char}, nil
}

// GetLineIndices returns the byte offset of the start of each line in s.
func GetLineIndices(s string) []uint {
	lines := []uint{0}
	for i, w := 0, 0; i < len(s); i += w {
		r, width := utf8.DecodeRuneInString(s[i:])
		if r == '\n' {
			lines = append(lines, uint(i)+1)
		}
		w = width
	}
	return lines
}
