package project

import (
	"unicode/utf8"
)

// cp1251Table maps bytes 0x80-0xFF of Windows-1251 to their Unicode code
// points. Bytes 0x00-0x7F are ASCII-identical in both encodings. There is no
// third-party decoder for this single encoding already in this module's
// dependency set — golang.org/x/text/encoding/charmap would be the
// idiomatic choice, but pulling in a new module for one fallback encoding
// isn't justified, so this table is hand-written instead. See DESIGN.md for
// this component's standard-library justification.
var cp1251Table = [128]rune{
	0x0402, 0x0403, 0x201A, 0x0453, 0x201E, 0x2026, 0x2020, 0x2021,
	0x20AC, 0x2030, 0x0409, 0x2039, 0x040A, 0x040C, 0x040B, 0x040F,
	0x0452, 0x2018, 0x2019, 0x201C, 0x201D, 0x2022, 0x2013, 0x2014,
	0xFFFD, 0x2122, 0x0459, 0x203A, 0x045A, 0x045C, 0x045B, 0x045F,
	0x00A0, 0x040E, 0x045E, 0x0408, 0x00A4, 0x0490, 0x00A6, 0x00A7,
	0x0401, 0x00A9, 0x0404, 0x00AB, 0x00AC, 0x00AD, 0x00AE, 0x0407,
	0x00B0, 0x00B1, 0x0406, 0x0456, 0x0491, 0x00B5, 0x00B6, 0x00B7,
	0x0451, 0x2116, 0x0454, 0x00BB, 0x0458, 0x0405, 0x0455, 0x0457,
	0x0410, 0x0411, 0x0412, 0x0413, 0x0414, 0x0415, 0x0416, 0x0417,
	0x0418, 0x0419, 0x041A, 0x041B, 0x041C, 0x041D, 0x041E, 0x041F,
	0x0420, 0x0421, 0x0422, 0x0423, 0x0424, 0x0425, 0x0426, 0x0427,
	0x0428, 0x0429, 0x042A, 0x042B, 0x042C, 0x042D, 0x042E, 0x042F,
	0x0430, 0x0431, 0x0432, 0x0433, 0x0434, 0x0435, 0x0436, 0x0437,
	0x0438, 0x0439, 0x043A, 0x043B, 0x043C, 0x043D, 0x043E, 0x043F,
	0x0440, 0x0441, 0x0442, 0x0443, 0x0444, 0x0445, 0x0446, 0x0447,
	0x0448, 0x0449, 0x044A, 0x044B, 0x044C, 0x044D, 0x044E, 0x044F,
}

// decodeSource returns source decoded as text, trying UTF-8 first and
// falling back to Windows-1251 — the same two-encoding policy as
// original_source/code_analyzer/folder_reader.py's _analyze_file. Every
// byte has a Windows-1251 mapping, so unlike the Python original (where a
// cp1251 decode can itself raise) this fallback never fails; a file is
// skipped only when it can't be read from disk at all.
func decodeSource(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return decodeCP1251(raw)
}

func decodeCP1251(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		if b < 0x80 {
			runes[i] = rune(b)
		} else {
			runes[i] = cp1251Table[b-0x80]
		}
	}
	return string(runes)
}
