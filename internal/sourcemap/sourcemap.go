// Package sourcemap builds a Source Map v3 payload for stage 5 of the
// pipeline (§2, §4.4). It is grounded on the teacher's VLQ codec and
// Mapping/SourceMap data shapes, trimmed down from a multi-chunk bundler
// artifact to the single-file case this tool produces.
package sourcemap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Granularity controls how often the printer is asked to record a mapping
// (§6 "mapping_granularity").
type Granularity uint8

const (
	// FullMapping records a segment at every meaningful token boundary.
	FullMapping Granularity = iota
	// LineMapping records only one segment per output line.
	LineMapping
)

// Mapping is one segment of the decoded "mappings" field: the generated
// position, paired with the original position and optional name it came
// from.
type Mapping struct {
	GeneratedLine   int32
	GeneratedColumn int32
	OriginalLine    int32
	OriginalColumn  int32
	NameIndex       int32 // -1 when absent
}

// SourceMap is the in-memory representation handed to Marshal.
type SourceMap struct {
	SourceFile     string
	SourceContents string
	Names          []string
	Mappings       []Mapping
}

// Builder accumulates mappings while the printer walks the AST, then
// produces the finished SourceMap.
type Builder struct {
	granularity Granularity
	sourceFile  string
	contents    string

	mappings    []Mapping
	names       []string
	nameIndices map[string]int32

	lastRecordedLine int32
}

func NewBuilder(sourceFile string, contents string, granularity Granularity) *Builder {
	return &Builder{
		granularity:      granularity,
		sourceFile:       sourceFile,
		contents:         contents,
		nameIndices:      make(map[string]int32),
		lastRecordedLine: -1,
	}
}

// AddMapping records one segment. name may be empty. The builder itself
// enforces granularity: at LineMapping, every call after the first one on a
// given generated line is dropped.
func (b *Builder) AddMapping(generatedLine, generatedColumn, originalLine, originalColumn int32, name string) {
	if b.granularity == LineMapping && generatedLine == b.lastRecordedLine {
		return
	}
	b.lastRecordedLine = generatedLine

	nameIndex := int32(-1)
	if name != "" {
		if idx, ok := b.nameIndices[name]; ok {
			nameIndex = idx
		} else {
			nameIndex = int32(len(b.names))
			b.names = append(b.names, name)
			b.nameIndices[name] = nameIndex
		}
	}

	b.mappings = append(b.mappings, Mapping{
		GeneratedLine:   generatedLine,
		GeneratedColumn: generatedColumn,
		OriginalLine:    originalLine,
		OriginalColumn:  originalColumn,
		NameIndex:       nameIndex,
	})
}

func (b *Builder) Build() *SourceMap {
	return &SourceMap{
		SourceFile:     b.sourceFile,
		SourceContents: b.contents,
		Names:          b.names,
		Mappings:       b.mappings,
	}
}

////////////////////////////////////////////////////////////////////////////
// VLQ codec (base64, the encoding Source Map v3 mandates)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func encodeVLQ(buf []byte, value int32) []byte {
	v := int(value)
	if v < 0 {
		v = (-v << 1) | 1
	} else {
		v = v << 1
	}
	for {
		digit := v & 0x1F
		v >>= 5
		if v > 0 {
			digit |= 0x20
		}
		buf = append(buf, base64Chars[digit])
		if v == 0 {
			break
		}
	}
	return buf
}

func decodeVLQ(s string, start int) (value int32, next int) {
	shift := uint(0)
	v := 0
	for i := start; i < len(s); i++ {
		digit := strings.IndexByte(base64Chars, s[i])
		if digit < 0 {
			break
		}
		v |= (digit & 0x1F) << shift
		if digit&0x20 == 0 {
			next = i + 1
			if v&1 != 0 {
				return int32(-(v >> 1)), next
			}
			return int32(v >> 1), next
		}
		shift += 5
	}
	return 0, len(s)
}

// encodeMappings renders the decoded Mapping list into the delta-encoded,
// semicolon-per-line "mappings" string (§4.4).
func encodeMappings(mappings []Mapping) string {
	var out bytes.Buffer
	var buf []byte
	prevGenLine := int32(0)
	prevGenCol := int32(0)
	prevOrigLine := int32(0)
	prevOrigCol := int32(0)
	prevName := int32(0)

	for i, m := range mappings {
		if m.GeneratedLine > prevGenLine {
			for prevGenLine < m.GeneratedLine {
				out.WriteByte(';')
				prevGenLine++
			}
			prevGenCol = 0
		} else if i > 0 {
			out.WriteByte(',')
		}

		buf = buf[:0]
		buf = encodeVLQ(buf, m.GeneratedColumn-prevGenCol)
		buf = encodeVLQ(buf, 0) // single source file: source index is always 0
		buf = encodeVLQ(buf, m.OriginalLine-prevOrigLine)
		buf = encodeVLQ(buf, m.OriginalColumn-prevOrigCol)
		if m.NameIndex >= 0 {
			buf = encodeVLQ(buf, m.NameIndex-prevName)
			prevName = m.NameIndex
		}
		out.Write(buf)

		prevGenCol = m.GeneratedColumn
		prevOrigLine = m.OriginalLine
		prevOrigCol = m.OriginalColumn
	}
	return out.String()
}

// DecodeMappings is exported for tests that want to round-trip a mappings
// string without depending on encodeMappings' internals.
func DecodeMappings(s string) []Mapping {
	var result []Mapping
	line := int32(0)
	genCol := int32(0)
	origLine := int32(0)
	origCol := int32(0)
	nameIdx := int32(0)

	pos := 0
	for pos < len(s) {
		switch s[pos] {
		case ';':
			line++
			genCol = 0
			pos++
			continue
		case ',':
			pos++
			continue
		}

		var deltaGenCol, deltaSrc, deltaOrigLine, deltaOrigCol int32
		deltaGenCol, pos = decodeVLQ(s, pos)
		deltaSrc, pos = decodeVLQ(s, pos)
		_ = deltaSrc
		deltaOrigLine, pos = decodeVLQ(s, pos)
		deltaOrigCol, pos = decodeVLQ(s, pos)

		genCol += deltaGenCol
		origLine += deltaOrigLine
		origCol += deltaOrigCol

		m := Mapping{GeneratedLine: line, GeneratedColumn: genCol, OriginalLine: origLine, OriginalColumn: origCol, NameIndex: -1}

		// A name delta is present only when another VLQ segment remains
		// before the next "," or ";" (or end of string).
		if pos < len(s) && s[pos] != ',' && s[pos] != ';' {
			var deltaName int32
			deltaName, pos = decodeVLQ(s, pos)
			nameIdx += deltaName
			m.NameIndex = nameIdx
		}
		result = append(result, m)
	}
	return result
}

////////////////////////////////////////////////////////////////////////////
// JSON payload

type payload struct {
	Version        int      `json:"version"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
	File           string   `json:"file,omitempty"`
}

// Marshal renders the Source Map v3 JSON document.
func (sm *SourceMap) Marshal(includeSourcesContent bool) ([]byte, error) {
	p := payload{
		Version:  3,
		Sources:  []string{sm.SourceFile},
		Names:    sm.Names,
		Mappings: encodeMappings(sm.Mappings),
		File:     sm.SourceFile,
	}
	if includeSourcesContent {
		p.SourcesContent = []string{sm.SourceContents}
	}
	return json.Marshal(p)
}

// DataURL renders the map as a "data:application/json;charset=utf-8;base64,..." URL
// suitable for an inline "//# sourceMappingURL=" comment (§6 source_map:
// "inline").
func (sm *SourceMap) DataURL(includeSourcesContent bool) (string, error) {
	data, err := sm.Marshal(includeSourcesContent)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:application/json;charset=utf-8;base64,%s", base64Encode(data)), nil
}

func base64Encode(data []byte) string {
	const padChar = '='
	var sb strings.Builder
	for i := 0; i < len(data); i += 3 {
		var n uint32
		remaining := len(data) - i
		n = uint32(data[i]) << 16
		if remaining > 1 {
			n |= uint32(data[i+1]) << 8
		}
		if remaining > 2 {
			n |= uint32(data[i+2])
		}
		sb.WriteByte(base64Chars[(n>>18)&0x3F])
		sb.WriteByte(base64Chars[(n>>12)&0x3F])
		if remaining > 1 {
			sb.WriteByte(base64Chars[(n>>6)&0x3F])
		} else {
			sb.WriteByte(padChar)
		}
		if remaining > 2 {
			sb.WriteByte(base64Chars[n&0x3F])
		} else {
			sb.WriteByte(padChar)
		}
	}
	return sb.String()
}
