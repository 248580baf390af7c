package sourcemap

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeDecodeMappingsRoundTrip(t *testing.T) {
	mappings := []Mapping{
		{GeneratedLine: 0, GeneratedColumn: 0, OriginalLine: 0, OriginalColumn: 0, NameIndex: -1},
		{GeneratedLine: 0, GeneratedColumn: 4, OriginalLine: 0, OriginalColumn: 10, NameIndex: 0},
		{GeneratedLine: 1, GeneratedColumn: 0, OriginalLine: 2, OriginalColumn: 0, NameIndex: -1},
	}
	encoded := encodeMappings(mappings)
	decoded := DecodeMappings(encoded)
	if len(decoded) != len(mappings) {
		t.Fatalf("expected %d decoded mappings, got %d", len(mappings), len(decoded))
	}
	for i, m := range mappings {
		got := decoded[i]
		if got.GeneratedLine != m.GeneratedLine || got.GeneratedColumn != m.GeneratedColumn ||
			got.OriginalLine != m.OriginalLine || got.OriginalColumn != m.OriginalColumn {
			t.Fatalf("mapping %d: expected %+v, got %+v", i, m, got)
		}
	}
}

func TestBuilderLineGranularityDropsExtraSegments(t *testing.T) {
	b := NewBuilder("in.js", "", LineMapping)
	b.AddMapping(0, 0, 0, 0, "")
	b.AddMapping(0, 5, 0, 10, "")
	b.AddMapping(1, 0, 1, 0, "")
	sm := b.Build()
	if len(sm.Mappings) != 2 {
		t.Fatalf("expected line granularity to keep one segment per line, got %d", len(sm.Mappings))
	}
}

func TestMarshalProducesValidJSON(t *testing.T) {
	b := NewBuilder("in.js", "var x = 1;", FullMapping)
	b.AddMapping(0, 0, 0, 0, "x")
	sm := b.Build()
	data, err := sm.Marshal(true)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Marshal produced invalid JSON: %v", err)
	}
	if decoded["version"].(float64) != 3 {
		t.Fatalf("expected version 3, got %v", decoded["version"])
	}
	if names, ok := decoded["names"].([]interface{}); !ok || len(names) != 1 || names[0] != "x" {
		t.Fatalf("expected names == [\"x\"], got %v", decoded["names"])
	}
}

func TestDataURLIsBase64Prefixed(t *testing.T) {
	b := NewBuilder("in.js", "", FullMapping)
	sm := b.Build()
	url, err := sm.DataURL(false)
	if err != nil {
		t.Fatalf("DataURL failed: %v", err)
	}
	if !strings.HasPrefix(url, "data:application/json;charset=utf-8;base64,") {
		t.Fatalf("unexpected data URL prefix: %s", url)
	}
}
