package splitter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/lexicon/internal/domain/commonModels"
)

// numbered words make every substring of the input effectively unique, so
// position checks below are unambiguous
func buildText(words int) string {
	var b strings.Builder
	for i := 0; i < words; i++ {
		fmt.Fprintf(&b, "word%04d ", i)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestSplit_ChunkBounds(t *testing.T) {
	text := buildText(500)
	chunks := Split(text, 1000, 200)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for %d chars, got %d", len(text), len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 1000 {
			t.Errorf("chunk %d exceeds size limit: %d chars", i, len(chunk))
		}
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplit_ReconstructsOriginal(t *testing.T) {
	text := buildText(500)
	chunks := Split(text, 1000, 200)

	prevEnd := 0
	searchFrom := 0
	for i, chunk := range chunks {
		idx := strings.Index(text[searchFrom:], chunk)
		if idx < 0 {
			t.Fatalf("chunk %d is not a verbatim substring of the input", i)
		}
		chunkStart := searchFrom + idx
		chunkEnd := chunkStart + len(chunk)

		if i == 0 && chunkStart != 0 {
			t.Fatalf("first chunk starts at %d, want 0", chunkStart)
		}
		if i > 0 && chunkStart > prevEnd {
			t.Fatalf("gap before chunk %d: starts at %d, previous ended at %d", i, chunkStart, prevEnd)
		}
		if chunkEnd <= prevEnd {
			t.Fatalf("chunk %d makes no forward progress", i)
		}

		prevEnd = chunkEnd
		searchFrom = chunkStart + 1
	}
	if prevEnd != len(text) {
		t.Fatalf("coverage ends at %d, want %d", prevEnd, len(text))
	}
}

func TestSplit_ConsecutiveChunksOverlap(t *testing.T) {
	text := buildText(500)
	chunks := Split(text, 1000, 200)

	for i := 1; i < len(chunks); i++ {
		if len(chunks[i-1]) < 200 {
			t.Fatalf("chunk %d too short to carry a full overlap region: %d chars", i-1, len(chunks[i-1]))
		}
		if !strings.HasPrefix(chunks[i], chunks[i-1][len(chunks[i-1])-200:]) {
			t.Errorf("chunk %d does not start with the previous chunk's overlap region", i)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := buildText(400)
	first := Split(text, 1000, 200)
	second := Split(text, 1000, 200)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_EdgeCases(t *testing.T) {
	if chunks := Split("", 1000, 200); chunks != nil {
		t.Errorf("empty input should yield no chunks, got %d", len(chunks))
	}

	short := "a short document"
	chunks := Split(short, 1000, 200)
	if len(chunks) != 1 || chunks[0] != short {
		t.Errorf("input below the size limit should come back as one chunk, got %v", chunks)
	}

	// no separators at all forces hard cuts
	hard := strings.Repeat("x", 2500)
	chunks = Split(hard, 1000, 200)
	for i, c := range chunks {
		if len(c) > 1000 {
			t.Errorf("hard-cut chunk %d exceeds size limit: %d", i, len(c))
		}
	}
}

func TestSplitDocuments_MetadataAndIds(t *testing.T) {
	docs := []commonModels.Document{
		{Text: "first document", Metadata: map[string]any{"pageNumber": 1, "shared": "doc"}},
		{Text: "second document", Metadata: map[string]any{"pageNumber": 2}},
		{Text: "", Metadata: map[string]any{"pageNumber": 3}},
	}
	extra := map[string]any{"filename": "report.pdf", "shared": "extra"}

	chunks := SplitDocuments(docs, extra)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks (empty document dropped), got %d", len(chunks))
	}
	seen := map[string]bool{}
	for i, chunk := range chunks {
		if chunk.ChunkId == "" || seen[chunk.ChunkId] {
			t.Errorf("chunk %d has missing or duplicate id", i)
		}
		seen[chunk.ChunkId] = true
		if chunk.Metadata["filename"] != "report.pdf" {
			t.Errorf("chunk %d missing merged extra metadata", i)
		}
	}
	if chunks[0].Metadata["pageNumber"] != 1 || chunks[1].Metadata["pageNumber"] != 2 {
		t.Errorf("document metadata lost in split")
	}
	if chunks[0].Metadata["shared"] != "extra" {
		t.Errorf("extra metadata should win on key collision, got %v", chunks[0].Metadata["shared"])
	}
	if docs[0].Metadata["shared"] != "doc" {
		t.Errorf("source document metadata was mutated")
	}
}

func TestMergeMetadata_NestedMaps(t *testing.T) {
	base := map[string]any{"a": 1, "nested": map[string]any{"x": 1, "y": 2}}
	extra := map[string]any{"nested": map[string]any{"y": 3}}

	merged := MergeMetadata(base, extra)

	inner, ok := merged["nested"].(map[string]any)
	if !ok {
		t.Fatalf("nested map lost in merge")
	}
	if inner["x"] != 1 || inner["y"] != 3 {
		t.Errorf("nested merge wrong: %v", inner)
	}
}
