package rag

import (
	"strings"
	"testing"

	"github.com/akolanti/lexicon/internal/domain/commonModels"
)

func TestBuildSystemInstruction(t *testing.T) {
	chunks := []commonModels.RetrievedChunk{
		{
			Text: "content from a pdf page",
			Metadata: map[string]any{
				commonModels.MetaPageNumber: 4,
				commonModels.MetaFilename:   "handbook.pdf",
			},
		},
		{
			Text: "content from a web page",
			Metadata: map[string]any{
				commonModels.MetaSource: "https://example.com/docs",
			},
		},
		{
			Text: "content from a csv row",
			Metadata: map[string]any{
				commonModels.MetaRow:  int64(7),
				commonModels.MetaFile: "people.csv",
			},
		},
	}

	instruction := buildSystemInstruction(chunks)

	if !strings.Contains(instruction, "Chunk 1 (Page 4) (File: handbook.pdf):\ncontent from a pdf page") {
		t.Errorf("pdf chunk header wrong:\n%s", instruction)
	}
	if !strings.Contains(instruction, "Chunk 2 (Source: https://example.com/docs):\ncontent from a web page") {
		t.Errorf("url chunk header wrong:\n%s", instruction)
	}
	if !strings.Contains(instruction, "Chunk 3 (Row: 7, File: people.csv):\ncontent from a csv row") {
		t.Errorf("csv chunk header wrong:\n%s", instruction)
	}
	if !strings.Contains(instruction, "answers queries based ONLY on the given context") {
		t.Errorf("instruction preamble missing")
	}
	if !strings.Contains(instruction, `"I don't know, based on the provided documents."`) {
		t.Errorf("fallback instruction missing")
	}
}

func TestBuildCitations(t *testing.T) {
	long := strings.Repeat("a", 250)
	exact := strings.Repeat("b", 200)
	chunks := []commonModels.RetrievedChunk{
		{Text: long, Metadata: map[string]any{commonModels.MetaPageNumber: float64(2), commonModels.MetaFilename: "a.pdf"}},
		{Text: exact, Metadata: map[string]any{commonModels.MetaSource: "https://example.com"}},
		{Text: "short", Metadata: map[string]any{commonModels.MetaRow: 3, commonModels.MetaFile: "rows.csv"}},
	}

	citations := buildCitations(chunks)

	if len(citations) != 3 {
		t.Fatalf("expected one citation per chunk, got %d", len(citations))
	}
	if citations[0].Chunk != 1 || citations[1].Chunk != 2 || citations[2].Chunk != 3 {
		t.Errorf("chunk numbering should follow retrieval order")
	}

	if citations[0].ContentPreview != long[:200]+"..." {
		t.Errorf("long preview should be truncated with ellipsis")
	}
	if citations[0].PageNumber != 2 || citations[0].Filename != "a.pdf" {
		t.Errorf("pdf citation fields wrong: %+v", citations[0])
	}

	if citations[1].ContentPreview != exact {
		t.Errorf("exactly 200 chars should pass through without ellipsis")
	}
	if citations[1].Source != "https://example.com" {
		t.Errorf("url citation fields wrong: %+v", citations[1])
	}

	if citations[2].ContentPreview != "short" {
		t.Errorf("short preview should be verbatim")
	}
	if citations[2].Row != 3 || citations[2].Filename != "rows.csv" {
		t.Errorf("csv citation should fall back to the row file name: %+v", citations[2])
	}
}

func TestMetaInt_NumericRoundTripTypes(t *testing.T) {
	meta := map[string]any{"i": 1, "i64": int64(2), "f64": float64(3), "s": "x"}

	if v, ok := metaInt(meta, "i"); !ok || v != 1 {
		t.Errorf("int: got %d %v", v, ok)
	}
	if v, ok := metaInt(meta, "i64"); !ok || v != 2 {
		t.Errorf("int64: got %d %v", v, ok)
	}
	if v, ok := metaInt(meta, "f64"); !ok || v != 3 {
		t.Errorf("float64: got %d %v", v, ok)
	}
	if _, ok := metaInt(meta, "s"); ok {
		t.Errorf("string should not read as int")
	}
	if _, ok := metaInt(meta, "missing"); ok {
		t.Errorf("missing key should not read as int")
	}
}
