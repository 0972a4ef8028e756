package adapter

import (
	"errors"
	"net/http"
	"testing"

	"github.com/akolanti/lexicon/internal/domain/commonModels"
	"github.com/akolanti/lexicon/internal/domain/faults"
)

func TestToIndexResponse(t *testing.T) {
	res := ToIndexResponse("PDF", commonModels.IngestResult{
		DocumentsLoaded: 3,
		ChunksIndexed:   12,
		Collection:      "pdf-collection",
		Created:         true,
	})

	if !res.Success || res.DocumentsCount != 12 || !res.Created {
		t.Errorf("response wrong: %+v", res)
	}
	if res.Message != "PDF indexed successfully! 12 chunks added to pdf-collection" {
		t.Errorf("message wrong: %s", res.Message)
	}
}

func TestToChatResponse_NeverNilSources(t *testing.T) {
	res := ToChatResponse("c", commonModels.ChatResult{Answer: "a"})
	if res.Sources == nil {
		t.Fatal("sources must serialize as an empty array, not null")
	}
}

func TestStatusForFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Validation", faults.Newf(faults.Validation, "x", "bad input"), http.StatusBadRequest},
		{"Load", faults.Newf(faults.Load, "x", "boom"), http.StatusInternalServerError},
		{"Embedding", faults.Newf(faults.Embedding, "x", "boom"), http.StatusInternalServerError},
		{"Plain_Error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusForFault(tt.err); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDetailsForFault(t *testing.T) {
	inner := errors.New("connection refused")
	fault := faults.New(faults.VectorStore, "some-collection", inner)

	if got := DetailsForFault(fault); got != "connection refused" {
		t.Errorf("fault details should surface the cause, got %q", got)
	}
	if got := DetailsForFault(inner); got != "connection refused" {
		t.Errorf("plain errors pass through, got %q", got)
	}
}
