package splitter

import (
	"strings"

	"github.com/akolanti/lexicon/internal/adapter/utils"
	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
)

// Separators ordered from "best" to "worst" for semantic meaning. A chunk
// boundary is placed at the last occurrence of the best separator that fits
// inside the window; if none fits, the window is cut hard at the size limit.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split cuts text into windows of at most size characters with overlap
// characters shared between consecutive windows. Every chunk is a verbatim
// substring of the input, so stitching chunks back together (dropping the
// first overlap characters of every chunk after the first) reconstructs the
// original text exactly. Deterministic for a given input and parameters.
func Split(text string, size int, overlap int) []string {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		cut := end
		window := text[start:end]
		for _, sep := range separators {
			idx := strings.LastIndex(window, sep)
			// The boundary must clear the overlap region or the next window
			// would start at or before this one.
			if idx > overlap {
				cut = start + idx + len(sep)
				break
			}
		}

		chunks = append(chunks, text[start:cut])

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}

// SplitDocuments runs Split over each document's text and tags every chunk
// with the document metadata merged with extraMetadata (extraMetadata wins on
// key collision). Document order is preserved; empty documents yield nothing.
func SplitDocuments(docs []commonModels.Document, extraMetadata map[string]any) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk
	for _, doc := range docs {
		for _, text := range Split(doc.Text, config.ChunkSize, config.ChunkOverlap) {
			if text == "" {
				continue
			}
			allChunks = append(allChunks, commonModels.DocChunk{
				ChunkId:  utils.GetNewUUID(),
				Text:     text,
				Metadata: MergeMetadata(doc.Metadata, extraMetadata),
			})
		}
	}
	return allChunks
}

// MergeMetadata deep-merges extra into base without mutating either.
func MergeMetadata(base map[string]any, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		if inner, ok := v.(map[string]any); ok {
			if existing, ok := merged[k].(map[string]any); ok {
				merged[k] = MergeMetadata(existing, inner)
				continue
			}
		}
		merged[k] = v
	}
	return merged
}
