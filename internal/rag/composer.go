package rag

import (
	"fmt"
	"strings"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
)

// NoInformationResponse is returned, without any generation call, when
// retrieval comes back empty.
const NoInformationResponse = "I don't have any relevant information in the selected collection to answer your question."

const systemInstructionTemplate = `You are an AI assistant who answers queries based ONLY on the given context.
Always cite the source:
- For PDFs -> include the page number and filename if available.
- For web docs -> include the source URL.
- For CSVs -> include row number and filename.

If the answer is not in the context, reply:
"I don't know, based on the provided documents."

Context:
%s`

// buildSystemInstruction assembles the context block: one header line per
// chunk naming whatever source fields its metadata carries, then the chunk
// text, chunks separated by a blank line.
func buildSystemInstruction(chunks []commonModels.RetrievedChunk) string {
	blocks := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		var header strings.Builder
		fmt.Fprintf(&header, "Chunk %d", i+1)

		if page, ok := metaInt(chunk.Metadata, commonModels.MetaPageNumber); ok {
			fmt.Fprintf(&header, " (Page %d)", page)
		}
		if source, ok := metaString(chunk.Metadata, commonModels.MetaSource); ok {
			fmt.Fprintf(&header, " (Source: %s)", source)
		}
		if row, ok := metaInt(chunk.Metadata, commonModels.MetaRow); ok {
			file, _ := metaString(chunk.Metadata, commonModels.MetaFile)
			fmt.Fprintf(&header, " (Row: %d, File: %s)", row, file)
		}
		if filename, ok := metaString(chunk.Metadata, commonModels.MetaFilename); ok {
			fmt.Fprintf(&header, " (File: %s)", filename)
		}

		blocks = append(blocks, header.String()+":\n"+chunk.Text)
	}

	return fmt.Sprintf(systemInstructionTemplate, strings.Join(blocks, "\n\n"))
}

// buildCitations emits one entry per chunk in retrieval order, previews
// truncated at 200 characters. Chunks sharing a source are not deduplicated.
func buildCitations(chunks []commonModels.RetrievedChunk) []commonModels.SourceCitation {
	sources := make([]commonModels.SourceCitation, 0, len(chunks))
	for i, chunk := range chunks {
		citation := commonModels.SourceCitation{
			Chunk:          i + 1,
			ContentPreview: previewText(chunk.Text),
		}
		if page, ok := metaInt(chunk.Metadata, commonModels.MetaPageNumber); ok {
			citation.PageNumber = page
		}
		if source, ok := metaString(chunk.Metadata, commonModels.MetaSource); ok {
			citation.Source = source
		}
		if row, ok := metaInt(chunk.Metadata, commonModels.MetaRow); ok {
			citation.Row = row
		}
		if filename, ok := metaString(chunk.Metadata, commonModels.MetaFilename); ok {
			citation.Filename = filename
		} else if file, ok := metaString(chunk.Metadata, commonModels.MetaFile); ok {
			citation.Filename = file
		}
		sources = append(sources, citation)
	}
	return sources
}

func previewText(text string) string {
	if len(text) <= config.PreviewMaxChars {
		return text
	}
	return text[:config.PreviewMaxChars] + "..."
}

func metaString(meta map[string]any, key string) (string, bool) {
	if v, ok := meta[key].(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// metaInt tolerates the numeric types metadata passes through on its round
// trip: int at ingestion, int64 from qdrant, float64 from JSON.
func metaInt(meta map[string]any, key string) (int, bool) {
	switch v := meta[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
