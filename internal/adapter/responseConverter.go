package adapter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/lexicon/internal/api"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
	"github.com/akolanti/lexicon/internal/domain/faults"
)

func ToIndexResponse(kindLabel string, result commonModels.IngestResult) api.IndexResponse {
	return api.IndexResponse{
		Success:        true,
		Message:        fmt.Sprintf("%s indexed successfully! %d chunks added to %s", kindLabel, result.ChunksIndexed, result.Collection),
		Collection:     result.Collection,
		DocumentsCount: result.ChunksIndexed,
		Created:        result.Created,
	}
}

func ToChatResponse(collection string, result commonModels.ChatResult) api.ChatResponse {
	sources := result.Sources
	if sources == nil {
		sources = []commonModels.SourceCitation{}
	}
	return api.ChatResponse{
		Success:    true,
		Response:   result.Answer,
		Sources:    sources,
		Collection: collection,
	}
}

func ToErrorResponse(label string, details string) api.ErrorResponse {
	return api.ErrorResponse{
		Error:   label,
		Details: details,
	}
}

// StatusForFault maps a pipeline fault kind to the HTTP status the façade
// answers with. Anything unclassified is an internal error.
func StatusForFault(err error) int {
	if faults.KindOf(err) == faults.Validation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// DetailsForFault surfaces the underlying cause as free text.
func DetailsForFault(err error) string {
	var f *faults.Fault
	if errors.As(err, &f) {
		return f.Details()
	}
	return err.Error()
}
