package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/akolanti/lexicon/internal/adapter"
	"github.com/akolanti/lexicon/internal/api"
	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
	"github.com/akolanti/lexicon/internal/rag"
	"github.com/akolanti/lexicon/internal/rag/loader"
)

// HealthHandler godoc
// @Summary      Health probe
// @Description  Liveness check for the API server.
// @Tags         Meta
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /api/health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "OK", Message: "RAG API Server is running"})
}

// IndexPDFHandler godoc
// @Summary      Index a PDF document
// @Description  Receives a PDF via multipart/form-data, extracts text per page, chunks and embeds it into the target collection.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        pdf         formData  file    true   "The PDF file to index"
// @Param        collection  formData  string  false  "Target collection (defaults to pdf-collection)"
// @Success      200  {object}  api.IndexResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/index/pdf [post]
func IndexPDFHandler(w http.ResponseWriter, r *http.Request) {
	handleUploadIngest(w, r, uploadIngestParams{
		kind:              commonModels.SourcePDF,
		kindLabel:         "PDF",
		errorLabel:        "Failed to index PDF",
		defaultCollection: config.DefaultPDFCollection,
		fileField:         "pdf",
	})
}

// IndexCSVHandler godoc
// @Summary      Index a CSV file
// @Description  Receives a CSV via multipart/form-data and indexes one document per data row into the target collection.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        csv         formData  file    true   "The CSV file to index"
// @Param        collection  formData  string  false  "Target collection (defaults to csv-collection)"
// @Success      200  {object}  api.IndexResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/index/csv [post]
func IndexCSVHandler(w http.ResponseWriter, r *http.Request) {
	handleUploadIngest(w, r, uploadIngestParams{
		kind:              commonModels.SourceCSV,
		kindLabel:         "CSV",
		errorLabel:        "Failed to index CSV",
		defaultCollection: config.DefaultCSVCollection,
		fileField:         "csv",
	})
}

// IndexFileHandler godoc
// @Summary      Index a text document
// @Description  Receives a txt, docx, rtf or odt file via multipart/form-data and indexes its text into the target collection.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document    formData  file    true   "The document to index"
// @Param        collection  formData  string  false  "Target collection (defaults to doc-collection)"
// @Success      200  {object}  api.IndexResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/index/file [post]
func IndexFileHandler(w http.ResponseWriter, r *http.Request) {
	handleUploadIngest(w, r, uploadIngestParams{
		kindLabel:         "Document",
		errorLabel:        "Failed to index file",
		defaultCollection: config.DefaultFileCollection,
		fileField:         "document",
		kindFromName:      true,
	})
}

// IndexURLHandler godoc
// @Summary      Index a web page
// @Description  Fetches the URL, extracts the main article content and indexes it into the target collection.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.IndexURLRequest  true  "URL and optional collection"
// @Success      200  {object}  api.IndexResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/index/url [post]
func IndexURLHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.IndexURLRequest
	defer closeBody(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.URL == "" {
		logRH.Warn("Bad URL index request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Failed to index URL", "url is required")
		return
	}

	collection := collectionOrDefault(requestData.Collection, config.DefaultURLCollection)
	result, err := ragService.Ingest(request.Context(), rag.IngestRequest{
		Kind:       commonModels.SourceURL,
		Source:     requestData.URL,
		Collection: collection,
		ExtraMetadata: map[string]any{
			commonModels.MetaIndexDate: time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		logRH.Error("URL indexing failed", "url", requestData.URL, "error", err)
		writeFaultResponse(w, "Failed to index URL", err)
		return
	}

	res := adapter.ToIndexResponse("URL", result)
	res.URL = requestData.URL
	writeJsonResponse(w, http.StatusOK, res)
}

// ChatHandler godoc
// @Summary      Ask a question over a collection
// @Description  Embeds the question, retrieves the most relevant chunks and returns a cited answer.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest  true  "Question and optional collection"
// @Success      200  {object}  api.ChatResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.ChatRequest
	defer closeBody(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Message == "" {
		logRH.Warn("Bad Chat Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Failed to process chat message", "message is required")
		return
	}

	collection := collectionOrDefault(requestData.Collection, config.DefaultChatCollection)
	result, err := ragService.Chat(request.Context(), requestData.Message, collection)
	if err != nil {
		logRH.Error("Chat failed", "collection", collection, "error", err)
		writeFaultResponse(w, "Failed to process chat message", err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(collection, result))
}

// CollectionsHandler godoc
// @Summary      List collections
// @Description  Returns the configured default collections merged with what the vector store holds.
// @Tags         Meta
// @Produce      json
// @Success      200  {object}  api.CollectionsResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/collections [get]
func CollectionsHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := ragService.Collections(r.Context())
	if err != nil {
		writeFaultResponse(w, "Failed to list collections", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.CollectionsResponse{Success: true, Collections: collections})
}

type uploadIngestParams struct {
	kind              commonModels.SourceKind
	kindLabel         string
	errorLabel        string
	defaultCollection string
	fileField         string
	kindFromName      bool
}

func handleUploadIngest(w http.ResponseWriter, r *http.Request, params uploadIngestParams) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	tempPath, originalName, errMessage, httpCode := saveUploadedFile(w, r, params.fileField)
	if errMessage != "" {
		WriteErrorResponse(w, httpCode, params.errorLabel, errMessage)
		return
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			logRH.Warn("Couldn't remove uploaded file", "path", tempPath, "error", err)
		}
	}()

	kind := params.kind
	if params.kindFromName {
		var err error
		kind, err = loader.KindForPath(originalName)
		if err != nil {
			writeFaultResponse(w, params.errorLabel, err)
			return
		}
	}

	collection := collectionOrDefault(r.FormValue("collection"), params.defaultCollection)
	extra := map[string]any{
		commonModels.MetaUploadDate: time.Now().Format(time.RFC3339),
	}
	if kind == commonModels.SourceCSV {
		// row-level metadata uses the visitor-facing name, not the spooled one
		extra[commonModels.MetaFile] = originalName
	} else {
		extra[commonModels.MetaFilename] = originalName
	}

	result, err := ragService.Ingest(r.Context(), rag.IngestRequest{
		Kind:          kind,
		Source:        tempPath,
		Collection:    collection,
		ExtraMetadata: extra,
	})
	if err != nil {
		logRH.Error("Upload indexing failed", "file", originalName, "error", err)
		writeFaultResponse(w, params.errorLabel, err)
		return
	}

	res := adapter.ToIndexResponse(params.kindLabel, result)
	if kind == commonModels.SourceCSV {
		res.RowsProcessed = result.DocumentsLoaded
	}
	writeJsonResponse(w, http.StatusOK, res)
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logRH.Error("Couldn't close the request body reader :", err)
	}
}
