package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/lexicon/internal/adapter"
	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/rag"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

var logRH *logger_i.Logger
var ragService rag.Service

// InitHandlers hands the handlers their service. Call once before routing.
func InitHandlers(service rag.Service) {
	ragService = service
	logRH = logger_i.NewLogger("Request Handler")
}

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, label string, details string) {
	writeJsonResponse(w, httpCode, adapter.ToErrorResponse(label, details))
}

func writeFaultResponse(w http.ResponseWriter, label string, err error) {
	WriteErrorResponse(w, adapter.StatusForFault(err), label, adapter.DetailsForFault(err))
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY).(string))
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func getUploadDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, config.UploadDirName)
	if err := os.MkdirAll(targetDir, config.UploadDirPerm); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

// saveUploadedFile spools the named multipart file field to the upload
// directory. The body is capped before any parsing happens, so an oversized
// request is rejected with nothing written to disk. Callers own the returned
// path and must remove it when done.
func saveUploadedFile(w http.ResponseWriter, r *http.Request, field string) (tempPath string, originalName string, errMessage string, httpCode int) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		return "", "", "File too large or bad request", http.StatusBadRequest
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logRH.Warn("Couldn't clean multipart spool files", "error", err)
		}
	}()

	fileReader, fileMetadata, err := r.FormFile(field)
	if err != nil {
		return "", "", "Could not retrieve file", http.StatusBadRequest
	}
	defer fileReader.Close()

	targetDir, errString := getUploadDirectory()
	if errString != "" {
		logRH.Error("Couldn't get upload directory :", "err", errString)
		return "", "", errString, http.StatusInternalServerError
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileMetadata.Filename))
	tempPath = filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempPath)
	if err != nil {
		return "", "", "Storage error", http.StatusInternalServerError
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		os.Remove(tempPath)
		return "", "", "Write error", http.StatusInternalServerError
	}
	return tempPath, fileMetadata.Filename, "", 0
}

func collectionOrDefault(requested string, fallback string) string {
	if requested == "" {
		return fallback
	}
	return requested
}
