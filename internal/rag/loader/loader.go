package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/lexicon/internal/domain/commonModels"
	"github.com/akolanti/lexicon/internal/domain/faults"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

var logger *logger_i.Logger

func log() *logger_i.Logger {
	if logger == nil {
		logger = logger_i.NewLogger("Document Loader")
	}
	return logger
}

// Load turns one raw source into a finite sequence of Documents. Any network
// or parse error comes back as a single Load fault carrying the offending
// source identifier; the caller aborts the whole ingestion request.
func Load(kind commonModels.SourceKind, source string) ([]commonModels.Document, error) {
	switch kind {
	case commonModels.SourcePDF:
		return loadPDF(source)
	case commonModels.SourceCSV:
		return loadCSV(source)
	case commonModels.SourceURL:
		return loadURL(source)
	case commonModels.SourceFile:
		return loadPlainDocument(source)
	default:
		return nil, faults.Newf(faults.Load, source, "unsupported source kind: %s", kind)
	}
}

// KindForPath maps an uploaded file's extension to the loader that handles it.
func KindForPath(path string) (commonModels.SourceKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return commonModels.SourcePDF, nil
	case ".csv":
		return commonModels.SourceCSV, nil
	case ".txt", ".docx", ".rtf", ".odt":
		return commonModels.SourceFile, nil
	default:
		return "", faults.Newf(faults.Validation, path, "unsupported file extension: %q", ext)
	}
}

func loadErr(source string, format string, args ...any) error {
	return faults.New(faults.Load, source, fmt.Errorf(format, args...))
}
