package loader

import (
	"errors"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/akolanti/lexicon/internal/domain/commonModels"
)

// loadPDF extracts one Document per page, with the 1-based page number in
// metadata. Pages that fail to parse are skipped rather than failing the
// whole file; a file with no readable pages is a load failure.
func loadPDF(path string) ([]commonModels.Document, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, loadErr(path, "failed to open pdf: %w", err)
	}

	var docs []commonModels.Document
	numPages := f.NumPage()
	log().Debug("extracting pdf", "path", path, "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			log().Error("skipping unreadable pdf page", "page", i, "error", err)
			continue
		}

		docs = append(docs, commonModels.Document{
			Text: content,
			Metadata: map[string]any{
				commonModels.MetaPageNumber: i,
			},
		})
	}
	if len(docs) == 0 {
		return nil, loadErr(path, "no readable pages in pdf")
	}
	return docs, nil
}

// loadPlainDocument reads a .txt, .docx, .rtf or .odt file as a single
// Document. These formats carry no page structure we can recover.
func loadPlainDocument(path string) ([]commonModels.Document, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, loadErr(path, "failed to extract document content: %w", err)
	}
	return []commonModels.Document{
		{
			Text: text,
			Metadata: map[string]any{
				commonModels.MetaPageNumber: 1,
			},
		},
	}, nil
}

// protectExtract guards GetPlainText, which can hang on malformed content
// streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("page extraction timeout")
	}
}
