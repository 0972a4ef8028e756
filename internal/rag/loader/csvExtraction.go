package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/lexicon/internal/domain/commonModels"
)

// loadCSV produces one Document per data row. The text is the row rendered
// as "header: value" lines so column names survive into the embedding. Row
// indexes are 1-based and count data rows, not the header.
func loadCSV(path string) ([]commonModels.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, loadErr(path, "failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 //ragged rows are tolerated, cells beyond the header get positional names

	header, err := reader.Read()
	if err == io.EOF {
		return nil, loadErr(path, "csv is empty")
	}
	if err != nil {
		return nil, loadErr(path, "failed to read csv header: %w", err)
	}

	filename := filepath.Base(path)
	var docs []commonModels.Document
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, loadErr(path, "failed to read csv row %d: %w", row+1, err)
		}
		row++
		docs = append(docs, commonModels.Document{
			Text: renderRow(header, record),
			Metadata: map[string]any{
				commonModels.MetaRow:  row,
				commonModels.MetaFile: filename,
			},
		})
	}
	return docs, nil
}

func renderRow(header []string, record []string) string {
	var b strings.Builder
	for i, cell := range record {
		name := fmt.Sprintf("column%d", i+1)
		if i < len(header) {
			name = header[i]
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(cell)
	}
	return b.String()
}
