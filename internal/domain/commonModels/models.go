package commonModels

// Metadata keys written by the loaders and read back by the answer composer.
const (
	MetaFilename   = "filename"
	MetaPageNumber = "pageNumber"
	MetaUploadDate = "uploadDate"
	MetaSource     = "source"
	MetaIndexDate  = "indexDate"
	MetaRow        = "row"
	MetaFile       = "file"
)

// Document is one text-bearing record produced by a loader: a PDF page,
// a CSV row or a fetched web page. Immutable once created.
type Document struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// DocChunk is the unit of embedding and retrieval. Metadata is the source
// Document's metadata with any extra ingestion metadata merged in.
type DocChunk struct {
	ChunkId  string         `json:"chunk_id"`
	Text     string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// RetrievedChunk is a DocChunk returned by the vector store in rank order.
type RetrievedChunk struct {
	Text     string
	Metadata map[string]any
	Rank     int
}

// SourceCitation mirrors the per-chunk source entry of the chat response.
// Optional fields are present only when the chunk's metadata carries them.
type SourceCitation struct {
	Chunk          int    `json:"chunk"`
	PageNumber     int    `json:"pageNumber,omitempty"`
	Source         string `json:"source,omitempty"`
	Row            int    `json:"row,omitempty"`
	Filename       string `json:"filename,omitempty"`
	ContentPreview string `json:"content"`
}

// IngestResult reports what an ingestion run wrote.
type IngestResult struct {
	DocumentsLoaded int
	ChunksIndexed   int
	Collection      string
	Created         bool
}

// ChatResult is the composed answer plus its citation list.
type ChatResult struct {
	Answer  string
	Sources []SourceCitation
}

// SourceKind identifies what a loader is being pointed at.
type SourceKind string

const (
	SourcePDF  SourceKind = "PDF"
	SourceCSV  SourceKind = "CSV"
	SourceURL  SourceKind = "URL"
	SourceFile SourceKind = "FILE"
)
