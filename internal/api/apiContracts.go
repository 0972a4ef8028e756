package api

import "github.com/akolanti/lexicon/internal/domain/commonModels"

// requests---------------------

type IndexURLRequest struct {
	URL        string `json:"url" validate:"required"`
	Collection string `json:"collection,omitempty"`
}

type ChatRequest struct {
	Message    string `json:"message" validate:"required"`
	Collection string `json:"collection,omitempty"`
}

// responses--------------------

type IndexResponse struct {
	Success        bool   `json:"success" example:"true"`
	Message        string `json:"message" example:"PDF indexed successfully! 12 chunks added to pdf-collection"`
	Collection     string `json:"collection" example:"pdf-collection"`
	DocumentsCount int    `json:"documentsCount" example:"12"`
	Created        bool   `json:"created" example:"false"`
	URL            string `json:"url,omitempty"`
	RowsProcessed  int    `json:"rowsProcessed,omitempty"`
}

type ChatResponse struct {
	Success    bool                            `json:"success"`
	Response   string                          `json:"response"`
	Sources    []commonModels.SourceCitation   `json:"sources"`
	Collection string                          `json:"collection"`
}

type CollectionsResponse struct {
	Success     bool     `json:"success"`
	Collections []string `json:"collections"`
}

type HealthResponse struct {
	Status  string `json:"status" example:"OK"`
	Message string `json:"message" example:"RAG API Server is running"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"Failed to index PDF"`
	Details string `json:"details,omitempty"`
}
