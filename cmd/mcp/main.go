// Command mcp exposes the RAG pipelines over the Model Context Protocol so
// agent hosts can index and query collections through stdio.
package main

import (
	"context"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/data/registry"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
	"github.com/akolanti/lexicon/internal/rag"
	"github.com/akolanti/lexicon/internal/rag/embedding"
	"github.com/akolanti/lexicon/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/lexicon/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/lexicon/internal/rag/llm"
	"github.com/akolanti/lexicon/internal/rag/llm/gemini"
	"github.com/akolanti/lexicon/internal/rag/llm/openaiLLM"
	"github.com/akolanti/lexicon/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

const serverVersion = "1.0.0"

type AskInput struct {
	Message    string `json:"message" jsonschema:"the question to answer from the indexed documents"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to query (defaults to chaicode-collection)"`
}

type AskOutput struct {
	Answer  string                        `json:"answer"`
	Sources []commonModels.SourceCitation `json:"sources"`
}

type IndexURLInput struct {
	URL        string `json:"url" jsonschema:"the web page to fetch and index"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to index into (defaults to url-collection)"`
}

type IndexURLOutput struct {
	ChunksIndexed int    `json:"chunksIndexed"`
	Collection    string `json:"collection"`
	Created       bool   `json:"created"`
}

type ListCollectionsOutput struct {
	Collections []string `json:"collections"`
}

type toolServer struct {
	ragService rag.Service
}

func main() {
	logger_i.Init()
	var logger = logger_i.NewLogger("mcp")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	var collectionRegistry registry.Registry
	if redisRegistry := registry.GetRedisRegistry(serviceContext); redisRegistry != nil {
		collectionRegistry = redisRegistry
	} else {
		collectionRegistry = registry.InitInMemoryRegistry()
	}

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := selectEmbedder(serviceContext)
	llmProvider := selectLLMProvider(serviceContext)
	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		os.Exit(1)
	}

	tools := &toolServer{ragService: rag.NewService(vectorDB, llmProvider, embeddingService, collectionRegistry)}

	impl := &mcp.Implementation{Name: "lexicon", Version: serverVersion}
	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the documents indexed in a collection, with source citations",
	}, tools.handleAsk)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_url",
		Description: "Fetch a web page, extract its main content and index it into a collection",
	}, tools.handleIndexURL)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_collections",
		Description: "List the collections available for querying",
	}, tools.handleListCollections)

	logger.Info("MCP server running on stdio")
	if err := server.Run(serviceContext, &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}

func (t *toolServer) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	collection := input.Collection
	if collection == "" {
		collection = config.DefaultChatCollection
	}

	result, err := t.ragService.Chat(ctx, input.Message, collection)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Answer: result.Answer, Sources: result.Sources}, nil
}

func (t *toolServer) handleIndexURL(ctx context.Context, _ *mcp.CallToolRequest, input IndexURLInput) (*mcp.CallToolResult, IndexURLOutput, error) {
	collection := input.Collection
	if collection == "" {
		collection = config.DefaultURLCollection
	}

	result, err := t.ragService.Ingest(ctx, rag.IngestRequest{
		Kind:       commonModels.SourceURL,
		Source:     input.URL,
		Collection: collection,
		ExtraMetadata: map[string]any{
			commonModels.MetaIndexDate: time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, IndexURLOutput{}, err
	}
	return nil, IndexURLOutput{
		ChunksIndexed: result.ChunksIndexed,
		Collection:    result.Collection,
		Created:       result.Created,
	}, nil
}

func (t *toolServer) handleListCollections(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ListCollectionsOutput, error) {
	collections, err := t.ragService.Collections(ctx)
	if err != nil {
		return nil, ListCollectionsOutput{}, err
	}
	return nil, ListCollectionsOutput{Collections: collections}, nil
}

func selectEmbedder(ctx context.Context) embedding.Embedder {
	if config.EmbeddingProvider() == "gemini" {
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GeminiAPIKey())
	}
	return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
}

func selectLLMProvider(ctx context.Context) llm.Provider {
	if config.LLMProvider() == "gemini" {
		return gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GeminiAPIKey())
	}
	return openaiLLM.GetOpenAIClient(config.OpenAIChatModel, config.OpenAIAPIKey())
}
