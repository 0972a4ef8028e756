// @title           Lexicon RAG API
// @version         1.0
// @description     Document indexing and retrieval-augmented chat over qdrant collections.
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3001
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/data/registry"
	"github.com/akolanti/lexicon/internal/handlers"
	"github.com/akolanti/lexicon/internal/rag"
	"github.com/akolanti/lexicon/internal/rag/embedding"
	"github.com/akolanti/lexicon/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/lexicon/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/lexicon/internal/rag/llm"
	"github.com/akolanti/lexicon/internal/rag/llm/gemini"
	"github.com/akolanti/lexicon/internal/rag/llm/openaiLLM"
	"github.com/akolanti/lexicon/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/lexicon/internal/server"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//collection registry, degrades to memory when redis is offline
	var collectionRegistry registry.Registry
	if redisRegistry := registry.GetRedisRegistry(serviceContext); redisRegistry != nil {
		collectionRegistry = redisRegistry
	} else {
		logger.Error("Redis store is offline, collection registry is in-memory only")
		collectionRegistry = registry.InitInMemoryRegistry()
	}

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := selectEmbedder(serviceContext, logger)
	llmProvider := selectLLMProvider(serviceContext, logger)

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, collectionRegistry)
	handlers.InitHandlers(ragService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func selectEmbedder(ctx context.Context, logger *logger_i.Logger) embedding.Embedder {
	switch config.EmbeddingProvider() {
	case "gemini":
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GeminiAPIKey())
	default:
		logger.Debug("Using OpenAI embeddings", "model", config.OpenAIEmbeddingModel)
		return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
	}
}

func selectLLMProvider(ctx context.Context, logger *logger_i.Logger) llm.Provider {
	switch config.LLMProvider() {
	case "gemini":
		return gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GeminiAPIKey())
	default:
		logger.Debug("Using OpenAI chat completions", "model", config.OpenAIChatModel)
		return openaiLLM.GetOpenAIClient(config.OpenAIChatModel, config.OpenAIAPIKey())
	}
}
