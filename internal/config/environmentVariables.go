package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                     = false
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	NoAuthBypass                = true //no auth token configured for the demo deployment
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//server listening port
	ServerListenAddr = ":3001"

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 120 * time.Second //generation calls dominate the chat path
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//per-stage timeouts on external dependencies
	IngestTimeout     = 5 * time.Minute
	ChatTimeout       = 90 * time.Second
	LoaderHTTPTimeout = 30 * time.Second

	//upload handling
	MaxUploadSize = 10 << 20 //10MB, enforced before any loader work
	UploadDirName = "uploads"
	UploadDirPerm = 0750

	//chunking
	ChunkSize    = 1000
	ChunkOverlap = 200

	//retrieval
	RetrievalK      = 5
	MMRFetchK       = 20 //candidate pool handed to the MMR re-ranker
	MMRLambda       = 0.5
	PreviewMaxChars = 200

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "localhost"
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//semantic answer cache
	CacheEnabled          = false
	CacheCollection       = "semantic-cache"
	CacheSimilarityCutoff = 0.97

	//embeddings
	OpenAIEmbeddingModel                = "text-embedding-3-large"
	OpenAIEmbeddingDimension      int32 = 3072
	GoogleEmbeddingModel                = "gemini-embedding-001"
	GoogleEmbeddingDimension      int32 = 1536
	EmbeddingBatchSize                  = 100
	EmbeddingRateLimitRetryDelay        = 5 * time.Second

	//llm
	OpenAIChatModel = "gpt-4o-mini"
	GeminiModelName = "gemini-2.5-flash-lite-preview-09-2025"

	//default collections per ingestion kind
	DefaultPDFCollection  = "pdf-collection"
	DefaultURLCollection  = "url-collection"
	DefaultCSVCollection  = "csv-collection"
	DefaultFileCollection = "doc-collection"
	DefaultChatCollection = "chaicode-collection"

	//redis-backed collection registry
	redisHost        = "127.0.0.1"
	redisPort        = "6379"
	RedisAddr        = redisHost + ":" + redisPort
	RedisPassword    = ""
	RedisRegistryDB  = 0
	RegistryStoreTTL = 0 //collection records do not expire
)

// KnownCollections are the defaults merged into the live listing returned by
// GET /api/collections.
var KnownCollections = []string{
	DefaultChatCollection,
	"mdn-docs-collection",
	DefaultCSVCollection,
	DefaultPDFCollection,
	DefaultURLCollection,
}

// Provider selection: "openai" (default, matches the ingestion model the demo
// collections were built with) or "gemini".
func EmbeddingProvider() string {
	return getenv("EMBEDDING_PROVIDER", "openai")
}

func LLMProvider() string {
	return getenv("LLM_PROVIDER", "openai")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func QdrantAPIKey() string {
	return os.Getenv("QDRANT_API_KEY")
}

func AuthToken() string {
	return os.Getenv("API_AUTH_TOKEN")
}

func getenv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
