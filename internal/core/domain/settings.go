package domain

const unknownDescription = "Unknown"

// EmbeddingProvider identifies a service that turns text into vectors.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"

	// EmbeddingProviderOffline derives vectors deterministically from
	// the text itself. No network, no model, stable across runs.
	EmbeddingProviderOffline EmbeddingProvider = "offline"
)

// IsValid returns true if the embedding provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderOllama, EmbeddingProviderOpenAI, EmbeddingProviderOffline:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	case EmbeddingProviderOffline:
		return "Offline (deterministic, no network)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies a vector index implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendMatrix is the in-process dense matrix index.
	VectorBackendMatrix VectorBackend = "matrix"

	// VectorBackendQdrant is an external Qdrant server.
	VectorBackendQdrant VectorBackend = "qdrant"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendMatrix, VectorBackendQdrant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama, or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size. Zero means the model default.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// VectorIndexSettings holds vector index configuration.
type VectorIndexSettings struct {
	// Backend selects the index implementation.
	Backend VectorBackend

	// QdrantURL is the Qdrant server endpoint (qdrant backend only).
	QdrantURL string

	// QdrantAPIKey authenticates against Qdrant (qdrant backend only).
	QdrantAPIKey string

	// Collection is the Qdrant collection name (qdrant backend only).
	Collection string
}

// SegmentSettings holds document segmentation configuration.
type SegmentSettings struct {
	// TargetTokens is the desired tokens per chunk.
	TargetTokens int

	// OverlapRatio is the fraction of a chunk shared with its successor.
	OverlapRatio float64
}

// RetrievalSettings holds search behaviour configuration.
type RetrievalSettings struct {
	// TopK is the default number of hits returned per question.
	TopK int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir is the root directory for the store, caches, and index.
	DataDir string

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// VectorIndex holds vector index settings.
	VectorIndex VectorIndexSettings

	// Segment holds segmentation settings.
	Segment SegmentSettings

	// Retrieval holds search behaviour settings.
	Retrieval RetrievalSettings
}

// DefaultAppSettings returns settings that work with no configuration
// at all: offline embeddings and the in-process index.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: EmbeddingProviderOffline,
		},
		VectorIndex: VectorIndexSettings{
			Backend:    VectorBackendMatrix,
			Collection: "veridoc",
		},
		Segment: SegmentSettings{
			TargetTokens: 1000,
			OverlapRatio: 0.12,
		},
		Retrieval: RetrievalSettings{
			TopK: 6,
		},
	}
}

// AllEmbeddingProviders returns every supported embedding provider.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderOllama,
		EmbeddingProviderOpenAI,
		EmbeddingProviderOffline,
	}
}

// DefaultEmbeddingModels returns default models for each provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderOllama: "nomic-embed-text",
		EmbeddingProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
