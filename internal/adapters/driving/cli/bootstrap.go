package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	chromaopenai "github.com/amikos-tech/chroma-go/pkg/embeddings/openai"

	"github.com/custodia-labs/loreseek/internal/adapters/driven/config/file"
	"github.com/custodia-labs/loreseek/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/loreseek/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/loreseek/internal/adapters/driven/keyword/bm25"
	llmopenai "github.com/custodia-labs/loreseek/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/loreseek/internal/adapters/driven/remote"
	"github.com/custodia-labs/loreseek/internal/adapters/driven/rerank/cohere"
	"github.com/custodia-labs/loreseek/internal/adapters/driven/storage/sqlite"
	vectorchroma "github.com/custodia-labs/loreseek/internal/adapters/driven/vector/chroma"
	"github.com/custodia-labs/loreseek/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
	"github.com/custodia-labs/loreseek/internal/core/services"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// Checkpoint artifact filenames inside each language directory.
const (
	chunksDBFile   = "chunks.db"
	keywordIdxFile = "keyword.idx"
	vectorIdxFile  = "vectors.idx"
)

// Environment variable names for API keys.
const (
	envOpenAIKey = "OPENAI_API_KEY"
	envCohereKey = "COHERE_API_KEY"
)

// checkpointPaths returns the artifact paths for one language.
func checkpointPaths(cfg *file.Config, lang domain.Language) (db, keyword, vector string) {
	dir := cfg.LanguageDir(lang)
	return filepath.Join(dir, chunksDBFile),
		filepath.Join(dir, keywordIdxFile),
		filepath.Join(dir, vectorIdxFile)
}

// newEmbedder constructs the configured embedding service, or nil when
// the deployment runs without one.
func newEmbedder(cfg *file.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case file.EmbeddingOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     os.Getenv(envOpenAIKey),
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	case file.EmbeddingOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	default:
		return nil, nil
	}
}

// newVectorIndex constructs the configured vector backend for one
// language. load controls whether a persisted artifact is read (serving)
// or not (building).
func newVectorIndex(ctx context.Context, cfg *file.Config, lang domain.Language, load bool) (driven.VectorIndex, error) {
	switch cfg.Vector.Backend {
	case file.VectorFlat:
		embedder, err := newEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		if embedder == nil {
			return nil, domain.ErrEmbeddingUnavailable
		}
		idx := flat.New(embedder)
		if load {
			_, _, vectorPath := checkpointPaths(cfg, lang)
			if err := idx.Load(vectorPath); err != nil {
				return nil, fmt.Errorf("loading vector index: %w", err)
			}
		}
		return idx, nil

	case file.VectorChroma:
		chromaCfg := vectorchroma.Config{
			BaseURL:    cfg.Vector.ChromaURL,
			Collection: "lore_" + string(lang),
		}
		if key := os.Getenv(envOpenAIKey); key != "" && cfg.Embedding.Provider == file.EmbeddingOpenAI {
			var efOpts []chromaopenai.Option
			if cfg.Embedding.Model != "" {
				efOpts = append(efOpts, chromaopenai.WithModel(chromaopenai.EmbeddingModel(cfg.Embedding.Model)))
			}
			ef, err := chromaopenai.NewOpenAIEmbeddingFunction(key, efOpts...)
			if err != nil {
				return nil, fmt.Errorf("creating chroma embedding function: %w", err)
			}
			chromaCfg.EmbeddingFunc = ef
		}
		return vectorchroma.New(ctx, chromaCfg)

	case file.VectorRemote:
		client, err := remote.NewClient(remote.Config{
			BaseURL:  cfg.Remote.BaseURL,
			Language: lang,
		})
		if err != nil {
			return nil, err
		}
		return remote.NewVectorIndex(client), nil

	default:
		return nil, nil
	}
}

// retrieverOptions wires the optional rewrite and rerank services.
func retrieverOptions(cfg *file.Config) ([]services.RetrieverOption, error) {
	var opts []services.RetrieverOption

	if cfg.Rewrite.Enabled {
		rewriter, err := llmopenai.NewQueryRewriter(llmopenai.Config{
			APIKey:  os.Getenv(envOpenAIKey),
			BaseURL: cfg.Rewrite.BaseURL,
			Model:   cfg.Rewrite.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring query rewriter: %w", err)
		}
		opts = append(opts, services.WithTransformer(
			services.NewLLMTransformer(rewriter, cfg.Rewrite.Variants)))
	}

	if cfg.Rerank.Enabled {
		svc := cohere.NewRerankService(cohere.Config{
			APIKey:  os.Getenv(envCohereKey),
			BaseURL: cfg.Rerank.BaseURL,
			Model:   cfg.Rerank.Model,
		})
		opts = append(opts, services.WithReranker(
			services.NewCrossEncoderReranker(svc)))
	}

	return opts, nil
}

// buildRegistry constructs the full per-language registry for the
// configured deployment mode.
func buildRegistry(ctx context.Context, cfg *file.Config) (*services.Registry, error) {
	if cfg.Mode == file.ModeRemote {
		return buildRemoteRegistry(ctx, cfg)
	}
	return buildLocalRegistry(ctx, cfg)
}

// buildLocalRegistry loads each language's checkpoint into an in-process
// retriever.
func buildLocalRegistry(ctx context.Context, cfg *file.Config) (*services.Registry, error) {
	opts, err := retrieverOptions(cfg)
	if err != nil {
		return nil, err
	}

	registry := services.NewRegistry()
	for _, lang := range cfg.ParsedLanguages() {
		store, err := loadLanguageStore(ctx, cfg, lang, opts)
		if err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
		registry.Add(lang, store)
	}
	return registry, nil
}

// loadLanguageStore loads one language's checkpoint.
func loadLanguageStore(ctx context.Context, cfg *file.Config, lang domain.Language, opts []services.RetrieverOption) (*services.Store, error) {
	dbPath, keywordPath, _ := checkpointPaths(cfg, lang)

	corpusStore, err := sqlite.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening corpus store: %w", err)
	}
	defer corpusStore.Close()

	corpus, err := corpusStore.LoadChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	manifest, err := corpusStore.LoadManifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	keyword := bm25.New(lang.CJK())
	if err := keyword.Load(keywordPath); err != nil {
		return nil, fmt.Errorf("loading keyword index: %w", err)
	}

	// A failed vector backend degrades the language to keyword-only
	// rather than refusing to serve it.
	vector, err := newVectorIndex(ctx, cfg, lang, true)
	if err != nil {
		logger.Warn("Vector backend unavailable for %s, serving keyword-only: %v", lang, err)
		vector = nil
	}

	retriever := services.NewRetriever(lang, corpus, keyword, vector, opts...)
	return &services.Store{Retriever: retriever, Manifest: manifest}, nil
}

// buildRemoteRegistry wires every language to the remote retrieval
// service and fetches manifests once.
func buildRemoteRegistry(ctx context.Context, cfg *file.Config) (*services.Registry, error) {
	registry := services.NewRegistry()
	for _, lang := range cfg.ParsedLanguages() {
		client, err := remote.NewClient(remote.Config{
			BaseURL:  cfg.Remote.BaseURL,
			Language: lang,
		})
		if err != nil {
			return nil, err
		}

		manifest, err := client.Manifest(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching manifest for %s: %w", lang, err)
		}

		registry.Add(lang, &services.Store{
			Retriever: remote.NewRetriever(client),
			Manifest:  manifest,
		})
	}
	return registry, nil
}
