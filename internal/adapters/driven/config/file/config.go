// Package file loads the typed TOML configuration. One file describes a
// whole deployment: which languages are served, where checkpoints live,
// and which optional services (embedding, rewrite, rerank) are wired in.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

// Deployment modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Vector backend names.
const (
	VectorFlat   = "flat"
	VectorChroma = "chroma"
	VectorRemote = "remote"
	VectorNone   = "none"
)

// Embedding provider names.
const (
	EmbeddingOpenAI = "openai"
	EmbeddingOllama = "ollama"
	EmbeddingNone   = "none"
)

// Config is the full deployment configuration.
type Config struct {
	// Mode selects local in-process retrieval or a remote service.
	Mode string `toml:"mode"`

	// CheckpointDir holds one subdirectory per language.
	CheckpointDir string `toml:"checkpoint_dir"`

	// Languages lists the served languages in display order.
	Languages []string `toml:"languages"`

	Server    ServerConfig    `toml:"server"`
	Remote    RemoteConfig    `toml:"remote"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Vector    VectorConfig    `toml:"vector"`
	Rewrite   RewriteConfig   `toml:"rewrite"`
	Rerank    RerankConfig    `toml:"rerank"`
	Retrieve  RetrieveConfig  `toml:"retrieve"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Listen string `toml:"listen"`

	// Watch reloads the registry when a checkpoint rebuild completes.
	Watch bool `toml:"watch"`
}

// RemoteConfig points at a retrieval service for remote mode.
type RemoteConfig struct {
	BaseURL string `toml:"base_url"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url"`
	Dimensions int    `toml:"dimensions"`
}

// VectorConfig selects the vector index backend.
type VectorConfig struct {
	Backend   string `toml:"backend"`
	ChromaURL string `toml:"chroma_url"`
}

// RewriteConfig configures the optional LLM query rewriter.
type RewriteConfig struct {
	Enabled  bool   `toml:"enabled"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	Variants int    `toml:"variants"`
}

// RerankConfig configures the optional cross-encoder reranker.
type RerankConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// RetrieveConfig sets retrieval defaults applied when a query omits them.
type RetrieveConfig struct {
	FileLimit    int `toml:"file_limit"`
	ChunkContext int `toml:"chunk_context"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".loreseek", "config.toml"), nil
}

// Default returns a config with all defaults applied and no languages.
func Default() *Config {
	return &Config{
		Mode:      ModeLocal,
		Languages: []string{"en"},
		Server: ServerConfig{
			Listen: ":8080",
		},
		Embedding: EmbeddingConfig{
			Provider: EmbeddingNone,
		},
		Vector: VectorConfig{
			Backend: VectorFlat,
		},
		Rewrite: RewriteConfig{
			Variants: 2,
		},
		Retrieve: RetrieveConfig{
			FileLimit:    5,
			ChunkContext: 2,
		},
	}
}

// Load reads and validates the config file at path. A missing file is an
// error: retrieval cannot run without knowing where checkpoints live.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills zero values the TOML left unset.
func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeLocal
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = EmbeddingNone
	}
	if c.Vector.Backend == "" {
		c.Vector.Backend = VectorFlat
	}
	if c.Rewrite.Variants <= 0 {
		c.Rewrite.Variants = 2
	}
	if c.Retrieve.FileLimit <= 0 {
		c.Retrieve.FileLimit = 5
	}
	if c.Retrieve.ChunkContext < 0 {
		c.Retrieve.ChunkContext = 0
	}
	if c.CheckpointDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.CheckpointDir = filepath.Join(home, ".loreseek", "checkpoints")
		}
	}
}

// Validate rejects configurations that cannot serve queries.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeLocal, ModeRemote:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}

	if len(c.Languages) == 0 {
		return fmt.Errorf("config: at least one language is required")
	}
	for _, l := range c.Languages {
		if domain.ParseLanguage(l) == "" {
			return fmt.Errorf("config: empty language tag")
		}
	}

	if c.Mode == ModeRemote && c.Remote.BaseURL == "" {
		return fmt.Errorf("config: remote mode requires remote.base_url")
	}

	switch c.Vector.Backend {
	case VectorFlat, VectorChroma, VectorRemote, VectorNone:
	default:
		return fmt.Errorf("config: unknown vector backend %q", c.Vector.Backend)
	}
	if c.Vector.Backend == VectorChroma && c.Vector.ChromaURL == "" {
		return fmt.Errorf("config: chroma backend requires vector.chroma_url")
	}
	if c.Vector.Backend == VectorRemote && c.Remote.BaseURL == "" {
		return fmt.Errorf("config: remote vector backend requires remote.base_url")
	}

	switch c.Embedding.Provider {
	case EmbeddingOpenAI, EmbeddingOllama, EmbeddingNone:
	default:
		return fmt.Errorf("config: unknown embedding provider %q", c.Embedding.Provider)
	}
	if c.Vector.Backend == VectorFlat && c.Embedding.Provider == EmbeddingNone && c.Mode == ModeLocal {
		return fmt.Errorf("config: flat vector backend requires an embedding provider")
	}

	return nil
}

// LanguageDir returns the checkpoint directory for one language.
func (c *Config) LanguageDir(lang domain.Language) string {
	return filepath.Join(c.CheckpointDir, string(lang))
}

// ParsedLanguages returns the configured languages as domain values.
func (c *Config) ParsedLanguages() []domain.Language {
	langs := make([]domain.Language, 0, len(c.Languages))
	for _, l := range c.Languages {
		langs = append(langs, domain.ParseLanguage(l))
	}
	return langs
}
