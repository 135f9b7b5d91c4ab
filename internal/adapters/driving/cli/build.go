package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/loreseek/internal/adapters/driven/keyword/bm25"
	"github.com/custodia-labs/loreseek/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/services"
	"github.com/custodia-labs/loreseek/internal/normalisers"
	"github.com/custodia-labs/loreseek/internal/postprocessors/splitter"
)

// buildLockTimeout bounds how long a build waits for a concurrent build
// of the same language to finish.
const buildLockTimeout = 5 * time.Second

var (
	flagBuildLang      string
	flagBuildManifest  string
	flagBuildChunkSize int
	flagBuildOverlap   int
)

var buildCmd = &cobra.Command{
	Use:   "build <source-dir>",
	Short: "Build a language checkpoint from rendered lore text",
	Long: `Build reads rendered text files under <source-dir>, splits them into
overlapping chunks, builds the keyword and vector indexes, and writes
the checkpoint artifacts into the configured checkpoint directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&flagBuildLang, "lang", "", "corpus language tag (required)")
	buildCmd.Flags().StringVar(&flagBuildManifest, "manifest", "", "path to manifest.json")
	buildCmd.Flags().IntVar(&flagBuildChunkSize, "chunk-size", splitter.DefaultChunkSize, "target chunk size in bytes")
	buildCmd.Flags().IntVar(&flagBuildOverlap, "overlap", splitter.DefaultOverlap, "overlap between chunks in bytes")
	_ = buildCmd.MarkFlagRequired("lang")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lang := domain.ParseLanguage(flagBuildLang)
	if lang == "" {
		return fmt.Errorf("invalid language tag %q", flagBuildLang)
	}

	dir := cfg.LanguageDir(lang)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}

	unlock, err := acquireBuildLock(dir)
	if err != nil {
		return err
	}
	defer unlock()

	dbPath, keywordPath, vectorPath := checkpointPaths(cfg, lang)

	store, err := sqlite.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening corpus store: %w", err)
	}
	defer store.Close()

	vector, err := newVectorIndex(cmd.Context(), cfg, lang, false)
	if err != nil {
		return fmt.Errorf("configuring vector backend: %w", err)
	}

	builder := services.NewBuilder(
		splitter.New(
			splitter.WithChunkSize(flagBuildChunkSize),
			splitter.WithOverlap(flagBuildOverlap),
		),
		bm25.New(lang.CJK()),
		vector,
		store,
		services.WithRenderer(normalisers.NewRegistry()),
	)

	stats, err := builder.Build(cmd.Context(), services.BuildConfig{
		SourceDir:    args[0],
		ManifestPath: flagBuildManifest,
		KeywordPath:  keywordPath,
		VectorPath:   vectorPath,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built %s checkpoint: %d file(s), %d chunk(s), %d skipped\n",
		lang, stats.Files, stats.Chunks, stats.Skipped)
	return nil
}

// acquireBuildLock takes an exclusive lock on the language directory so
// two builds cannot interleave checkpoint writes.
func acquireBuildLock(dir string) (func(), error) {
	l := flock.New(filepath.Join(dir, ".build.lock"))
	deadline := time.Now().Add(buildLockTimeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire build lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("another build is in progress for %s", dir)
		}
		time.Sleep(200 * time.Millisecond)
	}
}
