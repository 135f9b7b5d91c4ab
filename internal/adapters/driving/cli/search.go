package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

var (
	flagSearchLang    string
	flagSearchLimit   int
	flagSearchContext int
	flagSearchBM25    bool
	flagSearchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the lore corpus",
	Long: `Performs hybrid retrieval over one language's corpus.
Combines keyword (BM25) and semantic (vector) search for best results.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchLang, "lang", "", "corpus language tag (required)")
	searchCmd.Flags().IntVarP(&flagSearchLimit, "limit", "n", 5, "maximum number of files returned")
	searchCmd.Flags().IntVar(&flagSearchContext, "context", 0, "neighbouring chunks pulled in around each match")
	searchCmd.Flags().BoolVar(&flagSearchBM25, "bm25", false, "keyword-only retrieval, skip the vector leg")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "output results as JSON")
	_ = searchCmd.MarkFlagRequired("lang")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading checkpoints: %w", err)
	}

	store, err := registry.Get(domain.ParseLanguage(flagSearchLang))
	if err != nil {
		return err
	}

	// Config supplies retrieval defaults; explicit flags win.
	if !cmd.Flags().Changed("limit") {
		flagSearchLimit = cfg.Retrieve.FileLimit
	}
	if !cmd.Flags().Changed("context") {
		flagSearchContext = cfg.Retrieve.ChunkContext
	}

	q := domain.RetrieveQuery{
		Query:        args[0],
		K:            flagSearchLimit,
		ChunkContext: flagSearchContext,
	}

	var result domain.RetrieveResult
	if flagSearchBM25 {
		result, err = store.Retriever.RetrieveBM25(ctx, q)
	} else {
		result, err = store.Retriever.Retrieve(ctx, q)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if flagSearchJSON {
		return outputSearchJSON(cmd, args[0], result)
	}
	return outputSearchTable(cmd, store.Manifest, result)
}

func outputSearchJSON(cmd *cobra.Command, query string, result domain.RetrieveResult) error {
	data, err := json.MarshalIndent(domain.ToWire(query, result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, manifest *domain.Manifest, result domain.RetrieveResult) error {
	if len(result) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, fr := range result {
		title, category := describeFile(manifest, fr)

		cmd.Printf("  [%d] %s (%.4f)\n", i+1, title, fr.Score)
		if category != "" {
			cmd.Printf("      Category: %s\n", category)
		}
		if len(fr.Chunks) > 0 {
			cmd.Printf("      %s\n", snippet(fr.Chunks[0].Text))
			cmd.Printf("      Cite: %s#%d\n", fr.Chunks[0].FileID, fr.Chunks[0].Index)
		}
		cmd.Println()
	}
	return nil
}

// describeFile resolves a file's display title and category from the
// manifest, falling back to the source path for uncatalogued files.
func describeFile(manifest *domain.Manifest, fr domain.FileResult) (title, category string) {
	if len(fr.Chunks) == 0 {
		return "(empty)", ""
	}
	path := fr.Chunks[0].Path
	if entry := manifest.Lookup(path); entry != nil {
		return entry.Title, string(entry.Category)
	}
	return path, ""
}

// snippet truncates chunk text to a single display line.
func snippet(text string) string {
	const max = 120
	for i, r := range text {
		if r == '\n' {
			text = text[:i]
			break
		}
	}
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
