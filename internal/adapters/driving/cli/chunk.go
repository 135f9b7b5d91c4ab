package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

var flagChunkLang string

var chunkCmd = &cobra.Command{
	Use:   "chunk <file-id> <index>",
	Short: "Resolve a chunk citation",
	Long: `Resolves a stable (file_id, chunk_index) citation back to its text,
as produced by search results and MCP tool output.`,
	Args: cobra.ExactArgs(2),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().StringVar(&flagChunkLang, "lang", "", "corpus language tag (required)")
	_ = chunkCmd.MarkFlagRequired("lang")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid chunk index %q: %w", args[1], domain.ErrInvalidInput)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading checkpoints: %w", err)
	}

	store, err := registry.Get(domain.ParseLanguage(flagChunkLang))
	if err != nil {
		return err
	}

	chunk, err := store.Retriever.GetChunk(ctx, args[0], index)
	if err != nil {
		return err
	}

	count, err := store.Retriever.GetFileChunkCount(ctx, chunk.FileID)
	if err != nil {
		return err
	}

	cmd.Printf("%s [chunk %d/%d]\n", chunk.Path, chunk.Index+1, count)
	if entry := store.Manifest.Lookup(chunk.Path); entry != nil {
		cmd.Printf("%s (%s)\n", entry.Title, entry.Category)
	}
	cmd.Println()
	cmd.Println(chunk.Text)
	return nil
}
