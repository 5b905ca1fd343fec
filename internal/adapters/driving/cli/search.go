package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
)

var (
	searchType      string
	searchKinds     []string
	searchPage      string
	searchTags      []string
	searchLimit     int
	searchOffset    int
	searchThreshold float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search blocks",
	Long: `Searches content blocks. Hybrid mode (the default) merges vector
similarity hits with metadata-filtered hits; semantic and metadata
modes use one source only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "hybrid", "search type: semantic, metadata or hybrid")
	searchCmd.Flags().StringSliceVar(&searchKinds, "kind", nil, "filter by block kinds")
	searchCmd.Flags().StringVar(&searchPage, "page", "", "filter by page id")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "filter by tag ids")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "pagination offset")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "similarity threshold (default 0.7)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	opts := domain.SearchOptions{
		Type:      domain.SearchType(searchType),
		PageID:    searchPage,
		TagIDs:    searchTags,
		Limit:     searchLimit,
		Offset:    searchOffset,
		Threshold: searchThreshold,
	}
	for _, k := range searchKinds {
		opts.Kinds = append(opts.Kinds, domain.BlockKind(k))
	}

	page, err := searchService.Search(cmd.Context(), orgID, query, opts)
	if err != nil {
		return err
	}

	if searchJSON {
		return outputSearchJSON(cmd, page)
	}
	return outputSearchTable(cmd, page)
}

func outputSearchJSON(cmd *cobra.Command, page *domain.SearchPage) error {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, page *domain.SearchPage) error {
	if page.Degraded {
		cmd.Println("Warning: embedding provider unavailable, metadata-only results.")
		cmd.Println()
	}
	if len(page.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d of %d):\n\n", len(page.Results), page.Total)
	for i, r := range page.Results {
		text := r.Block.SearchableText()
		if len(text) > 80 {
			text = text[:80] + "..."
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Block.ID, r.Score)
		cmd.Printf("      %s: %s\n", r.Block.Kind, text)
		if len(r.Highlights) > 0 {
			cmd.Printf("      Matched: %s\n", strings.Join(r.Highlights, ", "))
		}
		cmd.Println()
	}
	return nil
}
