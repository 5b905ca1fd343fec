// Package cli provides the operational command-line interface. It
// wires the configured storage driver and embedding provider into the
// content services and exposes them as cobra commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/adapters/driven/storage/memory"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/adapters/driven/storage/sqlite"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/adapters/driven/storage/zerodb"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/config"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/services"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/logger"
)

var (
	cfgPath string
	orgID   string
	userID  string
	verbose bool

	settings *config.Settings

	rowStore    driven.RowStore
	vectorStore driven.EmbeddingStore

	pageService   driving.PageService
	blockService  driving.BlockService
	linkService   driving.LinkService
	tagService    driving.TagService
	searchService driving.SearchService
)

var rootCmd = &cobra.Command{
	Use:   "ocean",
	Short: "Block-structured workspace engine",
	Long: `Ocean manages pages of ordered content blocks with linking,
tagging and hybrid semantic search, backed by ZeroDB or a local store.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.ocean/config.toml)")
	rootCmd.PersistentFlags().StringVar(&orgID, "org", "", "organization id")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "user id")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and wires services before any command
// runs.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Name() == "version" {
		return nil
	}

	path := cfgPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	var err error
	settings, err = config.Load(path)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	switch settings.Storage {
	case config.DriverZeroDB:
		client, err := zerodb.NewClient(zerodb.Config{
			BaseURL:   settings.ZeroDB.APIURL,
			ProjectID: settings.ZeroDB.ProjectID,
			APIKey:    settings.ZeroDB.APIKey,
			Model:     settings.Embeddings.Model,
			Namespace: settings.Embeddings.Namespace,
		})
		if err != nil {
			return err
		}
		rowStore = zerodb.NewRowStore(client)
		vectorStore = zerodb.NewVectorStore(client)

	case config.DriverSQLite:
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return err
		}
		rowStore = store
		vectorStore = memory.NewVectorStore()

	case config.DriverMemory:
		rowStore = memory.NewRowStore()
		vectorStore = memory.NewVectorStore()
	}

	namespace := settings.Embeddings.Namespace
	pageService = services.NewPageService(rowStore)
	blockService = services.NewBlockService(rowStore, vectorStore, namespace)
	linkService = services.NewLinkService(rowStore)
	tagService = services.NewTagService(rowStore)
	searchService = services.NewSearchService(rowStore, vectorStore, namespace)

	logger.Debug("Storage driver: %s, model: %s", settings.Storage, vectorStore.ModelName())
	return nil
}

// requireOrg ensures the tenant flag is set for tenant-scoped
// commands.
func requireOrg() error {
	if orgID == "" {
		return fmt.Errorf("--org is required")
	}
	return nil
}

// requireOrgUser ensures both tenant and user flags are set for write
// commands.
func requireOrgUser() error {
	if err := requireOrg(); err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}
