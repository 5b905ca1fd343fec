package cli

import (
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the row store and embedding provider",
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := rowStore.Ping(ctx); err != nil {
		return err
	}
	cmd.Println("Row store: ok")

	if err := vectorStore.Ping(ctx); err != nil {
		cmd.Printf("Embedding provider: unavailable (%v)\n", err)
		cmd.Println("Search will degrade to metadata-only results.")
		return nil
	}
	cmd.Printf("Embedding provider: ok (%s, %d dimensions)\n",
		vectorStore.ModelName(), vectorStore.Dimensions())
	return nil
}
