package cli

import (
	"github.com/spf13/cobra"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
)

var (
	linkKind   string
	linkToPage bool
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Manage block links and backlinks",
}

var linkAddCmd = &cobra.Command{
	Use:   "add [source-block-id] [target-id]",
	Short: "Link a block to another block or a page",
	Args:  cobra.ExactArgs(2),
	RunE:  runLinkAdd,
}

var linkRmCmd = &cobra.Command{
	Use:   "rm [link-id]",
	Short: "Delete a link",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinkRm,
}

var backlinksCmd = &cobra.Command{
	Use:   "backlinks [target-id]",
	Short: "Show blocks linking to a block or page",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacklinks,
}

func init() {
	linkAddCmd.Flags().StringVar(&linkKind, "kind", "reference", "link kind: reference, embed, mention")
	linkAddCmd.Flags().BoolVar(&linkToPage, "page", false, "target is a page")
	backlinksCmd.Flags().BoolVar(&linkToPage, "page", false, "target is a page")

	linksCmd.AddCommand(linkAddCmd, linkRmCmd, backlinksCmd)
	rootCmd.AddCommand(linksCmd)
}

func runLinkAdd(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	link, err := linkService.Create(cmd.Context(), orgID, driving.CreateLinkRequest{
		SourceBlockID: args[0],
		TargetID:      args[1],
		Kind:          domain.LinkKind(linkKind),
		IsPageLink:    linkToPage,
	})
	if err != nil {
		return err
	}
	cmd.Printf("Created link %s (%s)\n", link.ID, link.Kind)
	return nil
}

func runLinkRm(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	if err := linkService.Delete(cmd.Context(), orgID, args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted link %s\n", args[0])
	return nil
}

func runBacklinks(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	var (
		backlinks []domain.Backlink
		err       error
	)
	if linkToPage {
		backlinks, err = linkService.PageBacklinks(cmd.Context(), orgID, args[0])
	} else {
		backlinks, err = linkService.BlockBacklinks(cmd.Context(), orgID, args[0])
	}
	if err != nil {
		return err
	}

	if len(backlinks) == 0 {
		cmd.Println("No backlinks found.")
		return nil
	}
	for _, b := range backlinks {
		text := ""
		if b.Source != nil {
			text = b.Source.SearchableText()
			if len(text) > 60 {
				text = text[:60] + "..."
			}
		}
		cmd.Printf("%s <- %s (%s) %s\n", args[0], b.Link.SourceBlockID, b.Link.Kind, text)
	}
	return nil
}
