package cli

import (
	"github.com/spf13/cobra"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
)

var (
	pageParent   string
	pageIcon     string
	pageArchived bool
	pageFavOnly  bool
	pageLimit    int
	pageOffset   int
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Manage workspace pages",
}

var pageCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageCreate,
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages in sibling order",
	RunE:  runPageList,
}

var pageGetCmd = &cobra.Command{
	Use:   "get [page-id]",
	Short: "Show a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageGet,
}

var pageMoveCmd = &cobra.Command{
	Use:   "move [page-id]",
	Short: "Move a page under a new parent (omit --parent for root)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageMove,
}

var pageArchiveCmd = &cobra.Command{
	Use:   "archive [page-id]",
	Short: "Archive a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageArchive,
}

func init() {
	pageCreateCmd.Flags().StringVar(&pageParent, "parent", "", "parent page id")
	pageCreateCmd.Flags().StringVar(&pageIcon, "icon", "", "page icon")
	pageListCmd.Flags().StringVar(&pageParent, "parent", "", "filter by parent page id (\"root\" for root pages)")
	pageListCmd.Flags().BoolVar(&pageArchived, "archived", false, "include archived pages")
	pageListCmd.Flags().BoolVar(&pageFavOnly, "favorites", false, "favorites only")
	pageListCmd.Flags().IntVarP(&pageLimit, "limit", "n", 50, "maximum number of pages")
	pageListCmd.Flags().IntVar(&pageOffset, "offset", 0, "pagination offset")
	pageMoveCmd.Flags().StringVar(&pageParent, "parent", "", "new parent page id (omit for root)")

	pagesCmd.AddCommand(pageCreateCmd, pageListCmd, pageGetCmd, pageMoveCmd, pageArchiveCmd)
	rootCmd.AddCommand(pagesCmd)
}

func runPageCreate(cmd *cobra.Command, args []string) error {
	if err := requireOrgUser(); err != nil {
		return err
	}

	req := driving.CreatePageRequest{Title: args[0], Icon: pageIcon}
	if pageParent != "" {
		req.ParentID = &pageParent
	}

	page, err := pageService.Create(cmd.Context(), orgID, userID, req)
	if err != nil {
		return err
	}
	cmd.Printf("Created page %s at position %d\n", page.ID, page.Position)
	return nil
}

func runPageList(cmd *cobra.Command, _ []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	filters := driving.PageFilters{IncludeArchived: pageArchived}
	if pageParent == "root" {
		var root *string
		filters.ParentID = &root
	} else if pageParent != "" {
		parent := pageParent
		inner := &parent
		filters.ParentID = &inner
	}
	if pageFavOnly {
		fav := true
		filters.Favorite = &fav
	}

	pages, err := pageService.List(cmd.Context(), orgID, filters, pageLimit, pageOffset)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		cmd.Println("No pages found.")
		return nil
	}
	for _, p := range pages {
		marker := " "
		if p.Favorite {
			marker = "*"
		}
		cmd.Printf("%s [%d] %s  %s\n", marker, p.Position, p.ID, p.Title)
	}
	return nil
}

func runPageGet(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	page, err := pageService.Get(cmd.Context(), orgID, args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Title:    %s\n", page.Title)
	cmd.Printf("Position: %d\n", page.Position)
	if page.ParentID != nil {
		cmd.Printf("Parent:   %s\n", *page.ParentID)
	}
	cmd.Printf("Archived: %t  Favorite: %t\n", page.Archived, page.Favorite)
	cmd.Printf("Updated:  %s\n", page.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runPageMove(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	var parent *string
	if pageParent != "" {
		parent = &pageParent
	}
	page, err := pageService.Move(cmd.Context(), orgID, args[0], parent)
	if err != nil {
		return err
	}
	cmd.Printf("Moved page %s to position %d\n", page.ID, page.Position)
	return nil
}

func runPageArchive(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	if err := pageService.Archive(cmd.Context(), orgID, args[0]); err != nil {
		return err
	}
	cmd.Printf("Archived page %s\n", args[0])
	return nil
}
