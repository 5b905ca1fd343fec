package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
)

var (
	blockKind     string
	blockPos      int
	blockParent   string
	blockChecked  bool
	blockLevel    int
	blockURL      string
	blockPageLink string
	blockLimit    int
	blockOffset   int
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Manage content blocks",
}

var blockAddCmd = &cobra.Command{
	Use:   "add [page-id] [text]",
	Short: "Add a block to a page",
	Args:  cobra.ExactArgs(2),
	RunE:  runBlockAdd,
}

var blockListCmd = &cobra.Command{
	Use:   "list [page-id]",
	Short: "List a page's blocks in position order",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlockList,
}

var blockMoveCmd = &cobra.Command{
	Use:   "move [block-id] [position]",
	Short: "Move a block to a new position",
	Args:  cobra.ExactArgs(2),
	RunE:  runBlockMove,
}

var blockConvertCmd = &cobra.Command{
	Use:   "convert [block-id] [kind]",
	Short: "Convert a block to another kind",
	Args:  cobra.ExactArgs(2),
	RunE:  runBlockConvert,
}

var blockArchiveCmd = &cobra.Command{
	Use:   "archive [block-id]",
	Short: "Archive a block",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlockArchive,
}

func init() {
	blockAddCmd.Flags().StringVar(&blockKind, "kind", "text", "block kind: text, heading, list, task, link, page_link")
	blockAddCmd.Flags().IntVar(&blockPos, "position", -1, "explicit position (shifts later siblings)")
	blockAddCmd.Flags().StringVar(&blockParent, "parent", "", "parent block id")
	blockAddCmd.Flags().BoolVar(&blockChecked, "checked", false, "task: initial checked state")
	blockAddCmd.Flags().IntVar(&blockLevel, "level", 1, "heading: level 1-3")
	blockAddCmd.Flags().StringVar(&blockURL, "url", "", "link: target URL")
	blockAddCmd.Flags().StringVar(&blockPageLink, "page", "", "page_link: linked page id")
	blockListCmd.Flags().StringVar(&blockKind, "kind", "", "filter by block kind")
	blockListCmd.Flags().IntVarP(&blockLimit, "limit", "n", 100, "maximum number of blocks")
	blockListCmd.Flags().IntVar(&blockOffset, "offset", 0, "pagination offset")
	blockMoveCmd.Flags().StringVar(&blockParent, "parent", "", "new parent block id (omit for top level)")

	blocksCmd.AddCommand(blockAddCmd, blockListCmd, blockMoveCmd, blockConvertCmd, blockArchiveCmd)
	rootCmd.AddCommand(blocksCmd)
}

// blockContent builds the raw payload for the requested kind from the
// command flags.
func blockContent(kind domain.BlockKind, text string) (map[string]any, error) {
	switch kind {
	case domain.BlockText:
		return map[string]any{"text": text}, nil
	case domain.BlockHeading:
		return map[string]any{"text": text, "level": blockLevel}, nil
	case domain.BlockList:
		items := strings.Split(text, "\n")
		raw := make([]any, len(items))
		for i, item := range items {
			raw[i] = item
		}
		return map[string]any{"items": raw}, nil
	case domain.BlockTask:
		return map[string]any{"text": text, "checked": blockChecked}, nil
	case domain.BlockLink:
		return map[string]any{"text": text, "url": blockURL}, nil
	case domain.BlockPageLink:
		return map[string]any{"linkedPageId": blockPageLink, "displayText": text}, nil
	default:
		return nil, fmt.Errorf("unknown block kind %q", kind)
	}
}

func runBlockAdd(cmd *cobra.Command, args []string) error {
	if err := requireOrgUser(); err != nil {
		return err
	}

	kind := domain.BlockKind(blockKind)
	content, err := blockContent(kind, args[1])
	if err != nil {
		return err
	}

	req := driving.CreateBlockRequest{Kind: kind, Content: content}
	if blockPos >= 0 {
		req.Position = &blockPos
	}
	if blockParent != "" {
		req.ParentBlockID = &blockParent
	}

	block, err := blockService.Create(cmd.Context(), orgID, userID, args[0], req)
	if err != nil {
		return err
	}
	cmd.Printf("Created block %s (%s) at position %d\n", block.ID, block.Kind, block.Position)
	if block.VectorID == nil {
		cmd.Println("Note: block is not indexed for semantic search.")
	}
	return nil
}

func runBlockList(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	blocks, err := blockService.ListByPage(cmd.Context(), orgID, args[0],
		domain.BlockKind(blockKind), nil, blockLimit, blockOffset)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		cmd.Println("No blocks found.")
		return nil
	}
	for _, b := range blocks {
		indent := ""
		if b.ParentID != nil {
			indent = "  "
		}
		text := b.SearchableText()
		if len(text) > 60 {
			text = text[:60] + "..."
		}
		cmd.Printf("%s[%d] %s (%s) %s\n", indent, b.Position, b.ID, b.Kind, text)
	}
	return nil
}

func runBlockMove(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	var position int
	if _, err := fmt.Sscanf(args[1], "%d", &position); err != nil {
		return fmt.Errorf("invalid position %q", args[1])
	}

	var parent *string
	if blockParent != "" {
		parent = &blockParent
	}
	block, err := blockService.Move(cmd.Context(), orgID, args[0], parent, position)
	if err != nil {
		return err
	}
	cmd.Printf("Moved block %s to position %d\n", block.ID, block.Position)
	return nil
}

func runBlockConvert(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	block, err := blockService.Convert(cmd.Context(), orgID, args[0], domain.BlockKind(args[1]))
	if err != nil {
		return err
	}
	cmd.Printf("Converted block %s to %s\n", block.ID, block.Kind)
	return nil
}

func runBlockArchive(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	if err := blockService.Archive(cmd.Context(), orgID, args[0]); err != nil {
		return err
	}
	cmd.Printf("Archived block %s\n", args[0])
	return nil
}
