package cli

import (
	"github.com/spf13/cobra"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
)

var (
	tagColor string
	tagDesc  string
	tagSort  string
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage tags and assignments",
}

var tagCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagCreate,
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the organization's tags",
	RunE:  runTagList,
}

var tagAssignCmd = &cobra.Command{
	Use:   "assign [tag-id] [block-id]",
	Short: "Assign a tag to a block",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagAssign,
}

var tagUnassignCmd = &cobra.Command{
	Use:   "unassign [tag-id] [block-id]",
	Short: "Remove a tag from a block",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagUnassign,
}

var tagRmCmd = &cobra.Command{
	Use:   "rm [tag-id]",
	Short: "Delete a tag and its assignments",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagRm,
}

func init() {
	tagCreateCmd.Flags().StringVar(&tagColor, "color", "", "display color")
	tagCreateCmd.Flags().StringVar(&tagDesc, "description", "", "tag description")
	tagListCmd.Flags().StringVar(&tagSort, "sort", "name", "sort order: name or usage_count")

	tagsCmd.AddCommand(tagCreateCmd, tagListCmd, tagAssignCmd, tagUnassignCmd, tagRmCmd)
	rootCmd.AddCommand(tagsCmd)
}

func runTagCreate(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	tag, err := tagService.Create(cmd.Context(), orgID, args[0], tagColor, tagDesc)
	if err != nil {
		return err
	}
	cmd.Printf("Created tag %s (%s)\n", tag.Name, tag.ID)
	return nil
}

func runTagList(cmd *cobra.Command, _ []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	tags, err := tagService.List(cmd.Context(), orgID, driving.TagSort(tagSort), 0, 0)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		cmd.Println("No tags found.")
		return nil
	}
	for _, t := range tags {
		cmd.Printf("%s  %s (used %d)\n", t.ID, t.Name, t.UsageCount)
	}
	return nil
}

func runTagAssign(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	if _, err := tagService.Assign(cmd.Context(), orgID, args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Assigned tag %s to block %s\n", args[0], args[1])
	return nil
}

func runTagUnassign(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	if err := tagService.Unassign(cmd.Context(), orgID, args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Removed tag %s from block %s\n", args[0], args[1])
	return nil
}

func runTagRm(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}

	if err := tagService.Delete(cmd.Context(), orgID, args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted tag %s\n", args[0])
	return nil
}
