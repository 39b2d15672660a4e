package forums

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/crucial707/forum-api/cmd/cli/client"
	"github.com/crucial707/forum-api/cmd/cli/output"
	"github.com/crucial707/forum-api/cmd/cli/root"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/spf13/cobra"
)

// InitForums registers the forums command group.
func InitForums(rootCmd *cobra.Command) {
	forumsCmd := &cobra.Command{
		Use:   "forums",
		Short: "Browse and manage forums",
	}

	forumsCmd.AddCommand(
		listForumsCmd(),
		showForumCmd(),
		createForumCmd(),
		updateForumCmd(),
		deleteForumCmd(),
	)

	rootCmd.AddCommand(forumsCmd)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func creatorName(f models.Forum) string {
	if f.Creator != nil {
		return f.Creator.Username
	}
	return strconv.Itoa(f.CreatedBy)
}

func renderForums(cmd *cobra.Command, forums []models.Forum) {
	rows := make([][]interface{}, 0, len(forums))
	for _, f := range forums {
		rows = append(rows, []interface{}{f.ID, f.Title, strings.Join(f.Tags, ", "), creatorName(f), f.CreatedAt.Format("2006-01-02 15:04")})
	}
	output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Tags", "Creator", "Created"}, rows)
}

func listForumsCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List forums",
		RunE: func(cmd *cobra.Command, args []string) error {
			forums, err := client.Public().ListForums(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if root.JSONOutput(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), forums)
			}
			if len(forums) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No forums yet.")
				return nil
			}
			renderForums(cmd, forums)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of forums")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of forums to skip")
	return cmd
}

func showForumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a forum and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			detail, err := client.Public().GetForum(cmd.Context(), id)
			if err != nil {
				return err
			}
			if root.JSONOutput(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), detail)
			}
			if detail.Forum == nil {
				return errors.New("forum missing from response")
			}

			f := detail.Forum
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#%d %s\n", f.ID, f.Title)
			fmt.Fprintf(out, "by %s on %s\n", creatorName(*f), f.CreatedAt.Format("2006-01-02 15:04"))
			if len(f.Tags) > 0 {
				fmt.Fprintf(out, "tags: %s\n", strings.Join(f.Tags, ", "))
			}
			if f.Description != "" {
				fmt.Fprintf(out, "\n%s\n", f.Description)
			}
			fmt.Fprintln(out)

			if len(detail.Comments) == 0 {
				fmt.Fprintln(out, "No comments.")
				return nil
			}
			rows := make([][]interface{}, 0, len(detail.Comments))
			for _, c := range detail.Comments {
				author := strconv.Itoa(c.UserID)
				if c.Author != nil {
					author = c.Author.Username
				}
				rows = append(rows, []interface{}{c.ID, author, c.Content, c.CreatedAt.Format("2006-01-02 15:04")})
			}
			output.RenderTable(out, []string{"ID", "Author", "Comment", "Posted"}, rows)
			return nil
		},
	}
}

func createForumCmd() *cobra.Command {
	var in client.ForumInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a forum",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			f, err := c.CreateForum(cmd.Context(), in)
			if err != nil {
				return err
			}
			if root.JSONOutput(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), f)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forum #%d created.\n", f.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "forum title")
	cmd.Flags().StringVar(&in.Description, "description", "", "forum description")
	cmd.Flags().StringSliceVar(&in.Tags, "tags", nil, "comma-separated tags")
	return cmd
}

// updateForumCmd replaces the title, description and tags. Omitted flags keep
// the current values.
func updateForumCmd() *cobra.Command {
	var in client.ForumInput

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a forum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			current, err := c.GetForum(cmd.Context(), id)
			if err != nil {
				return err
			}
			if current.Forum != nil {
				if !cmd.Flags().Changed("title") {
					in.Title = current.Forum.Title
				}
				if !cmd.Flags().Changed("description") {
					in.Description = current.Forum.Description
				}
				if !cmd.Flags().Changed("tags") {
					in.Tags = current.Forum.Tags
				}
			}

			f, err := c.UpdateForum(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			if root.JSONOutput(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), f)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forum #%d updated.\n", f.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "new title")
	cmd.Flags().StringVar(&in.Description, "description", "", "new description")
	cmd.Flags().StringSliceVar(&in.Tags, "tags", nil, "new comma-separated tags")
	return cmd
}

func deleteForumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a forum and all of its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			removed, err := c.DeleteForum(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forum #%d deleted (%d comments removed).\n", id, removed)
			return nil
		},
	}
}
