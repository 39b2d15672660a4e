package comments

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/crucial707/forum-api/cmd/cli/client"
	"github.com/crucial707/forum-api/cmd/cli/output"
	"github.com/crucial707/forum-api/cmd/cli/root"
	"github.com/spf13/cobra"
)

// InitComments registers the comments command group.
func InitComments(rootCmd *cobra.Command) {
	commentsCmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and post comments",
	}

	commentsCmd.AddCommand(listCommentsCmd(), addCommentCmd(), deleteCommentCmd())
	rootCmd.AddCommand(commentsCmd)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func listCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [forum-id]",
		Short: "List the comments of a forum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forumID, err := parseID(args[0])
			if err != nil {
				return err
			}

			comments, err := client.Public().ListComments(cmd.Context(), forumID)
			if err != nil {
				return err
			}
			if root.JSONOutput(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), comments)
			}
			if len(comments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No comments.")
				return nil
			}

			rows := make([][]interface{}, 0, len(comments))
			for _, c := range comments {
				author := strconv.Itoa(c.UserID)
				if c.Author != nil {
					author = c.Author.Username
				}
				rows = append(rows, []interface{}{c.ID, author, c.Content, c.CreatedAt.Format("2006-01-02 15:04")})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Author", "Comment", "Posted"}, rows)
			return nil
		},
	}
}

func addCommentCmd() *cobra.Command {
	var forumID int
	var content string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Comment on a forum",
		RunE: func(cmd *cobra.Command, args []string) error {
			if forumID <= 0 || content == "" {
				return errors.New("--forum and --content are required")
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			comment, err := c.AddComment(cmd.Context(), forumID, content)
			if err != nil {
				return err
			}
			if root.JSONOutput(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), comment)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment #%d posted.\n", comment.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&forumID, "forum", 0, "forum id")
	cmd.Flags().StringVar(&content, "content", "", "comment text")
	return cmd
}

func deleteCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one of your comments",
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
			if err := c.DeleteComment(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment #%d deleted.\n", id)
			return nil
		},
	}
}
