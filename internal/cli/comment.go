package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/mindtool/internal/content"
)

// Comment command errors.
var (
	ErrUnknownContentType = errors.New("unknown content type")
	ErrNotPermitted       = errors.New("only the author or an admin may delete this")
	ErrEmptyComment       = errors.New("comment text is empty")
)

func validateContentType(contentType string) error {
	if !slices.Contains(contentTypes, contentType) {
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownContentType, contentType, strings.Join(contentTypes, ", "))
	}
	return nil
}

// newCommentCmd creates the comment command group.
func newCommentCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "comment", Short: "Comments on schematics, maps and posts"}
	cmd.AddCommand(newCommentListCmd(), newCommentAddCmd(), newCommentDeleteCmd())
	return cmd
}

func newCommentListCmd() *cobra.Command {
	flags := newListFlags()
	cmd := &cobra.Command{
		Use:     "list <type> <target-id>",
		Short:   "List comments on a schematic, map or post",
		Example: `  mindtool comment list post 64f0c2 --all`,
		Args:    cobra.ExactArgs(2), //nolint:mnd // type and target id.
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateContentType(args[0]); err != nil {
				return err
			}
			return runList(cmd, commentView(args[0], args[1]), flags)
		},
	}
	addListFlags(cmd, flags, false, false)
	return cmd
}

func newCommentAddCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "add <type> <target-id> <text>...",
		Short:   "Comment on a schematic, map or post",
		Example: `  mindtool comment add schematic 65a1 "nice compact drill"`,
		Args:    cobra.MinimumNArgs(3), //nolint:mnd // type, target id and at least one word.
		RunE: func(cmd *cobra.Command, args []string) error {
			contentType, targetID := args[0], args[1]
			text := strings.TrimSpace(strings.Join(args[2:], " "))
			if err := validateContentType(contentType); err != nil {
				return err
			}
			if text == "" {
				return ErrEmptyComment
			}
			format, err := resolveFormat(output)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			run := newCommandRun("comment add", map[string]string{"type": contentType, "target": targetID})

			created, err := sess.client.PostComment(ctx, contentType, targetID, text)
			if err != nil {
				run.logFailure(ctx, err)
				return fmt.Errorf("posting comment: %w", err)
			}
			cmd.PrintErrf("Added comment %s\n", created.ID)

			view := commentView(contentType, targetID)
			result, err := reloadList(ctx, sess, view, nil)
			if err != nil {
				run.logFailure(ctx, err)
				return err
			}
			if err = renderList(cmd, format, view, result); err != nil {
				return err
			}
			run.logSuccess(ctx, len(result.items), sess.client)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table, json, or yaml")
	return cmd
}

func newCommentDeleteCmd() *cobra.Command {
	var (
		output string
		yes    bool
	)
	cmd := &cobra.Command{
		Use:   "delete <type> <target-id> <comment-id>",
		Short: "Delete a comment you wrote (admins may delete any)",
		Args:  cobra.ExactArgs(3), //nolint:mnd // type, target id and comment id.
		RunE: func(cmd *cobra.Command, args []string) error {
			contentType, targetID, commentID := args[0], args[1], args[2]
			if err := validateContentType(contentType); err != nil {
				return err
			}
			format, err := resolveFormat(output)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			run := newCommandRun("comment delete", map[string]string{
				"type": contentType, "target": targetID, "comment": commentID,
			})
			view := commentView(contentType, targetID)

			// Refuse early when the comment is on the first page and the
			// signed-in user clearly may not delete it; the server has the final say.
			if current, loadErr := reloadList(ctx, sess, view, nil); loadErr == nil {
				i := slices.IndexFunc(current.items, func(c content.Comment) bool { return c.ID == commentID })
				if i >= 0 {
					if user, userErr := sess.client.CurrentUser(ctx); userErr == nil &&
						!content.CanDelete(current.items[i].AuthorID, &user) {
						run.logFailure(ctx, ErrNotPermitted)
						return ErrNotPermitted
					}
				}
			}

			if err = confirmAction(cmd, yes, fmt.Sprintf("Delete comment %s?", commentID)); err != nil {
				return err
			}
			if err = sess.client.DeleteComment(ctx, contentType, commentID); err != nil {
				run.logFailure(ctx, err)
				return fmt.Errorf("deleting comment: %w", err)
			}
			cmd.PrintErrf("Deleted comment %s\n", commentID)

			result, err := reloadList(ctx, sess, view, nil)
			if err != nil {
				run.logFailure(ctx, err)
				return err
			}
			if err = renderList(cmd, format, view, result); err != nil {
				return err
			}
			run.logSuccess(ctx, len(result.items), sess.client)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table, json, or yaml")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
