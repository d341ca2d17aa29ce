package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/mindtool/internal/config"
	"github.com/rshade/mindtool/internal/content"
)

// authorLookupLimit caps concurrent user lookups for --author-names.
const authorLookupLimit = 4

// newUserCmd creates the user command group.
func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Site accounts"}
	cmd.AddCommand(newUserShowCmd())
	return cmd
}

func newUserShowCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "show <user-id>",
		Short:   "Show a user's public profile",
		Example: `  mindtool user show 64f0c2 -o json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(output)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			run := newCommandRun("user show", map[string]string{"id": args[0]})

			user, err := sess.client.User(ctx, args[0])
			if err != nil {
				err = fmt.Errorf("looking up user %s: %w", args[0], err)
				run.logFailure(ctx, err)
				return err
			}
			if err = renderUser(cmd, format, user); err != nil {
				return err
			}
			run.logSuccess(ctx, 1, sess.client)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table, json, or yaml")
	return cmd
}

func renderUser(cmd *cobra.Command, format string, user content.User) error {
	w := cmd.OutOrStdout()
	if format != config.FormatTable {
		return writeStructured(w, format, user)
	}
	roles := strings.Join(user.Roles, ", ")
	if roles == "" {
		roles = "-"
	}
	fmt.Fprintf(w, "ID:     %s\nName:   %s\nRoles:  %s\n", user.ID, user.Name, roles)
	if user.ImageURL != "" {
		fmt.Fprintf(w, "Avatar: %s\n", user.ImageURL)
	}
	return nil
}

// resolveAuthors looks up the distinct authors of items. Lookups that fail are left
// out, so their rows keep showing the user ID.
func resolveAuthors[T any](ctx context.Context, sess *session, items []T, authorOf func(T) string) map[string]string {
	var ids []string
	for _, item := range items {
		if id := authorOf(item); id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	var (
		mu    sync.Mutex
		names = make(map[string]string, len(ids))
	)
	var g errgroup.Group
	g.SetLimit(authorLookupLimit)
	for _, id := range ids {
		g.Go(func() error {
			user, err := sess.client.User(ctx, id)
			if err != nil {
				sess.log.Debug().Ctx(ctx).
					Str("component", "cli").
					Str("operation", "resolve_author").
					Str("user_id", id).
					Err(err).
					Msg("author lookup failed")
				return nil
			}
			mu.Lock()
			names[id] = user.Name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // every lookup returns nil
	return names
}
