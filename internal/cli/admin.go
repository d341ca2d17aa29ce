package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/mindtool/internal/cli/pagination"
	"github.com/rshade/mindtool/internal/content"
	"github.com/rshade/mindtool/internal/tags"
)

// ErrReasonRequired is returned by reject without --reason.
var ErrReasonRequired = errors.New("--reason is required")

// newAdminCmd creates the admin command group.
func newAdminCmd() *cobra.Command {
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Review schematic uploads",
	}
	verify.AddCommand(newVerifyListCmd(), newVerifyAcceptCmd(), newVerifyRejectCmd())

	cmd := &cobra.Command{Use: "admin", Short: "Moderation commands (admin token required)"}
	cmd.AddCommand(verify)
	return cmd
}

// Notification sent to the uploader once an upload is published.
const (
	verifiedNotificationTitle   = "Post schematic success"
	verifiedNotificationMessage = "Your schematic submission has been accepted"
)

func newVerifyListCmd() *cobra.Command {
	flags := newListFlags()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schematic uploads awaiting verification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runList(cmd, adminQueueView("admin verify list"), flags); err != nil {
				return err
			}
			if sess, err := newSession(cmd.Context()); err == nil {
				printPendingTotal(cmd, sess)
			}
			return nil
		},
	}
	addListFlags(cmd, flags, true, false)
	return cmd
}

func newVerifyAcceptCmd() *cobra.Command {
	var (
		tagValues []string
		output    string
		notify    bool
	)
	cmd := &cobra.Command{
		Use:   "accept <upload-id>",
		Short: "Publish an upload with the given tags",
		Long: `Publishes a pending upload with the given tags and notifies its author.

A failed notification is reported but does not undo or fail the verification.`,
		Example: `  mindtool admin verify accept 65a1 --tag size_small --tag unit-tier_t2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			view := adminQueueView("admin verify accept")
			return runUploadMutation(cmd, output, view, id, true,
				func(ctx context.Context, sess *session) error {
					catalog, err := sess.catalog(ctx, tags.GroupSchematicUpload)
					if err != nil {
						return err
					}
					raw := pagination.ListParams{Tags: tagValues}
					filters, err := ApplyTagFilters(ctx, catalog, raw.TagValues())
					if err != nil {
						return err
					}

					authorID := ""
					if notify {
						authorID = uploadAuthor(ctx, sess, id)
					}
					if err = sess.client.VerifySchematic(ctx, id, filters.Tags()); err != nil {
						return fmt.Errorf("verifying %s: %w", id, err)
					}
					cmd.PrintErrf("Verified %s with tags %q\n", id, filters.Serialize())
					if authorID != "" {
						notifyAuthor(cmd, sess, authorID)
					}
					return nil
				})
		},
	}
	cmd.Flags().StringArrayVarP(&tagValues, "tag", "t", []string{},
		"Tag to publish with, as category_value (repeatable or comma separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table, json, or yaml")
	cmd.Flags().BoolVar(&notify, "notify", true, "Notify the author that the upload was accepted")
	return cmd
}

// uploadAuthor returns the author of a pending upload, or "" when it cannot be
// looked up.
func uploadAuthor(ctx context.Context, sess *session, id string) string {
	upload, err := sess.client.SchematicUpload(ctx, id)
	if err != nil {
		sess.log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "upload_author").
			Str("id", id).
			Err(err).
			Msg("could not look up upload author; no notification will be sent")
		return ""
	}
	return upload.AuthorID
}

// notifyAuthor tells authorID their upload was published. Failures are logged and
// reported on stderr only.
func notifyAuthor(cmd *cobra.Command, sess *session, authorID string) {
	ctx := cmd.Context()
	err := sess.client.PostNotification(ctx, authorID, verifiedNotificationMessage, verifiedNotificationTitle)
	if err != nil {
		sess.log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "notify_author").
			Str("user_id", authorID).
			Err(err).
			Msg("author notification failed")
		cmd.PrintErrf("Could not notify author %s: %v\n", authorID, err)
		return
	}
	cmd.PrintErrf("Notified author %s\n", authorID)
}

func newVerifyRejectCmd() *cobra.Command {
	return newRejectUploadCmd(adminQueueView("admin verify reject"), true,
		"Reject and delete an upload",
		`  mindtool admin verify reject 65a1 --reason "duplicate of 64f0" --yes`)
}

// newRejectUploadCmd creates a reject command for the uploads listed by view. The
// list is reloaded after the upload is deleted.
func newRejectUploadCmd(view listView[content.Schematic], reportPending bool, short, example string) *cobra.Command {
	var (
		reason string
		output string
		yes    bool
	)
	cmd := &cobra.Command{
		Use:     "reject <upload-id>",
		Short:   short,
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			reason = strings.TrimSpace(reason)
			if reason == "" {
				return ErrReasonRequired
			}
			return runUploadMutation(cmd, output, view, id, reportPending,
				func(ctx context.Context, sess *session) error {
					if err := confirmAction(cmd, yes, fmt.Sprintf("Reject upload %s?", id)); err != nil {
						return err
					}
					if err := sess.client.RejectSchematic(ctx, id, reason); err != nil {
						return fmt.Errorf("rejecting %s: %w", id, err)
					}
					cmd.PrintErrf("Rejected %s\n", id)
					return nil
				})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the rejection (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table, json, or yaml")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// runUploadMutation applies mutate and then reloads the upload list of view. With
// reportPending the server's count of uploads awaiting review is printed too.
func runUploadMutation(
	cmd *cobra.Command,
	output string,
	view listView[content.Schematic],
	id string,
	reportPending bool,
	mutate func(context.Context, *session) error,
) error {
	format, err := resolveFormat(output)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	run := newCommandRun(view.name, map[string]string{"id": id})

	if err = mutate(ctx, sess); err != nil {
		run.logFailure(ctx, err)
		return err
	}

	result, err := reloadList(ctx, sess, view, nil)
	if err != nil {
		run.logFailure(ctx, err)
		return err
	}
	if err = renderList(cmd, format, view, result); err != nil {
		return err
	}
	if reportPending {
		printPendingTotal(cmd, sess)
	}
	run.logSuccess(ctx, len(result.items), sess.client)
	return nil
}

// printPendingTotal reports the server's count of uploads awaiting review on stderr.
func printPendingTotal(cmd *cobra.Command, sess *session) {
	ctx := cmd.Context()
	total, err := sess.client.TotalSchematicUploads(ctx)
	if err != nil {
		sess.log.Debug().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "pending_total").
			Err(err).
			Msg("could not fetch upload total")
		return
	}
	cmd.PrintErrf("%d upload(s) awaiting verification\n", total)
}
