package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/mindtool/internal/api"
)

// NewVersionCmd creates the version command. With --check it also asks the server
// for its version and fails with ExitCodeIncompatible when it is out of range.
func NewVersionCmd(ver string) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the client version, optionally checking the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mindtool %s\n", ver)
			if !check {
				return nil
			}

			ctx := cmd.Context()
			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			serverVersion, err := sess.client.ServerVersion(ctx)
			if err != nil {
				return fmt.Errorf("checking server version: %w", err)
			}
			fmt.Fprintf(out, "server %s at %s\n", serverVersion, sess.client.BaseURL())

			if err = api.CheckCompatible(serverVersion, sess.cfg.API.ServerConstraint); err != nil {
				return &ExitError{Code: ExitCodeIncompatible, Err: err}
			}
			fmt.Fprintf(out, "compatible with %s\n", sess.cfg.API.ServerConstraint)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check that the server version is supported")
	return cmd
}
