package cli

import (
	"github.com/spf13/cobra"
)

// newSchematicCmd creates the schematic command group.
func newSchematicCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "schematic", Short: "Published schematics and your uploads"}
	cmd.AddCommand(newSchematicListCmd(), newSchematicUploadsCmd())
	return cmd
}

func newSchematicListCmd() *cobra.Command {
	flags := newListFlags()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published schematics",
		Long: `Lists published schematics one page at a time.

Tags narrow the results and are validated before any request is made. At most
one tag per category is sent; a later --tag of the same category wins.`,
		Example: `  # First page, newest first
  mindtool schematic list

  # Big schematics that sit on the core, three pages
  mindtool schematic list --tag size_big,position_core --pages 3

  # Everything, most liked first, as YAML
  mindtool schematic list --sort most-liked --all --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, schematicView("schematic list"), flags)
		},
	}
	addListFlags(cmd, flags, true, true)
	return cmd
}

func newSchematicUploadsCmd() *cobra.Command {
	flags := newListFlags()
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "List your schematic uploads awaiting verification",
		Long: `Lists your own uploads that are still awaiting verification,
in pages of paging.admin_page_size. Use "schematic uploads reject" to withdraw one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, myUploadsView("schematic uploads"), flags)
		},
	}
	addListFlags(cmd, flags, false, false)
	cmd.AddCommand(newRejectUploadCmd(myUploadsView("schematic uploads reject"), false,
		"Withdraw one of your uploads",
		`  mindtool schematic uploads reject 65a1 --reason "uploaded the wrong version" --yes`))
	return cmd
}

// newMapCmd creates the map command group.
func newMapCmd() *cobra.Command {
	flags := newListFlags()
	list := &cobra.Command{
		Use:   "list",
		Short: "List published maps",
		Example: `  # Survival maps, every page, as JSON
  mindtool map list --tag mode_survival --all -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, mapView(), flags)
		},
	}
	addListFlags(list, flags, true, true)

	cmd := &cobra.Command{Use: "map", Short: "Published maps"}
	cmd.AddCommand(list)
	return cmd
}

// newPostCmd creates the post command group.
func newPostCmd() *cobra.Command {
	flags := newListFlags()
	list := &cobra.Command{
		Use:   "list",
		Short: "List forum posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, postView(), flags)
		},
	}
	addListFlags(list, flags, true, true)

	cmd := &cobra.Command{Use: "post", Short: "Forum posts"}
	cmd.AddCommand(list)
	return cmd
}
