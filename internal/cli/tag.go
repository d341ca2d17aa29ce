package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/mindtool/internal/config"
	"github.com/rshade/mindtool/internal/tags"
)

// newTagCmd creates the tag command group.
func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tag", Short: "Tag catalogs used by --tag filters"}
	cacheCmd := &cobra.Command{Use: "cache", Short: "Cached server tag catalogs"}
	cacheCmd.AddCommand(newTagCacheClearCmd())
	cmd.AddCommand(newTagListCmd(), cacheCmd)
	return cmd
}

// tagCategoryDoc is the json/yaml shape of one category.
type tagCategoryDoc struct {
	Name        string        `json:"name"              yaml:"name"`
	DisplayName string        `json:"display_name"      yaml:"display_name"`
	Color       string        `json:"color,omitempty"   yaml:"color,omitempty"`
	Kind        string        `json:"kind"              yaml:"kind"`
	Choices     []tags.Choice `json:"choices,omitempty" yaml:"choices,omitempty"`
}

func newTagListCmd() *cobra.Command {
	var (
		remote  bool
		refresh bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "list [group]",
		Short: "List tag groups, or the categories of one group",
		Long: `Without arguments, lists the known tag groups and sort options.

With a group, lists its categories and allowed values. --remote asks the server
for the group instead of using the built-in library. Server catalogs are cached
for tags.cache_ttl_seconds; --refresh fetches a fresh copy.`,
		Example: `  mindtool tag list
  mindtool tag list schematic-search
  mindtool tag list map-search --remote -o yaml`,
		Args: cobra.MaximumNArgs(1),
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

			if len(args) == 0 {
				return renderGroups(cmd, format, sess.library)
			}

			catalog, err := sess.library.Group(args[0])
			if remote || sess.cfg.Tags.Remote {
				catalog, err = sess.remoteCatalog(ctx, args[0], refresh)
			}
			if err != nil {
				return err
			}
			return renderCatalog(cmd, format, catalog)
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Fetch the group from the server")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the tag cache when fetching from the server")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table, json, or yaml")
	return cmd
}

func newTagCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove cached server tag catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if !sess.tagCache.IsEnabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "Tag cache is disabled.")
				return nil
			}
			removed, err := sess.tagCache.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached tag catalog(s) from %s\n", removed, sess.tagCache.Directory())
			return nil
		},
	}
}

func renderGroups(cmd *cobra.Command, format string, lib *tags.Library) error {
	w := cmd.OutOrStdout()
	sorts := make([]string, 0, len(lib.Sorts()))
	for _, s := range lib.Sorts() {
		sorts = append(sorts, s.Name)
	}
	if format != config.FormatTable {
		return writeStructured(w, format, map[string][]string{"groups": lib.GroupNames(), "sorts": sorts})
	}
	fmt.Fprintln(w, "GROUPS")
	for _, g := range lib.GroupNames() {
		fmt.Fprintf(w, "  %s\n", g)
	}
	fmt.Fprintln(w, "\nSORTS")
	for _, s := range lib.Sorts() {
		fmt.Fprintf(w, "  %-12s %s (%s)\n", s.Name, s.DisplayName, s.Tag)
	}
	return nil
}

func renderCatalog(cmd *cobra.Command, format string, catalog *tags.Catalog) error {
	categories := catalog.Categories()
	if format != config.FormatTable {
		docs := make([]tagCategoryDoc, 0, len(categories))
		for _, c := range categories {
			docs = append(docs, tagCategoryDoc{
				Name:        c.Name,
				DisplayName: c.Label(),
				Color:       c.Color,
				Kind:        c.Kind.String(),
				Choices:     c.Choices,
			})
		}
		return writeStructured(cmd.OutOrStdout(), format, docs)
	}

	return renderTable(cmd.OutOrStdout(), []column[tags.Category]{
		{header: "CATEGORY", value: func(c tags.Category) string { return c.Name }},
		{header: "LABEL", value: func(c tags.Category) string { return c.Label() }},
		{header: "KIND", value: func(c tags.Category) string { return c.Kind.String() }},
		{header: "VALUES", value: func(c tags.Category) string {
			values := make([]string, len(c.Choices))
			for i, ch := range c.Choices {
				values[i] = ch.Value
			}
			return strings.Join(values, " | ")
		}},
	}, categories)
}
