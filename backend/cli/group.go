package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"yatube/backend/group"
)

// GroupOptions holds flags for group create.
type GroupOptions struct {
	Title       string
	Slug        string
	Description string
}

// NewGroupCommand creates the group command. Groups have no web form, so this
// is how they are managed.
func NewGroupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage post groups",
	}
	cmd.AddCommand(newGroupCreateCommand(rootOpts))
	cmd.AddCommand(newGroupListCommand(rootOpts))
	return cmd
}

func newGroupCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GroupOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := open(rootOpts, true)
			if err != nil {
				return err
			}
			defer conn.Close()

			g, err := group.NewStore(conn).Create(cmd.Context(), opts.Title, opts.Slug, opts.Description)
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprint(cmd.OutOrStdout(), "✅ Created group ")
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) with id %d\n", g.Title, g.Slug, g.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "group title")
	cmd.Flags().StringVar(&opts.Slug, "slug", "", "unique slug used in the group URL")
	cmd.Flags().StringVar(&opts.Description, "description", "", "group description")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("slug")

	return cmd
}

func newGroupListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := open(rootOpts, true)
			if err != nil {
				return err
			}
			defer conn.Close()

			groups, err := group.NewStore(conn).List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "🤷‍♂️ No groups yet")
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.SetAutoWrapText(false)
			table.SetHeader([]string{"ID", "Slug", "Title", "Description"})
			for _, g := range groups {
				table.Append([]string{strconv.FormatInt(g.ID, 10), g.Slug, g.Title, g.Description})
			}
			table.Render()
			return nil
		},
	}
}
