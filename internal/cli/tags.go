package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listTagsCommand creates the "list-tags" command.
func (c *CLI) listTagsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list-tags",
		Short: "List published package-set tags, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.newFetcher()
			if err != nil {
				return err
			}

			list, err := f.ListTags(cmd.Context(), c.refresh)
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}

			tags := list.Tags
			if limit > 0 && limit < len(tags) {
				tags = tags[:limit]
			}
			for i, tag := range tags {
				if i == 0 {
					fmt.Println(StyleHighlight.Render(tag) + " " + StyleDim.Render("(latest)"))
					continue
				}
				fmt.Println(tag)
			}
			printDetail("%d tags, fetched %s", len(list.Tags), list.FetchedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n tags (0 = all)")
	return cmd
}
