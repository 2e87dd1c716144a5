package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// searchCommand creates the "search" command.
func (c *CLI) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search packages by name substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, tag, err := c.loadIndex(cmd)
			if err != nil {
				return err
			}

			matches := idx.Search(args[0])
			if len(matches) == 0 {
				printInfo("No packages in %s match %q", tag, args[0])
				return nil
			}

			for _, rec := range matches {
				line := StyleHighlight.Render(rec.Name) + " " + StyleDim.Render(rec.Version)
				if n := len(rec.Dependencies); n > 0 {
					line += " " + StyleDim.Render(fmt.Sprintf("(%d deps)", n))
				}
				fmt.Println(line)
			}
			printDetail("%d matches", len(matches))
			return nil
		},
	}
}
