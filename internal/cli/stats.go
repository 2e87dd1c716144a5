package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statsCommand creates the "stats" command.
func (c *CLI) statsCommand() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a package set's dependency structure",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, tag, err := c.loadIndex(cmd)
			if err != nil {
				return err
			}

			s := idx.Stats()
			fmt.Println(StyleTitle.Render(tag))
			printKeyValue("packages", fmt.Sprintf("%d", s.TotalPackages))
			printKeyValue("edges", fmt.Sprintf("%d", s.TotalEdges))
			printKeyValue("deps avg", fmt.Sprintf("%.2f", s.AvgDeps))
			printKeyValue("deps min/max", fmt.Sprintf("%d / %d", s.MinDeps, s.MaxDeps))
			printKeyValue("leaf packages", fmt.Sprintf("%d", s.ZeroDepCount))

			if top > 0 {
				printNewline()
				printInfo("Most dependencies")
				for _, rec := range idx.TopByDependencyCount(top) {
					printDetail("%-30s %d", rec.Name, len(rec.Dependencies))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "also list the n packages with the most dependencies (0 = off)")
	return cmd
}
