package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// importsCommand creates the "imports" command.
func (c *CLI) importsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "imports",
		Short: "List modules imported by workspace sources, grouped by owning package",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadWorkspace(dir)
			if err != nil {
				return err
			}

			// Module table over the whole workspace.
			owners := make(map[string]string)
			for _, name := range g.Names() {
				pkg, _ := g.Node(name)
				for mod := range pkg.Modules {
					owners[mod] = name
				}
			}

			seen := make(map[string]struct{})
			var mods []string
			for _, name := range g.Names() {
				pkg, _ := g.Node(name)
				for mod := range pkg.Imports {
					if _, dup := seen[mod]; dup {
						continue
					}
					seen[mod] = struct{}{}
					mods = append(mods, mod)
				}
			}
			sort.Strings(mods)

			for _, mod := range mods {
				if owner, ok := owners[mod]; ok {
					fmt.Println(mod + " " + StyleDim.Render("("+owner+")"))
				} else {
					fmt.Println(mod)
				}
			}
			printDetail("%d imported modules", len(mods))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "workspace root to scan")
	return cmd
}
