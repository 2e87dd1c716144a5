package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/purse-pm/purse/pkg/index"
)

// depsCommand creates the "deps" command.
func (c *CLI) depsCommand() *cobra.Command {
	var transitive, reverse bool

	cmd := &cobra.Command{
		Use:   "deps <package>",
		Short: "Show a package's dependencies",
		Long: `Show a package's direct dependencies.

With --transitive, the full closure of packages reachable through
dependency edges. With --reverse, the packages that directly depend on
it instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if transitive && reverse {
				return errors.New("--transitive and --reverse are mutually exclusive")
			}

			idx, tag, err := c.loadIndex(cmd)
			if err != nil {
				return err
			}
			resolver := index.NewResolver(idx)
			name := args[0]

			var deps []string
			var label string
			switch {
			case transitive:
				deps, err = resolver.Transitive(name)
				label = "transitive dependencies"
			case reverse:
				deps, err = resolver.Reverse(name)
				label = "dependents"
			default:
				deps, err = resolver.Direct(name)
				label = "direct dependencies"
			}
			if err != nil {
				var unknown *index.ErrUnknownPackage
				if errors.As(err, &unknown) {
					return fmt.Errorf("%q not found in %s", unknown.Name, tag)
				}
				return err
			}

			for _, dep := range deps {
				if idx.Has(dep) {
					fmt.Println(dep)
				} else {
					fmt.Println(dep + " " + StyleWarning.Render("(missing from set)"))
				}
			}
			printDetail("%d %s", len(deps), label)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&transitive, "transitive", "t", false, "follow dependency edges to the full closure")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "show direct dependents instead")
	return cmd
}
