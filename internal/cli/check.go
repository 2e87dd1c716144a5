package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/purse-pm/purse/pkg/index"
	"github.com/purse-pm/purse/pkg/workspace"
)

// checkCommand creates the "check" command group.
func (c *CLI) checkCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the local workspace",
	}

	cmd.PersistentFlags().StringVarP(&dir, "dir", "d", ".", "workspace root to scan")

	cmd.AddCommand(c.checkCyclesCommand(&dir))
	cmd.AddCommand(c.checkDepsCommand(&dir))

	return cmd
}

// loadWorkspace discovers packages under dir and builds their graph.
func (c *CLI) loadWorkspace(dir string) (*workspace.Graph, error) {
	pkgs, err := workspace.Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("discover workspace: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no %s manifests under %s", workspace.ManifestName, dir)
	}
	c.Logger.Debugf("discovered %d workspace packages", len(pkgs))
	return workspace.BuildGraph(pkgs)
}

// checkCyclesCommand creates the "check cycles" subcommand.
func (c *CLI) checkCyclesCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cycles",
		Short: "Detect circular dependencies between workspace packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadWorkspace(*dir)
			if err != nil {
				return err
			}

			cycles := workspace.FindCycles(g)
			if len(cycles) == 0 {
				printSuccess("No dependency cycles among %d packages", g.Len())
				return nil
			}

			for _, cycle := range cycles {
				printError("cycle: %s", strings.Join(cycle, " "+iconArrow+" "))
			}
			printDetail("%d cycles found", len(cycles))
			return ErrFindings
		},
	}
}

// checkDepsCommand creates the "check deps" subcommand.
func (c *CLI) checkDepsCommand(dir *string) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Compare declared dependencies against source imports and the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadWorkspace(*dir)
			if err != nil {
				return err
			}

			var idx *index.Index
			if !offline {
				idx, _, err = c.loadIndex(cmd)
				if err != nil {
					return err
				}
			}

			findings := 0
			for _, name := range g.Names() {
				var lines []string
				for _, dep := range g.UsedButUndeclared(name) {
					lines = append(lines, fmt.Sprintf("imports %s but does not declare it", dep))
				}
				for _, dep := range g.DeclaredButUnused(name) {
					lines = append(lines, fmt.Sprintf("declares %s but never imports it", dep))
				}
				if len(lines) == 0 {
					continue
				}
				printWarning("%s", name)
				for _, line := range lines {
					printDetail("%s", line)
				}
				findings += len(lines)
			}

			for _, b := range workspace.FindBrokenDependencies(g, idx) {
				if b.Suggestion != "" {
					printError("%s depends on %s, which does not exist (did you mean %s?)", b.Package, b.Missing, b.Suggestion)
				} else {
					printError("%s depends on %s, which does not exist", b.Package, b.Missing)
				}
				findings++
			}

			if findings == 0 {
				printSuccess("Dependencies are consistent across %d packages", g.Len())
				return nil
			}
			printDetail("%d problems found", findings)
			return ErrFindings
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip the registry; resolve names against the workspace only")
	return cmd
}
