package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/purse-pm/purse/pkg/index"
)

// infoCommand creates the "info" command.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <package>...",
		Short: "Show package details from a package set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, tag, err := c.loadIndex(cmd)
			if err != nil {
				return err
			}

			missing := 0
			for i, result := range idx.GetMany(args) {
				if i > 0 {
					printNewline()
				}
				if !result.Found {
					printError("%s not found in %s", result.Name, tag)
					missing++
					continue
				}
				rec := result.Record
				fmt.Println(StyleTitle.Render(rec.Name))
				printKeyValue("version", rec.Version)
				printKeyValue("repository", rec.Repo)
				printKeyValue("dependencies", fmt.Sprintf("%d", len(rec.Dependencies)))
				if len(rec.Dependencies) > 0 {
					printDetail("%s", strings.Join(rec.Dependencies, ", "))
				}
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d packages not found", missing, len(args))
			}
			return nil
		},
	}
}

// loadIndex resolves the working tag, loads its package set, and builds
// the query index over it.
func (c *CLI) loadIndex(cmd *cobra.Command) (*index.Index, string, error) {
	tag, err := c.resolveTag(cmd)
	if err != nil {
		return nil, "", err
	}

	f, err := c.newFetcher()
	if err != nil {
		return nil, "", err
	}

	p := newProgress(c.Logger)
	set, err := f.PackageSet(cmd.Context(), tag, c.refresh)
	if err != nil {
		return nil, "", err
	}
	p.done(fmt.Sprintf("Loaded %d packages from %s", len(set), tag))

	return index.Build(set), tag, nil
}
