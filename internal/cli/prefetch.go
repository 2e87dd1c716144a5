package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// prefetchCommand creates the "prefetch" command.
func (c *CLI) prefetchCommand() *cobra.Command {
	var latest int

	cmd := &cobra.Command{
		Use:   "prefetch [tag]...",
		Short: "Warm the cache with package sets",
		Long: `Warm the cache with package sets.

Fetches the named tags concurrently, or without arguments the newest
--latest tags from the registry. Already cached sets are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.newFetcher()
			if err != nil {
				return err
			}

			tags := args
			if len(tags) == 0 {
				list, err := f.ListTags(cmd.Context(), c.refresh)
				if err != nil {
					return fmt.Errorf("list tags: %w", err)
				}
				tags = list.Tags
				if latest < len(tags) {
					tags = tags[:latest]
				}
			}

			p := newProgress(c.Logger)
			if err := f.Prefetch(cmd.Context(), tags); err != nil {
				return fmt.Errorf("prefetch: %w", err)
			}
			p.done(fmt.Sprintf("Prefetched %d package sets", len(tags)))

			printSuccess("Cache warmed with %d package sets", len(tags))
			return nil
		},
	}

	cmd.Flags().IntVar(&latest, "latest", 3, "without arguments, prefetch this many newest tags")
	return cmd
}
