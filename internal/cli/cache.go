package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local package-set cache",
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheRemoveCommand())

	return cmd
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location and contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore()
			if err != nil {
				return err
			}

			info := store.Info()

			dir, err := c.cfg.CacheDir()
			if err != nil {
				return err
			}
			printKeyValue("directory", dir)
			printKeyValue("package sets", fmt.Sprintf("%d", info.EntryCount))
			printKeyValue("size", formatBytes(info.TotalBytes))
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached package set and the tag listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore()
			if err != nil {
				return err
			}

			info := store.Info()
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached package sets (%s)", info.EntryCount, formatBytes(info.TotalBytes))
			return nil
		},
	}
}

// cacheRemoveCommand creates the "cache remove" subcommand.
func (c *CLI) cacheRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <tag>...",
		Short: "Evict specific package-set tags from the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore()
			if err != nil {
				return err
			}

			for _, tag := range args {
				if err := store.Remove(tag); err != nil {
					return fmt.Errorf("remove %s: %w", tag, err)
				}
				printSuccess("Evicted %s", tag)
			}
			return nil
		},
	}
}

// formatBytes renders a byte count in a human unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
