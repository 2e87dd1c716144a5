// Package cli implements the purse command-line interface.
package cli

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/purse-pm/purse/internal/config"
	"github.com/purse-pm/purse/pkg/buildinfo"
	"github.com/purse-pm/purse/pkg/cache"
	"github.com/purse-pm/purse/pkg/registry"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrFindings marks a successful check that found problems. main turns
// it into exit code 2 so scripts can tell "broken workspace" from
// "tool failed".
var ErrFindings = errors.New("check found problems")

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg *config.Config

	// refresh and tag are bound to persistent flags.
	refresh bool
	tag     string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "purse",
		Short:        "Purse explores immutable package-set registries",
		Long:         `Purse is a CLI tool for querying package-set registries: it caches published sets locally, answers dependency queries over them, and checks local workspaces against them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.tag, "tag", "", "package-set tag (default: latest)")
	root.PersistentFlags().BoolVar(&c.refresh, "refresh", false, "bypass the cache and refetch from the registry")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		c.cfg = cfg
		return nil
	}

	root.AddCommand(c.listTagsCommand())
	root.AddCommand(c.prefetchCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.importsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newStore opens the on-disk cache at the configured location.
func (c *CLI) newStore() (*cache.Store, error) {
	dir, err := c.cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewStore(dir, cache.WithTagTTL(c.cfg.TagTTL()))
}

// newFetcher wires a registry fetcher over the configured endpoints and
// cache.
func (c *CLI) newFetcher() (*registry.Fetcher, error) {
	store, err := c.newStore()
	if err != nil {
		return nil, err
	}
	transport := registry.NewHTTPTransport(c.cfg.Endpoints())
	return registry.NewFetcher(transport, store, c.Logger), nil
}

// resolveTag picks the package-set tag to operate on: the --tag flag
// when given, otherwise the newest published tag.
func (c *CLI) resolveTag(cmd *cobra.Command) (string, error) {
	if c.tag != "" {
		return c.tag, nil
	}
	f, err := c.newFetcher()
	if err != nil {
		return "", err
	}
	return f.LatestTag(cmd.Context(), c.refresh)
}
