package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yanqian/birthchart/internal/infra/chartapi"
	"github.com/yanqian/birthchart/pkg/logger"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// popupSession is the only visitor a terminal ever has.
const popupSession = "popup"

type rootOptions struct {
	backend  string
	logLevel string
}

func (o *rootOptions) client() *chartapi.Client {
	return chartapi.NewClient(o.backend)
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logger.NewText(cmd.ErrOrStderr(), o.logLevel)
}

// NewRootCmd creates the chartctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "chartctl",
		Short: "Sidereal birth chart calculator",
		Long: `chartctl collects birth details, sends them to the sidereal chart service
and prints the planetary positions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, opts, &calculateOptions{interactive: true})
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", chartapi.DefaultBaseURL, "Chart service base URL")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newCalculateCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("chartctl %s\n", Version)
		},
	}
}
