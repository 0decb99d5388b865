// Command schedctl inspects credentials, navigation decisions and calendar
// projections without running the gateway.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"room-scheduler/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalOptions are shared by every subcommand
type globalOptions struct {
	now     string
	verbose bool
}

// clock returns the evaluation instant: --now when given, else the wall clock
func (o *globalOptions) clock() (func() time.Time, error) {
	if o.now == "" {
		return time.Now, nil
	}
	t, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return nil, fmt.Errorf("--now must be RFC3339: %w", err)
	}
	return func() time.Time { return t }, nil
}

func (o *globalOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := logger.New("dev", "debug")
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "schedctl",
		Short: "Inspect room scheduler credentials and calendars",
		Long: `schedctl runs the gateway's authorization and calendar logic offline.

Available subcommands:
  decode    - Decode a credential and report whether it is usable
  authorize - Evaluate a dashboard navigation for a credential
  project   - Project schedule rows into calendar events`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.now, "now", "", "evaluate at this RFC3339 instant instead of the current time")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(
		newDecodeCmd(opts),
		newAuthorizeCmd(opts),
		newProjectCmd(opts),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
