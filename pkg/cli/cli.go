// Package cli implements the point command line: flag parsing, the
// decode/filter/encode run and the self-update subcommand.
package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Fepozopo/point/pkg/config"
	"github.com/Fepozopo/point/pkg/filter"
	"github.com/Fepozopo/point/pkg/logging"
)

// runError marks failures that happen after the arguments were accepted;
// they are reported without the usage text.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

type options struct {
	input     string
	output    string
	filter    string
	axis      string
	direction string
	percent   float64
	times     float64

	strict      bool
	configPath  string
	metricsFile string
	reportFile  string
}

// NewRootCommand builds the point command tree.
func NewRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "point -i <input> -o <output> -f <filter> [flags]",
		Short: "Apply a point filter to a JPEG image",
		Long: "point reads a JPEG image, applies one filter and writes the result as a JPEG.\n\n" +
			"Filters:\n" + filterHelp(),
		Args:          cobra.NoArgs,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if math.IsNaN(opts.percent) {
				return errors.New("invalid argument \"NaN\" for \"-p, --percent\"")
			}
			if math.IsNaN(opts.times) {
				return errors.New("invalid argument \"NaN\" for \"-t, --times\"")
			}

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return &runError{err}
			}
			logging.Configure(logging.Options{
				Level:  cfg.Log.Level,
				JSON:   cfg.Log.JSON,
				Output: cmd.ErrOrStderr(),
			})

			job := Job{
				Input:  opts.input,
				Output: opts.output,
				Request: filter.Request{
					Filter:     filter.Filter(opts.filter),
					Percent:    opts.percent,
					Multiplier: opts.times,
					Axis:       filter.Axis(opts.axis),
					Direction:  filter.Direction(opts.direction),
				},
				Quality:     cfg.Quality,
				Strict:      opts.strict || cfg.Strict,
				MetricsFile: opts.metricsFile,
				ReportFile:  opts.reportFile,
			}
			if _, err := Run(job); err != nil {
				return &runError{err}
			}
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("point {{.Version}}\n")

	addFlags(cmd.Flags(), &opts)
	for _, name := range []string{"input-file", "out-file", "filter"} {
		_ = cmd.MarkFlagRequired(name)
	}

	cmd.AddCommand(newUpdateCommand())
	return cmd
}

func addFlags(f *pflag.FlagSet, opts *options) {
	def := filter.DefaultRequest("")
	f.StringVarP(&opts.input, "input-file", "i", "", "Input JPEG File")
	f.StringVarP(&opts.output, "out-file", "o", "", "Output JPEG File")
	f.StringVarP(&opts.filter, "filter", "f", "", "Filter ("+filter.Names()+")")
	f.StringVarP(&opts.axis, "axis", "a", string(def.Axis), "Axis (x, y)")
	f.StringVarP(&opts.direction, "direction", "d", string(def.Direction), "Direction (left, right)")
	f.Float64VarP(&opts.percent, "percent", "p", def.Percent, "Percent (for brightness)")
	f.Float64VarP(&opts.times, "times", "t", def.Multiplier, "Multiplier (for contrast)")
	f.BoolVar(&opts.strict, "strict", false, "Fail instead of writing the image unchanged when the filter cannot run")
	f.StringVar(&opts.configPath, "config", "", "YAML config file (default $POINT_CONFIG)")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	f.StringVar(&opts.reportFile, "report", "", "Write a YAML run report to this file")
}

func newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check for a newer release and install it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := newUpdater().checkForUpdates(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return &runError{err}
			}
			return nil
		},
	}
}

func filterHelp() string {
	var b strings.Builder
	for _, s := range filter.Filters {
		fmt.Fprintf(&b, "  %-32s %s\n", s.Usage, s.Description)
	}
	return b.String()
}

func versionString() string {
	v, err := semver.ParseTolerant(Version)
	if err != nil {
		return Version
	}
	return v.String()
}

// Execute runs the command line with args and returns the process exit code.
// Help and version go to stdout; diagnostics go to stderr.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	var re *runError
	if errors.As(err, &re) {
		fmt.Fprintf(stderr, "point: %v\n", re.err)
		return 1
	}
	fmt.Fprintf(stderr, "point: %v\n", err)
	if cmd == nil {
		cmd = root
	}
	fmt.Fprint(stderr, cmd.UsageString())
	return 1
}
