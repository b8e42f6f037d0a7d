package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/logproxy/config"
	"github.com/philipp01105/logproxy/core"
	"github.com/philipp01105/logproxy/logger"
	"github.com/philipp01105/logproxy/metrics"
)

const flushTimeout = 5 * time.Second

type rootOptions struct {
	configPath string
	sinkType   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "logproxy",
		Short:         "Inspect and exercise log dispatcher configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (LOGPROXY_* env vars override it)")
	rootCmd.PersistentFlags().StringVar(&opts.sinkType, "sink", "", "override sink.type: console, stderr, file or nop")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log diagnostics to stderr")

	rootCmd.AddCommand(newExplainCmd(opts), newEmitCmd(opts), newPipeCmd(opts))
	return rootCmd
}

func (o *rootOptions) diagnostics() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// load reads the config file with LOGPROXY_* overrides applied, then the
// command-line overrides.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadWithEnvOverrides(o.configPath)
	if err != nil {
		return cfg, err
	}
	return o.override(cmd, cfg)
}

// parser does what load does for contents the config watcher has read.
func (o *rootOptions) parser(cmd *cobra.Command) func([]byte) (config.Config, error) {
	return func(raw []byte) (config.Config, error) {
		cfg, err := config.ParseWithEnvOverrides(raw)
		if err != nil {
			return cfg, err
		}
		return o.override(cmd, cfg)
	}
}

// override applies --sink and sends console output to the command's writer
// so it can be captured.
func (o *rootOptions) override(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	if o.sinkType != "" {
		cfg.Sink.Type = o.sinkType
	}
	cfg.Sink.Writer = cmd.OutOrStdout()
	return cfg, config.Validate(cfg)
}

func (o *rootOptions) dispatcher(cfg config.Config) (*logger.Dispatcher, io.Closer, error) {
	s, closer, err := cfg.Settings()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewBuilder().WithSettings(s).Build(), closer, nil
}

type locationFlags struct {
	level    string
	tag      string
	fileID   string
	function string
	line     int
}

func (l *locationFlags) register(cmd *cobra.Command, withFunc bool) {
	cmd.Flags().StringVarP(&l.level, "level", "l", "info", "message level")
	cmd.Flags().StringVarP(&l.tag, "tag", "t", "", "message tag")
	cmd.Flags().StringVarP(&l.fileID, "file", "f", "main/main.go", "file identifier, <module>/<file>")
	if withFunc {
		cmd.Flags().StringVar(&l.function, "func", "main", "function name")
		cmd.Flags().IntVar(&l.line, "line", 1, "line number")
	}
}

func (l *locationFlags) caller() logger.CallerInfo {
	return core.CallerInfo{FileID: l.fileID, Function: l.function, Line: l.line}
}

func newExplainCmd(opts *rootOptions) *cobra.Command {
	loc := &locationFlags{}
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show whether a message would be forwarded and which rule decided",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := core.ParseLevel(loc.level)
			if err != nil {
				return err
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			// The sink is irrelevant here.
			cfg.Sink = config.SinkConfig{Type: config.SinkNop}
			d, closer, err := opts.dispatcher(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			dec := d.Explain(level, loc.tag, loc.fileID)
			verdict := "suppress"
			if dec.Forward {
				verdict = "forward"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s module=%s rule=%s\n", verdict, dec.Module, dec.Rule)
			return err
		},
	}
	loc.register(cmd, false)
	return cmd
}

func newEmitCmd(opts *rootOptions) *cobra.Command {
	loc := &locationFlags{}
	var showMetrics bool
	cmd := &cobra.Command{
		Use:   "emit MESSAGE...",
		Short: "Send one message through a configured dispatcher",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			level, err := core.ParseLevel(loc.level)
			if err != nil {
				return err
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			log := opts.diagnostics()
			defer log.Sync() //nolint:errcheck

			d, closer, err := opts.dispatcher(cfg)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, closer.Close()) }()

			msg := strings.Join(args, " ")
			d.Log(level, loc.tag, loc.caller(), func() string { return msg })

			ctx, cancel := context.WithTimeout(cmd.Context(), flushTimeout)
			defer cancel()
			if err := d.Flush(ctx); err != nil {
				return fmt.Errorf("flush: %w", err)
			}
			snap := d.Stats()
			log.Debug("emitted",
				zap.Uint64("forwarded", snap.ForwardedTotal()),
				zap.Uint64("suppressed", snap.SuppressedTotal()),
			)

			if showMetrics {
				return writeMetrics(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
	loc.register(cmd, true)
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print dispatcher metrics in Prometheus text format")
	return cmd
}

func newPipeCmd(opts *rootOptions) *cobra.Command {
	loc := &locationFlags{}
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Emit every stdin line, re-applying the config file when it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := core.ParseLevel(loc.level)
			if err != nil {
				return err
			}
			log := opts.diagnostics()
			defer log.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var d *logger.Dispatcher
			if opts.configPath != "" {
				d = logger.New()
				w := config.NewWatcher(opts.configPath, d,
					config.WithLogger(log),
					config.WithParser(opts.parser(cmd)),
				)
				if err := w.Start(ctx); err != nil {
					return err
				}
				defer w.Close()
			} else {
				cfg, err := opts.load(cmd)
				if err != nil {
					return err
				}
				var closer io.Closer
				d, closer, err = opts.dispatcher(cfg)
				if err != nil {
					return err
				}
				defer closer.Close()
			}

			caller := loc.caller()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				if ctx.Err() != nil {
					break
				}
				line := scanner.Text()
				d.Log(level, loc.tag, caller, func() string { return line })
			}

			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			return multierr.Combine(scanner.Err(), d.Flush(flushCtx))
		},
	}
	loc.register(cmd, true)
	return cmd
}

func writeMetrics(w io.Writer, d *logger.Dispatcher) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector("logproxy", d)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
