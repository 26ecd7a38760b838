package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openinfer/pieflow/pkg/config"
	"github.com/openinfer/pieflow/pkg/engine"
	"github.com/openinfer/pieflow/pkg/env"
	"github.com/openinfer/pieflow/pkg/report"
	"github.com/openinfer/pieflow/pkg/runtime/logging"
	"github.com/openinfer/pieflow/pkg/scheduler"
	"github.com/openinfer/pieflow/pkg/version"
	"github.com/openinfer/pieflow/pkg/workflow"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "pieflow",
		Short: "Workflow DAG scheduler for the pie inference engine",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.pieflow/config.yaml)")

	root.AddCommand(runCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type runFlags struct {
	workers int
	timeout string
	payload string
}

// resolveRunOptions merges command-line flags over loaded config. Zero or
// empty flag values mean "keep the configured value".
func resolveRunOptions(cfg *config.Config, fl runFlags) (int, time.Duration, engine.PayloadBuilder, error) {
	workers := cfg.Workers
	if fl.workers > 0 {
		workers = fl.workers
	}

	if fl.timeout != "" {
		cfg.NodeTimeout = fl.timeout
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return 0, 0, nil, err
	}

	mode := cfg.PayloadMode
	if fl.payload != "" {
		mode = fl.payload
	}
	builder, err := engine.ForMode(mode)
	if err != nil {
		return 0, 0, nil, err
	}

	return workers, timeout, builder, nil
}

func runCmd() *cobra.Command {
	var fl runFlags
	var strict bool

	cmd := &cobra.Command{
		Use:   "run <workflow>",
		Short: "Execute a workflow against the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return err
			}

			wf, err := workflow.Load(args[0])
			if err != nil {
				return err
			}
			if err := env.LoadFromDir(wf.Dir); err != nil {
				return err
			}
			if strict {
				if err := workflow.Validate(wf); err != nil {
					return err
				}
			}

			workers, timeout, builder, err := resolveRunOptions(cfg, fl)
			if err != nil {
				return err
			}

			logger := logging.New(cfg.LogLevel, cfg.LogFormat)
			console := &report.Console{Out: os.Stdout, Preview: 100}

			sched, err := scheduler.New(wf, scheduler.Options{
				Client:  &engine.CLIClient{Binary: cfg.EngineBinary, MaxOutput: cfg.MaxOutput},
				Payload: builder,
				Workers: workers,
				Timeout: timeout,
				Logger:  logger,
				Events:  console,
			})
			if err != nil {
				return err
			}

			fmt.Printf("=== Starting Workflow: %s (ID: %s) ===\n", wf.Name, sched.RunID())
			rep, runErr := sched.Run(cmd.Context())
			console.Summary(rep)
			return runErr
		},
	}

	cmd.Flags().IntVar(&fl.workers, "workers", 0, "max concurrent engine calls (default from config)")
	cmd.Flags().StringVar(&fl.timeout, "timeout", "", "per-node engine timeout, e.g. 100s")
	cmd.Flags().StringVar(&fl.payload, "payload", "", "payload mode: lineage or content")
	cmd.Flags().BoolVar(&strict, "strict", false, "validate dependency references before running")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workflow>",
		Short: "Check a workflow's dependency references without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := workflow.Load(args[0])
			if err != nil {
				return err
			}
			if err := workflow.Validate(wf); err != nil {
				return err
			}
			fmt.Printf("%s: %d nodes, ok\n", wf.Name, len(wf.Nodes))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	}
}
