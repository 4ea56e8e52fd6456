package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	serveradapter "github.com/defensoria/expedientes/internal/adapters/server"
	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/config"
	"github.com/defensoria/expedientes/internal/metrics"
	"github.com/defensoria/expedientes/internal/platform"
)

// version is replaced at link time for release builds.
var version = "dev"

// serveCommandRunner starts the HTTP server. Tests replace it to avoid binding a port.
var serveCommandRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
	return serveradapter.Run(ctx, cfg, deps)
}

// rootOptions carries the persistent flags shared by every command.
type rootOptions struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := fang.Execute(ctx, newRootCommand(os.Stdout, os.Stderr), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree without fang styling.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true
	return root.ExecuteContext(ctx)
}

// newRootCommand builds the full command tree.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr, appName: platform.DefaultAppName}
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("EXPEDIENTES_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("EXPEDIENTES_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:           "expedientes",
		Short:         "Case management for expedientes, actuaciones and tramites",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.dbPath, "db", "", "path to sqlite database (forces the sqlite driver)")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newPathsCommand(opts),
		newIdentityCommand(opts),
		newServeCommand(opts),
		newExpedientCommand(opts),
		newActuacionCommand(opts),
		newTramiteCommand(opts),
		newNotificationsCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
	)
	return root
}

// withEnv opens the runtime for one command and always releases it.
func (o *rootOptions) withEnv(cmd *cobra.Command, fn func(*runtimeEnv) error) error {
	env, err := o.open(cmd.Context(), cmd.CommandPath())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := env.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(o.stderr, "warning: close runtime: %v\n", closeErr)
		}
	}()
	env.logger.Debug("command flow start", "command", cmd.CommandPath())
	if err := fn(env); err != nil {
		env.logger.Error("command flow failed", "command", cmd.CommandPath(), "err", err)
		return err
	}
	env.logger.Debug("command flow complete", "command", cmd.CommandPath())
	return nil
}

func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", opts.resolveConfigPath(paths))
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
			_, _ = fmt.Fprintf(out, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

func newIdentityCommand(opts *rootOptions) *cobra.Command {
	var user, office string
	cmd := &cobra.Command{
		Use:   "identidad",
		Short: "Set the operator recorded as actor on mutations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			configPath := opts.resolveConfigPath(paths)
			if err := config.UpsertIdentity(configPath, user, office); err != nil {
				return fmt.Errorf("persist identity: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "identity saved to %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "usuario", "", "operator name")
	cmd.Flags().StringVar(&office, "oficina", "", "operator office")
	_ = cmd.MarkFlagRequired("usuario")
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var bind, apiEndpoint string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API, health probes and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				tracker := app.NewPendingSignatureTracker(env.svc, env.logger.Component("pending"))
				detachTracker, err := tracker.Attach(cmd.Context(), env.bus)
				if err != nil {
					return fmt.Errorf("load pending signatures: %w", err)
				}
				defer detachTracker()

				m := metrics.New(tracker.Total)
				defer m.Attach(env.bus)()

				cfg := serveradapter.Config{
					HTTPBind:    firstNonEmpty(bind, env.cfg.Server.Bind),
					APIEndpoint: firstNonEmpty(apiEndpoint, env.cfg.Server.APIEndpoint),
				}
				env.logger.Info("pending signatures loaded", "total", tracker.Total())
				return serveCommandRunner(cmd.Context(), cfg, serveradapter.Dependencies{
					Service: env.svc,
					Metrics: m,
					Logger:  env.logger.Component("http"),
					Ready:   env.ready,
				})
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "listen address (defaults to server.bind)")
	cmd.Flags().StringVar(&apiEndpoint, "api-endpoint", "", "API mount path (defaults to server.api_endpoint)")
	return cmd
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				return runExport(cmd.Context(), env.svc, outPath, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				return runImport(cmd.Context(), env.svc, inPath)
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot JSON file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

// runExport writes the snapshot to outPath or stdout.
func runExport(ctx context.Context, svc *app.Service, outPath string, stdout io.Writer) error {
	snap, err := svc.ExportSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "" || outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// runImport loads a snapshot file into the service.
func runImport(ctx context.Context, svc *app.Service, inPath string) error {
	if strings.TrimSpace(inPath) == "" {
		return fmt.Errorf("--in is required")
	}
	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return fmt.Errorf("decode snapshot json: %w", err)
	}
	if err := svc.ImportSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
