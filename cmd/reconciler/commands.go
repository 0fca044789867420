package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"manifest-reconciliation/internal/config"
	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/gateway"
	"manifest-reconciliation/internal/logger"
	"manifest-reconciliation/internal/server"
	"manifest-reconciliation/internal/usecase"
)

var (
	// Global flags
	configPath string
	kindFlag   string
	branchFlag string
	verbose    bool

	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Reconcile scanned packages against consolidated manifests",
	Long: `reconciler drives the unloading and inventory reconciliation workflow.

Scanned tracking numbers are validated against the logistics backend and
classified as valid, missing or surplus with respect to the consolidated
manifests expected at the branch. State is persisted locally between runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if kindFlag != "" {
			cfg.Workflow.Kind = kindFlag
		}
		if branchFlag != "" {
			cfg.Workflow.BranchID = branchFlag
		}
		if verbose {
			cfg.App.LogLevel = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// stdout carries the JSON report only
		zl, err := logger.NewZapLogger(cfg.App.LogLevel, "stderr")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = zl
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&kindFlag, "kind", "k", "", "workflow kind: unloading or inventory")
	rootCmd.PersistentFlags().StringVarP(&branchFlag, "branch", "b", "", "branch (subsidiary) id")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	scanCmd.Flags().Bool("replace", false, "replace the scanned input instead of appending to it")
	scanCmd.Flags().Bool("no-validate", false, "only record the scans")
	reportCmd.Flags().String("xlsx", "", "also write the report as an Excel workbook to this path")
	submitCmd.Flags().String("vehicle", "", "vehicle id (defaults to the stored one)")
	serveCmd.Flags().String("port", "", "listen port (defaults to server.port)")

	rootCmd.AddCommand(
		scanCmd,
		validateCmd,
		reportCmd,
		overrideCmd,
		clearOverrideCmd,
		removeCmd,
		vehicleCmd,
		refreshManifestsCmd,
		submitCmd,
		resetCmd,
		serveCmd,
	)
}

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Record scanned tracking numbers and validate them",
	Long: `Reads tracking numbers from a file (.csv, .xlsx, .xls or plain text) or
from stdin when no file is given, records them and validates the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replace, _ := cmd.Flags().GetBool("replace")
		noValidate, _ := cmd.Flags().GetBool("no-validate")

		reader := gateway.NewScanFileReader()
		var (
			lines []string
			err   error
		)
		if len(args) == 0 || args[0] == "-" {
			lines, err = reader.ReadScansFrom(cmd.Context(), cmd.InOrStdin(), "stdin")
		} else {
			lines, err = reader.ReadScans(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}

		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			var in usecase.Ingestion
			if replace {
				in, err = w.Scan(ctx, strings.Join(lines, "\n"))
			} else {
				in, err = w.AddScans(ctx, lines...)
			}
			if err != nil {
				return nil, err
			}
			if len(in.Malformed) > 0 {
				log.Warnf(ctx, "%d scans are not tracking numbers", len(in.Malformed))
			}
			if noValidate || len(in.Candidates) == 0 {
				return w.Report(), nil
			}
			return validateAndAlert(ctx, cmd, w)
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the recorded scans against the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			return validateAndAlert(ctx, cmd, w)
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the current reconciliation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		xlsxPath, _ := cmd.Flags().GetString("xlsx")
		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			report := w.Report()
			if xlsxPath == "" {
				return report, nil
			}
			files, err := a.renderer.Render(ctx, report)
			if err != nil {
				return nil, err
			}
			if err := os.WriteFile(xlsxPath, files[0].Content, 0o644); err != nil {
				return nil, fmt.Errorf("could not write %s: %w", xlsxPath, err)
			}
			return report, nil
		})
	},
}

var overrideCmd = &cobra.Command{
	Use:   "override <tracking-number> <NOT_SCANNED|NOT_TRACKING|NOT_IN_CHARGE>",
	Short: "Assign an override reason to a tracking number",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason := domain.OverrideReason(strings.ToUpper(args[1]))
		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			if err := w.SetOverride(ctx, args[0], reason); err != nil {
				return nil, err
			}
			return w.Report(), nil
		})
	},
}

var clearOverrideCmd = &cobra.Command{
	Use:   "clear-override <tracking-number>",
	Short: "Remove the override reason of a tracking number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			if err := w.ClearOverride(ctx, args[0]); err != nil {
				return nil, err
			}
			return w.Report(), nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <tracking-number>",
	Short: "Forget a scanned tracking number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			if err := w.RemoveShipment(ctx, args[0]); err != nil {
				return nil, err
			}
			return w.Report(), nil
		})
	},
}

var vehicleCmd = &cobra.Command{
	Use:   "vehicle <vehicle-id>",
	Short: "Record the vehicle being unloaded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			if err := w.SetVehicle(ctx, args[0]); err != nil {
				return nil, err
			}
			return w.Report(), nil
		})
	},
}

var refreshManifestsCmd = &cobra.Command{
	Use:   "refresh-manifests",
	Short: "Refetch the consolidated manifests of the branch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			if err := w.RefreshManifests(ctx); err != nil {
				return nil, err
			}
			return w.Report(), nil
		})
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Save the reconciled manifest and upload its report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vehicle, _ := cmd.Flags().GetString("vehicle")
		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			return w.Submit(ctx, vehicle)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the stored workflow state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkflow(cmd, func(ctx context.Context, a *app, w *usecase.Workflow) (interface{}, error) {
			if err := w.Reset(ctx); err != nil {
				return nil, err
			}
			return w.Report(), nil
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflow API for UI clients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = cfg.Server.Port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		registry := server.NewRegistry(a.newWorkflow, log)
		defer registry.Close()

		if cfg.App.Env != "dev" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           server.SetupRoutes(server.NewHandler(registry), log),
			ReadHeaderTimeout: 10 * time.Second,
		}
		monitor := usecase.NewConnectivityMonitor(a.backend, cfg.Connectivity.Interval, log)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Infof(gctx, "listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		g.Go(func() error {
			// runs after every reachable probe; sessions without offline entries skip it
			return monitor.Run(gctx, registry.ResubmitOffline)
		})
		return g.Wait()
	},
}

// withWorkflow loads the configured workflow, runs fn, prints its result as
// JSON and reports pending notifications on stderr.
func withWorkflow(cmd *cobra.Command, fn func(context.Context, *app, *usecase.Workflow) (interface{}, error)) error {
	kind, err := domain.ParseWorkflowKind(cfg.Workflow.Kind)
	if err != nil {
		return err
	}
	if cfg.Workflow.BranchID == "" {
		return fmt.Errorf("a branch is required: use --branch or workflow.branch_id")
	}

	ctx := logger.WithTraceID(cmd.Context(), uuid.NewString())
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	notes := logger.NewBufferedNotifier(log, 0)
	w := a.newWorkflow(kind, cfg.Workflow.BranchID, notes)
	defer w.Close()

	if err := w.Load(ctx); err != nil {
		return err
	}

	out, runErr := fn(ctx, a, w)
	for _, n := range notes.Drain() {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", n.Level, n.Message)
	}
	if runErr != nil {
		return runErr
	}

	output, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}

// validateAndAlert validates immediately and lists packages due today.
func validateAndAlert(ctx context.Context, cmd *cobra.Command, w *usecase.Workflow) (*domain.ReconciliationReport, error) {
	report, err := w.Validate(ctx, true)
	if err != nil {
		return nil, err
	}
	for {
		pkg, ok := w.NextExpiring()
		if !ok {
			break
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "package %s (%s) must be delivered today\n", pkg.TrackingNumber, pkg.RecipientName)
	}
	return report, nil
}
