package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"gopkg.in/yaml.v3"

	"github.com/davidbz/costsheet/internal/config"
	"github.com/davidbz/costsheet/internal/discovery"
	"github.com/davidbz/costsheet/internal/domain"
	"github.com/davidbz/costsheet/internal/httpserver"
	"github.com/davidbz/costsheet/internal/observability"
	"github.com/davidbz/costsheet/internal/schema"
	"github.com/davidbz/costsheet/internal/store/file"
)

const shutdownTimeout = 10 * time.Second

// errCheckFailed is returned by validate when the catalog has problems; the
// problems themselves are already printed.
var errCheckFailed = errors.New("catalog check failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "costsheet",
		Short:         "API usage cost estimator",
		Long:          "Estimates API usage cost in USD and JPY from an editable pricing catalog.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		serveCmd(),
		estimateCmd(),
		validateCmd(),
		showCmd(),
		modelsCmd(),
	)

	return rootCmd
}

// invoke builds a fresh container and runs fn with its dependencies.
func invoke(fn any) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}
	return dig.RootCause(container.Invoke(fn))
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return invoke(func(
				server *httpserver.Server,
				store domain.CatalogStore,
				cfg *config.CatalogConfig,
			) error {
				serveCtx := observability.WithBackend(ctx, cfg.Backend)

				if watcher, ok := store.(*file.Store); ok && cfg.Watch {
					go func() {
						if err := watcher.Watch(serveCtx); err != nil {
							observability.FromContext(serveCtx).Error("catalog watcher stopped", observability.Error(err))
						}
					}()
				}

				errCh := make(chan error, 1)
				go func() {
					errCh <- server.Start()
				}()

				select {
				case err := <-errCh:
					return err
				case <-serveCtx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(serveCtx), shutdownTimeout)
				defer cancel()

				return server.Shutdown(shutdownCtx)
			})
		},
	}
}

func estimateCmd() *cobra.Command {
	var (
		modelID  string
		usage    []string
		requests string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Price usage against the stored catalog",
		Example: "  costsheet estimate --model gpt-x --usage tokens=500,000 --requests 10\n" +
			"  costsheet estimate --usage input=1200 --usage output=300 --output json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			values, err := parseUsage(usage)
			if err != nil {
				return err
			}

			return invoke(func(service *domain.CatalogService) error {
				estimate, err := service.Estimate(cmd.Context(), domain.EstimateRequest{
					ModelID:      modelID,
					Usage:        values,
					RequestCount: requests,
				})
				if err != nil {
					return err
				}

				if estimate.Warning != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning:", estimate.Warning)
				}

				switch output {
				case "json":
					return writeJSON(cmd.OutOrStdout(), estimate.Breakdown)
				case "table":
					return writeEstimate(cmd.OutOrStdout(), estimate)
				default:
					return fmt.Errorf("unknown output format %q (want table or json)", output)
				}
			})
		},
	}

	cmd.Flags().StringVar(&modelID, "model", "", "Model id (default: first model of the catalog)")
	cmd.Flags().StringArrayVar(&usage, "usage", nil, "Usage per request as component=value (repeatable)")
	cmd.Flags().StringVar(&requests, "requests", "", "Number of requests (default 1)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")

	return cmd
}

// parseUsage splits component=value pairs. Values are kept as typed so that
// thousands separators survive.
func parseUsage(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		id, value, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --usage %q (want component=value)", pair)
		}
		out[id] = value
	}
	return out, nil
}

func writeEstimate(w io.Writer, estimate *domain.Estimate) error {
	b, d := estimate.Breakdown, estimate.Display

	fmt.Fprintf(w, "Model:    %s (%s)\n", b.ModelName, b.ModelID)
	fmt.Fprintf(w, "Requests: %s\n\n", d.Requests)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tUSAGE/REQ\tTOTAL UNITS\tUNIT PRICE\tCOST (USD)\tCOST (JPY)")
	for i, item := range d.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Items[i].Label, item.Usage, item.TotalUnits, item.PricePerUnitUSD, item.CostUSD, item.CostJPY)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal:       %s  %s\n", d.TotalUSD, d.TotalJPY)
	_, err := fmt.Fprintf(w, "Per request: %s  %s\n", d.PerRequestUSD, d.PerRequestJPY)
	return err
}

func validateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the stored catalog against the schema and validation rules (CI check)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result *domain.CheckResult

			err := invoke(func(service *domain.CatalogService, validator *schema.Validator) error {
				if path != "" {
					service = domain.NewCatalogService(file.New(path), validator, nil)
				}

				checked, err := service.Check(cmd.Context())
				result = checked
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, issue := range result.SchemaIssues {
				fmt.Fprintln(out, "schema:", issue)
			}
			for _, msg := range result.Errors {
				fmt.Fprintln(out, "error:", msg)
			}

			if !result.OK() {
				return fmt.Errorf("%w: %d schema issue(s), %d error(s)",
					errCheckFailed, len(result.SchemaIssues), len(result.Errors))
			}

			fmt.Fprintf(out, "catalog OK: %d model(s)\n", len(result.Catalog.Models))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Catalog file to check (default: the configured store)")

	return cmd
}

func showCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the catalog in effect",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return invoke(func(service *domain.CatalogService) error {
				loaded, err := service.Load(cmd.Context())
				if err != nil {
					return err
				}

				if loaded.Warning != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning:", loaded.Warning)
				}

				switch output {
				case "json":
					data, err := domain.EncodeCatalog(loaded.Catalog)
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				case "yaml":
					enc := yaml.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent(2)
					if err := enc.Encode(loaded.Catalog); err != nil {
						return fmt.Errorf("failed to encode catalog: %w", err)
					}
					return enc.Close()
				default:
					return fmt.Errorf("unknown output format %q (want json or yaml)", output)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")

	return cmd
}

func modelsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List provider models that have no catalog entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := invoke(func(service *domain.CatalogService, lister *discovery.Lister) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				if all {
					ids, err := lister.ListModels(ctx)
					if err != nil {
						return err
					}
					for _, id := range ids {
						fmt.Fprintln(out, id)
					}
					return nil
				}

				unpriced, err := service.Unpriced(ctx, lister)
				if err != nil {
					return err
				}

				for _, id := range unpriced {
					fmt.Fprintln(out, id)
				}
				fmt.Fprintf(out, "\nUnpriced: %d model(s)\n", len(unpriced))
				return nil
			})
			if errors.Is(err, discovery.ErrNotConfigured) {
				return fmt.Errorf("%w: set OPENAI_API_KEY", err)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every provider model, priced or not")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
