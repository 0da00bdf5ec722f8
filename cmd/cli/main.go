package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/goholdings/internal/adapter/http/dto"
	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/infrastructure/config"
	"github.com/iho/goholdings/internal/infrastructure/logger"
	"github.com/iho/goholdings/internal/infrastructure/postgres"
)

type options struct {
	baseURL string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "goholdings-cli",
		Short:         "GoHoldings CLI tool",
		Long:          `A command line interface for triggering holdings rebuilds and managing the database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoHoldings API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(rebuildCmd(opts), taskCmd(opts), migrateCmd())

	return rootCmd
}

func rebuildCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Enqueue snapshot rebuilds",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tenant <tenant-id>",
		Short: "Rebuild every timeline of a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient(opts).post(cmd.OutOrStdout(), "/api/v1/tenants/"+args[0]+"/rebuild", nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Rebuild every tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient(opts).post(cmd.OutOrStdout(), "/api/v1/tenants/rebuild", nil)
		},
	})

	var req dto.RebuildSecurityRequest
	securityCmd := &cobra.Command{
		Use:   "security",
		Short: "Rebuild one security account and instrument",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient(opts).post(cmd.OutOrStdout(), "/api/v1/securities/rebuild", req)
		},
	}
	securityCmd.Flags().StringVar(&req.AccountID, "account", "", "Security account ID")
	securityCmd.Flags().StringVar(&req.InstrumentID, "instrument", "", "Instrument ID")
	_ = securityCmd.MarkFlagRequired("account")
	_ = securityCmd.MarkFlagRequired("instrument")
	cmd.AddCommand(securityCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "instrument <instrument-id>",
		Short: "Rebuild every holding of an instrument, e.g. after a split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient(opts).post(cmd.OutOrStdout(), "/api/v1/instruments/"+args[0]+"/rebuild", nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cash-account <cash-account-id>",
		Short: "Rebuild balances and deposits of a cash account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient(opts).post(cmd.OutOrStdout(), "/api/v1/cash-accounts/"+args[0]+"/rebuild", nil)
		},
	})

	var (
		currencies []string
		from       string
	)
	rateCmd := &cobra.Command{
		Use:   "rate-correction <tenant-id>",
		Short: "Recompute deposits after exchange rates were corrected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromDate, err := domain.ParseDate(from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			body := dto.RateCorrectionRequest{Currencies: currencies, FromDate: fromDate}
			return newClient(opts).post(cmd.OutOrStdout(), "/api/v1/tenants/"+args[0]+"/rate-corrections", body)
		},
	}
	rateCmd.Flags().StringSliceVar(&currencies, "currencies", nil, "Corrected currencies, comma separated")
	rateCmd.Flags().StringVar(&from, "from", "", "First corrected date (YYYY-MM-DD)")
	_ = rateCmd.MarkFlagRequired("currencies")
	_ = rateCmd.MarkFlagRequired("from")
	cmd.AddCommand(rateCmd)

	return cmd
}

func taskCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect rebuild tasks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <task-id>",
		Short: "Show a rebuild task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient(opts).get(cmd.OutOrStdout(), "/api/v1/tasks/"+args[0])
		},
	})

	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations using DATABASE_URL and MIGRATIONS_PATH",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Up()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Down(steps)
		},
	})

	return cmd
}

func newMigrator() (*postgres.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log := logger.NewWithWriter(logger.Config{Level: cfg.LogLevel, Format: "console", Service: "goholdings-cli"}, os.Stderr)
	return postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log), nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps < 1 {
		return 0, fmt.Errorf("steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newClient(opts *options) *apiClient {
	return &apiClient{
		baseURL: opts.baseURL,
		http:    &http.Client{Timeout: opts.timeout},
	}
}

func (c *apiClient) post(out io.Writer, path string, body any) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(out, req, http.StatusAccepted)
}

func (c *apiClient) get(out io.Writer, path string) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(out, req, http.StatusOK)
}

func (c *apiClient) do(out io.Writer, req *http.Request, want int) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return printJSON(out, body)
}

// printJSON re-indents a JSON body for the terminal.
func printJSON(out io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, err = fmt.Fprintln(out, string(body))
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
