package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/config"
	"github.com/lexpractice/lexledger/internal/infrastructure/postgres"
	"github.com/lexpractice/lexledger/internal/infrastructure/taxtable"
)

// bcryptGenerate is swapped in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type apiOptions struct {
	baseURL string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &apiOptions{}

	rootCmd := &cobra.Command{
		Use:           "lexledger-cli",
		Short:         "LexLedger CLI tool",
		Long:          `A command line interface for the LexLedger trust ledger and payroll API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the LexLedger API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("LEXLEDGER_TOKEN"), "Bearer token (defaults to $LEXLEDGER_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(payrollCmd(), trustCmd(opts), migrateCmd(), hashPasswordCmd())
	return rootCmd
}

func payrollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Payroll operations",
	}
	cmd.AddCommand(payrollCalcCmd(), payrollScheduleCmd())
	return cmd
}

func payrollScheduleCmd() *cobra.Command {
	var schedulePath string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the tax table as YAML",
		Long: `Print the tax table used by "payroll calc". The output can be edited and
passed back with --schedule or served with TAX_SCHEDULE_PATH.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := loadSchedule(schedulePath)
			if err != nil {
				return err
			}
			return taxtable.Encode(cmd.OutOrStdout(), schedule)
		},
	}
	cmd.Flags().StringVar(&schedulePath, "schedule", "", "YAML tax table to validate and print instead of the built-in one")
	return cmd
}

// loadSchedule returns the table at path, or the built-in one.
func loadSchedule(path string) (*domain.TaxSchedule, error) {
	if path == "" {
		return domain.DefaultTaxSchedule(), nil
	}
	return taxtable.LoadFile(path)
}

func payrollCalcCmd() *cobra.Command {
	var (
		frequency    string
		gross        string
		allowances   string
		overtime     string
		deductions   string
		schedulePath string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate one pay period offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := domain.ParsePayFrequency(frequency)
			if err != nil {
				return fmt.Errorf("--frequency %q: %w", frequency, err)
			}
			in := domain.PayInput{Frequency: freq}

			for _, f := range []struct {
				name string
				raw  string
				dst  *decimal.Decimal
			}{
				{"gross", gross, &in.GrossPay},
				{"allowances", allowances, &in.Allowances},
				{"overtime", overtime, &in.OvertimePay},
				{"deductions", deductions, &in.OtherDeductions},
			} {
				if *f.dst, err = decimal.NewFromString(f.raw); err != nil {
					return fmt.Errorf("--%s: %w", f.name, err)
				}
			}
			if err := in.Validate(); err != nil {
				return err
			}

			schedule, err := loadSchedule(schedulePath)
			if err != nil {
				return err
			}

			calc := domain.NewPayCalculator(schedule).Calculate(in)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), dto.PayCalculationFromDomain(calc, schedule))
			}
			return printPayslip(cmd.OutOrStdout(), calc, schedule)
		},
	}

	cmd.Flags().StringVar(&frequency, "frequency", string(domain.PayFrequencyFortnightly), "Pay frequency: Fortnightly or Monthly")
	cmd.Flags().StringVar(&gross, "gross", "0", "Gross pay for the period")
	cmd.Flags().StringVar(&allowances, "allowances", "0", "Allowances for the period")
	cmd.Flags().StringVar(&overtime, "overtime", "0", "Overtime pay for the period")
	cmd.Flags().StringVar(&deductions, "deductions", "0", "Other deductions for the period")
	cmd.Flags().StringVar(&schedulePath, "schedule", "", "YAML tax table replacing the built-in one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the API response shape instead of a payslip")

	return cmd
}

func printPayslip(w io.Writer, calc domain.PayCalculation, schedule *domain.TaxSchedule) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, line := range calc.Breakdown(schedule.Name, schedule.EmployeeSuperRate) {
		label := line.Label
		if line.Bold {
			label = strings.ToUpper(label)
		}
		fmt.Fprintf(tw, "%s\tK%s\t\n", label, line.Amount.StringFixed(2))
	}
	fmt.Fprintf(tw, "Employer Super\tK%s\t\n", calc.EmployerSuper.StringFixed(2))
	fmt.Fprintf(tw, "Annual Income\tK%s\t\n", calc.AnnualIncome.StringFixed(2))
	fmt.Fprintf(tw, "Annual Tax\tK%s\t\n", calc.AnnualTax.StringFixed(2))
	fmt.Fprintf(tw, "Effective Tax Rate\t%s\t\n", domain.FormatPercent(calc.EffectiveTaxRate))
	fmt.Fprintf(tw, "Take Home\t%s\t\n", domain.FormatPercent(calc.TakeHomePct))
	return tw.Flush()
}

func trustCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Trust ledger operations",
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <matter-id>",
		Short: "Show a matter's trust balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var balance dto.TrustBalanceResponse
			if err := opts.get(cmd.Context(), "/api/v1/matters/"+url.PathEscape(args[0])+"/trust", &balance); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Matter:  %s\nBalance: K%s\n", balance.MatterID, balance.Balance)
			if balance.LatestEntry != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Latest:  %s K%s on %s (%s)\n",
					balance.LatestEntry.TransactionType, balance.LatestEntry.Amount,
					balance.LatestEntry.TransactionDate, truncate(balance.LatestEntry.Description, 40))
			}
			return nil
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <matter-id>",
		Short: "Replay a matter's trust ledger and check its balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dto.ReconciliationResponse
			if err := opts.get(cmd.Context(), "/api/v1/matters/"+url.PathEscape(args[0])+"/trust/reconcile", &result); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:     %d\n", result.EntryCount)
			fmt.Fprintf(out, "Deposits:    K%s\n", result.TotalDeposits)
			fmt.Fprintf(out, "Withdrawals: K%s\n", result.TotalWithdrawals)
			fmt.Fprintf(out, "Calculated:  K%s\n", result.CalculatedBalance)
			fmt.Fprintf(out, "Recorded:    K%s\n", result.RecordedBalance)

			if !result.Consistent {
				if result.Break != nil {
					fmt.Fprintf(out, "Break at entry %s: expected K%s, recorded K%s\n",
						result.Break.EntryID, result.Break.Expected, result.Break.Recorded)
				}
				return errors.New("reconciliation FAILED")
			}
			fmt.Fprintln(out, "Reconciliation PASSED")
			return nil
		},
	}

	cmd.AddCommand(balanceCmd, reconcileCmd)
	return cmd
}

// get fetches path and decodes the envelope's data into out.
func (o *apiOptions) get(ctx context.Context, path string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(o.baseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}
	if !envelope.Success {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, envelope.Message)
	}

	return json.Unmarshal(envelope.Data, out)
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	resolve := func() error {
		if databaseURL != "" && migrationsPath != "" {
			return nil
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if databaseURL == "" {
			databaseURL = cfg.DatabaseURL
		}
		if migrationsPath == "" {
			migrationsPath = cfg.MigrationsPath
		}
		return nil
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (defaults to $DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "Migrations directory (defaults to $MIGRATIONS_PATH)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := resolve(); err != nil {
					return err
				}
				return postgres.RunMigrations(databaseURL, migrationsPath)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := resolve(); err != nil {
					return err
				}
				return postgres.RunMigrationsDown(databaseURL, migrationsPath)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := resolve(); err != nil {
					return err
				}
				version, dirty, err := postgres.MigrationVersion(databaseURL, migrationsPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %v)\n", version, dirty)
				return nil
			},
		},
	)

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for seeding users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
