// Package cli wires flags, environment, and configuration files into one
// execution of the query tool and maps failures onto process exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unclesp1d3r/gold-digger/internal/db"
	"github.com/unclesp1d3r/gold-digger/internal/format"
	"github.com/unclesp1d3r/gold-digger/internal/logging"
	tlspolicy "github.com/unclesp1d3r/gold-digger/internal/tls"
)

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, err)
		return ExitCode(err)
	}
	return ExitSuccess
}

// NewRootCmd builds the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gold-digger",
		Short: "MySQL/MariaDB query tool with structured output",
		Long: `gold-digger connects to a MySQL or MariaDB server over TLS, runs a single
query, and writes the result as CSV, JSON, or TSV.

Certificate validation defaults to the platform trust store. Exactly one
override may be selected: --tls-ca-file pins a custom CA,
--insecure-skip-hostname-verify keeps chain and expiry checks while skipping
the hostname match, and --allow-invalid-certificate disables validation
entirely (testing only).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.String("db-url", "", "Database connection URL (env "+envDatabaseURL+")")
	flags.StringP("query", "q", "", "SQL query string")
	flags.String("query-file", "", "File containing the SQL query")
	flags.StringP("output", "o", "", "Output file path (env "+envOutputFile+"; default stdout)")
	flags.String("format", "", "Output format override: csv, json, or tsv")
	flags.StringP("config", "c", "", "Path to configuration file (YAML)")
	flags.CountP("verbose", "v", "Increase diagnostic verbosity (repeatable)")
	flags.Bool("quiet", false, "Suppress all diagnostics except errors")
	flags.Bool("pretty", false, "Pretty-print JSON output")
	flags.Bool("allow-empty", false, "Exit successfully on empty result sets")
	flags.Bool("dump-config", false, "Print the resolved configuration as JSON and exit")

	flags.String("tls-ca-file", "", "Path to a CA certificate file used as the trust anchor")
	flags.Bool("insecure-skip-hostname-verify", false, "Skip hostname verification (keeps chain and expiry validation)")
	flags.Bool("allow-invalid-certificate", false, "Disable certificate validation entirely (DANGEROUS)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Detail: "invalid arguments", Cause: err}
	})

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging, cmd.ErrOrStderr())

	if cfg.DumpConfig {
		return cfg.DumpJSON(cmd.OutOrStdout())
	}

	query, err := resolveQuery(cfg)
	if err != nil {
		return err
	}

	emitter := tlspolicy.NewWarningEmitter(logger, cmd.ErrOrStderr())
	connector, err := tlspolicy.BuildConnector(cfg.TLS, emitter, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	conn, err := db.Open(ctx, cfg.DBURL, connector, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return err
	}

	if err := writeOutput(cfg, rows, cmd.OutOrStdout()); err != nil {
		return err
	}

	if len(rows) <= 1 && !cfg.AllowEmpty {
		return ErrNoRows
	}
	return nil
}

func resolveConfig(cmd *cobra.Command) (*Config, error) {
	flags := cmd.Flags()

	cfg := &Config{}
	cfg.DBURL, _ = flags.GetString("db-url")
	cfg.Query, _ = flags.GetString("query")
	cfg.QueryFile, _ = flags.GetString("query-file")
	cfg.Output, _ = flags.GetString("output")
	cfg.Format, _ = flags.GetString("format")
	cfg.Pretty, _ = flags.GetBool("pretty")
	cfg.AllowEmpty, _ = flags.GetBool("allow-empty")
	cfg.DumpConfig, _ = flags.GetBool("dump-config")
	cfg.Logging.Verbose, _ = flags.GetCount("verbose")
	cfg.Logging.Quiet, _ = flags.GetBool("quiet")
	cfg.TLS.CAFile, _ = flags.GetString("tls-ca-file")
	cfg.TLS.SkipHostnameVerify, _ = flags.GetBool("insecure-skip-hostname-verify")
	cfg.TLS.AllowInvalid, _ = flags.GetBool("allow-invalid-certificate")

	if cfg.DBURL == "" {
		cfg.DBURL = os.Getenv(envDatabaseURL)
	}
	if cfg.Output == "" {
		cfg.Output = os.Getenv(envOutputFile)
	}

	if configPath, _ := flags.GetString("config"); configPath != "" {
		file, err := loadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg.merge(file)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveQuery(cfg *Config) (string, error) {
	if cfg.Query != "" {
		return cfg.Query, nil
	}
	data, err := os.ReadFile(cfg.QueryFile)
	if err != nil {
		return "", err
	}
	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", &UsageError{Detail: fmt.Sprintf("query file %s is empty", cfg.QueryFile)}
	}
	return query, nil
}

func writeOutput(cfg *Config, rows [][]string, stdout io.Writer) error {
	out := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	writer, err := format.New(cfg.OutputFormat(), out, cfg.Pretty)
	if err != nil {
		return &UsageError{Detail: err.Error()}
	}

	if err := writer.WriteHeader(rows[0]); err != nil {
		return err
	}
	for _, row := range rows[1:] {
		if err := writer.WriteRow(row); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// printError reports the failure on stderr. Structured TLS errors include
// their remediation suggestions.
func printError(w io.Writer, err error) {
	var tlsErr *tlspolicy.TLSError
	if errors.As(err, &tlsErr) {
		fmt.Fprintln(w, "Error:", tlsErr.GetDetailedMessage())
		return
	}
	fmt.Fprintln(w, "Error:", err)
}
