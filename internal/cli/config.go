package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/unclesp1d3r/gold-digger/internal/format"
	"github.com/unclesp1d3r/gold-digger/internal/logging"
	tlspolicy "github.com/unclesp1d3r/gold-digger/internal/tls"
)

// Environment variables honored when the matching flag is absent.
const (
	envDatabaseURL = "DATABASE_URL"
	envOutputFile  = "OUTPUT_FILE"
)

// Config is the fully resolved execution configuration. Precedence:
// flag > environment > config file > default.
type Config struct {
	DBURL      string
	Query      string
	QueryFile  string
	Output     string
	Format     string
	Pretty     bool
	AllowEmpty bool
	DumpConfig bool
	Logging    logging.Options
	TLS        tlspolicy.Options
}

// fileConfig is the YAML configuration file schema. Pointer fields
// distinguish "absent" from "false".
type fileConfig struct {
	DBURL      string            `yaml:"db_url"`
	Output     string            `yaml:"output"`
	Format     string            `yaml:"format"`
	Pretty     *bool             `yaml:"pretty"`
	AllowEmpty *bool             `yaml:"allow_empty"`
	TLS        tlspolicy.Options `yaml:"tls"`
}

func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &UsageError{Detail: fmt.Sprintf("parse config file %s", path), Cause: err}
	}
	return &cfg, nil
}

// merge applies file-level values underneath anything already set.
func (c *Config) merge(file *fileConfig) {
	if c.DBURL == "" {
		c.DBURL = file.DBURL
	}
	if c.Output == "" {
		c.Output = file.Output
	}
	if c.Format == "" {
		c.Format = file.Format
	}
	if file.Pretty != nil && !c.Pretty {
		c.Pretty = *file.Pretty
	}
	if file.AllowEmpty != nil && !c.AllowEmpty {
		c.AllowEmpty = *file.AllowEmpty
	}
	if c.TLS.CAFile == "" {
		c.TLS.CAFile = file.TLS.CAFile
	}
	if !c.TLS.SkipHostnameVerify {
		c.TLS.SkipHostnameVerify = file.TLS.SkipHostnameVerify
	}
	if !c.TLS.AllowInvalid {
		c.TLS.AllowInvalid = file.TLS.AllowInvalid
	}
}

// validate checks cross-field constraints that cobra cannot express.
func (c *Config) validate() error {
	if c.Query != "" && c.QueryFile != "" {
		return &UsageError{Detail: "--query and --query-file are mutually exclusive"}
	}
	if c.Query == "" && c.QueryFile == "" && !c.DumpConfig {
		return &UsageError{Detail: "a query is required: pass --query or --query-file"}
	}
	if c.DBURL == "" && !c.DumpConfig {
		return &UsageError{Detail: "a database URL is required: pass --db-url or set " + envDatabaseURL}
	}
	if c.Logging.Quiet && c.Logging.Verbose > 0 {
		return &UsageError{Detail: "--quiet and --verbose are mutually exclusive"}
	}
	if c.Format != "" && c.Format != format.CSV && c.Format != format.JSON && c.Format != format.TSV {
		return &UsageError{Detail: fmt.Sprintf("unknown format %q: expected csv, json, or tsv", c.Format)}
	}
	return nil
}

// OutputFormat returns the explicit format or the one implied by the output
// path, falling back to TSV.
func (c *Config) OutputFormat() string {
	if c.Format != "" {
		return c.Format
	}
	return format.FromExtension(c.Output)
}

// DumpJSON writes the resolved configuration as JSON with the database URL
// reduced to scheme://host:port and credentials removed.
func (c *Config) DumpJSON(w io.Writer) error {
	view := map[string]any{
		"db_url":      tlspolicy.RedactURL(c.DBURL),
		"query_file":  c.QueryFile,
		"output":      c.Output,
		"format":      c.OutputFormat(),
		"pretty":      c.Pretty,
		"allow_empty": c.AllowEmpty,
		"tls": map[string]any{
			"ca_file":              c.TLS.CAFile,
			"skip_hostname_verify": c.TLS.SkipHostnameVerify,
			"allow_invalid":        c.TLS.AllowInvalid,
		},
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(view)
}
