package main

import (
	"fmt"
	"os"

	"github.com/pevans/linkharvest/config"
	"github.com/pevans/linkharvest/scraper"
)

// Output formats
const (
	formatReport = "report"
	formatJSON   = "json"
	formatLinks  = "links"
	formatTable  = "table"
)

// settings is the effective configuration of a command before flags are
// applied.
type settings struct {
	Extract *scraper.Config
	Format  string
	Copy    bool
}

// loadSettings resolves configuration with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (~/.linkharvest/config.yaml)
// 3. Default values (lowest priority)
func loadSettings() (*settings, error) {
	s := &settings{
		Extract: scraper.DefaultConfig(),
		Format:  formatReport,
	}

	// Load config file (if it exists)
	fc, err := config.LoadConfigFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Continuing with defaults and environment variables...\n\n")
	}

	// Apply config file values (if loaded)
	if fc != nil {
		if err := fc.Apply(s.Extract); err != nil {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
		if fc.Output.Format != "" {
			s.Format = fc.Output.Format
		}
		if fc.Output.Copy != nil {
			s.Copy = *fc.Output.Copy
		}
	}

	// Apply environment variables (highest priority)
	if val := os.Getenv("LINKHARVEST_PATTERN"); val != "" {
		pattern, err := scraper.ParsePattern(val)
		if err != nil {
			return nil, fmt.Errorf("invalid LINKHARVEST_PATTERN: %w", err)
		}
		s.Extract.Pattern = pattern
	}
	if val := os.Getenv("LINKHARVEST_VARIANT"); val != "" {
		variant, err := scraper.ParseVariant(val)
		if err != nil {
			return nil, fmt.Errorf("invalid LINKHARVEST_VARIANT: %w", err)
		}
		s.Extract.Variant = variant
	}
	if s.Extract.NormalizeTitles, err = getEnvBool("LINKHARVEST_NORMALIZE", s.Extract.NormalizeTitles); err != nil {
		return nil, err
	}
	if s.Copy, err = getEnvBool("LINKHARVEST_COPY", s.Copy); err != nil {
		return nil, err
	}
	s.Format = getEnv("LINKHARVEST_FORMAT", s.Format)

	if err := validateFormat(s.Format); err != nil {
		return nil, err
	}

	return s, nil
}

func validateFormat(format string) error {
	switch format {
	case formatReport, formatJSON, formatLinks, formatTable:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be report, json, links, or table)", format)
}
