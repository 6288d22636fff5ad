package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pevans/linkharvest/scraper"
)

// ExtractConfig holds the extraction settings of the config file. Unset
// fields keep their default values.
type ExtractConfig struct {
	Pattern          string                    `yaml:"pattern"`
	Variant          string                    `yaml:"variant"`
	NormalizeTitles  *bool                     `yaml:"normalize_titles"`
	UntitledLabel    string                    `yaml:"untitled_label"`
	NumberedLabel    string                    `yaml:"numbered_label"`
	LinkAttributes   []string                  `yaml:"link_attributes"`
	ContainerMarkers *scraper.ContainerMarkers `yaml:"container_markers"`
	DebugNeedles     []string                  `yaml:"debug_needles"`
	MaxScriptBytes   *int                      `yaml:"max_script_bytes"`
}

// OutputConfig holds the output settings of the config file.
type OutputConfig struct {
	Format string `yaml:"format"`
	Copy   *bool  `yaml:"copy"`
}

// FileConfig represents the structure of ~/.linkharvest/config.yaml.
type FileConfig struct {
	Extract ExtractConfig `yaml:"extract"`
	Output  OutputConfig  `yaml:"output"`
}

// ConfigFilePath returns the location of the config file.
func ConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".linkharvest", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.linkharvest/config.yaml.
// Returns nil if the file doesn't exist (not an error). Returns error if the
// file exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

const defaultConfigFile = `# linkharvest configuration
extract:
  # Article URL prefix; links are matched as <prefix>/<token>
  pattern: "https://mp.weixin.qq.com/s"
  # enhanced: five strategies, dedup on fragment
  # basic: anchors and scripts, dedup again on fragment and query
  variant: enhanced
  normalize_titles: false
  untitled_label: "(No title)"
  numbered_label: "Article %d"
  link_attributes: [href, data-url, data-link]
  container_markers:
    class: [article, item, list]
    id: [article, item]
  debug_needles: [weixin, mp.weixin]
  # skip inline scripts larger than this many bytes; 0 scans every script
  max_script_bytes: 0
output:
  # report, json, links or table
  format: report
  copy: false
`

// WriteDefaultConfigFile writes the default config file unless one exists
// and force is false. Reports whether a file was written.
func WriteDefaultConfigFile(force bool) (bool, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return false, nil
	}

	// 0700: owner-only access
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigFile), 0o600); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// Apply overlays the file's extraction settings onto cfg.
func (fc *FileConfig) Apply(cfg *scraper.Config) error {
	e := fc.Extract

	if e.Pattern != "" {
		pattern, err := scraper.ParsePattern(e.Pattern)
		if err != nil {
			return err
		}
		cfg.Pattern = pattern
	}
	if e.Variant != "" {
		variant, err := scraper.ParseVariant(e.Variant)
		if err != nil {
			return err
		}
		cfg.Variant = variant
	}
	if e.NormalizeTitles != nil {
		cfg.NormalizeTitles = *e.NormalizeTitles
	}
	if e.UntitledLabel != "" {
		cfg.UntitledLabel = e.UntitledLabel
	}
	if e.NumberedLabel != "" {
		cfg.NumberedLabel = e.NumberedLabel
	}
	if len(e.LinkAttributes) > 0 {
		cfg.LinkAttributes = e.LinkAttributes
	}
	if e.ContainerMarkers != nil {
		cfg.ContainerMarkers = *e.ContainerMarkers
	}
	if len(e.DebugNeedles) > 0 {
		cfg.DebugNeedles = e.DebugNeedles
	}
	if e.MaxScriptBytes != nil {
		cfg.MaxScriptBytes = *e.MaxScriptBytes
	}

	return cfg.Validate()
}
