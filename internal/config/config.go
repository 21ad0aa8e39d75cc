package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ngstart-labs/ngstart/internal/branding"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config holds every tunable of the provisioning pipeline.
type Config struct {
	TemplateURL       string     `mapstructure:"template_url"`
	MarkerFile        string     `mapstructure:"marker_file"`
	NamePlaceholder   string     `mapstructure:"name_placeholder"`
	PrefixPlaceholder string     `mapstructure:"prefix_placeholder"`
	IgnoredPaths      []string   `mapstructure:"ignored_paths"`
	LintConfigFile    string     `mapstructure:"lint_config_file"`
	LintBasePackage   string     `mapstructure:"lint_base_package"`
	InstallCommands   [][]string `mapstructure:"install_commands"`
	CommitMessage     string     `mapstructure:"commit_message"`
	ShallowClone      bool       `mapstructure:"shallow_clone"`
	MinGitVersion     string     `mapstructure:"min_git_version"`

	// LintBase is read straight from the YAML document because viper
	// lower-cases nested keys and lint configs are case-sensitive.
	LintBase map[string]any `mapstructure:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		TemplateURL:       branding.TemplateURL(),
		MarkerFile:        "angular.json",
		NamePlaceholder:   "APP_NAME",
		PrefixPlaceholder: "APP_PREFIX",
		IgnoredPaths:      []string{"node_modules", ".git"},
		LintConfigFile:    "tslint.json",
		LintBasePackage:   "tslint-config-prettier",
		LintBase: map[string]any{
			"extends": []any{"tslint:recommended", "tslint-config-prettier"},
		},
		InstallCommands: [][]string{
			{"npm", "install"},
			{"npx", "ng", "update", "@angular/cli", "@angular/core"},
			{"npm", "update"},
		},
		CommitMessage: "chore: initial commit",
		MinGitVersion: "2.0.0",
	}
}

// Dir returns the path to the config directory (~/.ngstart/).
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the default config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the directory holding path if it does not exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("template_url", d.TemplateURL)
	v.SetDefault("marker_file", d.MarkerFile)
	v.SetDefault("name_placeholder", d.NamePlaceholder)
	v.SetDefault("prefix_placeholder", d.PrefixPlaceholder)
	v.SetDefault("ignored_paths", d.IgnoredPaths)
	v.SetDefault("lint_config_file", d.LintConfigFile)
	v.SetDefault("lint_base_package", d.LintBasePackage)
	v.SetDefault("install_commands", d.InstallCommands)
	v.SetDefault("commit_message", d.CommitMessage)
	v.SetDefault("shallow_clone", d.ShallowClone)
	v.SetDefault("min_git_version", d.MinGitVersion)

	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path (FilePath() when empty) on top of the
// defaults. A missing file is not an error; a file that does not match the
// schema is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FilePath()
	}
	v := newViper(path)

	var doc map[string]any
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		doc, err = validateDocument(path, data)
		if err != nil {
			return nil, err
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.LintBase = Defaults().LintBase
	if base, ok := doc["lint_base"].(map[string]any); ok {
		cfg.LintBase = base
	}

	if cfg.NamePlaceholder == cfg.PrefixPlaceholder {
		return nil, fmt.Errorf("name_placeholder and prefix_placeholder must differ, both are %q", cfg.NamePlaceholder)
	}

	return cfg, nil
}

// scalarKeys are the keys `config set` can write from a command-line string.
var scalarKeys = []string{
	"template_url",
	"marker_file",
	"name_placeholder",
	"prefix_placeholder",
	"ignored_paths",
	"lint_config_file",
	"lint_base_package",
	"commit_message",
	"shallow_clone",
	"min_git_version",
}

// Get returns the effective value of key as a display string.
func Get(path, key string) (string, error) {
	cfg, err := Load(path)
	if err != nil {
		return "", err
	}
	switch key {
	case "template_url":
		return cfg.TemplateURL, nil
	case "marker_file":
		return cfg.MarkerFile, nil
	case "name_placeholder":
		return cfg.NamePlaceholder, nil
	case "prefix_placeholder":
		return cfg.PrefixPlaceholder, nil
	case "ignored_paths":
		return strings.Join(cfg.IgnoredPaths, ","), nil
	case "lint_config_file":
		return cfg.LintConfigFile, nil
	case "lint_base_package":
		return cfg.LintBasePackage, nil
	case "lint_base":
		return fmt.Sprint(cfg.LintBase), nil
	case "install_commands":
		return fmt.Sprint(cfg.InstallCommands), nil
	case "commit_message":
		return cfg.CommitMessage, nil
	case "shallow_clone":
		return strconv.FormatBool(cfg.ShallowClone), nil
	case "min_git_version":
		return cfg.MinGitVersion, nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set writes a config key-value pair and saves the file. List values are
// comma-separated. The rest of the document, comments included, is kept.
func Set(path, key, value string) error {
	if path == "" {
		path = FilePath()
	}
	if !slices.Contains(scalarKeys, key) {
		return fmt.Errorf("config key %q cannot be set from the command line; edit %s", key, path)
	}

	var typed any = value
	switch key {
	case "shallow_clone":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("shallow_clone must be true or false, got %q", value)
		}
		typed = b
	case "ignored_paths":
		paths := []string{}
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		typed = paths
	}

	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	out, err := setYAMLKey(data, key, typed)
	if err != nil {
		return fmt.Errorf("updating config file %s: %w", path, err)
	}
	if _, err := validateDocument(path, out); err != nil {
		return err
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// setYAMLKey sets key in the top-level mapping of a YAML document.
func setYAMLKey(data []byte, key string, value any) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping")
	}

	var valueNode yaml.Node
	if err := valueNode.Encode(value); err != nil {
		return nil, err
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1] = &valueNode
			return yaml.Marshal(&doc)
		}
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&valueNode,
	)
	return yaml.Marshal(&doc)
}
