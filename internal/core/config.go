package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator"
	"github.com/zcleaner/installer-assets/internal/backend/commandstructure"
	"github.com/zcleaner/installer-assets/internal/backend/encoding"
	"gopkg.in/yaml.v3"
)

// Variant selects where the glyph comes from.
type Variant string

const (
	VariantLogo       Variant = "logo"
	VariantProcedural Variant = "procedural"
)

const (
	DefaultLogoPath    = "ChatGPT Image 3 sept. 2025, 20_01_25.png"
	DefaultProductName = "Z-Cleaner"
	DefaultFontPath    = "/System/Library/Fonts/Helvetica.ttc"
	DefaultFontSize    = 24
	DefaultPort        = 8080
	DefaultLogLevel    = "info"

	defaultLabelGap = 20
)

// CommandConfig represents a generic command configuration
type CommandConfig struct {
	Name   string         `yaml:"name" json:"name"`
	Params map[string]any `yaml:",inline" json:"params,omitempty"`
}

type Database struct {
	Type             string `yaml:"type" validate:"omitempty,oneof=none sqlite redis"`
	ConnectionString string `yaml:"connectionString"`
}

// Palette holds "#rrggbb" colors shared by the default assets.
type Palette struct {
	Primary string `yaml:"primary" validate:"required"`
	Dark    string `yaml:"dark" validate:"required"`
	Text    string `yaml:"text" validate:"required"`
}

type Font struct {
	Path string  `yaml:"path"`
	Size float64 `yaml:"size" validate:"gt=0"`
}

// AssetConfig describes one output file and the commands that draw it.
type AssetConfig struct {
	Name     string          `yaml:"name" validate:"required"`
	File     string          `yaml:"file" validate:"required"`
	Width    int             `yaml:"width" validate:"min=1,max=4096"`
	Height   int             `yaml:"height" validate:"min=1,max=4096"`
	Format   string          `yaml:"format" validate:"omitempty,oneof=ico bmp png"`
	Commands []CommandConfig `yaml:"commands" validate:"required,min=1"`
}

type ServiceConfig struct {
	Variant     Variant       `yaml:"variant" validate:"oneof=logo procedural"`
	LogoPath    string        `yaml:"logoPath"`
	OutputDir   string        `yaml:"outputDir" validate:"required"`
	ProductName string        `yaml:"productName"`
	LogLevel    string        `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
	Port        int           `yaml:"port" validate:"min=0,max=65535"`
	IconSizes   []int         `yaml:"iconSizes" validate:"dive,min=1,max=256"`
	Palette     Palette       `yaml:"palette"`
	Font        Font          `yaml:"font"`
	Database    Database      `yaml:"database"`
	Assets      []AssetConfig `yaml:"assets" validate:"dive"`
}

// GetConfigPath returns the path from CONFIG_PATH, or config.yaml in the
// working directory. explicit reports whether the environment variable was set.
func GetConfigPath() (path string, explicit bool) {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath, true
	}

	// Default to config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return "config.yaml", false
	}
	return filepath.Join(cwd, "config.yaml"), false
}

// LoadServiceConfig loads the configuration from GetConfigPath. A missing
// default file yields the built-in defaults; a missing file named by
// CONFIG_PATH is an error. A non-empty variant overrides the file's.
func LoadServiceConfig(variant Variant) (*ServiceConfig, string, error) {
	configPath, explicit := GetConfigPath()
	if !explicit {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			config, err := DefaultConfig(variant)
			return config, "", err
		}
	}
	config, err := LoadConfig(configPath, variant)
	return config, configPath, err
}

// DefaultConfig returns the built-in configuration for a variant.
func DefaultConfig(variant Variant) (*ServiceConfig, error) {
	config := &ServiceConfig{Variant: variant}
	if err := config.finalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string, variant Variant) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if variant != "" {
		config.Variant = variant
	}
	if err := config.finalize(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

// finalize fills unset fields with the variant defaults and validates the result.
func (c *ServiceConfig) finalize() error {
	c.applyDefaults()

	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := encoding.NormalizeIconSizes(c.IconSizes); err != nil {
		return err
	}
	for _, hex := range []string{c.Palette.Primary, c.Palette.Dark, c.Palette.Text} {
		if _, err := commandstructure.ParseHexColor(hex); err != nil {
			return fmt.Errorf("invalid palette color: %w", err)
		}
	}
	return validateAssets(c.Assets)
}

func (c *ServiceConfig) applyDefaults() {
	c.Variant = Variant(strings.ToLower(string(c.Variant)))
	if c.Variant == "" {
		c.Variant = VariantLogo
	}
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir(c.Variant)
	}
	if c.LogoPath == "" && c.Variant == VariantLogo {
		c.LogoPath = DefaultLogoPath
	}
	if c.ProductName == "" {
		c.ProductName = DefaultProductName
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Palette.Primary == "" {
		c.Palette.Primary = "#3f7fff"
	}
	if c.Palette.Dark == "" {
		c.Palette.Dark = "#2962ff"
	}
	if c.Palette.Text == "" {
		c.Palette.Text = "#ffffff"
	}
	if c.Font.Path == "" {
		c.Font.Path = DefaultFontPath
	}
	if c.Font.Size == 0 {
		c.Font.Size = DefaultFontSize
	}
	if len(c.IconSizes) == 0 {
		c.IconSizes = append([]int(nil), encoding.DefaultIconSizes...)
	}
	if len(c.Assets) == 0 {
		c.Assets = DefaultAssets(c)
	}
	for i := range c.Assets {
		if c.Assets[i].Format == "" {
			if format, err := encoding.FormatFromFile(c.Assets[i].File); err == nil {
				c.Assets[i].Format = string(format)
			}
		}
		c.Assets[i].Format = strings.ToLower(c.Assets[i].Format)
	}
}

func defaultOutputDir(variant Variant) string {
	if variant == VariantProcedural {
		return filepath.Join("installer", "assets")
	}
	return "installer"
}

// DefaultAssets returns the icon, wizard image and small wizard image for the
// configured variant, drawn with the configured palette.
func DefaultAssets(c *ServiceConfig) []AssetConfig {
	iconBox, bannerBox, smallBox, bannerOffset := 220, 140, 50, -40
	if c.Variant == VariantProcedural {
		iconBox, bannerBox, smallBox, bannerOffset = 200, 120, 45, -30
	}

	fill := CommandConfig{Name: "SolidFillCommand", Params: map[string]any{"color": c.Palette.Primary}}
	glyph := func(box, offsetY int) CommandConfig {
		params := map[string]any{"box": box}
		if offsetY != 0 {
			params["offsetY"] = offsetY
		}
		return CommandConfig{Name: "GlyphCompositeCommand", Params: params}
	}

	banner := []CommandConfig{
		{Name: "GradientFillCommand", Params: map[string]any{"from": c.Palette.Primary, "to": c.Palette.Dark}},
		glyph(bannerBox, bannerOffset),
	}
	if c.Variant == VariantProcedural {
		banner = append(banner, CommandConfig{Name: "LabelCommand", Params: map[string]any{
			"text":     c.ProductName,
			"color":    c.Palette.Text,
			"fontPath": c.Font.Path,
			"fontSize": c.Font.Size,
			"gap":      defaultLabelGap,
		}})
	}

	return []AssetConfig{
		{
			Name:     "icon",
			File:     "icon.ico",
			Width:    256,
			Height:   256,
			Format:   string(encoding.FormatICO),
			Commands: []CommandConfig{fill, glyph(iconBox, 0)},
		},
		{
			Name:     "wizard-image",
			File:     "wizard-image.bmp",
			Width:    164,
			Height:   314,
			Format:   string(encoding.FormatBMP),
			Commands: banner,
		},
		{
			Name:     "wizard-small-image",
			File:     "wizard-small-image.bmp",
			Width:    55,
			Height:   55,
			Format:   string(encoding.FormatBMP),
			Commands: []CommandConfig{fill, glyph(smallBox, 0)},
		},
	}
}

// validateAssets ensures asset names and files are unique and each command list is well formed
func validateAssets(assets []AssetConfig) error {
	seenNames := make(map[string]bool)
	seenFiles := make(map[string]bool)

	for i, asset := range assets {
		if seenNames[asset.Name] {
			return fmt.Errorf("duplicate asset name: %s", asset.Name)
		}
		seenNames[asset.Name] = true

		if seenFiles[asset.File] {
			return fmt.Errorf("duplicate asset file: %s", asset.File)
		}
		seenFiles[asset.File] = true

		if asset.Format == "" {
			return fmt.Errorf("asset %s (index %d): cannot derive format from file %q", asset.Name, i, asset.File)
		}
		if asset.Format == string(encoding.FormatICO) && (asset.Width > encoding.MaxIconSize || asset.Height > encoding.MaxIconSize) {
			return fmt.Errorf("asset %s: icon canvas %dx%d exceeds %d", asset.Name, asset.Width, asset.Height, encoding.MaxIconSize)
		}

		if err := validateCommands(asset.Commands); err != nil {
			return fmt.Errorf("asset %s: invalid command configuration: %w", asset.Name, err)
		}
	}

	return nil
}

// validateCommands ensures all command configurations have required fields
func validateCommands(commands []CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		// Validate name is not empty
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}

		// Validate name is unique
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true
	}

	return nil
}

// toCommandConfigs converts configured commands for the command registry.
func toCommandConfigs(commands []CommandConfig) []commandstructure.CommandConfig {
	out := make([]commandstructure.CommandConfig, len(commands))
	for i, cmd := range commands {
		out[i] = commandstructure.CommandConfig{Name: cmd.Name, Params: cmd.Params}
	}
	return out
}
