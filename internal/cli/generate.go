package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/zcleaner/installer-assets/internal/backend/glyph"
	"github.com/zcleaner/installer-assets/internal/common"
	"github.com/zcleaner/installer-assets/internal/core"
)

const rule = "============================================================"

// Generate loads the configuration for variant, writes every configured asset
// and prints a summary to out.
func Generate(variant core.Variant, out io.Writer) error {
	config, configPath, err := core.LoadServiceConfig(variant)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := common.ConfigureLogger(config.LogLevel); err != nil {
		slog.Warn("falling back to info log level", "error", err)
	}
	if configPath != "" {
		slog.Debug("configuration loaded", "path", configPath)
	}

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Generating %s installer assets\n", config.ProductName)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)

	coreService, err := core.NewCoreService(config)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := coreService.Close(); cerr != nil {
			slog.Error("failed to close core service", "error", cerr)
		}
	}()

	generated, err := coreService.Generate()
	if errors.Is(err, glyph.ErrLogoNotFound) {
		absolute, _ := filepath.Abs(config.LogoPath)
		fmt.Fprintf(out, "Logo file %q does not exist.\n", config.LogoPath)
		fmt.Fprintln(out, "Place it in the project root:")
		fmt.Fprintf(out, "  %s\n", absolute)
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "All assets were created successfully")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Created files:")
	for _, asset := range generated {
		line := fmt.Sprintf("  %s (%dx%d)", filepath.ToSlash(asset.Path), asset.Width, asset.Height)
		if asset.Unchanged {
			line += " unchanged"
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "These files are ready for the Inno Setup installer.")
	return nil
}
