package core

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zcleaner/installer-assets/internal/backend/commandstructure"
	_ "github.com/zcleaner/installer-assets/internal/backend/commands"
	"github.com/zcleaner/installer-assets/internal/backend/database"
	"github.com/zcleaner/installer-assets/internal/backend/encoding"
	"github.com/zcleaner/installer-assets/internal/backend/glyph"
)

// ErrAssetNotFound is returned for asset names missing from the configuration.
var ErrAssetNotFound = errors.New("asset not found")

// GeneratedAsset describes one file written by Generate.
type GeneratedAsset struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int    `json:"size"`
	Checksum string `json:"checksum"`
	// Unchanged is true when the bytes equal the previous generation of this asset.
	Unchanged bool   `json:"unchanged"`
	RecordID  string `json:"recordId,omitempty"`
}

type CoreService struct {
	config          *ServiceConfig
	glyph           glyph.Source
	databaseService database.DatabaseService // nil when history is disabled

	// generateMu serializes writes to the output directory.
	generateMu sync.Mutex
	// drawMu serializes drawing; cached font faces are not safe for concurrent use.
	drawMu sync.Mutex
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	source, err := newGlyphSource(config)
	if err != nil {
		return nil, err
	}

	databaseService, err := getDatabaseService(config)
	if err != nil {
		slog.Error("failed to initialize database service", "error", err)
		return nil, err
	}

	return &CoreService{
		config:          config,
		glyph:           source,
		databaseService: databaseService,
	}, nil
}

func newGlyphSource(config *ServiceConfig) (glyph.Source, error) {
	switch config.Variant {
	case VariantLogo:
		return glyph.NewLogoSource(config.LogoPath), nil
	case VariantProcedural:
		c, err := commandstructure.ParseHexColor(config.Palette.Text)
		if err != nil {
			return nil, fmt.Errorf("invalid text color: %w", err)
		}
		return glyph.NewZSource(c), nil
	}
	return nil, fmt.Errorf("unsupported variant: %q", config.Variant)
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if errors.Is(err, database.ErrHistoryDisabled) {
		slog.Debug("generation history disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

// Config returns the effective configuration
func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

// Assets returns the configured assets in generation order.
func (service *CoreService) Assets() []AssetConfig {
	return append([]AssetConfig(nil), service.config.Assets...)
}

// Asset returns the configured asset with the given name.
func (service *CoreService) Asset(name string) (*AssetConfig, error) {
	for i := range service.config.Assets {
		if service.config.Assets[i].Name == name {
			asset := service.config.Assets[i]
			return &asset, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
}

// Generate renders and writes the named assets, or every configured asset when
// no names are given. The glyph source is prepared before anything is written,
// so a missing logo leaves the output directory untouched. A failure part way
// through keeps the files already written and returns them with the error.
func (service *CoreService) Generate(names ...string) ([]GeneratedAsset, error) {
	assets, err := service.selectAssets(names)
	if err != nil {
		return nil, err
	}

	if err := service.glyph.Prepare(); err != nil {
		slog.Error("glyph source unavailable", "source", service.glyph.Name(), "error", err)
		return nil, err
	}

	service.generateMu.Lock()
	defer service.generateMu.Unlock()

	if err := os.MkdirAll(service.config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", service.config.OutputDir, err)
	}

	runID := database.NewRunID()
	slog.Debug("generation started", "run_id", runID, "variant", service.config.Variant, "assets", len(assets))

	generated := make([]GeneratedAsset, 0, len(assets))
	for _, asset := range assets {
		result, err := service.generateAsset(runID, asset)
		if err != nil {
			return generated, fmt.Errorf("failed to generate %s: %w", asset.File, err)
		}
		generated = append(generated, *result)
	}

	return generated, nil
}

func (service *CoreService) generateAsset(runID string, asset AssetConfig) (*GeneratedAsset, error) {
	data, err := service.render(asset, encoding.Format(asset.Format))
	if err != nil {
		return nil, err
	}

	path := filepath.Join(service.config.OutputDir, asset.File)
	checksum := database.Checksum(data)
	unchanged := service.isUnchanged(asset.Name, path, checksum)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	result := &GeneratedAsset{
		Name:      asset.Name,
		Path:      path,
		Format:    asset.Format,
		Width:     asset.Width,
		Height:    asset.Height,
		Size:      len(data),
		Checksum:  checksum,
		Unchanged: unchanged,
	}

	if service.databaseService != nil {
		id, err := service.databaseService.CreateRecord(&database.AssetRecord{
			RunID:     runID,
			AssetName: asset.Name,
			Path:      path,
			Format:    asset.Format,
			Width:     asset.Width,
			Height:    asset.Height,
			Checksum:  checksum,
			Data:      data,
		})
		if err != nil {
			// The file is already on disk; history is best effort.
			slog.Warn("failed to record asset", "asset", asset.Name, "error", err)
		} else {
			result.RecordID = id
		}
	}

	slog.Info("asset written",
		"asset", asset.Name,
		"path", path,
		"width", asset.Width,
		"height", asset.Height,
		"size_bytes", len(data),
		"unchanged", unchanged)
	return result, nil
}

// isUnchanged compares checksum with the latest history record, or with the
// file currently on disk when history is disabled.
func (service *CoreService) isUnchanged(name, path, checksum string) bool {
	if service.databaseService != nil {
		previous, err := service.databaseService.GetLatestRecord(name)
		if err != nil {
			if !errors.Is(err, database.ErrRecordNotFound) {
				slog.Warn("failed to read asset history", "asset", name, "error", err)
			}
			return false
		}
		return previous.Checksum == checksum
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to read existing asset", "path", path, "error", err)
		}
		return false
	}
	return database.Checksum(existing) == checksum
}

// Render returns the named asset encoded in its configured format without writing it.
func (service *CoreService) Render(name string) ([]byte, *AssetConfig, error) {
	asset, err := service.Asset(name)
	if err != nil {
		return nil, nil, err
	}
	data, err := service.render(*asset, encoding.Format(asset.Format))
	if err != nil {
		return nil, nil, err
	}
	return data, asset, nil
}

// RenderPreview returns the named asset as PNG.
func (service *CoreService) RenderPreview(name string) ([]byte, error) {
	asset, err := service.Asset(name)
	if err != nil {
		return nil, err
	}
	return service.render(*asset, encoding.FormatPNG)
}

func (service *CoreService) render(asset AssetConfig, format encoding.Format) ([]byte, error) {
	img, err := service.draw(asset)
	if err != nil {
		return nil, err
	}
	return encoding.Encode(img, format, service.config.IconSizes)
}

func (service *CoreService) draw(asset AssetConfig) (image.Image, error) {
	service.drawMu.Lock()
	defer service.drawMu.Unlock()

	canvas := commandstructure.NewCanvas(asset.Width, asset.Height, service.glyph)
	if err := commandstructure.ExecuteCommands(canvas, toCommandConfigs(asset.Commands)); err != nil {
		return nil, fmt.Errorf("failed to draw %s: %w", asset.Name, err)
	}
	return canvas.Image, nil
}

func (service *CoreService) selectAssets(names []string) ([]AssetConfig, error) {
	if len(names) == 0 {
		return service.Assets(), nil
	}
	selected := make([]AssetConfig, 0, len(names))
	for _, name := range names {
		asset, err := service.Asset(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, *asset)
	}
	return selected, nil
}

// Records returns the generation history, newest first.
func (service *CoreService) Records() ([]*database.AssetRecord, error) {
	if service.databaseService == nil {
		return nil, database.ErrHistoryDisabled
	}
	return service.databaseService.GetAllRecords()
}

// RecordData returns the encoded bytes stored with a history record. Only the
// newest record of each asset keeps them.
func (service *CoreService) RecordData(id string) ([]byte, error) {
	if service.databaseService == nil {
		return nil, database.ErrHistoryDisabled
	}
	return service.databaseService.GetRecordData(id)
}

// GlyphSVG returns the procedural mark as an SVG document of the given size.
func (service *CoreService) GlyphSVG(size int) ([]byte, error) {
	c, err := commandstructure.ParseHexColor(service.config.Palette.Text)
	if err != nil {
		return nil, err
	}
	return glyph.NewZSource(c).SVG(size), nil
}

func (service *CoreService) Close() error {
	if service.databaseService != nil {
		return service.databaseService.Close()
	}
	return nil
}
