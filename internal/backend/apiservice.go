package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zcleaner/installer-assets/internal/backend/database"
	"github.com/zcleaner/installer-assets/internal/backend/encoding"
	"github.com/zcleaner/installer-assets/internal/backend/glyph"
	"github.com/zcleaner/installer-assets/internal/core"
)

type APIService struct {
	coreService *core.CoreService
}

// AssetView is the JSON description of a configured asset.
type AssetView struct {
	Name       string `json:"name"`
	File       string `json:"file"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Format     string `json:"format"`
	URL        string `json:"url"`
	PreviewURL string `json:"previewUrl"`
}

// GenerateRequest selects assets to write; an empty list selects all of them.
type GenerateRequest struct {
	Assets []string `json:"assets" validate:"omitempty,dive,required"`
}

type GenerateResponse struct {
	Assets []core.GeneratedAsset `json:"assets"`
}

func NewAPIService(coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.GET("/api/assets", s.listAssetsHandler)
	e.GET("/api/assets/:name", s.getAssetHandler)
	e.GET("/api/assets/:name/preview", s.getAssetPreviewHandler)
	e.POST("/api/generate", s.generateHandler)
	e.GET("/api/records", s.listRecordsHandler)
	e.GET("/api/records/:id/data", s.getRecordDataHandler)
}

func (s *APIService) listAssetsHandler(ctx echo.Context) error {
	assets := s.coreService.Assets()
	views := make([]AssetView, 0, len(assets))
	for _, asset := range assets {
		views = append(views, AssetView{
			Name:       asset.Name,
			File:       asset.File,
			Width:      asset.Width,
			Height:     asset.Height,
			Format:     asset.Format,
			URL:        "/api/assets/" + asset.Name,
			PreviewURL: "/api/assets/" + asset.Name + "/preview",
		})
	}
	return ctx.JSON(http.StatusOK, views)
}

func (s *APIService) getAssetHandler(ctx echo.Context) error {
	name := ctx.Param("name")
	data, asset, err := s.coreService.Render(name)
	if err != nil {
		return s.renderError(name, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", asset.File))
	setNoCache(ctx)
	return ctx.Blob(http.StatusOK, encoding.ContentType(encoding.Format(asset.Format)), data)
}

func (s *APIService) getAssetPreviewHandler(ctx echo.Context) error {
	name := ctx.Param("name")
	data, err := s.coreService.RenderPreview(name)
	if err != nil {
		return s.renderError(name, err)
	}

	setNoCache(ctx)
	return ctx.Blob(http.StatusOK, encoding.ContentType(encoding.FormatPNG), data)
}

func (s *APIService) generateHandler(ctx echo.Context) error {
	var request GenerateRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request body: %v", err))
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	generated, err := s.coreService.Generate(request.Assets...)
	if err != nil {
		slog.Error("generateHandler: generation failed", "assets", request.Assets, "written", len(generated), "error", err)
		return s.renderError("", err)
	}
	return ctx.JSON(http.StatusOK, GenerateResponse{Assets: generated})
}

func (s *APIService) listRecordsHandler(ctx echo.Context) error {
	records, err := s.coreService.Records()
	if errors.Is(err, database.ErrHistoryDisabled) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		slog.Error("listRecordsHandler: failed to list records", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list records")
	}
	if records == nil {
		records = []*database.AssetRecord{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (s *APIService) getRecordDataHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	data, err := s.coreService.RecordData(id)
	switch {
	case errors.Is(err, database.ErrHistoryDisabled), errors.Is(err, database.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case err != nil:
		slog.Error("getRecordDataHandler: failed to read record data", "record_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read record data")
	}
	return ctx.Blob(http.StatusOK, http.DetectContentType(data), data)
}

// renderError maps rendering failures to HTTP errors.
func (s *APIService) renderError(name string, err error) error {
	switch {
	case errors.Is(err, core.ErrAssetNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, glyph.ErrLogoNotFound):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	slog.Error("failed to render asset", "asset", name, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "failed to render asset")
}

func setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
