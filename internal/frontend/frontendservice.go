package frontend

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zcleaner/installer-assets/internal/core"
)

const (
	MainPageName = "index.html"
	iconSize     = 64
)

type FrontendService struct {
	coreService *core.CoreService
}

type indexPage struct {
	ProductName string
	Variant     core.Variant
	OutputDir   string
	Assets      []core.AssetConfig
}

func NewFrontendService(coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler)
	e.GET("/"+MainPageName, service.indexHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	config := service.coreService.Config()
	return ctx.Render(http.StatusOK, MainPageName, indexPage{
		ProductName: config.ProductName,
		Variant:     config.Variant,
		OutputDir:   config.OutputDir,
		Assets:      service.coreService.Assets(),
	})
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := service.coreService.GlyphSVG(iconSize)
	if err != nil {
		slog.Error("iconHandler: failed to build icon", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}
