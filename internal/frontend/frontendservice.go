package frontend

import (
	"log/slog"
	"net/http"

	"github.com/jo-hoe/sialiccatalog/internal/backend/database"
	"github.com/jo-hoe/sialiccatalog/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName   = "index.html"
	BrowsePageName = "browse_all.html"
	pageTitle      = "Sialic Acid Analogues"
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

type indexPage struct {
	Title         string
	NameColumn    string
	CompoundCount int
	Answered      []*database.Question
}

type browsePage struct {
	Columns []string
	Rows    [][]string
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

// rootRedirectHandler redirects /index.html to the root page
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/")
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = newTemplate()

	e.GET("/", service.indexHandler)
	e.GET("/"+MainPageName, service.rootRedirectHandler)
	e.GET("/browse_all", service.browseAllHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	answered, err := service.coreService.Questions().ListAnswered(ctx.Request().Context())
	if err != nil {
		// the page still works without the Q&A section
		slog.Error("indexHandler: failed to list answered questions", "error", err)
		answered = nil
	}
	catalog := service.coreService.Catalog()
	return ctx.Render(http.StatusOK, MainPageName, indexPage{
		Title:         pageTitle,
		NameColumn:    catalog.NameColumn(),
		CompoundCount: len(catalog.Names()),
		Answered:      answered,
	})
}

func (service *FrontendService) browseAllHandler(ctx echo.Context) error {
	catalog := service.coreService.Catalog()
	columns := catalog.Columns()
	page := browsePage{Columns: columns, Rows: make([][]string, 0, catalog.Len())}
	for _, compound := range catalog.Compounds() {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i], _ = compound.Field(column)
		}
		page.Rows = append(page.Rows, row)
	}
	return ctx.Render(http.StatusOK, BrowsePageName, page)
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}
