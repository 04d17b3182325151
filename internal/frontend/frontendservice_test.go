package frontend

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jo-hoe/sialiccatalog/internal/backend/assets"
	"github.com/jo-hoe/sialiccatalog/internal/core"
	"github.com/jo-hoe/sialiccatalog/internal/core/coretest"

	"github.com/labstack/echo/v4"
)

func newTestServer(t *testing.T) (*echo.Echo, *core.CoreService) {
	t.Helper()
	fixture := coretest.NewFixture(t)
	config := &core.ServiceConfig{
		Database: core.Database{Type: "sqlite", ConnectionString: ":memory:"},
		Catalog:  core.Catalog{Path: fixture.CatalogPath, NameColumn: "Sialic acid analogues"},
		Images: core.Images{
			URLPrefix: "/compound_images",
			Extension: ".PNG",
			Store:     assets.Config{Root: fixture.ImageRoot},
		},
		Downloads: core.Downloads{Store: assets.Config{Root: fixture.DownloadRoot}},
		Notification: core.Notification{Timeout: time.Second},
	}
	coreService := core.NewCoreService(config)
	t.Cleanup(func() { _ = coreService.Close() })

	e := echo.New()
	NewFrontendService(config, coreService).SetRoutes(e)
	return e, coreService
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexPage(t *testing.T) {
	e, coreService := newTestServer(t)
	board := coreService.Questions()
	ctx := t.Context()
	id, err := board.Submit(ctx, "Is <KDN> a sialic acid?")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := board.Answer(ctx, id, "Yes."); err != nil {
		t.Fatalf("Answer error: %v", err)
	}

	rec := get(e, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Browse all 3 compounds") {
		t.Errorf("expected compound count in page")
	}
	if !strings.Contains(body, "Is &lt;KDN&gt; a sialic acid?") || !strings.Contains(body, "Yes.") {
		t.Errorf("expected escaped answered question in page")
	}
}

func TestIndexRedirect(t *testing.T) {
	e, _ := newTestServer(t)
	rec := get(e, "/index.html")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/" {
		t.Errorf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestBrowseAllPage(t *testing.T) {
	e, _ := newTestServer(t)
	rec := get(e, "/browse_all")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<th>Sialic acid analogues</th>", "<td>Neu5Gc</td>", "<td>C9H16O9</td>"} {
		if !strings.Contains(body, want) {
			t.Errorf("browse page missing %q", want)
		}
	}
}

func TestIconHandler(t *testing.T) {
	e, _ := newTestServer(t)
	rec := get(e, "/icon.svg")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/svg+xml" {
		t.Errorf("unexpected icon response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}
