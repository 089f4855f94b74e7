package backend

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/zcleaner/installer-assets/internal/backend/database"
	"github.com/zcleaner/installer-assets/internal/common"
	"github.com/zcleaner/installer-assets/internal/core"
)

func newTestServer(t *testing.T, configure func(*core.ServiceConfig)) (*echo.Echo, *core.ServiceConfig) {
	t.Helper()

	config, err := core.DefaultConfig(core.VariantProcedural)
	if err != nil {
		t.Fatal(err)
	}
	config.OutputDir = filepath.Join(t.TempDir(), "installer")
	if configure != nil {
		configure(config)
	}

	coreService, err := core.NewCoreService(config)
	if err != nil {
		t.Fatalf("NewCoreService failed: %v", err)
	}
	t.Cleanup(func() { _ = coreService.Close() })

	e := echo.New()
	e.Validator = &common.GenericEchoValidator{}
	NewAPIService(coreService).SetRoutes(e)
	return e, config
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProbe(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := doRequest(e, http.MethodGet, "/probe", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestListAssets(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := doRequest(e, http.MethodGet, "/api/assets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var views []AssetView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 3 {
		t.Fatalf("Expected 3 assets, got %d", len(views))
	}
	if views[0].Name != "icon" || views[0].Format != "ico" || views[0].URL != "/api/assets/icon" {
		t.Errorf("Unexpected first asset %+v", views[0])
	}
}

func TestGetAsset(t *testing.T) {
	e, _ := newTestServer(t, nil)

	tests := []struct {
		target      string
		status      int
		contentType string
	}{
		{target: "/api/assets/icon", status: http.StatusOK, contentType: "image/x-icon"},
		{target: "/api/assets/wizard-image", status: http.StatusOK, contentType: "image/bmp"},
		{target: "/api/assets/wizard-small-image/preview", status: http.StatusOK, contentType: "image/png"},
		{target: "/api/assets/splash", status: http.StatusNotFound},
		{target: "/api/assets/splash/preview", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := doRequest(e, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d", tt.status, rec.Code)
			}
			if tt.contentType != "" && rec.Header().Get(echo.HeaderContentType) != tt.contentType {
				t.Errorf("Expected %s, got %s", tt.contentType, rec.Header().Get(echo.HeaderContentType))
			}
		})
	}
}

func TestGetAssetPreview_IsPNG(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := doRequest(e, http.MethodGet, "/api/assets/wizard-image/preview", "")
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("preview is not PNG: %v", err)
	}
	if img.Bounds().Dx() != 164 || img.Bounds().Dy() != 314 {
		t.Errorf("Expected 164x314, got %v", img.Bounds())
	}
}

func TestGenerate(t *testing.T) {
	e, config := newTestServer(t, nil)

	rec := doRequest(e, http.MethodPost, "/api/generate", `{"assets":["icon","wizard-small-image"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response GenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if len(response.Assets) != 2 {
		t.Fatalf("Expected 2 generated assets, got %d", len(response.Assets))
	}
	for _, file := range []string{"icon.ico", "wizard-small-image.bmp"} {
		if _, err := os.Stat(filepath.Join(config.OutputDir, file)); err != nil {
			t.Errorf("Expected %s to be written: %v", file, err)
		}
	}
	if _, err := os.Stat(filepath.Join(config.OutputDir, "wizard-image.bmp")); !os.IsNotExist(err) {
		t.Error("Expected wizard-image.bmp not to be written")
	}
}

func TestGenerate_AllAssets(t *testing.T) {
	e, config := newTestServer(t, nil)

	rec := doRequest(e, http.MethodPost, "/api/generate", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	entries, err := os.ReadDir(config.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 files, got %d", len(entries))
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*core.ServiceConfig)
		body      string
		status    int
	}{
		{name: "unknown asset", body: `{"assets":["splash"]}`, status: http.StatusNotFound},
		{name: "empty asset name", body: `{"assets":[""]}`, status: http.StatusBadRequest},
		{name: "malformed body", body: `{"assets":`, status: http.StatusBadRequest},
		{
			name: "missing logo",
			configure: func(c *core.ServiceConfig) {
				c.Variant = core.VariantLogo
				c.LogoPath = filepath.Join(os.TempDir(), "definitely-missing-logo.png")
			},
			body:   `{}`,
			status: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestServer(t, tt.configure)
			rec := doRequest(e, http.MethodPost, "/api/generate", tt.body)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListRecords(t *testing.T) {
	e, _ := newTestServer(t, func(c *core.ServiceConfig) {
		c.Database = core.Database{Type: "sqlite", ConnectionString: ":memory:"}
	})

	rec := doRequest(e, http.MethodGet, "/api/records", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("Expected empty list, got %d %s", rec.Code, rec.Body.String())
	}

	if rec := doRequest(e, http.MethodPost, "/api/generate", `{}`); rec.Code != http.StatusOK {
		t.Fatalf("generate failed: %d", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/api/records", "")
	var records []database.AssetRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].AssetName != "wizard-small-image" || records[0].Checksum == "" {
		t.Errorf("Unexpected newest record %+v", records[0])
	}
}

func TestListRecords_HistoryDisabled(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := doRequest(e, http.MethodGet, "/api/records", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestGetRecordData(t *testing.T) {
	e, config := newTestServer(t, func(c *core.ServiceConfig) {
		c.Database = core.Database{Type: "sqlite", ConnectionString: ":memory:"}
	})

	listNewest := func() database.AssetRecord {
		t.Helper()
		if rec := doRequest(e, http.MethodPost, "/api/generate", `{"assets":["wizard-small-image"]}`); rec.Code != http.StatusOK {
			t.Fatalf("generate failed: %d", rec.Code)
		}
		var records []database.AssetRecord
		rec := doRequest(e, http.MethodGet, "/api/records", "")
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatal(err)
		}
		return records[0]
	}

	first := listNewest()
	rec := doRequest(e, http.MethodGet, "/api/records/"+first.ID+"/data", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	written, err := os.ReadFile(filepath.Join(config.OutputDir, "wizard-small-image.bmp"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rec.Body.Bytes(), written) {
		t.Error("Expected stored bytes to equal the written file")
	}
	if database.Checksum(rec.Body.Bytes()) != first.Checksum {
		t.Error("Expected stored bytes to match the record checksum")
	}

	second := listNewest()
	if second.ID == first.ID {
		t.Fatal("Expected a new record for the second run")
	}
	if rec := doRequest(e, http.MethodGet, "/api/records/"+first.ID+"/data", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected superseded data to be gone, got %d", rec.Code)
	}
	if rec := doRequest(e, http.MethodGet, "/api/records/"+second.ID+"/data", ""); rec.Code != http.StatusOK {
		t.Errorf("Expected newest data, got %d", rec.Code)
	}
}

func TestGetRecordData_HistoryDisabled(t *testing.T) {
	e, _ := newTestServer(t, nil)
	if rec := doRequest(e, http.MethodGet, "/api/records/any/data", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
