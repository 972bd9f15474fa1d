// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	_ "github.com/tomtom215/sightmap/docs"
	"github.com/tomtom215/sightmap/internal/aggregate"
	"github.com/tomtom215/sightmap/internal/models"
	"github.com/tomtom215/sightmap/internal/module"
	"github.com/tomtom215/sightmap/internal/module/moduletest"
	"github.com/tomtom215/sightmap/internal/modules"
	"github.com/tomtom215/sightmap/internal/testinfra"
)

type fakeHealth struct {
	err   error
	state string
}

func (f fakeHealth) Ping(context.Context) error { return f.err }
func (f fakeHealth) BreakerState() string      { return f.state }

func unlimited() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{CORSAllowedOrigins: []string{"*"}, RateLimitDisabled: true}
}

// newTestServer routes every built-in module over store.
func newTestServer(t *testing.T, store aggregate.Store, health HealthChecker, cfg *ChiMiddlewareConfig) http.Handler {
	t.Helper()

	reg := module.NewRegistry()
	if err := reg.Discover(modules.All()); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if health == nil {
		health = fakeHealth{state: "closed"}
	}
	return NewRouter(reg, moduletest.NewPipeline(t, store), health, cfg).Handler()
}

func seededStore(t *testing.T) aggregate.Store {
	t.Helper()
	store := testinfra.NewStore(t)
	testinfra.Seed(t, store,
		testinfra.Sighting("Sylvia communis", 61.677, 29.645),
		testinfra.Sighting("Sylvia communis", 61.677, 29.645),
		testinfra.Sighting("Turdus merula", 60.17, 24.94),
	)
	return store
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return res, string(body)
}

func decodeResponse(t *testing.T, body string) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", body, err)
	}
	return resp
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	res, body := get(t, h, "/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	for _, want := range []string{
		`<a href="/m/overview">Overview</a>`,
		`<a href="/m/spread-map">Spread Map</a>`,
		"Fixed-color scatter plot of species observations",
		`<a href="/" class="active">Sightmap</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if res.Header.Get("X-Frame-Options") != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q", res.Header.Get("X-Frame-Options"))
	}
}

func TestModulePage(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	tests := []struct {
		target string
		want   []string
	}{
		{"/m/overview", []string{"3 records in 2 locations", `<a href="/m/overview" class="active">`}},
		{"/m/species-map", []string{"Choose a species", `<a href="/m/species-map" class="active">`}},
		{"/m/species-map?species=Turdus+merula", []string{"1 records in 1 locations"}},
		{"/m/overview?point_size=banana&opacity=-3", []string{"3 records in 2 locations"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			res, body := get(t, h, tt.target)
			if res.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", res.StatusCode, body)
			}
			if ct := res.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.HasPrefix(body, "<!DOCTYPE html>") {
				t.Error("module document not wrapped in layout")
			}
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
		})
	}
}

func TestModulePage_StoreDown(t *testing.T) {
	h := newTestServer(t, testinfra.FailingStore{}, nil, unlimited())

	res, body := get(t, h, "/m/temporal-map?species=Sylvia+communis")
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", res.StatusCode)
	}
	if !strings.Contains(body, `class="error" role="alert"`) || !strings.Contains(body, "Occurrence data unavailable") {
		t.Errorf("error panel missing: %s", body)
	}
	if strings.Contains(body, testinfra.ErrStoreDown.Error()) {
		t.Error("store error leaked into page")
	}
	if id := res.Header.Get("X-Request-ID"); id == "" || !strings.Contains(body, id) {
		t.Errorf("request ID %q not shown on error page", id)
	}
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	res, body := get(t, h, "/m/nonexistent")
	if res.StatusCode != http.StatusNotFound || !strings.Contains(body, "There is no map at this address.") {
		t.Errorf("page 404 = %d %q", res.StatusCode, body)
	}

	res, body = get(t, h, "/api/v1/nonexistent")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("api 404 status = %d", res.StatusCode)
	}
	if resp := decodeResponse(t, body); resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("api 404 body = %s", body)
	}
}

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]interface{} `json:"properties"`
	} `json:"features"`
}

func TestPoints(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{"all", "", 2},
		{"species filter", "?species=Sylvia+communis", 1},
		{"unknown species selects all", "?species=Nope", 2},
		{"bounds", "?south=61&west=29&north=62&east=30", 1},
		{"empty bounds", "?south=10&west=10&north=11&east=11", 0},
		{"s2 binning", "?s2_level=1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := get(t, h, "/api/v1/points"+tt.query)
			if res.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", res.StatusCode, body)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/geo+json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if res.Header.Get("ETag") == "" {
				t.Error("ETag missing")
			}
			var fc featureCollection
			if err := json.Unmarshal([]byte(body), &fc); err != nil {
				t.Fatalf("invalid GeoJSON: %v", err)
			}
			if fc.Type != "FeatureCollection" {
				t.Errorf("type = %q", fc.Type)
			}
			if len(fc.Features) != tt.wantCount {
				t.Errorf("features = %d, want %d", len(fc.Features), tt.wantCount)
			}
		})
	}
}

func TestPoints_Style(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	_, body := get(t, h, "/api/v1/points?species=Sylvia+communis&point_size=9")
	var fc featureCollection
	if err := json.Unmarshal([]byte(body), &fc); err != nil {
		t.Fatalf("invalid GeoJSON: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(fc.Features))
	}
	f := fc.Features[0]
	if got := f.Geometry.Coordinates; len(got) != 2 || got[0] != 29.645 || got[1] != 61.677 {
		t.Errorf("coordinates = %v, want [lon lat]", got)
	}
	if got := f.Properties["count"]; got != float64(2) {
		t.Errorf("count = %v, want 2", got)
	}
	if got := f.Properties["radius"]; got != float64(9) {
		t.Errorf("radius = %v, want 9", got)
	}
	if got := f.Properties["radius_units"]; got != string(models.RadiusPixels) {
		t.Errorf("radius_units = %v", got)
	}
}

func TestPoints_ColorModes(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	tests := []struct {
		name    string
		query   string
		wantTop []interface{}
	}{
		{"single", "", []interface{}{float64(255), float64(140), float64(0)}},
		{"count", "?color_mode=count", []interface{}{float64(255), float64(0), float64(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, body := get(t, h, "/api/v1/points"+tt.query)
			var fc featureCollection
			if err := json.Unmarshal([]byte(body), &fc); err != nil {
				t.Fatalf("invalid GeoJSON: %v", err)
			}
			for _, f := range fc.Features {
				if f.Properties["count"] != float64(2) {
					continue
				}
				color, ok := f.Properties["color"].([]interface{})
				if !ok || len(color) != 4 {
					t.Fatalf("color = %v", f.Properties["color"])
				}
				for i, want := range tt.wantTop {
					if color[i] != want {
						t.Errorf("color = %v, want rgb %v", color, tt.wantTop)
						break
					}
				}
				if got := f.Properties["opacity"]; got != float64(1) {
					t.Errorf("top opacity = %v, want configured max 1", got)
				}
				return
			}
			t.Fatal("no feature with count 2")
		})
	}
}

func TestPoints_InvalidBounds(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	tests := []struct {
		name  string
		query string
	}{
		{"partial", "?south=10&north=20"},
		{"not a number", "?south=x&west=0&north=1&east=1"},
		{"latitude out of range", "?south=-95&west=0&north=1&east=1"},
		{"longitude out of range", "?south=0&west=0&north=1&east=200"},
		{"north below south", "?south=50&west=0&north=40&east=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := get(t, h, "/api/v1/points"+tt.query)
			if res.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", res.StatusCode)
			}
			resp := decodeResponse(t, body)
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != ErrCodeValidation {
				t.Errorf("body = %s", body)
			}
		})
	}
}

func TestStoreDown_API(t *testing.T) {
	h := newTestServer(t, testinfra.FailingStore{}, nil, unlimited())

	for _, target := range []string{"/api/v1/points", "/api/v1/species"} {
		res, body := get(t, h, target)
		if res.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", target, res.StatusCode)
			continue
		}
		if resp := decodeResponse(t, body); resp.Error == nil || resp.Error.Code != ErrCodeDataUnavailable {
			t.Errorf("%s body = %s", target, body)
		}
		if res.Header.Get("Cache-Control") != "no-store" {
			t.Errorf("%s error response is cacheable", target)
		}
	}
}

func TestSpeciesAndModules(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	res, body := get(t, h, "/api/v1/species")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("species status = %d", res.StatusCode)
	}
	var species struct {
		Data models.SpeciesIndex `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &species); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(species.Data.Names) != 2 || species.Data.Names[0] != "Sylvia communis" || species.Data.Total != 3 {
		t.Errorf("species = %+v", species.Data)
	}

	_, body = get(t, h, "/api/v1/modules")
	var mods struct {
		Data []models.ModuleDescriptor `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &mods); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(mods.Data) != 5 || mods.Data[0].Route != "/m/overview" {
		t.Errorf("modules = %+v", mods.Data)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		target string
		health fakeHealth
		want   int
	}{
		{"live", "/api/v1/health/live", fakeHealth{err: errors.New("down"), state: "open"}, http.StatusOK},
		{"ready", "/api/v1/health/ready", fakeHealth{state: "closed"}, http.StatusOK},
		{"ping fails", "/api/v1/health/ready", fakeHealth{err: errors.New("down"), state: "closed"}, http.StatusServiceUnavailable},
		{"breaker open", "/api/v1/health/ready", fakeHealth{state: "open"}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, testinfra.FailingStore{}, tt.health, unlimited())
			res, body := get(t, h, tt.target)
			if res.StatusCode != tt.want {
				t.Errorf("status = %d, want %d: %s", res.StatusCode, tt.want, body)
			}
			var resp struct {
				Data HealthStatus `json:"data"`
			}
			if err := json.Unmarshal([]byte(body), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Data.Modules != 5 {
				t.Errorf("modules = %d, want 5", resp.Data.Modules)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := &ChiMiddlewareConfig{RateLimitRequests: 2, RateLimitWindow: time.Minute}
	h := newTestServer(t, seededStore(t), nil, cfg)

	for i := 0; i < 2; i++ {
		if res, _ := get(t, h, "/api/v1/modules"); res.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d", i, res.StatusCode)
		}
	}
	res, body := get(t, h, "/api/v1/modules")
	if res.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", res.StatusCode)
	}
	if resp := decodeResponse(t, body); resp.Error == nil || resp.Error.Code != ErrCodeRateLimited {
		t.Errorf("body = %s", body)
	}

	// Health probes are exempt.
	if res, _ := get(t, h, "/api/v1/health/live"); res.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", res.StatusCode)
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/modules", nil)
	req.Header.Set("Origin", "https://maps.example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestSwagger(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"document", "/swagger/doc.json", []string{`"/points"`, `"/species"`, `"/modules"`, `"/health/ready"`, `"count"`}},
		{"ui", "/swagger/index.html", []string{"swagger-ui"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := get(t, h, tt.target)
			if res.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", res.StatusCode)
			}
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("%s missing %s", tt.target, w)
				}
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, seededStore(t), nil, unlimited())

	res, body := get(t, h, "/metrics")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !strings.Contains(body, "modules_registered") {
		t.Error("modules_registered metric missing")
	}
}
