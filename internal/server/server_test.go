package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"Yplus/internal/calc/yplus"
	"Yplus/internal/config"
	"Yplus/internal/repo"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.TokenKey = "test-key"
	cfg.RateLimit = 1000
	cfg.RateBurst = 1000
	return cfg
}

func do(h http.Handler, method, target, contentType string, body []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	h := New(testConfig(), nil)
	calcBody, _ := json.Marshal(yplus.DefaultInput())
	form := url.Values{}
	for k, v := range yplus.DefaultValues() {
		form.Set(k, v)
	}

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        []byte
		want        int
	}{
		{"form", http.MethodGet, "/", "", nil, http.StatusOK},
		{"submit", http.MethodPost, "/", "application/x-www-form-urlencoded", []byte(form.Encode()), http.StatusOK},
		{"health", http.MethodGet, "/healthz", "", nil, http.StatusOK},
		{"calc", http.MethodPost, "/api/tools/yplus/calc", "application/json", calcBody, http.StatusOK},
		{"calc wrong method not routed", http.MethodGet, "/api/tools/yplus/calc", "", nil, http.StatusNotFound},
		{"inverse", http.MethodPost, "/api/tools/yplus/inverse", "application/json", []byte(`{"reynolds_number":1e5,"characteristic_length_m":1,"density_kg_m3":1.225,"viscosity_pa_s":1.8e-5,"first_cell_height_m":6e-3}`), http.StatusOK},
		{"fields", http.MethodGet, "/api/tools/yplus/fields", "", nil, http.StatusOK},
		{"template", http.MethodGet, "/api/tools/yplus/template", "", nil, http.StatusOK},
		{"preflight", http.MethodOptions, "/api/tools/yplus/calc", "", nil, http.StatusNoContent},
		{"accounts disabled", http.MethodPost, "/api/login", "application/json", []byte(`{}`), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.target, tt.contentType, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAccountFlow(t *testing.T) {
	h := New(testConfig(), repo.NewMemoryRepository())

	rec := do(h, http.MethodPost, "/api/user/calculations", "application/json", []byte(`{}`))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	rec = do(h, http.MethodPost, "/api/register", "application/json",
		[]byte(`{"login":"ana","email":"ana@example.com","password":"secret1"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie")
	}
	if cookies[0].Secure {
		t.Error("cookie marked Secure without TLS")
	}

	save, _ := json.Marshal(map[string]any{"label": "plate", "input": yplus.DefaultInput()})
	rec = do(h, http.MethodPost, "/api/user/calculations", "application/json", save, cookies...)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(h, http.MethodGet, "/api/user/calculations", "", nil, cookies...)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"label":"plate"`) {
		t.Errorf("list = %d %s", rec.Code, rec.Body.String())
	}

	batchBody, _ := json.Marshal(map[string]any{"items": []yplus.Input{yplus.DefaultInput()}})
	rec = do(h, http.MethodPost, "/api/user/tools/yplus/batch", "application/json", batchBody, cookies...)
	if rec.Code != http.StatusOK {
		t.Errorf("batch status = %d", rec.Code)
	}

	reportBody, _ := json.Marshal(map[string]any{"project": "demo", "case": yplus.DefaultInput()})
	rec = do(h, http.MethodPost, "/api/user/tools/yplus/report", "application/json", reportBody, cookies...)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("report status = %d, type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	h := New(cfg, nil)

	body, _ := json.Marshal(yplus.DefaultInput())
	if rec := do(h, http.MethodPost, "/api/tools/yplus/calc", "application/json", body); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	if rec := do(h, http.MethodPost, "/api/tools/yplus/calc", "application/json", body); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/", "", nil); rec.Code != http.StatusOK {
		t.Errorf("form is not rate limited, status = %d", rec.Code)
	}
}
