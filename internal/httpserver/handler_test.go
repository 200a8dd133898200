package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/costsheet/internal/config"
	"github.com/davidbz/costsheet/internal/domain"
	"github.com/davidbz/costsheet/internal/httpserver"
	"github.com/davidbz/costsheet/internal/httpserver/middleware"
	"github.com/davidbz/costsheet/internal/mocks"
	"github.com/davidbz/costsheet/internal/observability"
)

const storedCatalog = `{
    "meta": {"usd_to_jpy": 150},
    "models": [
        {
            "id": "gpt-x",
            "name": "GPT X",
            "pricing": [
                {"id": "tokens", "unit": "1M tokens", "input_unit": "tokens", "unit_size": 1000000, "price_per_unit_usd": 2}
            ]
        }
    ]
}`

func newTestServer(t *testing.T, store domain.CatalogStore) http.Handler {
	t.Helper()

	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	service := domain.NewCatalogService(store, nil, metrics)
	server := httpserver.NewServer(
		&config.ServerConfig{Port: 8080, ReadTimeout: 5, WriteTimeout: 5},
		httpserver.NewHandler(service),
		metrics,
		middleware.Chain(middleware.Trace()),
	)

	return server.Routes()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHandleCatalog_Get(t *testing.T) {
	t.Run("should return the stored catalog", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)
		store.EXPECT().Load(mock.Anything).Return([]byte(storedCatalog), nil)

		w := httptest.NewRecorder()
		newTestServer(t, store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/catalog", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, w.Header().Get("X-Request-Id"))

		body := decodeBody(t, w)
		require.NotContains(t, body, "warning")
		models := body["catalog"].(map[string]any)["models"].([]any)
		require.Len(t, models, 1)
	})

	t.Run("should warn when nothing is stored", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)
		store.EXPECT().Load(mock.Anything).Return(nil, domain.ErrStoreUnavailable)

		w := httptest.NewRecorder()
		newTestServer(t, store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/catalog", nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		require.Contains(t, body["warning"], "catalog not found")
	})

	t.Run("should reject other methods", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)

		w := httptest.NewRecorder()
		newTestServer(t, store).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/catalog", nil))

		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHandleCatalog_Post(t *testing.T) {
	t.Run("should save a json submission", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)
		store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/catalog", strings.NewReader(storedCatalog))
		req.Header.Set("Content-Type", "application/json")
		newTestServer(t, store).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		require.Equal(t, domain.NoticeCatalogSaved, body["notice"])
	})

	t.Run("should save a form submission", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)

		var saved []byte
		store.EXPECT().Save(mock.Anything, mock.Anything).
			Run(func(_ context.Context, data []byte) { saved = data }).
			Return(nil)

		form := url.Values{}
		form.Set("meta[usd_to_jpy]", "148.5")
		form.Set("models[0][id]", "gpt-x")
		form.Set("models[0][pricing][0][id]", "tokens")
		form.Set("models[0][pricing][0][unit_size]", "1,000,000")
		form.Set("models[0][pricing][0][price_per_unit_usd]", "2")
		form.Set("models[0][pricing][0][optional]", "1")
		form.Set("models[0][pricing][1][id]", "")
		form.Set("models[0][pricing][1][unit_size]", "1")
		form.Set("models[0][pricing][1][price_per_unit_usd]", "0")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/catalog", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		newTestServer(t, store).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		persisted, err := domain.DecodeCatalog(saved)
		require.NoError(t, err)
		require.Equal(t, 148.5, persisted.Meta.USDToJPY)
		require.Equal(t, []domain.Component{
			{ID: "tokens", UnitSize: 1000000, PricePerUnitUSD: 2, Optional: true},
		}, persisted.Models[0].Pricing)
	})

	t.Run("should return every validation error with the typed input", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)

		form := url.Values{}
		form.Set("meta[usd_to_jpy]", "0")
		form.Set("models[0][id]", "")
		form.Set("models[0][pricing][0][id]", "tokens")
		form.Set("models[0][pricing][0][unit_size]", "-1")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/catalog", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		newTestServer(t, store).ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeBody(t, w)
		require.Len(t, body["errors"], 3)
		submission := body["submission"].(map[string]any)
		require.Equal(t, "0", submission["meta"].(map[string]any)["usd_to_jpy"])
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should report persistence failures", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)
		store.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("read-only file system"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/catalog", strings.NewReader(storedCatalog))
		newTestServer(t, store).ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Contains(t, decodeBody(t, w)["error"], "read-only file system")
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/catalog", strings.NewReader(`[1,2`))
		newTestServer(t, store).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleCatalogForm(t *testing.T) {
	store := mocks.NewMockCatalogStore(t)
	store.EXPECT().Load(mock.Anything).Return([]byte(storedCatalog), nil)

	w := httptest.NewRecorder()
	newTestServer(t, store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/catalog/form", nil))

	require.Equal(t, http.StatusOK, w.Code)
	submission := decodeBody(t, w)["submission"].(map[string]any)
	component := submission["models"].(map[string]any)["0"].(map[string]any)["pricing"].(map[string]any)["0"].(map[string]any)
	require.Equal(t, "1000000", component["unit_size"])
	require.Equal(t, "2", component["price_per_unit_usd"])
}

func TestHandleEstimate(t *testing.T) {
	t.Run("should price query parameters", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)
		store.EXPECT().Load(mock.Anything).Return([]byte(storedCatalog), nil)

		w := httptest.NewRecorder()
		target := "/v1/estimate?model=gpt-x&request_count=10&" + url.Values{"usage[tokens]": {"500,000"}}.Encode()
		newTestServer(t, store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		breakdown := body["breakdown"].(map[string]any)
		require.InDelta(t, 10.0, breakdown["total_usd"], 1e-12)
		require.InDelta(t, 1500.0, breakdown["total_jpy"], 1e-9)
		require.InDelta(t, 1.0, breakdown["per_request_usd"], 1e-12)
		require.Equal(t, "¥1,500", body["display"].(map[string]any)["total_jpy"])
	})

	t.Run("should price a json body", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)
		store.EXPECT().Load(mock.Anything).Return([]byte(storedCatalog), nil)

		payload, err := json.Marshal(map[string]any{
			"model":         "gpt-x",
			"usage":         map[string]any{"tokens": 250000},
			"request_count": 4,
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/estimate", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		newTestServer(t, store).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		breakdown := decodeBody(t, w)["breakdown"].(map[string]any)
		require.InDelta(t, 2.0, breakdown["total_usd"], 1e-12)
	})

	t.Run("should report no model data", func(t *testing.T) {
		store := mocks.NewMockCatalogStore(t)
		store.EXPECT().Load(mock.Anything).Return([]byte(`{"meta":{"usd_to_jpy":150},"models":[]}`), nil)

		w := httptest.NewRecorder()
		newTestServer(t, store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/estimate?model=gpt-x", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "no model data", decodeBody(t, w)["error"])
	})
}

func TestHandleHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(t, mocks.NewMockCatalogStore(t)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	store := mocks.NewMockCatalogStore(t)
	handler := newTestServer(t, store)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `test_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
