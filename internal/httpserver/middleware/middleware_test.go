package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/costsheet/internal/config"
	"github.com/davidbz/costsheet/internal/httpserver/middleware"
	"github.com/davidbz/costsheet/internal/observability"
)

func tag(name string, order *[]string) middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*order = append(*order, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestChain(t *testing.T) {
	t.Run("should run middlewares in the given order", func(t *testing.T) {
		var order []string
		handler := middleware.Chain(tag("first", &order), tag("second", &order))(
			http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				order = append(order, "handler")
			}),
		)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("should pass through with no middlewares", func(t *testing.T) {
		w := httptest.NewRecorder()
		middleware.Chain()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusTeapot, w.Code)
	})
}

func TestTrace(t *testing.T) {
	var traceID, requestID string
	handler := middleware.Trace()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		traceID = observability.GetTraceID(r.Context())
		requestID = observability.GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/estimate", nil))

	require.NotEmpty(t, traceID)
	require.NotEmpty(t, requestID)
	require.Equal(t, traceID, w.Header().Get("X-Trace-Id"))
	require.Equal(t, requestID, w.Header().Get("X-Request-Id"))
}

func TestCORS(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins: []string{"https://sheet.example.com"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}

	handler := middleware.BuildMiddlewareChain(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("should allow a configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
		req.Header.Set("Origin", "https://sheet.example.com")

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, "https://sheet.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("should ignore an unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
		req.Header.Set("Origin", "https://elsewhere.example.com")

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

func TestInstrument(t *testing.T) {
	t.Run("should record the route label and status", func(t *testing.T) {
		recorder := &fakeRecorder{}
		handler := middleware.Instrument(recorder, "/v1/estimate")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/estimate?model=x", nil))

		require.Equal(t, []recordedRequest{{method: http.MethodPost, route: "/v1/estimate", status: http.StatusNotFound}}, recorder.requests)
	})

	t.Run("should default to 200 when the handler never writes a header", func(t *testing.T) {
		recorder := &fakeRecorder{}
		handler := middleware.Instrument(recorder, "/health")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, recorder.requests[0].status)
	})

	t.Run("should pass through with a nil recorder", func(t *testing.T) {
		w := httptest.NewRecorder()
		middleware.Instrument(nil, "/health")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusAccepted, w.Code)
	})
}
