package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/davidbz/costsheet/internal/domain"
	"github.com/davidbz/costsheet/internal/observability"
)

const maxBodyBytes = 1 << 20

// Handler handles HTTP requests.
type Handler struct {
	catalog *domain.CatalogService
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(catalog *domain.CatalogService) *Handler {
	return &Handler{
		catalog: catalog,
	}
}

type catalogResponse struct {
	Catalog *domain.Catalog `json:"catalog"`
	Warning string          `json:"warning,omitempty"`
	Notice  string          `json:"notice,omitempty"`
}

type validationResponse struct {
	Errors     []string        `json:"errors"`
	Catalog    *domain.Catalog `json:"catalog"`
	Submission map[string]any  `json:"submission"`
}

type formResponse struct {
	Submission map[string]any `json:"submission"`
	Warning    string         `json:"warning,omitempty"`
}

type estimateResponse struct {
	Breakdown *domain.CostBreakdown `json:"breakdown"`
	Display   *domain.Display       `json:"display"`
	Warning   string                `json:"warning,omitempty"`
}

type estimateBody struct {
	Model        string         `json:"model"`
	Usage        map[string]any `json:"usage"`
	RequestCount any            `json:"request_count"`
}

// HandleCatalog returns the catalog in effect (GET) or replaces it (POST).
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getCatalog(w, r)
	case http.MethodPost:
		h.submitCatalog(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	loaded, err := h.catalog.Load(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(ctx, w, http.StatusOK, catalogResponse{
		Catalog: loaded.Catalog,
		Warning: loaded.Warning,
	})
}

func (h *Handler) submitCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	input, err := readSubmission(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result, err := h.catalog.Submit(ctx, input)

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(ctx, w, http.StatusUnprocessableEntity, validationResponse{
			Errors:     validationErr.Errors,
			Catalog:    validationErr.Candidate,
			Submission: input,
		})
	case err != nil:
		logger.Error("catalog submission failed", observability.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(ctx, w, http.StatusOK, catalogResponse{
			Catalog: result.Catalog,
			Notice:  result.Notice,
		})
	}
}

// HandleCatalogForm returns the stored catalog in the edit-form shape.
func (h *Handler) HandleCatalogForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()

	loaded, err := h.catalog.Load(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(ctx, w, http.StatusOK, formResponse{
		Submission: domain.SubmissionFromCatalog(loaded.Catalog),
		Warning:    loaded.Warning,
	})
}

// HandleEstimate prices usage given as query parameters (GET) or as a JSON
// or form body (POST).
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.EstimateRequest
	switch r.Method {
	case http.MethodGet:
		req = estimateFromValues(r.URL.Query())
	case http.MethodPost:
		parsed, err := readEstimate(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		req = parsed
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if req.ModelID != "" {
		ctx = observability.WithModel(ctx, req.ModelID)
	}

	estimate, err := h.catalog.Estimate(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrSelectionMiss) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		observability.FromContext(ctx).Error("estimate failed", observability.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(ctx, w, http.StatusOK, estimateResponse{
		Breakdown: estimate.Breakdown,
		Display:   estimate.Display,
		Warning:   estimate.Warning,
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func readSubmission(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isForm(r) {
		if err := parseForm(r); err != nil {
			return nil, err
		}
		return parseBracketForm(r.PostForm), nil
	}

	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, errors.New("body must be a JSON object")
	}

	return input, nil
}

func readEstimate(w http.ResponseWriter, r *http.Request) (domain.EstimateRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isForm(r) {
		if err := parseForm(r); err != nil {
			return domain.EstimateRequest{}, err
		}
		return estimateFromValues(r.Form), nil
	}

	var body estimateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return domain.EstimateRequest{}, err
	}

	req := domain.EstimateRequest{
		ModelID:      body.Model,
		Usage:        make(map[string]string, len(body.Usage)),
		RequestCount: rawText(body.RequestCount),
	}
	for id, v := range body.Usage {
		req.Usage[id] = rawText(v)
	}

	return req, nil
}

func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxBodyBytes)
	}
	return r.ParseForm()
}

func estimateFromValues(values url.Values) domain.EstimateRequest {
	req := domain.EstimateRequest{
		ModelID:      values.Get("model"),
		RequestCount: values.Get("request_count"),
		Usage:        make(map[string]string),
	}

	if usage, ok := parseBracketForm(values)["usage"].(map[string]any); ok {
		for id, v := range usage {
			if s, isText := v.(string); isText {
				req.Usage[id] = s
			}
		}
	}

	return req
}

// rawText renders a decoded JSON scalar the way a user would have typed it.
func rawText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	}
	return ""
}
