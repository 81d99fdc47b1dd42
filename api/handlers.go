package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/qrlink/constant"
	"github.com/prasetyowira/qrlink/domain/qrlink"
	"github.com/prasetyowira/qrlink/domain/urlcheck"
	appLogger "github.com/prasetyowira/qrlink/infrastructure/logger"
	"github.com/prasetyowira/qrlink/infrastructure/render"
)

// Service is the slice of the code service the handlers depend on
type Service interface {
	CreateCode(ctx context.Context, destination, customSlug, label string, style *qrlink.Style, logoDataURI string) (*qrlink.Code, error)
	GetCode(ctx context.Context, slug string) (*qrlink.Code, error)
	ListCodes(ctx context.Context) ([]*qrlink.Code, error)
	UpdateDestination(ctx context.Context, slug, destination string) (*qrlink.Code, error)
	UpdateStyle(ctx context.Context, slug string, style qrlink.Style, logoDataURI string) (*qrlink.Code, error)
	DeleteCode(ctx context.Context, slug string) error
	Resolve(ctx context.Context, slug string) (*qrlink.Code, error)
	ManagedURL(slug string) string
	RenderSVG(ctx context.Context, slug string, variant qrlink.SVGVariant) (string, error)
	ExportPNG(ctx context.Context, slug string, width int, transparent bool) ([]byte, error)
	ExportPDF(ctx context.Context, slug string, opts render.PDFOptions) ([]byte, error)
	ExportPDFPreset(ctx context.Context, slug, preset string) ([]byte, error)
}

// Handler contains service dependencies for API handlers
type Handler struct {
	service Service
}

// CreateCodeRequest is the request object for the CreateCode endpoint
type CreateCodeRequest struct {
	Destination string        `json:"destination"`
	Slug        string        `json:"slug,omitempty"`
	Label       string        `json:"label,omitempty"`
	Style       *qrlink.Style `json:"style,omitempty"`
	LogoDataURI string        `json:"logo_data_uri,omitempty"`
}

// UpdateDestinationRequest is the request object for the UpdateDestination endpoint
type UpdateDestinationRequest struct {
	Destination string `json:"destination"`
}

// UpdateStyleRequest is the request object for the UpdateStyle endpoint
type UpdateStyleRequest struct {
	Style       qrlink.Style `json:"style"`
	LogoDataURI string       `json:"logo_data_uri,omitempty"`
}

// ValidateURLRequest is the request object for the ValidateURL endpoint
type ValidateURLRequest struct {
	URL string `json:"url"`
}

// ValidateURLResponse carries the validator verdict back to the dashboard
type ValidateURLResponse struct {
	Valid      bool   `json:"valid"`
	Rule       string `json:"rule,omitempty"`
	Message    string `json:"message,omitempty"`
	Normalized string `json:"normalized,omitempty"`
}

// CodeResponse is the response object for code operations
type CodeResponse struct {
	Slug        string       `json:"slug"`
	Destination string       `json:"destination"`
	Label       string       `json:"label,omitempty"`
	ManagedURL  string       `json:"managed_url"`
	Style       qrlink.Style `json:"style"`
	LogoDataURI string       `json:"logo_data_uri,omitempty"`
	Scans       uint         `json:"scans"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ListCodesResponse is the response object for the ListCodes endpoint
type ListCodesResponse struct {
	Codes []CodeResponse `json:"codes"`
	Count int            `json:"count"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewHandler creates a new API handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) codeResponse(code *qrlink.Code) CodeResponse {
	return CodeResponse{
		Slug:        code.Slug,
		Destination: code.Destination,
		Label:       code.Label,
		ManagedURL:  h.service.ManagedURL(code.Slug),
		Style:       code.Style,
		LogoDataURI: code.LogoDataURI,
		Scans:       code.Scans,
		CreatedAt:   code.CreatedAt,
		UpdatedAt:   code.UpdatedAt,
	}
}

// CreateCode handles code creation
func (h *Handler) CreateCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	appLogger.CtxDebug(ctx, constant.MsgHandlingCreateRequest, appLogger.LoggerInfo{
		ContextFunction: constant.CtxCreateCode,
	})

	var req CreateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		appLogger.CtxError(ctx, "Error decoding request body", appLogger.LoggerInfo{
			ContextFunction: constant.CtxCreateCode,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIDecodeRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})

		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	code, err := h.service.CreateCode(ctx, req.Destination, req.Slug, req.Label, req.Style, req.LogoDataURI)
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxCreateCode, "Failed to create code", err)
		return
	}

	appLogger.CtxInfo(ctx, "Code created successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxCreateCode,
		Data: map[string]interface{}{
			constant.DataSlug:        code.Slug,
			constant.DataDestination: code.Destination,
		},
	})

	WriteJSON(w, h.codeResponse(code), http.StatusCreated)
}

// GetCode handles retrieving one code
func (h *Handler) GetCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	code, err := h.service.GetCode(ctx, slug)
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxGetCode, "Failed to retrieve code", err)
		return
	}

	WriteJSON(w, h.codeResponse(code), http.StatusOK)
}

// ListCodes handles listing every code for the dashboard
func (h *Handler) ListCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	codes, err := h.service.ListCodes(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxListCodes, "Failed to list codes", err)
		return
	}

	resp := ListCodesResponse{
		Codes: make([]CodeResponse, 0, len(codes)),
		Count: len(codes),
	}
	for _, code := range codes {
		resp.Codes = append(resp.Codes, h.codeResponse(code))
	}

	WriteJSON(w, resp, http.StatusOK)
}

// UpdateDestination handles repointing a code at a new destination
func (h *Handler) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	var req UpdateDestinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		appLogger.CtxError(ctx, "Error decoding request body", appLogger.LoggerInfo{
			ContextFunction: constant.CtxUpdateDestination,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIDecodeRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})

		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	code, err := h.service.UpdateDestination(ctx, slug, req.Destination)
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxUpdateDestination, "Failed to update destination", err)
		return
	}

	appLogger.CtxInfo(ctx, "Destination updated successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxUpdateDestination,
		Data: map[string]interface{}{
			constant.DataSlug:        code.Slug,
			constant.DataDestination: code.Destination,
		},
	})

	WriteJSON(w, h.codeResponse(code), http.StatusOK)
}

// UpdateStyle handles restyling a code
func (h *Handler) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	var req UpdateStyleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		appLogger.CtxError(ctx, "Error decoding request body", appLogger.LoggerInfo{
			ContextFunction: constant.CtxUpdateStyle,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIDecodeRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})

		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	code, err := h.service.UpdateStyle(ctx, slug, req.Style, req.LogoDataURI)
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxUpdateStyle, "Failed to update style", err)
		return
	}

	appLogger.CtxInfo(ctx, "Style updated successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxUpdateStyle,
		Data: map[string]interface{}{
			constant.DataSlug: code.Slug,
		},
	})

	WriteJSON(w, h.codeResponse(code), http.StatusOK)
}

// DeleteCode handles removing a code and its cached artifacts
func (h *Handler) DeleteCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if err := h.service.DeleteCode(ctx, slug); err != nil {
		h.writeServiceError(ctx, w, constant.CtxDeleteCode, "Failed to delete code", err)
		return
	}

	appLogger.CtxInfo(ctx, "Code deleted successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDeleteCode,
		Data: map[string]interface{}{
			constant.DataSlug: slug,
		},
	})

	w.WriteHeader(http.StatusNoContent)
}

// ValidateURL runs the destination policy for the dashboard's live
// feedback. The verdict is the payload, so the status is always 200.
func (h *Handler) ValidateURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ValidateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		appLogger.CtxError(ctx, "Error decoding request body", appLogger.LoggerInfo{
			ContextFunction: constant.CtxValidateURL,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIDecodeRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})

		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	verdict := urlcheck.ValidateStrict(req.URL)

	appLogger.CtxDebug(ctx, "URL validated", appLogger.LoggerInfo{
		ContextFunction: constant.CtxValidateURL,
		Data: map[string]interface{}{
			constant.DataRule: string(verdict.Rule),
		},
	})

	WriteJSON(w, ValidateURLResponse{
		Valid:      verdict.Valid,
		Rule:       string(verdict.Rule),
		Message:    verdict.Message,
		Normalized: verdict.Normalized,
	}, http.StatusOK)
}

// ExportSVG serves the styled SVG document
func (h *Handler) ExportSVG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	q := r.URL.Query()

	variant := qrlink.SVGVariant{
		Simple:          queryFlag(q, "simple"),
		Optimize:        queryFlag(q, "optimize"),
		OmitDeclaration: q.Has("declaration") && !queryFlag(q, "declaration"),
	}

	svg, err := h.service.RenderSVG(ctx, slug, variant)
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxRenderSVG, "Export failed", err)
		return
	}

	if queryFlag(q, "download") {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slug+".svg"))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(svg))
}

// ExportPNG serves the rasterized PNG
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	q := r.URL.Query()

	width := 0
	if raw := q.Get("width"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteJSONError(w, "width must be an integer", http.StatusBadRequest)
			return
		}
		width = parsed
	}

	png, err := h.service.ExportPNG(ctx, slug, width, queryFlag(q, "transparent"))
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxExportPNG, "Export failed", err)
		return
	}

	if queryFlag(q, "download") {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slug+".png"))
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ExportPDF serves the print-ready PDF, either from a named preset or
// from explicit page geometry
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	q := r.URL.Query()

	var pdf []byte
	var err error

	switch {
	case q.Get("preset") != "":
		pdf, err = h.service.ExportPDFPreset(ctx, slug, q.Get("preset"))
	case q.Has("page_w") || q.Has("page_h") || q.Has("margin") || q.Has("bleed"):
		opts, perr := parsePageOptions(q)
		if perr != nil {
			WriteJSONError(w, perr.Error(), http.StatusBadRequest)
			return
		}
		pdf, err = h.service.ExportPDF(ctx, slug, opts)
	default:
		// No geometry requested, print on the default page
		pdf, err = h.service.ExportPDFPreset(ctx, slug, render.PresetA4)
	}

	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxExportPDF, "Export failed", err)
		return
	}

	if queryFlag(q, "download") {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slug+".pdf"))
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// Redirect resolves a slug and sends the visitor to the stored
// destination
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	appLogger.CtxDebug(ctx, constant.MsgProcessingRedirect, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRedirect,
		Data: map[string]interface{}{
			constant.DataSlug: slug,
		},
	})

	code, err := h.service.Resolve(ctx, slug)
	if err != nil {
		if errors.Is(err, qrlink.ErrUnsafeDestination) {
			// The visitor still gets a page, just not the stored URL
			http.Redirect(w, r, constant.RouteLinkDisabled, http.StatusFound)
			return
		}

		// Lookup failures and unknown slugs look the same from outside
		http.NotFound(w, r)
		return
	}

	appLogger.CtxInfo(ctx, "Redirecting to destination", appLogger.LoggerInfo{
		ContextFunction: constant.CtxRedirect,
		Data: map[string]interface{}{
			constant.DataSlug:        slug,
			constant.DataDestination: code.Destination,
		},
	})

	http.Redirect(w, r, code.Destination, http.StatusFound)
}

// LinkDisabled is the landing page for codes whose stored destination
// failed the redirect-time safety re-check
func (h *Handler) LinkDisabled(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(constant.MsgLinkDisabledPage))
}

// writeServiceError maps domain errors onto HTTP status codes. The
// service already logged the rejection, so only unexpected failures
// are logged here.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, fn, fallback string, err error) {
	switch {
	case errors.Is(err, qrlink.ErrEmptyDestination),
		errors.Is(err, qrlink.ErrEmptySlug),
		errors.Is(err, qrlink.ErrInvalidSlug),
		errors.Is(err, qrlink.ErrInvalidDestination),
		errors.Is(err, qrlink.ErrInvalidStyle):
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, qrlink.ErrSlugExists):
		WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, qrlink.ErrSlugNotFound):
		WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, render.ErrCapacityExceeded):
		WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, render.ErrInvalidDimension),
		errors.Is(err, render.ErrUnknownPreset):
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		appLogger.CtxError(ctx, fallback, appLogger.LoggerInfo{
			ContextFunction: fn,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIServiceError,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})

		WriteJSONError(w, fallback, http.StatusInternalServerError)
	}
}

// queryFlag treats a bare parameter as true, so ?simple and
// ?simple=true read the same
func queryFlag(q url.Values, name string) bool {
	if !q.Has(name) {
		return false
	}
	v := q.Get(name)
	return v == "" || v == "1" || v == "true"
}

func parsePageOptions(q url.Values) (render.PDFOptions, error) {
	var opts render.PDFOptions
	var err error

	if opts.PageWidthMM, err = parseMM(q.Get("page_w")); err != nil {
		return render.PDFOptions{}, fmt.Errorf("page_w must be a number")
	}
	if opts.PageHeightMM, err = parseMM(q.Get("page_h")); err != nil {
		return render.PDFOptions{}, fmt.Errorf("page_h must be a number")
	}
	if opts.MarginMM, err = parseMM(q.Get("margin")); err != nil {
		return render.PDFOptions{}, fmt.Errorf("margin must be a number")
	}
	if opts.BleedMM, err = parseMM(q.Get("bleed")); err != nil {
		return render.PDFOptions{}, fmt.Errorf("bleed must be a number")
	}

	return opts, nil
}

func parseMM(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return
	}
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}
