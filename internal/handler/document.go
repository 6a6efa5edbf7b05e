package handler

import (
	"log/slog"
	"net/http"
	"time"

	"prdgen/internal/domain/models"
	"prdgen/internal/domain/services"
	"prdgen/internal/httputil"
	"prdgen/internal/service"
)

// DocumentHandler handles document HTTP requests.
// Handlers only communicate with services, never repositories.
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// ListDocuments retrieves all documents, optionally filtered by kind
// GET /api/documents?kind=product|epic
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	var (
		docs []models.Document
		err  error
	)

	if kind := r.URL.Query().Get("kind"); kind != "" {
		docs, err = h.docService.ListByKind(r.Context(), models.Kind(kind))
	} else {
		docs, err = h.docService.ListAll(r.Context())
	}
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// ListApproved retrieves the approved corpus
// GET /api/documents/approved
func (h *DocumentHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docService.ListApproved(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}

	doc, err := h.docService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListVersions retrieves a document's version history, most recent first
// GET /api/documents/{id}/versions
func (h *DocumentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}

	versions, err := h.docService.ListVersions(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// ListChildren retrieves the epics under a product document
// GET /api/documents/{id}/children
func (h *DocumentHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}

	children, err := h.docService.ListChildren(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, children)
}

// ApproveDocument marks a document as approved
// POST /api/documents/{id}/approve
func (h *DocumentHandler) ApproveDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}

	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.docService.Approve(r.Context(), id, req.Feedback); err != nil {
		handleError(w, err)
		return
	}

	doc, err := h.docService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// GetStats returns corpus totals
// GET /api/documents/stats
func (h *DocumentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.docService.Stats(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stats)
}

// ExportDocuments streams all documents as one flat text file
// GET /api/documents/export
func (h *DocumentHandler) ExportDocuments(w http.ResponseWriter, r *http.Request) {
	body, err := service.ExportAll(r.Context(), h.docService)
	if err != nil {
		handleError(w, err)
		return
	}

	filename := "all_prds_" + time.Now().Format("20060102_150405") + ".txt"
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	httputil.RespondText(w, http.StatusOK, body)
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
