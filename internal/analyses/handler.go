package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"justiplay-backend/internal/shared/server/middleware"
	"justiplay-backend/internal/shared/server/respond"
	"justiplay-backend/internal/shared/telemetry"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/analyze", h.analyze)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
	rg.GET("/analyses/:id/report", h.report)
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "empty_upload", "Please select a document to upload.", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")

	analysis, err := h.Svc.AnalyzeUpload(c.Request.Context(), userID, fileHeader.Filename, mimeType, content)
	if err != nil {
		h.writeAnalyzeError(c, err)
		return
	}

	c.Set("analysisId", analysis.ID)
	if analysis.DocumentID != "" {
		c.Set("documentId", analysis.DocumentID)
	}
	respond.JSON(c, http.StatusCreated, toResponse(analysis))
}

func (h *Handler) writeAnalyzeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyUpload):
		respond.Error(c, http.StatusBadRequest, "empty_upload", "Please select a document to upload.", nil)
	case errors.Is(err, ErrUnreadableDocument):
		msg := strings.TrimPrefix(err.Error(), ErrUnreadableDocument.Error()+": ")
		if msg == ErrUnreadableDocument.Error() {
			msg = "Could not extract meaningful text from document."
		}
		respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", msg, nil)
	case errors.Is(err, ErrAnalysisFailed):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "Analysis failed. Please try again.", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		telemetry.Error("analysis.handler_error", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze document", nil)
	}
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	analysis, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(analysis))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	resp := make([]AnalysisSummaryResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, toSummaryResponse(a))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) report(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	rc, err := h.Svc.OpenReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open report", nil)
		}
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Error("analysis.report_stream_failed", map[string]any{
			"analysis_id": c.Param("id"), "error": err.Error(),
		})
	}
}
