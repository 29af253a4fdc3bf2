package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// intakeHandler handles the propose-then-commit intake flow
type intakeHandler struct {
	intakeService portssvc.IntakeSvcFacade
	metrics       *metrics.Metrics
}

func newIntakeHandler(is portssvc.IntakeSvcFacade, m *metrics.Metrics) *intakeHandler {
	return &intakeHandler{intakeService: is, metrics: m}
}

// RegisterIntakeRoutes registers the intake routes. Classification calls are
// wrapped in classifyLimit when it is non-nil.
func RegisterIntakeRoutes(rg *gin.RouterGroup, is portssvc.IntakeSvcFacade, m *metrics.Metrics, classifyLimit gin.HandlerFunc) {
	h := newIntakeHandler(is, m)

	intake := rg.Group("/intake")
	{
		classify := []gin.HandlerFunc{h.classify}
		if classifyLimit != nil {
			classify = append([]gin.HandlerFunc{classifyLimit}, classify...)
		}
		intake.POST("/classify", classify...)
		intake.POST("/manual", h.manual)
		intake.GET("/sessions/:sessionID", h.getSession)
		intake.POST("/sessions/:sessionID/commit", h.commit)
		intake.DELETE("/sessions/:sessionID", h.cancel)
	}
}

// classify godoc
// @Summary Classify a narrative
// @Description Sends the narrative and optional scanned document to the classifier and returns a proposed matter. With async set, the Pending session is returned at once.
// @Tags intake
// @Accept json
// @Produce json
// @Param request body dto.ClassifyRequest true "Narrative and optional image"
// @Success 200 {object} domain.IntakeSession "Proposal ready"
// @Success 202 {object} domain.IntakeSession "Classification started"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Too many classification requests"
// @Failure 502 {object} map[string]string "Extraction failed"
// @Security BearerAuth
// @Router /api/v1/intake/classify [post]
func (h *intakeHandler) classify(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ClassifyRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	image, err := decodeImage(req.ImageBase64, req.ImageMimeType)
	if err != nil {
		respondError(c, logger, err, "Invalid image")
		return
	}

	if req.Async {
		session, err := h.intakeService.StartClassification(c.Request.Context(), req.Narrative, image)
		if err != nil {
			respondError(c, logger, err, "Failed to start classification")
			return
		}
		h.metrics.IntakeOutcome(string(domain.SourceClassifier), string(session.State))
		c.JSON(http.StatusAccepted, session)
		return
	}

	session, err := h.intakeService.ProposeFromNarrative(c.Request.Context(), req.Narrative, image)
	if err != nil {
		if errors.Is(err, apperrors.ErrExtraction) {
			h.metrics.IntakeOutcome(string(domain.SourceClassifier), string(domain.IntakeFailed))
		}
		respondError(c, logger, err, "Classification failed")
		return
	}
	h.metrics.IntakeOutcome(string(domain.SourceClassifier), string(session.State))
	c.JSON(http.StatusOK, session)
}

// manual godoc
// @Summary Propose a matter from JSON
// @Description Parses a matter typed in as JSON. Missing fields take the manual-form defaults.
// @Tags intake
// @Accept json
// @Produce json
// @Param request body dto.ManualIntakeRequest true "Matter JSON as a string"
// @Success 200 {object} domain.IntakeSession
// @Failure 400 {object} map[string]string "Payload is not valid JSON"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/intake/manual [post]
func (h *intakeHandler) manual(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ManualIntakeRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	session, err := h.intakeService.ProposeFromJSON(c.Request.Context(), req.Payload)
	if err != nil {
		if errors.Is(err, apperrors.ErrFormat) {
			h.metrics.IntakeOutcome(string(domain.SourceManualJSON), string(domain.IntakeFailed))
		}
		respondError(c, logger, err, "Failed to parse manual intake")
		return
	}
	h.metrics.IntakeOutcome(string(domain.SourceManualJSON), string(session.State))
	c.JSON(http.StatusOK, session)
}

// getSession godoc
// @Summary Get an intake session
// @Description Poll an async classification until it leaves Pending
// @Tags intake
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} domain.IntakeSession
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found or expired"
// @Security BearerAuth
// @Router /api/v1/intake/sessions/{sessionID} [get]
func (h *intakeHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, err := h.intakeService.Session(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get intake session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// commit godoc
// @Summary Commit a proposal
// @Description Adds the proposed matter to the matter list. Only Proposed sessions can be committed.
// @Tags intake
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 201 {object} domain.Matter
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found or expired"
// @Failure 409 {object} map[string]string "Session is not Proposed"
// @Security BearerAuth
// @Router /api/v1/intake/sessions/{sessionID}/commit [post]
func (h *intakeHandler) commit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	matter, err := h.intakeService.Commit(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to commit intake")
		return
	}
	if session, err := h.intakeService.Session(c.Request.Context(), c.Param("sessionID")); err == nil {
		h.metrics.IntakeOutcome(string(session.Source), string(session.State))
	}
	c.JSON(http.StatusCreated, matter)
}

// cancel godoc
// @Summary Cancel an intake session
// @Description Aborts an in-flight classification or discards a proposal
// @Tags intake
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} domain.IntakeSession
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found or expired"
// @Failure 409 {object} map[string]string "Session already settled"
// @Security BearerAuth
// @Router /api/v1/intake/sessions/{sessionID} [delete]
func (h *intakeHandler) cancel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, err := h.intakeService.Cancel(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to cancel intake")
		return
	}
	h.metrics.IntakeOutcome(string(session.Source), string(session.State))
	c.JSON(http.StatusOK, session)
}

// decodeImage accepts either a data: URL or raw base64 with an explicit MIME type.
func decodeImage(raw, mimeType string) (*domain.ImageInput, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("%w: image data URL must be base64 encoded", apperrors.ErrValidation)
		}
		mimeType = strings.TrimSuffix(header, ";base64")
		raw = payload
	}
	if mimeType == "" {
		return nil, fmt.Errorf("%w: image_mime_type is required for raw base64 images", apperrors.ErrValidation)
	}
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return nil, fmt.Errorf("%w: unsupported image type %q", apperrors.ErrValidation, mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64", apperrors.ErrValidation)
	}
	return &domain.ImageInput{MimeType: mimeType, Data: data}, nil
}
