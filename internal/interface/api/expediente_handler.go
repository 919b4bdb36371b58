package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expediente-service/internal/domain/entity"
	"expediente-service/internal/domain/repository"
	"expediente-service/internal/usecase"
	"expediente-service/pkg/logger"
)

// RendererFactory builds a fresh document renderer per request; a renderer
// produces exactly one document.
type RendererFactory func() repository.DocumentRenderer

// ExpedienteHTTP exposes the expediente view and the export actions.
type ExpedienteHTTP struct {
	processor   *usecase.ExpedienteProcessor
	exporter    *usecase.Exporter
	newRenderer RendererFactory
	logger      logger.Logger
}

// NewExpedienteHTTP creates the handler set.
func NewExpedienteHTTP(
	processor *usecase.ExpedienteProcessor,
	exporter *usecase.Exporter,
	newRenderer RendererFactory,
	log logger.Logger,
) *ExpedienteHTTP {
	return &ExpedienteHTTP{
		processor:   processor,
		exporter:    exporter,
		newRenderer: newRenderer,
		logger:      log,
	}
}

// GetExpediente handles GET /api/operadores/{id}/expediente.
// Query params: fechaInicio, fechaFin, mes.
func (h *ExpedienteHTTP) GetExpediente() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.processor.BuildView(
			r.Context(),
			chi.URLParam(r, "id"),
			r.URL.Query().Get("fechaInicio"),
			r.URL.Query().Get("fechaFin"),
			r.URL.Query().Get("mes"),
		)
		if err != nil {
			h.fail(w, err, "No fue posible generar el expediente")
			return
		}
		h.respond(w, http.StatusOK, view)
	}
}

type exportRequest struct {
	entity.ExportSelection
	FechaInicio string `json:"fechaInicio"`
	FechaFin    string `json:"fechaFin"`
}

// Export handles POST /api/operadores/{id}/exportaciones.
func (h *ExpedienteHTTP) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "cuerpo de solicitud invalido")
			return
		}

		dossier, err := h.processor.Fetch(r.Context(), chi.URLParam(r, "id"), req.FechaInicio, req.FechaFin)
		if err != nil {
			h.fail(w, err, "No fue posible generar el expediente")
			return
		}

		result, err := h.exporter.Export(r.Context(), dossier, req.ExportSelection)
		if err != nil {
			h.fail(w, err, "No fue posible exportar los datos")
			return
		}

		h.respond(w, http.StatusCreated, map[string]interface{}{
			"archivo": result.Filename,
			"filas":   len(result.Rows),
		})
	}
}

type evidenceRequest struct {
	Fechas      string `json:"fechas"`
	GeneradoPor string `json:"generadoPor"`
	FechaInicio string `json:"fechaInicio"`
	FechaFin    string `json:"fechaFin"`
}

// Evidence handles POST /api/operadores/{id}/evidencias.
func (h *ExpedienteHTTP) Evidence() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req evidenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "cuerpo de solicitud invalido")
			return
		}

		dayKeys, err := usecase.ParseDayTokens(req.Fechas)
		if err != nil {
			h.fail(w, err, "fechas invalidas")
			return
		}

		dossier, err := h.processor.Fetch(r.Context(), chi.URLParam(r, "id"), req.FechaInicio, req.FechaFin)
		if err != nil {
			h.fail(w, err, "No fue posible generar el expediente")
			return
		}

		renderer := h.newRenderer()
		engine := usecase.NewLayoutEngine(renderer)
		layout, err := engine.BuildEvidenceDocument(dossier, dayKeys, orDefault(req.GeneradoPor, "sistema"), h.processor.Now())
		if err != nil {
			h.fail(w, err, "No se pudo generar el PDF de evidencias")
			return
		}
		if err := usecase.Render(layout, renderer); err != nil {
			h.fail(w, err, "No se pudo generar el PDF de evidencias")
			return
		}

		h.respond(w, http.StatusCreated, map[string]interface{}{
			"archivo": layout.Filename,
			"paginas": layout.Pages,
		})
	}
}

// Summary handles POST /api/operadores/{id}/resumen.
func (h *ExpedienteHTTP) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.processor.BuildView(
			r.Context(),
			chi.URLParam(r, "id"),
			r.URL.Query().Get("fechaInicio"),
			r.URL.Query().Get("fechaFin"),
			r.URL.Query().Get("mes"),
		)
		if err != nil {
			h.fail(w, err, "No fue posible generar el expediente")
			return
		}

		renderer := h.newRenderer()
		engine := usecase.NewLayoutEngine(renderer)
		layout := engine.BuildSummaryDocument(view.Dossier, view, h.processor.Now())
		if err := usecase.Render(layout, renderer); err != nil {
			h.fail(w, err, "No se pudo generar el PDF")
			return
		}

		h.respond(w, http.StatusCreated, map[string]interface{}{
			"archivo": layout.Filename,
			"paginas": layout.Pages,
		})
	}
}

// fail maps a failure to a response: validation errors carry their own
// operator-facing message, everything else is surfaced behind a generic one.
func (h *ExpedienteHTTP) fail(w http.ResponseWriter, err error, fallback string) {
	var validation *entity.ValidationError
	if errors.As(err, &validation) {
		h.respondError(w, http.StatusUnprocessableEntity, validation.Message)
		return
	}
	h.logger.Error(fallback, "error", err)
	h.respondError(w, http.StatusBadGateway, fallback)
}

func (h *ExpedienteHTTP) respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *ExpedienteHTTP) respondError(w http.ResponseWriter, status int, message string) {
	h.respond(w, status, map[string]string{"error": message})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
