package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	"github.com/Ardidini12/XBHL/internal/usecase"
)

func (h *Handler) ListSchedulers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSchedulers")
	defer span.End()

	views, err := h.schedulerService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list schedulers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(views, schedulerViewToDTO))
}

func (h *Handler) GetScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScheduler")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	view, err := h.schedulerService.Get(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get scheduler failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, schedulerViewToDTO(view))
}

func (h *Handler) CreateScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateScheduler")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	var req createSchedulerRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	cfg, err := h.schedulerService.Create(ctx, seasonID, usecase.CreateSchedulerInput{
		DaysOfWeek:      req.DaysOfWeek,
		StartHour:       req.StartHour,
		EndHour:         req.EndHour,
		IntervalMinutes: req.IntervalMinutes,
		IntervalSeconds: req.IntervalSeconds,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create scheduler failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, schedulerConfigToDTO(cfg))
}

func (h *Handler) UpdateScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateScheduler")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	var req updateSchedulerRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	cfg, err := h.schedulerService.Update(ctx, seasonID, usecase.UpdateSchedulerInput{
		DaysOfWeek:      req.DaysOfWeek,
		StartHour:       req.StartHour,
		EndHour:         req.EndHour,
		IntervalMinutes: req.IntervalMinutes,
		IntervalSeconds: req.IntervalSeconds,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update scheduler failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, schedulerConfigToDTO(cfg))
}

func (h *Handler) DeleteScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteScheduler")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	if err := h.schedulerService.Delete(ctx, seasonID); err != nil {
		h.logger.WarnContext(ctx, "delete scheduler failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messageDTO{Message: "Scheduler deleted."})
}

func (h *Handler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartScheduler")
	defer span.End()

	h.transition(ctx, w, r, "start", h.schedulerService.Start)
}

func (h *Handler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StopScheduler")
	defer span.End()

	h.transition(ctx, w, r, "stop", h.schedulerService.Stop)
}

func (h *Handler) PauseScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PauseScheduler")
	defer span.End()

	h.transition(ctx, w, r, "pause", h.schedulerService.Pause)
}

func (h *Handler) ResumeScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResumeScheduler")
	defer span.End()

	h.transition(ctx, w, r, "resume", h.schedulerService.Resume)
}

func (h *Handler) transition(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	action string,
	fn func(context.Context, string) (scheduler.Config, error),
) {
	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	cfg, err := fn(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "scheduler transition failed", "action", action, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "scheduler transition applied",
		"action", action,
		"season_id", seasonID,
		"is_active", cfg.IsActive,
		"is_paused", cfg.IsPaused,
	)
	writeSuccess(ctx, w, http.StatusOK, schedulerConfigToDTO(cfg))
}

func (h *Handler) RunSchedulerNow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSchedulerNow")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	if err := h.schedulerService.RunNow(ctx, seasonID); err != nil {
		h.logger.WarnContext(ctx, "run scheduler now failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, messageDTO{Message: "Ingestion run queued."})
}

func (h *Handler) ListSchedulerRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSchedulerRuns")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, total, err := h.schedulerService.ListRuns(ctx, seasonID, skip, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list scheduler runs failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pageDTO[schedulerRunDTO]{
		Data:  mapSlice(runs, schedulerRunToDTO),
		Count: total,
	})
}
