package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListSeasonMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonMatches")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, total, err := h.matchService.ListBySeason(ctx, seasonID, skip, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list season matches failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pageDTO[matchDTO]{
		Data:  mapSlice(views, matchViewToDTO),
		Count: total,
	})
}

func (h *Handler) ListClubMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubMatches")
	defer span.End()

	clubID := strings.TrimSpace(r.PathValue("clubID"))
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, total, err := h.matchService.ListByClub(ctx, clubID, skip, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list club matches failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pageDTO[matchDTO]{
		Data:  mapSlice(views, matchViewToDTO),
		Count: total,
	})
}
