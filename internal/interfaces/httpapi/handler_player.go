package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	search := r.URL.Query().Get("search")
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, total, err := h.playerService.List(ctx, search, skip, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "search", search, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pageDTO[playerDTO]{
		Data:  mapSlice(players, playerToDTO),
		Count: total,
	})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	eaPlayerID := strings.TrimSpace(r.PathValue("eaPlayerID"))
	detail, err := h.playerService.Get(ctx, eaPlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "ea_player_id", eaPlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerDetailToDTO(detail))
}
