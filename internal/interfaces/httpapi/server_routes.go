package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerReadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{seasonID}/matches", handler.ListSeasonMatches)
	mux.HandleFunc("GET /v1/clubs/{clubID}/matches", handler.ListClubMatches)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{eaPlayerID}", handler.GetPlayer)
}

func registerSchedulerRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireAdminToken(adminToken, fn))
	}

	admin("GET /v1/schedulers", handler.ListSchedulers)
	admin("GET /v1/seasons/{seasonID}/scheduler", handler.GetScheduler)
	admin("POST /v1/seasons/{seasonID}/scheduler", handler.CreateScheduler)
	admin("PATCH /v1/seasons/{seasonID}/scheduler", handler.UpdateScheduler)
	admin("DELETE /v1/seasons/{seasonID}/scheduler", handler.DeleteScheduler)
	admin("POST /v1/seasons/{seasonID}/scheduler/start", handler.StartScheduler)
	admin("POST /v1/seasons/{seasonID}/scheduler/stop", handler.StopScheduler)
	admin("POST /v1/seasons/{seasonID}/scheduler/pause", handler.PauseScheduler)
	admin("POST /v1/seasons/{seasonID}/scheduler/resume", handler.ResumeScheduler)
	admin("POST /v1/seasons/{seasonID}/scheduler/run", handler.RunSchedulerNow)
	admin("GET /v1/seasons/{seasonID}/scheduler/runs", handler.ListSchedulerRuns)
}
