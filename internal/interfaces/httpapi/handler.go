package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/Ardidini12/XBHL/internal/platform/logging"
	"github.com/Ardidini12/XBHL/internal/usecase"
)

type Handler struct {
	schedulerService *usecase.SchedulerAdminService
	matchService     *usecase.MatchService
	playerService    *usecase.PlayerService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	schedulerService *usecase.SchedulerAdminService,
	matchService *usecase.MatchService,
	playerService *usecase.PlayerService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		schedulerService: schedulerService,
		matchService:     matchService,
		playerService:    playerService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads a strict JSON body. An empty body leaves payload untouched.
func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeJSON")
	defer span.End()

	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// pageParams reads skip and limit. Missing values are zero so the service
// picks its own default limit.
func pageParams(r *http.Request) (skip, limit int, err error) {
	query := r.URL.Query()
	if skip, err = queryInt(query.Get("skip"), "skip"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(query.Get("limit"), "limit"); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func queryInt(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}
