package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "MaturityPlanner/internal/domain/models"
	apimetrics "MaturityPlanner/internal/service/metrics"
	"MaturityPlanner/internal/service/ratelimit"
	"MaturityPlanner/internal/usecase"
	xhttp "MaturityPlanner/pkg/http"
	xlogger "MaturityPlanner/pkg/logger"
)

// PlannerEchoHandler serves the maturity dashboard and the per-session simulation sandbox.
type PlannerEchoHandler struct {
	logger  *xlogger.Logger
	planner *usecase.PlannerUseCase
	sim     *usecase.SimulationUseCase
	rl      *ratelimit.Limiter
	metrics *apimetrics.APIMetrics
}

func NewPlannerEchoHandler(
	logger *xlogger.Logger,
	planner *usecase.PlannerUseCase,
	sim *usecase.SimulationUseCase,
	rl *ratelimit.Limiter,
	metrics *apimetrics.APIMetrics,
) *PlannerEchoHandler {
	return &PlannerEchoHandler{logger: logger, planner: planner, sim: sim, rl: rl, metrics: metrics}
}

func (h *PlannerEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/markets", h.Markets)

	s := g.Group("/sessions")
	s.POST("", h.CreateSession)
	s.GET("/:session_id", h.GetSession)
	s.DELETE("/:session_id", h.DeleteSession)
	s.GET("/:session_id/view", h.View)
	s.GET("/:session_id/dates/:date", h.DateDetail)
	s.POST("/:session_id/pools", h.AddPool)
	s.DELETE("/:session_id/pools/:index", h.RemovePool)
	s.POST("/:session_id/relaunches", h.BeginRelaunch)
	s.POST("/:session_id/relaunches/:address/commit", h.CommitRelaunch)
	s.DELETE("/:session_id/relaunches/:address", h.DiscardRelaunch)
}

func (h *PlannerEchoHandler) Markets(c echo.Context) error {
	const endpoint = "markets"
	defer h.metrics.Observe(endpoint, time.Now())

	snap, err := h.planner.Markets(c.Request().Context())
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=60")
	return xhttp.SuccessResponse(c, snap)
}

func (h *PlannerEchoHandler) CreateSession(c echo.Context) error {
	const endpoint = "create_session"
	defer h.metrics.Observe(endpoint, time.Now())

	if !h.allow("ip:"+c.RealIP()) {
		return h.rateLimited(c, endpoint)
	}
	sess, err := h.sim.CreateSession(c.Request().Context())
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	h.logger.Info("session created", xlogger.String("session_id", sess.ID))
	return xhttp.CreatedResponse(c, sess)
}

func (h *PlannerEchoHandler) GetSession(c echo.Context) error {
	const endpoint = "get_session"
	defer h.metrics.Observe(endpoint, time.Now())

	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sess, err := h.sim.Session(c.Request().Context(), req.SessionID)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, sess)
}

func (h *PlannerEchoHandler) DeleteSession(c echo.Context) error {
	const endpoint = "delete_session"
	defer h.metrics.Observe(endpoint, time.Now())

	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.sim.EndSession(c.Request().Context(), req.SessionID); err != nil {
		return h.fail(c, endpoint, err)
	}
	if h.rl != nil {
		h.rl.Forget(req.SessionID)
	}
	return xhttp.NoContentResponse(c)
}

func (h *PlannerEchoHandler) View(c echo.Context) error {
	const endpoint = "view"
	defer h.metrics.Observe(endpoint, time.Now())

	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	view, err := h.planner.View(c.Request().Context(), req.SessionID)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, view)
}

func (h *PlannerEchoHandler) DateDetail(c echo.Context) error {
	const endpoint = "date_detail"
	defer h.metrics.Observe(endpoint, time.Now())

	req := &models.DateDetailRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	detail, err := h.planner.DateDetail(c.Request().Context(), req.SessionID, req.Date)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, detail)
}

func (h *PlannerEchoHandler) AddPool(c echo.Context) error {
	const endpoint = "add_pool"
	defer h.metrics.Observe(endpoint, time.Now())

	req := &models.AddPoolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(req.SessionID) {
		return h.rateLimited(c, endpoint)
	}
	rec, err := h.sim.AddPool(c.Request().Context(), usecase.AddPoolParams{
		SessionID:   req.SessionID,
		Name:        req.Name,
		ExpiryDate:  req.ExpiryDate,
		Tier:        *req.Tier,
		TVLMillions: *req.TVLMillions,
	})
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.CreatedResponse(c, rec)
}

func (h *PlannerEchoHandler) RemovePool(c echo.Context) error {
	const endpoint = "remove_pool"
	defer h.metrics.Observe(endpoint, time.Now())

	req := &models.RemovePoolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(req.SessionID) {
		return h.rateLimited(c, endpoint)
	}
	removed, err := h.sim.RemovePool(c.Request().Context(), req.SessionID, req.Index)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, removed)
}

func (h *PlannerEchoHandler) BeginRelaunch(c echo.Context) error {
	const endpoint = "begin_relaunch"
	defer h.metrics.Observe(endpoint, time.Now())

	req := &models.BeginRelaunchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(req.SessionID) {
		return h.rateLimited(c, endpoint)
	}
	draft, err := h.planner.BeginRelaunch(c.Request().Context(), req.SessionID, req.Address)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.CreatedResponse(c, draft)
}

func (h *PlannerEchoHandler) CommitRelaunch(c echo.Context) error {
	const endpoint = "commit_relaunch"
	defer h.metrics.Observe(endpoint, time.Now())

	req := &models.CommitRelaunchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(req.SessionID) {
		return h.rateLimited(c, endpoint)
	}
	rec, err := h.sim.CommitRelaunch(c.Request().Context(), usecase.CommitRelaunchParams{
		SessionID:  req.SessionID,
		Address:    req.Address,
		ExpiryDate: req.ExpiryDate,
		Tier:       *req.Tier,
	})
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.CreatedResponse(c, rec)
}

func (h *PlannerEchoHandler) DiscardRelaunch(c echo.Context) error {
	const endpoint = "discard_relaunch"
	defer h.metrics.Observe(endpoint, time.Now())

	req := &models.DiscardRelaunchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(req.SessionID) {
		return h.rateLimited(c, endpoint)
	}
	if err := h.sim.DiscardRelaunch(c.Request().Context(), req.SessionID, req.Address); err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *PlannerEchoHandler) allow(key string) bool {
	return h.rl == nil || h.rl.Allow(key)
}

func (h *PlannerEchoHandler) rateLimited(c echo.Context, endpoint string) error {
	h.metrics.Error(endpoint, "ERR_RATE_LIMITED")
	h.logger.Warn("planner rate_limited", xlogger.String("endpoint", endpoint), xlogger.String("remote", c.RealIP()))
	return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many changes, slow down"))
}

func (h *PlannerEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(err)
	h.metrics.Error(endpoint, appErr.Code)
	fields := []xlogger.Field{
		xlogger.String("endpoint", endpoint),
		xlogger.String("code", appErr.Code),
		xlogger.Error(err),
	}
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("planner request failed", fields...)
	} else {
		h.logger.Warn("planner request rejected", fields...)
	}
	return xhttp.AppErrorResponse(c, appErr)
}
