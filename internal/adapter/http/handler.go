package httpadapter

import (
	"context"
	"errors"
	"strconv"

	"soncore/internal/app/cycle"
	"soncore/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const defaultHistoryLimit = 20

type Handler struct {
	Engine    *cycle.Engine
	Evolution ports.EvolutionTracker
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())
	api := s.Group("/api/cycle")
	api.POST("/run", h.run)
	api.GET("/history", h.history)
	api.GET("/latest", h.latest)

	s.GET("/api/evolution", h.evolution)
	s.GET("/ops/kpi", h.kpi)
}

// run executes one optimization cycle synchronously and returns its
// terminal record. A failed cycle is still a well-formed record, so it
// comes back as 200; only an overlapping trigger is refused.
func (h Handler) run(c context.Context, ctx *app.RequestContext) {
	result := h.Engine.Run(c)
	if result.Failure != nil && result.Failure.Class == cycle.ClassInFlight {
		writeErrorBody(ctx, consts.StatusConflict, "cycle_in_flight", result.Failure.Message)
		return
	}
	ctx.JSON(consts.StatusOK, result)
}

func (h Handler) history(_ context.Context, ctx *app.RequestContext) {
	limit := defaultHistoryLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeErrorBody(ctx, consts.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"cycles": h.Engine.Recent(limit),
	})
}

func (h Handler) latest(_ context.Context, ctx *app.RequestContext) {
	recent := h.Engine.Recent(1)
	if len(recent) == 0 {
		writeError(ctx, ports.ErrNotFound)
		return
	}
	ctx.JSON(consts.StatusOK, recent[0])
}

func (h Handler) evolution(c context.Context, ctx *app.RequestContext) {
	if h.Evolution == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "evolution tracker not configured")
		return
	}
	level, err := h.Evolution.CurrentLevel(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	score, err := h.Evolution.EvolutionScore(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"level": level,
		"score": score,
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, cycle.ErrCycleInFlight):
		writeErrorBody(ctx, consts.StatusConflict, "cycle_in_flight", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
