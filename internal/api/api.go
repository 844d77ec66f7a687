// Package api exposes the game engine over a small JSON HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Shamsear/typevelocity/internal/achievement"
	"github.com/Shamsear/typevelocity/internal/heatmap"
	"github.com/Shamsear/typevelocity/internal/leaderboard"
	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/profile"
	"github.com/Shamsear/typevelocity/internal/session"
	"github.com/Shamsear/typevelocity/internal/typing"
)

const invalidRequest = "invalid request"

// PromptSource supplies prompt text for a player level.
type PromptSource interface {
	Next(ctx context.Context, level int) string
}

// Handler serves API requests against one engine.
type Handler struct {
	engine *session.Engine
	log    *logging.Logger

	promptMu sync.Mutex
	prompt   PromptSource
}

// NewHandler returns a handler. prompt may be nil, which disables GET /prompt.
func NewHandler(engine *session.Engine, prompt PromptSource, log *logging.Logger) *Handler {
	return &Handler{engine: engine, prompt: prompt, log: log}
}

// New builds an echo instance with every route mounted under /api/v1.
func New(h *Handler, requestLog bool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if requestLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	v1 := e.Group("/api/v1")
	h.RegisterProfileRoutes(v1.Group("/profile"))
	h.RegisterGameRoutes(v1)
	return e
}

// RegisterProfileRoutes mounts profile endpoints on g.
func (h *Handler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("", h.GetProfile)
	g.DELETE("", h.ResetProfile)
	g.GET("/preferences/:key", h.GetPreference)
	g.PUT("/preferences/:key", h.SetPreference)
}

// RegisterGameRoutes mounts session, board, achievement and heatmap
// endpoints on g.
func (h *Handler) RegisterGameRoutes(g *echo.Group) {
	g.POST("/sessions", h.SubmitSession)
	g.GET("/sessions/last", h.GetLastSession)
	g.GET("/leaderboard/:board", h.GetLeaderboard)
	g.GET("/achievements", h.GetAchievements)
	g.GET("/achievements/:id", h.GetAchievement)
	g.GET("/heatmap", h.GetHeatmap)
	g.DELETE("/heatmap", h.ResetHeatmap)
	g.GET("/prompt", h.GetPrompt)
}

// GetProfile returns the stored profile.
func (h *Handler) GetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Profile())
}

// ResetProfile discards all progress.
func (h *Handler) ResetProfile(c echo.Context) error {
	p, err := h.engine.ResetProfile(c.Request().Context())
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, p)
}

// GetPreference returns one preference as a string.
func (h *Handler) GetPreference(c echo.Context) error {
	key := c.Param("key")
	value, err := profile.Preference(h.engine.Profile(), key)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"key": key, "value": value})
}

type preferenceRequest struct {
	Value string `json:"value"`
}

// SetPreference updates one preference.
func (h *Handler) SetPreference(c echo.Context) error {
	var req preferenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, invalidRequest)
	}
	p, err := h.engine.SetPreference(c.Request().Context(), c.Param("key"), req.Value)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, p.Preferences)
}

// SessionRequest is a session measured by the client.
type SessionRequest struct {
	Prompt     string `json:"prompt"`
	Typed      string `json:"typed"`
	DurationMs int64  `json:"durationMs"`
}

// SubmitSession scores and records a finished session.
func (h *Handler) SubmitSession(c echo.Context) error {
	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, invalidRequest)
	}
	if req.DurationMs < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "durationMs must not be negative")
	}
	res, err := h.engine.SubmitResult(c.Request().Context(), session.Submission{
		Prompt:   req.Prompt,
		Typed:    req.Typed,
		Duration: time.Duration(req.DurationMs) * time.Millisecond,
	})
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusCreated, resultBody(res))
}

// GetLastSession returns the most recent result committed by this engine.
func (h *Handler) GetLastSession(c echo.Context) error {
	res, ok := h.engine.LastResult()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no session recorded yet")
	}
	return c.JSON(http.StatusOK, resultBody(res))
}

func resultBody(res session.Result) echo.Map {
	return echo.Map{
		"session":         res.Session,
		"xp":              res.XP,
		"leveledUp":       res.LeveledUp,
		"levelsGained":    res.LevelsGained,
		"newAchievements": res.NewAchievements,
		"insights":        res.Insights,
		"ranks":           res.Ranks,
		"profile":         res.Profile,
	}
}

// GetLeaderboard returns one board.
func (h *Handler) GetLeaderboard(c echo.Context) error {
	boards := h.engine.Leaderboards(c.Request().Context())
	board, err := leaderboard.Select(&boards, c.Param("board"))
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, board)
}

type trophyResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Unlocked    bool       `json:"unlocked"`
	DateEarned  *time.Time `json:"dateEarned,omitempty"`
}

// GetAchievements returns the full catalog with unlock state.
func (h *Handler) GetAchievements(c echo.Context) error {
	wall := achievement.Wall(h.engine.Profile())
	out := make([]trophyResponse, 0, len(wall))
	for _, t := range wall {
		out = append(out, newTrophyResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}

// GetAchievement returns one catalog entry with its unlock state.
func (h *Handler) GetAchievement(c echo.Context) error {
	def, ok := achievement.Lookup(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown achievement")
	}
	for _, t := range achievement.Wall(h.engine.Profile()) {
		if t.ID == def.ID {
			return c.JSON(http.StatusOK, newTrophyResponse(t))
		}
	}
	return c.JSON(http.StatusOK, newTrophyResponse(achievement.Trophy{Definition: def}))
}

func newTrophyResponse(t achievement.Trophy) trophyResponse {
	tr := trophyResponse{ID: t.ID, Title: t.Title, Description: t.Description, Unlocked: t.Unlocked}
	if t.Unlocked {
		earned := t.DateEarned
		tr.DateEarned = &earned
	}
	return tr
}

// GetHeatmap returns per-key error counts and intensities. The optional
// top query parameter limits the ranked list.
func (h *Handler) GetHeatmap(c echo.Context) error {
	top := 10
	if raw := c.QueryParam("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, invalidRequest)
		}
		top = n
	}
	t := heatmap.NewTable(h.engine.KeyErrors())
	intensity := make(map[string]string, len(t.Counts()))
	for key := range t.Counts() {
		intensity[key] = t.Intensity(key).String()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"counts":    t.Counts(),
		"intensity": intensity,
		"top":       t.Top(top),
		"total":     t.Total(),
	})
}

// ResetHeatmap clears all key error counts.
func (h *Handler) ResetHeatmap(c echo.Context) error {
	if err := h.engine.ResetKeyErrors(c.Request().Context()); err != nil {
		return h.fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPrompt returns a prompt for the player's level, or the level given in
// the query.
func (h *Handler) GetPrompt(c echo.Context) error {
	if h.prompt == nil {
		return echo.NewHTTPError(http.StatusNotFound, "prompts are not enabled")
	}
	level := h.engine.Profile().Level
	if raw := c.QueryParam("level"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, invalidRequest)
		}
		level = n
	}
	h.promptMu.Lock()
	text := h.prompt.Next(c.Request().Context(), level)
	h.promptMu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"level": level, "prompt": text})
}

// fail maps domain errors to HTTP statuses.
func (h *Handler) fail(err error) error {
	switch {
	case errors.Is(err, profile.ErrUnknownPreference), errors.Is(err, leaderboard.ErrUnknownBoard):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, profile.ErrInvalidPreference),
		errors.Is(err, session.ErrEmptyPrompt),
		errors.Is(err, session.ErrIncomplete),
		errors.Is(err, typing.ErrInvalidEdit):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrSessionActive):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		h.log.Errorf("api request failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
