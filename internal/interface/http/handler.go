package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
	"github.com/yanqian/birthchart/internal/infra/config"
	apperrors "github.com/yanqian/birthchart/pkg/errors"
)

const healthTimeout = 3 * time.Second

// Pinger checks that the calculation service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires the HTTP transport to the birth chart domain.
type Handler struct {
	chartSvc birthchart.Service
	pinger   Pinger
	pages    *pageRenderer
	session  sessionCookie
	logger   *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, chartSvc birthchart.Service, pinger Pinger, logger *slog.Logger) (*Handler, error) {
	pages, err := newPageRenderer("index.gohtml")
	if err != nil {
		return nil, err
	}
	return &Handler{
		chartSvc: chartSvc,
		pinger:   pinger,
		pages:    pages,
		session:  sessionCookie{name: cfg.Session.CookieName, ttl: cfg.Session.TTL},
		logger:   logger.With("component", "http.handler"),
	}, nil
}

// chartResponse is the JSON shape of a finished submission.
type chartResponse struct {
	Status birthchart.Status       `json:"status"`
	Result *birthchart.ChartResult `json:"result,omitempty"`
	Rows   []rowResponse           `json:"rows"`
}

type rowResponse struct {
	Name       string `json:"name"`
	Retrograde bool   `json:"retrograde"`
	Sign       string `json:"sign"`
	Glyph      string `json:"glyph"`
	Degrees    string `json:"degrees"`
	House      int    `json:"house"`
}

func newChartResponse(view birthchart.View) chartResponse {
	rows := birthchart.Rows(view.Result)
	out := make([]rowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowResponse(row))
	}
	return chartResponse{Status: view.Status, Result: view.Result, Rows: out}
}

// CreateChart handles POST /api/v1/charts.
func (h *Handler) CreateChart(c *gin.Context) {
	var form birthchart.FormInput
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "request body must be a JSON object", err))
		return
	}

	sessionID := h.session.ensure(c)
	view, err := h.chartSvc.Submit(c.Request.Context(), sessionID, form)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	if view.Status == birthchart.StatusError {
		abortWithError(c, NewHTTPError(http.StatusBadGateway, apperrors.CodeCalculationFailed, view.Error, nil))
		return
	}

	c.JSON(http.StatusOK, newChartResponse(view))
}

// CurrentChart returns the visitor's latest view.
func (h *Handler) CurrentChart(c *gin.Context) {
	sessionID, _ := h.session.read(c)
	view, err := h.chartSvc.Current(c.Request.Context(), sessionID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": view.Status,
		"error":  view.Error,
		"chart":  newChartResponse(view),
	})
}

// Health reports whether the calculation service is reachable.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	backend := "ok"
	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Warn("calculation service unreachable", "error", err)
			backend = "unreachable"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": backend})
}
