package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"support-monitor/internal/model"
	"support-monitor/internal/render"
	"support-monitor/internal/service"
)

// DisplayOptions controls which hour columns the page shows.
type DisplayOptions struct {
	HideFutureHours bool
	Location        *time.Location
}

type Handler struct {
	monitor *service.MonitorService
	display DisplayOptions
	log     zerolog.Logger
	now     func() time.Time
}

func NewHandler(monitor *service.MonitorService, display DisplayOptions, log zerolog.Logger) *Handler {
	if display.Location == nil {
		display.Location = time.Local
	}
	return &Handler{monitor: monitor, display: display, log: log, now: monitor.Now}
}

func (h *Handler) Register(r *gin.Engine, apiMiddleware ...gin.HandlerFunc) {
	r.GET("/", h.getPage)
	r.GET("/fragment", h.getFragment)
	r.GET("/healthz", h.getHealth)

	api := r.Group("/api")
	api.Use(apiMiddleware...)

	api.GET("/monitor", h.getMonitor)
	api.GET("/loads", h.listLoads)
}

func (h *Handler) getPage(c *gin.Context) {
	c.HTML(http.StatusOK, render.PageTemplate, render.PageData{
		Title:       "Support Monitor",
		FragmentURL: "fragment" + queryString(c),
	})
}

func (h *Handler) getFragment(c *gin.Context) {
	state := h.monitor.Load(c.Request.Context())
	if state.Phase != model.PhaseReady {
		c.HTML(http.StatusBadGateway, render.ErrorTemplate, state.Message())
		return
	}

	view := render.BuildView(state.Table, h.currentHour(), h.hideFuture(c))
	c.HTML(http.StatusOK, render.TableTemplate, view)
}

func (h *Handler) getMonitor(c *gin.Context) {
	state := h.monitor.Load(c.Request.Context())
	if state.Phase != model.PhaseReady {
		c.JSON(http.StatusBadGateway, errorResponse(state.Message()))
		return
	}

	hour := h.currentHour()
	c.JSON(http.StatusOK, successResponse(monitorResponse{
		LoadID:       state.LoadID.String(),
		FetchedAt:    state.FetchedAt,
		CurrentHour:  hour,
		VisibleHours: render.VisibleHours(hour, h.hideFuture(c)),
		Pivot:        state.Table,
	}))
}

func (h *Handler) listLoads(c *gin.Context) {
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))

	loads, err := h.monitor.RecentLoads(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(loads))
}

func (h *Handler) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) currentHour() int {
	return h.now().In(h.display.Location).Hour()
}

// hideFuture applies the configured filter unless the request asks for ?all=1.
func (h *Handler) hideFuture(c *gin.Context) bool {
	if all, err := strconv.ParseBool(c.Query("all")); err == nil && all {
		return false
	}
	return h.display.HideFutureHours
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.log.Error().Err(err).Msg("handler error")
	c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
}

type monitorResponse struct {
	LoadID       string            `json:"load_id"`
	FetchedAt    time.Time         `json:"fetched_at"`
	CurrentHour  int               `json:"current_hour"`
	VisibleHours []int             `json:"visible_hours"`
	Pivot        *model.PivotTable `json:"pivot"`
}

func queryString(c *gin.Context) string {
	if q := c.Request.URL.RawQuery; q != "" {
		return "?" + q
	}
	return ""
}

func successResponse(data interface{}) gin.H {
	return gin.H{"data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
