// internal/app/features/statistics/handler.go
package statistics

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/services/statistics"
	"github.com/agrimitra/agrimitra/internal/app/system/timeouts"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
	"github.com/agrimitra/agrimitra/internal/domain/models"
)

// Handler serves the historical crop-statistics explorer: a query form
// that fetches a production time series from the statistics service and
// tables it alongside simple aggregates.
type Handler struct {
	Log   *zap.Logger
	Stats statistics.Gateway
}

func NewHandler(statsGW statistics.Gateway, logger *zap.Logger) *Handler {
	return &Handler{
		Log:   logger,
		Stats: statsGW,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type trendPageData struct {
	viewdata.BaseVM
	Crop    string
	State   string
	Year    string
	Points  []models.TrendPoint
	Peak    models.TrendPoint
	Average float64
	Queried bool
	Error   string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /statistics                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeTrend renders the query form, and when crop and state are
// present in the query string, the fetched series beneath it.
func (h *Handler) ServeTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	data := trendPageData{
		BaseVM: viewdata.NewBaseVM(r, "Crop Statistics", "/"),
		Crop:   strings.TrimSpace(q.Get("crop")),
		State:  strings.TrimSpace(q.Get("state")),
		Year:   strings.TrimSpace(q.Get("year")),
	}

	if data.Crop == "" || data.State == "" {
		templates.Render(w, r, "statistics_trend", data)
		return
	}
	data.Queried = true

	query := statistics.TrendQuery{Crop: data.Crop, State: data.State}
	if data.Year != "" {
		year, err := strconv.Atoi(data.Year)
		if err != nil {
			data.Error = "Year must be a number."
			templates.Render(w, r, "statistics_trend", data)
			return
		}
		query.Year = year
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	points, err := h.Stats.Trend(ctx, query)
	if err != nil {
		h.Log.Error("statistics: trend fetch failed",
			zap.String("crop", query.Crop),
			zap.String("state", query.State),
			zap.Error(err))
		data.Error = "Historical data is unavailable right now. Please try again later."
		templates.Render(w, r, "statistics_trend", data)
		return
	}

	data.Points = points
	data.Peak, data.Average = summarize(points)
	templates.Render(w, r, "statistics_trend", data)
}

// summarize picks the peak-production year and the mean value of the
// series. Zero values when the series is empty.
func summarize(points []models.TrendPoint) (peak models.TrendPoint, avg float64) {
	if len(points) == 0 {
		return models.TrendPoint{}, 0
	}
	var total float64
	peak = points[0]
	for _, p := range points {
		total += p.Value
		if p.Value > peak.Value {
			peak = p
		}
	}
	return peak, total / float64(len(points))
}
