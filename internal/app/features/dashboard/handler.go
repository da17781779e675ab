// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/services/adminapi"
	"github.com/agrimitra/agrimitra/internal/app/services/crophealth"
	"github.com/agrimitra/agrimitra/internal/app/services/inventory"
	"github.com/agrimitra/agrimitra/internal/app/services/statistics"
	"github.com/agrimitra/agrimitra/internal/app/system/authz"
	"github.com/agrimitra/agrimitra/internal/app/system/money"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
	"github.com/agrimitra/agrimitra/internal/app/system/timeouts"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
	"github.com/agrimitra/agrimitra/internal/domain/models"
)

type Handler struct {
	Log        *zap.Logger
	Inventory  inventory.Gateway
	Stats      statistics.Gateway
	CropHealth crophealth.Gateway
	Admin      adminapi.Gateway
}

func NewHandler(
	inv inventory.Gateway,
	stats statistics.Gateway,
	cropGW crophealth.Gateway,
	adminGW adminapi.Gateway,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		Inventory:  inv,
		Stats:      stats,
		CropHealth: cropGW,
		Admin:      adminGW,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type summaryPageData struct {
	viewdata.BaseVM
	RoleLabel string
	Summary   Summary
}

type expertPageData struct {
	viewdata.BaseVM
	ModelReady  bool
	ModelName   string
	Accuracy    float64
	SampleCount int
	Errors      []string
}

type adminPageData struct {
	viewdata.BaseVM
	TotalUsers int
	ByRole     map[string]int
	Errors     []string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard – role dispatch                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDispatch sends a signed-in user to their role's dashboard. The
// generic path only renders for roles with no dedicated page.
func (h *Handler) ServeDispatch(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	landing := roles.LandingPath(string(role))
	if landing != roles.GenericLandingPath {
		http.Redirect(w, r, landing, http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "dashboard_generic", summaryPageData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Per-role dashboards                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeFarmer handles GET /farmer/dashboard.
func (h *Handler) ServeFarmer(w http.ResponseWriter, r *http.Request) {
	h.serveSummary(w, r, "Farmer")
}

// ServeDealer handles GET /dealer/dashboard.
func (h *Handler) ServeDealer(w http.ResponseWriter, r *http.Request) {
	h.serveSummary(w, r, "Dealer")
}

// ServeWholesaler handles GET /wholesaler/dashboard.
func (h *Handler) ServeWholesaler(w http.ResponseWriter, r *http.Request) {
	h.serveSummary(w, r, "Wholesaler")
}

// ServeRetailer handles GET /retailer/dashboard.
func (h *Handler) ServeRetailer(w http.ResponseWriter, r *http.Request) {
	h.serveSummary(w, r, "Retailer")
}

// ServeProvider handles GET /provider/dashboard.
func (h *Handler) ServeProvider(w http.ResponseWriter, r *http.Request) {
	h.serveSummary(w, r, "Resource Provider")
}

// ServeAgency handles GET /agency/dashboard. Agencies and NGOs watch
// trade flows rather than holding stock of their own.
func (h *Handler) ServeAgency(w http.ResponseWriter, r *http.Request) {
	h.serveOversight(w, r, "Government Agency")
}

// ServeNGO handles GET /ngo/dashboard.
func (h *Handler) ServeNGO(w http.ResponseWriter, r *http.Request) {
	h.serveOversight(w, r, "NGO")
}

// ServeExpert handles GET /expert/dashboard: inference model status
// and self-reported accuracy.
func (h *Handler) ServeExpert(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	data := expertPageData{
		BaseVM: viewdata.NewBaseVM(r, "Expert Dashboard", "/"),
	}

	if st, err := h.CropHealth.Status(ctx); err != nil {
		h.Log.Error("dashboard: model status fetch failed", zap.Error(err))
		data.Errors = append(data.Errors, "Model status is unavailable right now.")
	} else {
		data.ModelReady = st.Ready
		data.ModelName = st.Model
	}

	if perf, err := h.CropHealth.Performance(ctx); err != nil {
		h.Log.Error("dashboard: model performance fetch failed", zap.Error(err))
		data.Errors = append(data.Errors, "Model performance is unavailable right now.")
	} else {
		data.Accuracy = perf.Accuracy * 100
		data.SampleCount = perf.SampleCount
	}

	templates.Render(w, r, "dashboard_expert", data)
}

// ServeAdmin handles GET /admin/dashboard: platform-wide user counts.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	data := adminPageData{
		BaseVM: viewdata.NewBaseVM(r, "Admin Dashboard", "/"),
	}

	if stats, err := h.Admin.UserStats(ctx); err != nil {
		h.Log.Error("dashboard: user stats fetch failed", zap.Error(err))
		data.Errors = append(data.Errors, "User statistics are unavailable right now.")
	} else {
		data.TotalUsers = stats.Total
		data.ByRole = stats.ByRole
	}

	templates.Render(w, r, "dashboard_admin", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) serveSummary(w http.ResponseWriter, r *http.Request, label string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	_, _, roleID, _ := authz.UserCtx(r)

	templates.Render(w, r, "dashboard_summary", summaryPageData{
		BaseVM:    viewdata.NewBaseVM(r, label+" Dashboard", "/"),
		RoleLabel: label,
		Summary:   buildSummary(ctx, h.Inventory, roleID, h.Log),
	})
}

// serveOversight renders the monitoring view: trade volume across the
// transactions the oversight body is party to, no stock block.
func (h *Handler) serveOversight(w http.ResponseWriter, r *http.Request, label string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	_, _, roleID, _ := authz.UserCtx(r)

	var s Summary
	transactions, err := h.Inventory.ListTransactions(ctx, roleID)
	if err != nil {
		h.Log.Error("dashboard: transactions fetch failed", zap.String("role_id", roleID), zap.Error(err))
		s.Errors = append(s.Errors, "Transaction totals are unavailable right now.")
	} else {
		prices := make([]string, 0, len(transactions))
		for _, txn := range transactions {
			prices = append(prices, txn.Price)
			if txn.PaymentStatus == models.PaymentDue {
				s.PaymentsDue++
			}
		}
		s.TradeVolume = money.Sum(prices)
	}

	templates.Render(w, r, "dashboard_oversight", summaryPageData{
		BaseVM:    viewdata.NewBaseVM(r, label+" Dashboard", "/"),
		RoleLabel: label,
		Summary:   s,
	})
}
