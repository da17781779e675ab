// internal/app/features/requests/handler.go
package requests

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	uierrors "github.com/agrimitra/agrimitra/internal/app/features/errors"
	"github.com/agrimitra/agrimitra/internal/app/services/inventory"
	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/authz"
	"github.com/agrimitra/agrimitra/internal/app/system/timeouts"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
	"github.com/agrimitra/agrimitra/internal/domain/models"
)

type Handler struct {
	Log       *zap.Logger
	Inventory inventory.Gateway
	ErrLog    *uierrors.ErrorLogger
}

func NewHandler(inv inventory.Gateway, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:       logger,
		Inventory: inv,
		ErrLog:    errLog,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type listPageData struct {
	viewdata.BaseVM
	Incoming     []models.Request // requests where we are the party
	Transactions []models.Request
	Error        string
	Notice       string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /requests                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	_, _, roleID, _ := authz.UserCtx(r)

	data := listPageData{
		BaseVM: viewdata.NewBaseVM(r, "Requests", "/"),
		Notice: r.URL.Query().Get("notice"),
	}

	incoming, err := h.Inventory.ListRequests(ctx, roleID)
	if err != nil {
		h.Log.Error("requests: list fetch failed", zap.String("role_id", roleID), zap.Error(err))
		data.Error = "Requests are unavailable right now."
	} else {
		data.Incoming = incoming
	}

	if txns, err := h.Inventory.ListTransactions(ctx, roleID); err != nil {
		h.Log.Error("requests: transactions fetch failed", zap.String("role_id", roleID), zap.Error(err))
		if data.Error == "" {
			data.Error = "Transaction history is unavailable right now."
		}
	} else {
		data.Transactions = txns
	}

	templates.Render(w, r, "requests_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /requests – create                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/requests")
		return
	}

	user, _ := auth.CurrentUser(r)
	partyID := strings.TrimSpace(r.FormValue("partyId"))
	itemName := strings.TrimSpace(r.FormValue("itemName"))
	qtyStr := strings.TrimSpace(r.FormValue("quantity"))
	price := strings.TrimSpace(r.FormValue("price"))

	if partyID == "" || itemName == "" || qtyStr == "" {
		h.redirectNotice(w, r, "Supplier, item, and quantity are required.")
		return
	}
	qty, err := strconv.ParseFloat(qtyStr, 64)
	if err != nil || qty <= 0 {
		h.redirectNotice(w, r, "Quantity must be a positive number.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	// Quantity is validated against the supplier's available stock
	// before anything goes over the wire.
	if stock, err := h.Inventory.ListStock(ctx, partyID); err == nil {
		for _, item := range stock {
			if strings.EqualFold(item.ItemName, itemName) && qty > item.Quantity {
				h.redirectNotice(w, r, "Requested quantity exceeds the supplier's available stock.")
				return
			}
		}
	}

	req := models.Request{
		RequesterID:   user.RoleID,
		RequesterName: user.Name,
		PartyID:       partyID,
		ItemName:      itemName,
		RequestedQty:  qty,
		Price:         price,
		Status:        models.StatusRequested,
	}
	if _, err := h.Inventory.CreateRequest(ctx, req); err != nil {
		h.Log.Error("requests: create failed", zap.Error(err))
		h.redirectNotice(w, r, "Could not send the request. Please try again.")
		return
	}

	h.redirectNotice(w, r, "Request sent.")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /requests/{id}/accept|reject|cancel                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.StatusAccepted)
}

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.StatusRejected)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.StatusCancelled)
}

// transition enforces the status table locally, PATCHes, then sends the
// browser back to the list so the collection is re-fetched rather than
// mutated in place.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, to models.RequestStatus) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		h.ErrLog.LogBadRequest(w, r, "missing request id", nil, "Unknown request.", "/requests")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	current, err := h.findRequest(ctx, r, requestID)
	if err != nil {
		h.Log.Error("requests: lookup before transition failed",
			zap.String("request_id", requestID), zap.Error(err))
		h.redirectNotice(w, r, "Could not load that request. Please try again.")
		return
	}
	if current == nil {
		h.redirectNotice(w, r, "That request no longer exists.")
		return
	}

	if err := models.Transition(current.Status, to); err != nil {
		h.redirectNotice(w, r, "That request is already "+string(current.Status)+" and cannot change.")
		return
	}

	if err := h.Inventory.UpdateStatus(ctx, requestID, to); err != nil {
		h.Log.Error("requests: status update failed",
			zap.String("request_id", requestID),
			zap.String("to", string(to)),
			zap.Error(err))
		h.redirectNotice(w, r, "Could not update the request. Please try again.")
		return
	}

	h.redirectNotice(w, r, "Request "+string(to)+".")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /requests/{id}/payment                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandlePaymentToggle flips paymentStatus between done and due. The
// backend allows this regardless of request status.
func (h *Handler) HandlePaymentToggle(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		h.ErrLog.LogBadRequest(w, r, "missing request id", nil, "Unknown request.", "/requests")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	current, err := h.findRequest(ctx, r, requestID)
	if err != nil || current == nil {
		h.redirectNotice(w, r, "Could not load that request. Please try again.")
		return
	}

	next := models.PaymentDone
	if current.PaymentStatus == models.PaymentDone {
		next = models.PaymentDue
	}

	if err := h.Inventory.UpdatePayment(ctx, requestID, next); err != nil {
		h.Log.Error("requests: payment update failed",
			zap.String("request_id", requestID), zap.Error(err))
		h.redirectNotice(w, r, "Could not update the payment status. Please try again.")
		return
	}

	h.redirectNotice(w, r, "Payment marked "+string(next)+".")
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// findRequest scans the current role's requests and transactions for
// the id; the inventory service has no single-record endpoint.
func (h *Handler) findRequest(ctx context.Context, r *http.Request, requestID string) (*models.Request, error) {
	_, _, roleID, _ := authz.UserCtx(r)

	requests, err := h.Inventory.ListRequests(ctx, roleID)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].ID == requestID {
			return &requests[i], nil
		}
	}

	txns, err := h.Inventory.ListTransactions(ctx, roleID)
	if err != nil {
		return nil, err
	}
	for i := range txns {
		if txns[i].ID == requestID {
			return &txns[i], nil
		}
	}
	return nil, nil
}

func (h *Handler) redirectNotice(w http.ResponseWriter, r *http.Request, notice string) {
	http.Redirect(w, r, "/requests?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}
