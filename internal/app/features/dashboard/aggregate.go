// internal/app/features/dashboard/aggregate.go
package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/services/inventory"
	"github.com/agrimitra/agrimitra/internal/app/system/capacity"
	"github.com/agrimitra/agrimitra/internal/app/system/money"
	"github.com/agrimitra/agrimitra/internal/domain/models"
)

// Summary aggregates one role's inventory-service collections for
// display. A fetch failure zeroes the affected block and records a
// message; it never aborts the page.
type Summary struct {
	StockCount    int
	TotalQuantity float64
	StockValue    float64
	Health        capacity.Status

	Requested int
	Accepted  int
	Rejected  int
	Cancelled int

	PaymentsDue int
	TradeVolume float64

	Errors []string
}

// buildSummary fetches stock, requests, and transactions for roleID
// and derives counts, currency sums, and the capacity bucket.
func buildSummary(ctx context.Context, gw inventory.Gateway, roleID string, log *zap.Logger) Summary {
	var s Summary

	stock, err := gw.ListStock(ctx, roleID)
	if err != nil {
		log.Error("dashboard: stock fetch failed", zap.String("role_id", roleID), zap.Error(err))
		s.Errors = append(s.Errors, "Stock figures are unavailable right now.")
		s.Health = capacity.Critical
	} else {
		s.StockCount = len(stock)
		var totalCap float64
		prices := make([]string, 0, len(stock))
		for _, item := range stock {
			s.TotalQuantity += item.Quantity
			totalCap += item.Capacity
			prices = append(prices, item.Price)
		}
		s.StockValue = money.Sum(prices)
		s.Health = capacity.BucketQty(s.TotalQuantity, totalCap)
	}

	requests, err := gw.ListRequests(ctx, roleID)
	if err != nil {
		log.Error("dashboard: requests fetch failed", zap.String("role_id", roleID), zap.Error(err))
		s.Errors = append(s.Errors, "Request counts are unavailable right now.")
	} else {
		for _, req := range requests {
			switch req.Status {
			case models.StatusRequested:
				s.Requested++
			case models.StatusAccepted:
				s.Accepted++
			case models.StatusRejected:
				s.Rejected++
			case models.StatusCancelled:
				s.Cancelled++
			}
			if req.PaymentStatus == models.PaymentDue {
				s.PaymentsDue++
			}
		}
	}

	transactions, err := gw.ListTransactions(ctx, roleID)
	if err != nil {
		log.Error("dashboard: transactions fetch failed", zap.String("role_id", roleID), zap.Error(err))
		s.Errors = append(s.Errors, "Transaction totals are unavailable right now.")
	} else {
		prices := make([]string, 0, len(transactions))
		for _, txn := range transactions {
			prices = append(prices, txn.Price)
		}
		s.TradeVolume = money.Sum(prices)
	}

	return s
}
