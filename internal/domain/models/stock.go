// internal/domain/models/stock.go
package models

import "time"

// StockItem is one line of a role's held inventory (dealer, wholesaler,
// or retailer stock), owned by the inventory service.
type StockItem struct {
	ID       string  `json:"id"`
	OwnerID  string  `json:"ownerId"` // roleId of the holding party
	ItemName string  `json:"itemName"`
	Category string  `json:"category,omitempty"`
	Quantity float64 `json:"quantity"`
	Capacity float64 `json:"capacity,omitempty"` // storage limit for this item, 0 = unknown
	Unit     string  `json:"unit,omitempty"`
	Price    string  `json:"price,omitempty"` // free-text display string

	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
