// internal/domain/models/request.go
package models

import (
	"fmt"
	"time"
)

// RequestStatus is the lifecycle state of an inventory request record.
type RequestStatus string

const (
	StatusRequested RequestStatus = "requested"
	StatusAccepted  RequestStatus = "accepted"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// PaymentStatus tracks settlement of an accepted request. It toggles
// freely between done and due regardless of the request status; that is
// observed backend behavior, not something this portal restricts.
type PaymentStatus string

const (
	PaymentDone PaymentStatus = "done"
	PaymentDue  PaymentStatus = "due"
)

// transitions is the legal status transition table. Accepted, rejected,
// and cancelled are terminal.
var transitions = map[RequestStatus][]RequestStatus{
	StatusRequested: {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:  {},
	StatusRejected:  {},
	StatusCancelled: {},
}

// ValidStatus reports whether s is a known request status.
func ValidStatus(s RequestStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether a request may move from one status to
// another. Transition legality is checked here, before any network call
// is issued, rather than trusting the inventory service to reject an
// illegal PATCH silently.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status change and returns a descriptive error
// when it is illegal.
func Transition(from, to RequestStatus) error {
	if !ValidStatus(from) {
		return fmt.Errorf("unknown request status %q", from)
	}
	if !ValidStatus(to) {
		return fmt.Errorf("unknown request status %q", to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("request cannot move from %s to %s", from, to)
	}
	return nil
}

// Request is an inventory transaction proposal between two role-scoped
// parties (dealer↔wholesaler, retailer↔dealer, and so on). The inventory
// service owns these records; the portal reads them and transitions
// status/paymentStatus via PATCH.
type Request struct {
	ID            string        `json:"id"`
	RequesterID   string        `json:"requesterId"`
	RequesterName string        `json:"requesterName,omitempty"`
	PartyID       string        `json:"partyId"`
	PartyName     string        `json:"partyName,omitempty"`
	ItemName      string        `json:"itemName"`
	Category      string        `json:"category,omitempty"`
	RequestedQty  float64       `json:"requestedQty"`
	Unit          string        `json:"unit,omitempty"`
	Price         string        `json:"price,omitempty"` // free-text display string, see system/money
	Status        RequestStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
