package models

import "time"

// SaleStatus is the sale state the auction API reports for a product
type SaleStatus string

const (
	StatusUnsold SaleStatus = "unsold"
	StatusSold   SaleStatus = "sold"
)

// Urgency is the display tier derived from the remaining seconds of a deadline
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyModerate Urgency = "moderate"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// BidOutcome is the server verdict for a submitted bid
type BidOutcome string

const (
	OutcomeAccepted BidOutcome = "accepted"
	OutcomeRejected BidOutcome = "rejected"
)

// Deadline is the server-issued instant after which bidding closes.
// Valid is false when Raw could not be parsed; such a deadline counts as expired.
type Deadline struct {
	At    time.Time `json:"at"`
	Raw   string    `json:"raw"`
	Valid bool      `json:"valid"`
}

// Product represents an auctioned product as returned by the auction API
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    Deadline   `json:"deadline"`
	Status      SaleStatus `json:"status"`
	AuctionID   string     `json:"auction_id,omitempty"`
}

// Auction groups products under a shared deadline
type Auction struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Deadline   Deadline `json:"deadline"`
	ProductIDs []string `json:"product_ids"`
}

// CountdownState is recomputed on every tick; Expired is true exactly when RemainingSeconds is 0
type CountdownState struct {
	RemainingSeconds int64   `json:"remaining_seconds"`
	Urgency          Urgency `json:"urgency"`
	Expired          bool    `json:"expired"`
}

// BidRecord is the immutable result of a bid submission whose outcome is known
type BidRecord struct {
	BidID       string     `json:"bid_id"`
	ProductKey  string     `json:"product_key"`
	BidderID    string     `json:"bidder_id"`
	Amount      float64    `json:"amount"`
	SubmittedAt time.Time  `json:"submitted_at"`
	Outcome     BidOutcome `json:"outcome"`
	Reason      string     `json:"reason,omitempty"`
}

// UpstreamBid is a bid as listed by the auction API history endpoints
type UpstreamBid struct {
	Amount      float64 `json:"amount"`
	UserID      string  `json:"user_id"`
	Timestamp   string  `json:"timestamp"`
	ProductName string  `json:"product_name"`
	Status      string  `json:"status"`
}
