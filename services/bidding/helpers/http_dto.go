package helpers

// Request/Response DTOs
type PlaceBidRequest struct {
	ProductKey string  `json:"product_key" binding:"required"`
	UserID     string  `json:"user_id" binding:"required"`
	Amount     float64 `json:"amount"`
}

// CheckBidRequest asks the eligibility gate without submitting; the gate itself judges the amount
type CheckBidRequest struct {
	ProductKey string  `json:"product_key" binding:"required"`
	Amount     float64 `json:"amount"`
}

type BidRecordResponse struct {
	BidID       string  `json:"bid_id"`
	ProductKey  string  `json:"product_key"`
	UserID      string  `json:"user_id"`
	Amount      float64 `json:"amount"`
	Outcome     string  `json:"outcome"`
	Reason      string  `json:"reason,omitempty"`
	SubmittedAt string  `json:"submitted_at"`
}

type PlaceBidResponse struct {
	Accepted   bool               `json:"accepted"`
	Reason     string             `json:"reason,omitempty"`
	Record     *BidRecordResponse `json:"record,omitempty"`
	HighestBid float64            `json:"highest_bid"`
	Stale      bool               `json:"stale"`
}
