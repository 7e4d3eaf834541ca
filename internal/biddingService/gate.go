package bidding

import (
	"math"

	"auction-bff/internal/biddingerrors"
	model "auction-bff/internal/models"

	"github.com/shopspring/decimal"
)

// Reason is the deterministic code attached to a rejected bid attempt
type Reason string

const (
	ReasonProductSold           Reason = "ProductSold"
	ReasonAuctionExpired        Reason = "AuctionExpired"
	ReasonNonPositiveAmount     Reason = "NonPositiveAmount"
	ReasonAmountNotAboveHighest Reason = "AmountNotAboveHighest"
)

// BidContext is everything the gate needs to judge one bid attempt
type BidContext struct {
	ProductKey string
	Amount     float64
	Status     model.SaleStatus
	Expired    bool
	Highest    float64
}

// Decision is the gate verdict. Reason is empty when Accepted.
type Decision struct {
	Accepted bool   `json:"accepted"`
	Reason   Reason `json:"reason,omitempty"`
}

func accept() Decision { return Decision{Accepted: true} }

func reject(r Reason) Decision { return Decision{Reason: r} }

// Err returns the sentinel for a rejection, or nil for an accepted bid
func (d Decision) Err() error {
	if d.Accepted {
		return nil
	}
	switch d.Reason {
	case ReasonProductSold:
		return biddingerrors.ErrProductSold
	case ReasonAuctionExpired:
		return biddingerrors.ErrAuctionExpired
	case ReasonNonPositiveAmount:
		return biddingerrors.ErrNonPositiveAmount
	default:
		return biddingerrors.ErrAmountNotAboveHighest
	}
}

// Evaluate decides whether a bid may be sent. Rules are checked in order and the first match wins:
// sold, expired, non-positive amount, amount not above the highest bid.
func Evaluate(bc BidContext) Decision {
	if bc.Status == model.StatusSold {
		return reject(ReasonProductSold)
	}
	if bc.Expired {
		return reject(ReasonAuctionExpired)
	}

	if math.IsNaN(bc.Amount) || math.IsInf(bc.Amount, 0) {
		return reject(ReasonNonPositiveAmount)
	}
	amount := decimal.NewFromFloat(bc.Amount)
	if !amount.IsPositive() {
		return reject(ReasonNonPositiveAmount)
	}
	if math.IsNaN(bc.Highest) || math.IsInf(bc.Highest, 1) {
		return reject(ReasonAmountNotAboveHighest)
	}
	if math.IsInf(bc.Highest, -1) {
		return accept()
	}
	if amount.LessThanOrEqual(decimal.NewFromFloat(bc.Highest)) {
		return reject(ReasonAmountNotAboveHighest)
	}
	return accept()
}
