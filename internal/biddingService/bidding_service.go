package bidding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"auction-bff/internal/auctionapi"
	"auction-bff/internal/biddingerrors"
	"auction-bff/internal/countdown"
	"auction-bff/internal/highestbid"
	model "auction-bff/internal/models"
	"auction-bff/internal/repository"
	"auction-bff/utils"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// DefaultSubmitTimeout bounds a bid submission when no timeout is configured
const DefaultSubmitTimeout = 10 * time.Second

// BidAttempt is the result of a bid that passed the eligibility gate.
// Record is nil when the submission outcome is unknown.
type BidAttempt struct {
	Decision   Decision         `json:"decision"`
	Record     *model.BidRecord `json:"record,omitempty"`
	HighestBid float64          `json:"highest_bid"`
	Stale      bool             `json:"stale"`
}

// HighestBidView is the cached highest bid with an explicit staleness flag
type HighestBidView struct {
	ProductKey      string           `json:"product_key"`
	HighestBid      float64          `json:"highest_bid"`
	LastRefreshedAt *time.Time       `json:"last_refreshed_at,omitempty"`
	State           highestbid.State `json:"state"`
	Stale           bool             `json:"stale"`
}

// UserBidSummary lists the recorded outcomes of one bidder
type UserBidSummary struct {
	UserID   string            `json:"user_id"`
	Total    int               `json:"total"`
	Accepted int               `json:"accepted"`
	Rejected int               `json:"rejected"`
	Records  []model.BidRecord `json:"records"`
}

// ProductOutcomeSummary lists the outcomes this service recorded for one product
type ProductOutcomeSummary struct {
	ProductID  string            `json:"product_id"`
	ProductKey string            `json:"product_key"`
	Total      int               `json:"total"`
	Accepted   int               `json:"accepted"`
	Rejected   int               `json:"rejected"`
	Records    []model.BidRecord `json:"records"`
}

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	api     auctionapi.API
	ticker  *countdown.Ticker
	cache   *highestbid.Cache
	repo    repository.BidLedger
	clock   clockwork.Clock
	timeout time.Duration

	mu             sync.RWMutex
	products       map[string]model.Product // key: productID
	productsByName map[string]string        // key: product name -> productID
	auctions       map[string]model.Auction // key: auctionID
	productAuction map[string]string        // key: productID -> auctionID
}

// NewBiddingService creates a new BiddingService instance with an empty catalog; call Sync to load it
func NewBiddingService(api auctionapi.API, ticker *countdown.Ticker, cache *highestbid.Cache, repo repository.BidLedger, clock clockwork.Clock, timeout time.Duration) *BiddingService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return &BiddingService{
		api:            api,
		ticker:         ticker,
		cache:          cache,
		repo:           repo,
		clock:          clock,
		timeout:        timeout,
		products:       make(map[string]model.Product),
		productsByName: make(map[string]string),
		auctions:       make(map[string]model.Auction),
		productAuction: make(map[string]string),
	}
}

// TryBid runs the eligibility gate without sending anything
func (s *BiddingService) TryBid(ctx context.Context, productKey string, amount float64) (Decision, error) {
	product, err := s.resolve(productKey)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(s.bidContext(ctx, product, amount)), nil
}

// PlaceBid gates, submits and reconciles a bid. Every submission is followed by an
// invalidate and refresh of the highest bid, whatever its outcome.
func (s *BiddingService) PlaceBid(ctx context.Context, productKey, bidderID string, amount float64) (BidAttempt, error) {
	if productKey == "" || bidderID == "" {
		return BidAttempt{}, fmt.Errorf("service: %w - missing product key or bidder id", biddingerrors.ErrInvalidBid)
	}

	product, err := s.resolve(productKey)
	if err != nil {
		return BidAttempt{}, err
	}

	key := cacheKey(product)
	bc := s.bidContext(ctx, product, amount)
	decision := Evaluate(bc)
	if !decision.Accepted {
		return BidAttempt{Decision: decision, HighestBid: bc.Highest}, fmt.Errorf("service: %w - product %s", decision.Err(), key)
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.timeout)
	outcome, submitErr := s.api.SubmitBid(submitCtx, auctionapi.BidSubmission{
		ProductKey:  key,
		ProductName: product.Name,
		Amount:      amount,
		BidderID:    bidderID,
	})
	cancel()

	highest, refreshErr := s.reconcile(ctx, key)
	attempt := BidAttempt{Decision: decision, HighestBid: highest.HighestBid, Stale: highest.Stale}

	if submitErr != nil {
		if errors.Is(submitErr, context.DeadlineExceeded) && !errors.Is(submitErr, biddingerrors.ErrAPITimeout) {
			submitErr = fmt.Errorf("%w: %w", biddingerrors.ErrAPITimeout, submitErr)
		}
		return attempt, fmt.Errorf("service: failed to submit bid for product %s by user %s: %w", key, bidderID, submitErr)
	}

	record := model.BidRecord{
		BidID:       utils.GenerateID(),
		ProductKey:  key,
		BidderID:    bidderID,
		Amount:      amount,
		SubmittedAt: s.clock.Now().UTC(),
		Outcome:     model.OutcomeAccepted,
	}
	if !outcome.Accepted {
		record.Outcome = model.OutcomeRejected
		record.Reason = outcome.Reason
	}
	if err := s.repo.RecordOutcome(record); err != nil {
		utils.Error("service: failed to record bid outcome", map[string]any{
			"bid_id":      record.BidID,
			"product_key": key,
			"error":       err.Error(),
		})
	}
	attempt.Record = &record

	if outcome.Accepted {
		return attempt, nil
	}

	// the gate saw a beatable highest bid; a refreshed value at or above the amount means another bidder got there first
	if refreshErr == nil && !decimal.NewFromFloat(amount).GreaterThan(decimal.NewFromFloat(highest.HighestBid)) {
		return attempt, fmt.Errorf("service: %w - highest bid is now %.2f", biddingerrors.ErrRaceLost, highest.HighestBid)
	}
	return attempt, fmt.Errorf("service: %w - %s", biddingerrors.ErrBidRejectedByServer, outcome.Reason)
}

// HighestBid returns the cached highest bid, refreshing it unless it is fresh.
// On a failed refresh the last known value is returned together with the error.
func (s *BiddingService) HighestBid(ctx context.Context, productKey string) (HighestBidView, error) {
	product, err := s.resolve(productKey)
	if err != nil {
		return HighestBidView{}, err
	}

	key := cacheKey(product)
	entry, err := s.cache.Load(ctx, key)
	view := viewOf(entry)
	if err != nil {
		return view, fmt.Errorf("service: failed to refresh highest bid for %s: %w", key, err)
	}
	return view, nil
}

// ProductBids returns the upstream bid history of a product
func (s *BiddingService) ProductBids(ctx context.Context, productKey string) ([]model.UpstreamBid, error) {
	product, err := s.resolve(productKey)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	bids, err := s.api.FetchBids(ctx, cacheKey(product))
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for product %s: %w", product.ID, err)
	}
	return bids, nil
}

// UserBids returns the outcomes this service recorded for a bidder
func (s *BiddingService) UserBids(userID string) (UserBidSummary, error) {
	if userID == "" {
		return UserBidSummary{}, fmt.Errorf("service: %w - empty user ID", biddingerrors.ErrInvalidBid)
	}

	records, err := s.repo.GetByUser(userID)
	if err != nil {
		return UserBidSummary{UserID: userID, Records: []model.BidRecord{}}, fmt.Errorf("service: failed to get bids for user %s: %w", userID, err)
	}

	summary := UserBidSummary{UserID: userID, Total: len(records), Records: records}
	summary.Accepted, summary.Rejected = tally(records)
	return summary, nil
}

// ProductOutcomes returns the outcomes this service recorded for a product, oldest first.
// Unlike ProductBids it never calls the auction API.
func (s *BiddingService) ProductOutcomes(productKey string) (ProductOutcomeSummary, error) {
	product, err := s.resolve(productKey)
	if err != nil {
		return ProductOutcomeSummary{}, err
	}

	key := cacheKey(product)
	summary := ProductOutcomeSummary{ProductID: product.ID, ProductKey: key, Records: []model.BidRecord{}}
	records, err := s.repo.GetByProduct(key)
	if err != nil {
		return summary, fmt.Errorf("service: failed to get outcomes for product %s: %w", product.ID, err)
	}

	summary.Total = len(records)
	summary.Records = records
	summary.Accepted, summary.Rejected = tally(records)
	return summary, nil
}

func tally(records []model.BidRecord) (accepted, rejected int) {
	for _, r := range records {
		if r.Outcome == model.OutcomeAccepted {
			accepted++
		} else {
			rejected++
		}
	}
	return accepted, rejected
}

// CountdownSnapshot returns the countdown state of the given tracked ids, or of all ids when none are given
func (s *BiddingService) CountdownSnapshot(ids ...string) countdown.Snapshot {
	snap := s.ticker.Snapshot()
	if len(ids) == 0 {
		return snap
	}
	out := make(countdown.Snapshot, len(ids))
	for _, id := range ids {
		if st, ok := snap[id]; ok {
			out[id] = st
		}
	}
	return out
}

// SubscribeCountdown streams countdown snapshots for the given ids, or for all ids when none are given
func (s *BiddingService) SubscribeCountdown(ids ...string) *countdown.Subscription {
	return s.ticker.Subscribe(ids...)
}

// reconcile replaces the optimistic view with the authoritative highest bid
func (s *BiddingService) reconcile(ctx context.Context, key string) (highestbid.Entry, error) {
	s.cache.Invalidate(key)
	_, err := s.cache.Refresh(ctx, key)
	entry, _ := s.cache.Get(key)
	if err != nil {
		utils.Warn("service: highest bid refresh after submission failed", map[string]any{
			"product_key": key,
			"error":       err.Error(),
		})
	}
	return entry, err
}

// bidContext assembles the gate input from the catalog, the ticker and the cache
func (s *BiddingService) bidContext(ctx context.Context, product model.Product, amount float64) BidContext {
	key := cacheKey(product)
	bc := BidContext{
		ProductKey: key,
		Amount:     amount,
		Status:     product.Status,
		Expired:    s.expired(product),
	}
	if bc.Status == model.StatusSold || bc.Expired {
		// rejected before the highest bid is consulted
		return bc
	}

	entry, ok := s.cache.Get(key)
	if !ok {
		var err error
		entry, err = s.cache.Load(ctx, key)
		if err != nil {
			utils.Warn("service: highest bid unknown, gating against zero", map[string]any{
				"product_key": key,
				"error":       err.Error(),
			})
		}
	}
	bc.Highest = entry.HighestBid
	return bc
}

func viewOf(entry highestbid.Entry) HighestBidView {
	view := HighestBidView{
		ProductKey: entry.ProductKey,
		HighestBid: entry.HighestBid,
		State:      entry.State,
		Stale:      entry.Stale,
	}
	if !entry.LastRefreshedAt.IsZero() {
		at := entry.LastRefreshedAt.UTC()
		view.LastRefreshedAt = &at
	}
	return view
}
