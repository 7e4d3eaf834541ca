package perftests

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auction-bff/internal/auctionapi"
	bidding "auction-bff/internal/biddingService"
	"auction-bff/internal/countdown"
	"auction-bff/internal/deadline"
	"auction-bff/internal/highestbid"
	model "auction-bff/internal/models"
	"auction-bff/internal/repository"

	"github.com/jonboulle/clockwork"
)

// memoryAPI is an in-process auction API that accepts a bid only when it beats the highest one
type memoryAPI struct {
	mu       sync.Mutex
	products []model.Product
	highest  map[string]float64
}

func newMemoryAPI(numProducts int, startingBid float64) *memoryAPI {
	api := &memoryAPI{highest: make(map[string]float64, numProducts)}
	until := deadline.At(time.Now().Add(24 * time.Hour))
	for i := 0; i < numProducts; i++ {
		name := fmt.Sprintf("product_%d", i)
		api.products = append(api.products, model.Product{
			ID:       fmt.Sprintf("p%d", i),
			Name:     name,
			Deadline: until,
			Status:   model.StatusUnsold,
		})
		api.highest[name] = startingBid
	}
	return api
}

func (m *memoryAPI) FetchProducts(ctx context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Product(nil), m.products...), nil
}

func (m *memoryAPI) FetchAuctions(ctx context.Context) ([]model.Auction, error) {
	return nil, nil
}

func (m *memoryAPI) FetchHighestBid(ctx context.Context, productKey string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highest[productKey], nil
}

func (m *memoryAPI) FetchBids(ctx context.Context, productKey string) ([]model.UpstreamBid, error) {
	return nil, nil
}

func (m *memoryAPI) SubmitBid(ctx context.Context, bid auctionapi.BidSubmission) (auctionapi.SubmitOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bid.Amount <= m.highest[bid.ProductName] {
		return auctionapi.SubmitOutcome{StatusCode: 400, Reason: "Bid must be higher than current highest bid"}, nil
	}
	m.highest[bid.ProductName] = bid.Amount
	return auctionapi.SubmitOutcome{Accepted: true, StatusCode: 200}, nil
}

// setupService wires a real service against the in-memory API and syncs its catalog
func setupService(numProducts int, startingBid float64) (*bidding.BiddingService, *countdown.Ticker) {
	api := newMemoryAPI(numProducts, startingBid)
	clock := clockwork.NewRealClock()
	ticker := countdown.NewTicker(clock)
	cache := highestbid.NewCache(api, clock, time.Second)
	svc := bidding.NewBiddingService(api, ticker, cache, repository.NewMemoryRepo(), clock, time.Second)
	if err := svc.Sync(context.Background()); err != nil {
		panic(err)
	}
	return svc, ticker
}
