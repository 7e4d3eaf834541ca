package bidding

import (
	"context"
	"fmt"
	"sort"
	"time"

	"auction-bff/internal/biddingerrors"
	"auction-bff/internal/deadline"
	model "auction-bff/internal/models"
	"auction-bff/utils"

	"golang.org/x/sync/errgroup"
)

// highestBidFanout caps concurrent highest-bid loads while listing products
const highestBidFanout = 8

// ProductView is a catalog product joined with its live countdown and highest bid
type ProductView struct {
	model.Product
	Countdown       model.CountdownState `json:"countdown"`
	TimeLeft        string               `json:"time_left"`
	HighestBid      float64              `json:"highest_bid"`
	HighestBidStale bool                 `json:"highest_bid_stale"`
	Biddable        bool                 `json:"biddable"`
}

// AuctionView is an auction joined with its live countdown
type AuctionView struct {
	model.Auction
	Countdown model.CountdownState `json:"countdown"`
	TimeLeft  string               `json:"time_left"`
}

// ProductTrackID is the countdown id of a product-level deadline
func ProductTrackID(productID string) string { return "product:" + productID }

// AuctionTrackID is the countdown id of an auction-level deadline
func AuctionTrackID(auctionID string) string { return "auction:" + auctionID }

// Sync reloads the catalog from the auction API and aligns the tracked countdowns with it.
// A failed auction listing keeps the previously known auctions.
func (s *BiddingService) Sync(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	products, err := s.api.FetchProducts(fetchCtx)
	if err != nil {
		return fmt.Errorf("service: failed to sync products: %w", err)
	}

	auctions, auctionErr := s.api.FetchAuctions(fetchCtx)
	if auctionErr != nil {
		utils.Warn("service: auction listing failed, keeping previous auctions", map[string]any{
			"error": auctionErr.Error(),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextProducts := make(map[string]model.Product, len(products))
	nextByName := make(map[string]string, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		nextProducts[p.ID] = p
		if p.Name != "" {
			nextByName[p.Name] = p.ID
		}
	}

	nextAuctions := s.auctions
	if auctionErr == nil {
		nextAuctions = make(map[string]model.Auction, len(auctions))
		for _, a := range auctions {
			if a.ID != "" {
				nextAuctions[a.ID] = a
			}
		}
	}

	nextProductAuction := make(map[string]string, len(nextProducts))
	for _, a := range nextAuctions {
		for _, pid := range a.ProductIDs {
			nextProductAuction[pid] = a.ID
		}
	}
	for _, p := range nextProducts {
		if p.AuctionID != "" {
			nextProductAuction[p.ID] = p.AuctionID
		}
	}

	for id := range s.products {
		if _, ok := nextProducts[id]; !ok {
			s.ticker.Untrack(ProductTrackID(id))
		}
	}
	for id := range s.auctions {
		if _, ok := nextAuctions[id]; !ok {
			s.ticker.Untrack(AuctionTrackID(id))
		}
	}
	for id, p := range nextProducts {
		s.ticker.Track(ProductTrackID(id), p.Deadline)
	}
	for id, a := range nextAuctions {
		s.ticker.Track(AuctionTrackID(id), a.Deadline)
	}

	s.products = nextProducts
	s.productsByName = nextByName
	s.auctions = nextAuctions
	s.productAuction = nextProductAuction

	utils.Info("service: catalog synced", map[string]any{
		"products": len(nextProducts),
		"auctions": len(nextAuctions),
	})
	return nil
}

// RunCatalogSync resyncs the catalog every interval until ctx is done
func (s *BiddingService) RunCatalogSync(ctx context.Context, interval time.Duration) {
	tk := s.clock.NewTicker(interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.Chan():
			if err := s.Sync(ctx); err != nil {
				utils.Warn("service: periodic catalog sync failed", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}
}

// ListProducts returns the catalog joined with countdown and highest bid, ordered by name.
// Highest bids never fetched are loaded first; failures leave them stale.
func (s *BiddingService) ListProducts(ctx context.Context, includeExpired bool) []ProductView {
	s.mu.RLock()
	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	s.mu.RUnlock()

	return s.productViews(ctx, products, includeExpired)
}

// ListAuctions returns every known auction with its countdown, ordered by name
func (s *BiddingService) ListAuctions(includeExpired bool) []AuctionView {
	s.mu.RLock()
	auctions := make([]model.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		auctions = append(auctions, a)
	}
	s.mu.RUnlock()

	views := make([]AuctionView, 0, len(auctions))
	for _, a := range auctions {
		st := s.stateOf(AuctionTrackID(a.ID), a.Deadline)
		if st.Expired && !includeExpired {
			continue
		}
		views = append(views, AuctionView{Auction: a, Countdown: st, TimeLeft: deadline.Label(st.RemainingSeconds)})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Name != views[j].Name {
			return views[i].Name < views[j].Name
		}
		return views[i].ID < views[j].ID
	})
	return views
}

// AuctionProducts returns the products of one auction, including expired ones
func (s *BiddingService) AuctionProducts(ctx context.Context, auctionID string) ([]ProductView, error) {
	s.mu.RLock()
	if _, ok := s.auctions[auctionID]; !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("service: %w - %s", biddingerrors.ErrAuctionNotFound, auctionID)
	}
	var products []model.Product
	for pid, aid := range s.productAuction {
		if aid != auctionID {
			continue
		}
		if p, ok := s.products[pid]; ok {
			products = append(products, p)
		}
	}
	s.mu.RUnlock()

	return s.productViews(ctx, products, true), nil
}

func (s *BiddingService) productViews(ctx context.Context, products []model.Product, includeExpired bool) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		// a closed auction ends bidding but leaves the product's own countdown as is
		closed := s.expired(p)
		if closed && !includeExpired {
			continue
		}
		st := s.stateOf(ProductTrackID(p.ID), p.Deadline)
		views = append(views, ProductView{
			Product:   p,
			Countdown: st,
			TimeLeft:  deadline.Label(st.RemainingSeconds),
			Biddable:  p.Status != model.StatusSold && !closed,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(highestBidFanout)
	for i := range views {
		key := cacheKey(views[i].Product)
		if _, ok := s.cache.Get(key); ok {
			continue
		}
		g.Go(func() error {
			// a failed load only leaves the entry stale
			_, _ = s.cache.Load(gctx, key)
			return nil
		})
	}
	_ = g.Wait()

	for i := range views {
		entry, _ := s.cache.Get(cacheKey(views[i].Product))
		views[i].HighestBid = entry.HighestBid
		views[i].HighestBidStale = entry.Stale
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].Name != views[j].Name {
			return views[i].Name < views[j].Name
		}
		return views[i].ID < views[j].ID
	})
	return views
}

// resolve finds a product by id, falling back to its name
func (s *BiddingService) resolve(productKey string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.products[productKey]; ok {
		return p, nil
	}
	if id, ok := s.productsByName[productKey]; ok {
		return s.products[id], nil
	}
	return model.Product{}, fmt.Errorf("service: %w - %s", biddingerrors.ErrProductNotFound, productKey)
}

// expired reports whether bidding on the product is closed by its own deadline or its auction's
func (s *BiddingService) expired(p model.Product) bool {
	if s.stateOf(ProductTrackID(p.ID), p.Deadline).Expired {
		return true
	}

	s.mu.RLock()
	auctionID := s.productAuction[p.ID]
	a, ok := s.auctions[auctionID]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return s.stateOf(AuctionTrackID(a.ID), a.Deadline).Expired
}

// stateOf prefers the ticker's view of id and falls back to computing from d
func (s *BiddingService) stateOf(id string, d model.Deadline) model.CountdownState {
	if st, ok := s.ticker.Current(id); ok {
		return st
	}
	return deadline.StateAt(d, s.clock.Now())
}

// cacheKey is the product key the auction API understands
func cacheKey(p model.Product) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
