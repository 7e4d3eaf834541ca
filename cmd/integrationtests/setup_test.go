package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"auction-bff/internal/auctionapi"
	bidding "auction-bff/internal/biddingService"
	"auction-bff/internal/countdown"
	"auction-bff/internal/highestbid"
	"auction-bff/internal/repository"
	"auction-bff/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

type upstreamProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AuctionID   string `json:"auction_id,omitempty"`
	Status      string `json:"status"`
	Time        string `json:"time"`
}

type upstreamAuction struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ProductIDs []string `json:"product_ids"`
	ValidUntil string   `json:"valid_until"`
}

type upstreamBid struct {
	Amount      float64 `json:"amount"`
	UserID      string  `json:"user_id"`
	Timestamp   string  `json:"timestamp"`
	ProductName string  `json:"product_name"`
	Status      string  `json:"status"`
}

// FakeAuctionAPI is an in-process stand-in for the auction API. It accepts a bid only when it
// beats the current highest bid, like the real service does.
type FakeAuctionAPI struct {
	mu       sync.Mutex
	products []upstreamProduct
	auctions []upstreamAuction
	highest  map[string]float64 // key: product name
	bids     map[string][]upstreamBid
	down     bool
}

func NewFakeAuctionAPI(products []upstreamProduct, auctions []upstreamAuction) *FakeAuctionAPI {
	return &FakeAuctionAPI{
		products: products,
		auctions: auctions,
		highest:  make(map[string]float64),
		bids:     make(map[string][]upstreamBid),
	}
}

// SetHighest simulates another bidder
func (f *FakeAuctionAPI) SetHighest(productName string, amount float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.highest[productName] = amount
}

// SetDown makes every endpoint answer 503
func (f *FakeAuctionAPI) SetDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *FakeAuctionAPI) Router() *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		f.mu.Lock()
		down := f.down
		f.mu.Unlock()
		if down {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "maintenance"})
		}
	})

	router.GET("/products", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c.JSON(http.StatusOK, f.products)
	})
	router.GET("/admin/all_auctions", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"total_auctions": len(f.auctions), "auctions": f.auctions})
	})
	router.GET("/highest-bid", func(c *gin.Context) {
		key := c.Query("product_key")
		f.mu.Lock()
		defer f.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"product": key, "highest_bid": f.highest[key]})
	})
	router.GET("/bids", func(c *gin.Context) {
		key := c.Query("product_key")
		f.mu.Lock()
		defer f.mu.Unlock()
		bids := f.bids[key]
		if bids == nil {
			bids = []upstreamBid{}
		}
		c.JSON(http.StatusOK, bids)
	})
	router.POST("/bid", func(c *gin.Context) {
		var req struct {
			ProductName string  `json:"product_name"`
			BidAmount   float64 `json:"bid_amount"`
			UserID      string  `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		if req.BidAmount <= f.highest[req.ProductName] {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Bid must be higher than current highest bid"})
			return
		}
		f.highest[req.ProductName] = req.BidAmount
		f.bids[req.ProductName] = append(f.bids[req.ProductName], upstreamBid{
			Amount:      req.BidAmount,
			UserID:      req.UserID,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			ProductName: req.ProductName,
			Status:      "accepted",
		})
		c.JSON(http.StatusOK, gin.H{"message": "Bid placed successfully"})
	})
	return router
}

// TestEnv bundles the service under test with its fake upstream
type TestEnv struct {
	Router   *gin.Engine
	Upstream *FakeAuctionAPI
	Service  *bidding.BiddingService
}

// DefaultCatalog returns one open auction with an open, a sold and an expired product
func DefaultCatalog() ([]upstreamProduct, []upstreamAuction) {
	now := time.Now().UTC()
	products := []upstreamProduct{
		{ID: "p1", Name: "Lamp", Description: "brass desk lamp", Status: "unsold", Time: now.Add(time.Hour).Format(time.RFC3339)},
		{ID: "p2", Name: "Vase", Description: "blue vase", Status: "sold", Time: now.Add(time.Hour).Format(time.RFC3339)},
		{ID: "p3", Name: "Rug", Description: "wool rug", Status: "unsold", Time: now.Add(-time.Minute).Format(time.RFC3339)},
		{ID: "p4", Name: "Chair", Description: "oak chair", Status: "unsold", Time: now.Add(2 * time.Hour).Format("2006-01-02T15:04:05")},
	}
	auctions := []upstreamAuction{
		{ID: "a1", Name: "Summer", ProductIDs: []string{"p1", "p2"}, ValidUntil: now.Add(time.Hour).Format(time.RFC3339)},
	}
	return products, auctions
}

// SetupTestEnv starts a fake auction API serving DefaultCatalog, wires the real service against it
// and syncs the catalog.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	products, auctions := DefaultCatalog()
	return SetupTestEnvWithCatalog(t, products, auctions)
}

func SetupTestEnvWithCatalog(t *testing.T, products []upstreamProduct, auctions []upstreamAuction) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := NewFakeAuctionAPI(products, auctions)
	upstreamSrv := httptest.NewServer(upstream.Router())

	clock := clockwork.NewRealClock()
	api := auctionapi.NewClient(upstreamSrv.URL, 2*time.Second)
	ticker := countdown.NewTicker(clock)
	cache := highestbid.NewCache(api, clock, 2*time.Second)
	service := bidding.NewBiddingService(api, ticker, cache, repository.NewMemoryRepo(), clock, 2*time.Second)
	require.NoError(t, service.Sync(context.Background()))

	t.Cleanup(func() {
		ticker.Close()
		upstreamSrv.Close()
	})

	return &TestEnv{
		Router:   server.SetupRouter(service, nil),
		Upstream: upstream,
		Service:  service,
	}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}
