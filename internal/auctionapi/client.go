package auctionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auction-bff/internal/biddingerrors"
	"auction-bff/internal/deadline"
	"auction-bff/internal/models"
)

// DefaultTimeout bounds every call when no timeout is configured
const DefaultTimeout = 10 * time.Second

// API is the subset of the remote auction API the engine consumes
type API interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
	FetchAuctions(ctx context.Context) ([]models.Auction, error)
	FetchHighestBid(ctx context.Context, productKey string) (float64, error)
	FetchBids(ctx context.Context, productKey string) ([]models.UpstreamBid, error)
	SubmitBid(ctx context.Context, bid BidSubmission) (SubmitOutcome, error)
}

// BidSubmission is one bid attempt sent upstream
type BidSubmission struct {
	ProductKey  string
	ProductName string
	Amount      float64
	BidderID    string
}

// SubmitOutcome is the server verdict on a submitted bid
type SubmitOutcome struct {
	Accepted   bool
	StatusCode int
	Reason     string
}

// wire shapes
type productDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AuctionID   string `json:"auction_id,omitempty"`
	Status      string `json:"status"`
	Time        string `json:"time"`
}

type auctionDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ProductIDs []string `json:"product_ids"`
	ValidUntil string   `json:"valid_until"`
}

type auctionsResponse struct {
	TotalAuctions int          `json:"total_auctions"`
	Auctions      []auctionDTO `json:"auctions"`
}

type highestBidResponse struct {
	Product    string   `json:"product"`
	HighestBid *float64 `json:"highest_bid"`
}

type placeBidRequest struct {
	ProductName string  `json:"product_name"`
	BidAmount   float64 `json:"bid_amount"`
	UserID      string  `json:"user_id"`
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  any    `json:"detail"`
}

// Client talks JSON over HTTP to the auction API
type Client struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

// NewClient creates a client for baseURL; a non-positive timeout uses DefaultTimeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
}

func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// FetchProducts lists every product with its own deadline
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var dtos []productDTO
	if err := c.getJSON(ctx, "products", "/products", &dtos); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(dtos))
	for _, p := range dtos {
		status := models.SaleStatus(strings.ToLower(strings.TrimSpace(p.Status)))
		if status != models.StatusSold {
			status = models.StatusUnsold
		}
		products = append(products, models.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Deadline:    deadline.Parse(p.Time),
			Status:      status,
			AuctionID:   p.AuctionID,
		})
	}
	return products, nil
}

// FetchAuctions lists every auction with its auction-level deadline
func (c *Client) FetchAuctions(ctx context.Context) ([]models.Auction, error) {
	var resp auctionsResponse
	if err := c.getJSON(ctx, "auctions", "/admin/all_auctions", &resp); err != nil {
		return nil, err
	}

	auctions := make([]models.Auction, 0, len(resp.Auctions))
	for _, a := range resp.Auctions {
		auctions = append(auctions, models.Auction{
			ID:         a.ID,
			Name:       a.Name,
			Deadline:   deadline.Parse(a.ValidUntil),
			ProductIDs: a.ProductIDs,
		})
	}
	return auctions, nil
}

// FetchHighestBid returns the authoritative highest bid for a product
func (c *Client) FetchHighestBid(ctx context.Context, productKey string) (float64, error) {
	var resp highestBidResponse
	endpoint := "/highest-bid?product_key=" + url.QueryEscape(productKey)
	if err := c.getJSON(ctx, "highest-bid", endpoint, &resp); err != nil {
		return 0, err
	}
	if resp.HighestBid == nil {
		return 0, &biddingerrors.APIError{Op: "highest-bid", Err: fmt.Errorf("%w: missing highest_bid", biddingerrors.ErrMalformedResponse)}
	}
	return *resp.HighestBid, nil
}

// FetchBids returns the upstream bid history of a product
func (c *Client) FetchBids(ctx context.Context, productKey string) ([]models.UpstreamBid, error) {
	var bids []models.UpstreamBid
	endpoint := "/bids?product_key=" + url.QueryEscape(productKey)
	if err := c.getJSON(ctx, "bids", endpoint, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

// SubmitBid posts a bid. A client-error status is the server rejecting the bid and is returned as
// an outcome; only transport failures, timeouts and server errors are returned as errors.
func (c *Client) SubmitBid(ctx context.Context, bid BidSubmission) (SubmitOutcome, error) {
	name := bid.ProductName
	if name == "" {
		name = bid.ProductKey
	}
	body, err := json.Marshal(placeBidRequest{ProductName: name, BidAmount: bid.Amount, UserID: bid.BidderID})
	if err != nil {
		return SubmitOutcome{}, fmt.Errorf("marshal bid: %w", err)
	}

	status, payload, err := c.do(ctx, "bid", http.MethodPost, "/bid", bytes.NewReader(body))
	if err != nil {
		return SubmitOutcome{}, err
	}

	switch {
	case status >= 200 && status < 300:
		return SubmitOutcome{Accepted: true, StatusCode: status, Reason: reasonFrom(payload)}, nil
	case isRejection(status):
		return SubmitOutcome{Accepted: false, StatusCode: status, Reason: reasonFrom(payload)}, nil
	default:
		return SubmitOutcome{}, statusError("bid", status, payload)
	}
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	status, payload, err := c.do(ctx, op, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return statusError(op, status, payload)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &biddingerrors.APIError{Op: op, StatusCode: status, Err: fmt.Errorf("%w: %v", biddingerrors.ErrMalformedResponse, err)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return 0, nil, &biddingerrors.APIError{Op: op, Err: fmt.Errorf("%w: failed to create request: %v", biddingerrors.ErrAPIUnavailable, err)}
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, &biddingerrors.APIError{Op: op, Err: classify(err)}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &biddingerrors.APIError{Op: op, StatusCode: resp.StatusCode, Err: classify(err)}
	}
	return resp.StatusCode, payload, nil
}

func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", biddingerrors.ErrAPITimeout, err)
	}
	return fmt.Errorf("%w: %v", biddingerrors.ErrAPIUnavailable, err)
}

func statusError(op string, status int, payload []byte) error {
	return &biddingerrors.APIError{
		Op:         op,
		StatusCode: status,
		Body:       reasonFrom(payload),
		Err:        biddingerrors.ErrAPIStatus,
	}
}

func isRejection(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusPaymentRequired, http.StatusForbidden,
		http.StatusConflict, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// reasonFrom extracts a human readable message from an API body
func reasonFrom(payload []byte) string {
	var msg messageResponse
	if err := json.Unmarshal(payload, &msg); err == nil {
		if d, ok := msg.Detail.(string); ok && d != "" {
			return d
		}
		if msg.Error != "" {
			return msg.Error
		}
		if msg.Message != "" {
			return msg.Message
		}
	}
	return strings.TrimSpace(string(payload))
}
