package auctionapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-bff/internal/biddingerrors"
	"auction-bff/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestClient_FetchProducts(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/products", r.URL.Path)
		_, _ = io.WriteString(w, `[
			{"id":"p1","name":"Lamp","description":"brass","status":"unsold","time":"2025-07-01T12:00:00Z"},
			{"id":"p2","name":"Vase","status":"SOLD","time":"2025-07-01T13:00:00"},
			{"id":"p3","name":"Rug","status":"","time":"soon"}
		]`)
	})

	products, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	require.Equal(t, "p1", products[0].ID)
	require.Equal(t, "brass", products[0].Description)
	require.Equal(t, models.StatusUnsold, products[0].Status)
	require.True(t, products[0].Deadline.Valid)
	require.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), products[0].Deadline.At)

	require.Equal(t, models.StatusSold, products[1].Status)
	require.True(t, products[1].Deadline.Valid)

	require.Equal(t, models.StatusUnsold, products[2].Status)
	require.False(t, products[2].Deadline.Valid)
	require.Equal(t, "soon", products[2].Deadline.Raw)
}

func TestClient_FetchAuctions(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/all_auctions", r.URL.Path)
		_, _ = io.WriteString(w, `{"total_auctions":1,"auctions":[{"id":"a1","name":"Summer","product_ids":["p1","p2"],"valid_until":"2025-07-02T00:00:00Z"}]}`)
	})

	auctions, err := client.FetchAuctions(context.Background())
	require.NoError(t, err)
	require.Len(t, auctions, 1)
	require.Equal(t, "a1", auctions[0].ID)
	require.Equal(t, []string{"p1", "p2"}, auctions[0].ProductIDs)
	require.Equal(t, time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), auctions[0].Deadline.At)
}

func TestClient_FetchHighestBid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantValue float64
		wantErr   error
	}{
		{name: "success", status: http.StatusOK, body: `{"product":"Lamp","highest_bid":125.5}`, wantValue: 125.5},
		{name: "zero_is_a_value", status: http.StatusOK, body: `{"product":"Lamp","highest_bid":0}`, wantValue: 0},
		{name: "missing_field", status: http.StatusOK, body: `{"product":"Lamp"}`, wantErr: biddingerrors.ErrMalformedResponse},
		{name: "undecodable_body", status: http.StatusOK, body: `<html>`, wantErr: biddingerrors.ErrMalformedResponse},
		{name: "not_found_status", status: http.StatusNotFound, body: `{"detail":"no such product"}`, wantErr: biddingerrors.ErrAPIStatus},
		{name: "server_error", status: http.StatusInternalServerError, body: `oops`, wantErr: biddingerrors.ErrAPIStatus},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/highest-bid", r.URL.Path)
				require.Equal(t, "Lamp & Co", r.URL.Query().Get("product_key"))
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			value, err := client.FetchHighestBid(context.Background(), "Lamp & Co")
			if tc.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.wantErr), "expected error: %v, got: %v", tc.wantErr, err)
				var apiErr *biddingerrors.APIError
				require.True(t, errors.As(err, &apiErr))
				require.Equal(t, "highest-bid", apiErr.Op)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantValue, value)
		})
	}
}

func TestClient_FetchBids(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bids", r.URL.Path)
		require.Equal(t, "p1", r.URL.Query().Get("product_key"))
		_, _ = io.WriteString(w, `[{"amount":110,"user_id":"u1","timestamp":"2025-07-01T11:00:00Z","product_name":"Lamp","status":"accepted"}]`)
	})

	bids, err := client.FetchBids(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, []models.UpstreamBid{{Amount: 110, UserID: "u1", Timestamp: "2025-07-01T11:00:00Z", ProductName: "Lamp", Status: "accepted"}}, bids)
}

func TestClient_SubmitBid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantOutcome SubmitOutcome
		wantErr     error
	}{
		{name: "accepted", status: http.StatusOK, body: `{"message":"Bid placed"}`, wantOutcome: SubmitOutcome{Accepted: true, StatusCode: 200, Reason: "Bid placed"}},
		{name: "created", status: http.StatusCreated, body: `{}`, wantOutcome: SubmitOutcome{Accepted: true, StatusCode: 201, Reason: "{}"}},
		{name: "rejected_detail", status: http.StatusBadRequest, body: `{"detail":"Bid must be higher"}`, wantOutcome: SubmitOutcome{StatusCode: 400, Reason: "Bid must be higher"}},
		{name: "rejected_error_field", status: http.StatusConflict, body: `{"error":"outbid"}`, wantOutcome: SubmitOutcome{StatusCode: 409, Reason: "outbid"}},
		{name: "rejected_wallet", status: http.StatusPaymentRequired, body: `insufficient funds`, wantOutcome: SubmitOutcome{StatusCode: 402, Reason: "insufficient funds"}},
		{name: "validation_detail_list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"bad"}]}`, wantOutcome: SubmitOutcome{StatusCode: 422, Reason: `{"detail":[{"msg":"bad"}]}`}},
		{name: "server_error", status: http.StatusBadGateway, body: `down`, wantErr: biddingerrors.ErrAPIStatus},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/bid", r.URL.Path)
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))
				require.Equal(t, "Bearer token", r.Header.Get("Authorization"))

				var req placeBidRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				require.Equal(t, placeBidRequest{ProductName: "Lamp", BidAmount: 150, UserID: "u1"}, req)

				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			client.SetHeader("Authorization", "Bearer token")

			outcome, err := client.SubmitBid(context.Background(), BidSubmission{ProductKey: "p1", ProductName: "Lamp", Amount: 150, BidderID: "u1"})
			if tc.wantErr != nil {
				require.True(t, errors.Is(err, tc.wantErr), "expected error: %v, got: %v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantOutcome, outcome)
		})
	}
}

func TestClient_SubmitBidFallsBackToProductKey(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req placeBidRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "p1", req.ProductName)
		w.WriteHeader(http.StatusOK)
	})

	outcome, err := client.SubmitBid(context.Background(), BidSubmission{ProductKey: "p1", Amount: 10, BidderID: "u1"})
	require.NoError(t, err)
	require.True(t, outcome.Accepted)
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(srv.URL, 50*time.Millisecond)
	_, err := client.FetchHighestBid(context.Background(), "p1")
	require.Error(t, err)
	require.True(t, errors.Is(err, biddingerrors.ErrAPITimeout), "got: %v", err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = NewClient(srv.URL, time.Minute).SubmitBid(ctx, BidSubmission{ProductKey: "p1", Amount: 1, BidderID: "u1"})
	require.True(t, errors.Is(err, biddingerrors.ErrAPITimeout), "got: %v", err)
}

func TestClient_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchProducts(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, biddingerrors.ErrAPIUnavailable), "got: %v", err)
	require.False(t, errors.Is(err, biddingerrors.ErrAPITimeout))
}
