package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	bidding "auction-bff/internal/biddingService"
	"auction-bff/internal/biddingerrors"
	"auction-bff/internal/countdown"
	"auction-bff/internal/highestbid"
	model "auction-bff/internal/models"
	"auction-bff/services/bidding/helpers"
	"auction-bff/utils"

	"github.com/gin-gonic/gin"
)

type BiddingServiceInterface interface {
	TryBid(ctx context.Context, productKey string, amount float64) (bidding.Decision, error)
	PlaceBid(ctx context.Context, productKey, bidderID string, amount float64) (bidding.BidAttempt, error)
	HighestBid(ctx context.Context, productKey string) (bidding.HighestBidView, error)
	ProductBids(ctx context.Context, productKey string) ([]model.UpstreamBid, error)
	UserBids(userID string) (bidding.UserBidSummary, error)
	ProductOutcomes(productKey string) (bidding.ProductOutcomeSummary, error)
	ListProducts(ctx context.Context, includeExpired bool) []bidding.ProductView
	ListAuctions(includeExpired bool) []bidding.AuctionView
	AuctionProducts(ctx context.Context, auctionID string) ([]bidding.ProductView, error)
	CountdownSnapshot(ids ...string) countdown.Snapshot
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// HealthHandler handles GET /health
func (h *BiddingHandler) HealthHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"tracked_deadlines": len(h.service.CountdownSnapshot()),
	}, "ok")
}

// CheckBidHandler handles POST /bids/check
func (h *BiddingHandler) CheckBidHandler(c *gin.Context) {
	var req helpers.CheckBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CheckBidHandler", err)
		return
	}

	decision, err := h.service.TryBid(c.Request.Context(), req.ProductKey, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CheckBidHandler: eligibility check failed", map[string]any{"product_key": req.ProductKey, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, decision, "bid eligibility checked")
}

// PlaceBidHandler handles POST /bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	attempt, err := h.service.PlaceBid(c.Request.Context(), req.ProductKey, req.UserID, req.Amount)
	resp := toPlaceBidResponse(attempt)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONErrorWithData(c, status, fmt.Errorf("%s: %w", message, err), message, resp)
		utils.Error("PlaceBidHandler: bid not placed", map[string]any{
			"handler":     "PlaceBidHandler",
			"product_key": req.ProductKey,
			"user_id":     req.UserID,
			"error":       err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":      resp.Record.BidID,
		"product_key": resp.Record.ProductKey,
		"user_id":     req.UserID,
		"amount":      req.Amount,
	})
}

// GetHighestBidHandler handles GET /products/:product_key/highest-bid
func (h *BiddingHandler) GetHighestBidHandler(c *gin.Context) {
	productKey := c.Param("product_key")
	view, err := h.service.HighestBid(c.Request.Context(), productKey)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		if view.State != "" && view.State != highestbid.StateAbsent {
			// the last known value is still worth showing, flagged stale
			utils.JSONErrorWithData(c, status, fmt.Errorf("%s: %w", message, err), message, view)
		} else {
			utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		}
		utils.Warn("GetHighestBidHandler: highest bid refresh failed", map[string]any{"product_key": productKey, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, view, "highest bid retrieved successfully")
}

// GetProductBidsHandler handles GET /products/:product_key/bids
func (h *BiddingHandler) GetProductBidsHandler(c *gin.Context) {
	productKey := c.Param("product_key")
	bids, err := h.service.ProductBids(c.Request.Context(), productKey)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetProductBidsHandler: error retrieving bids", map[string]any{"product_key": productKey, "error": err.Error()})
		return
	}

	if bids == nil {
		bids = []model.UpstreamBid{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("GetProductBidsHandler", "bids retrieved successfully", map[string]any{
		"product_key": productKey,
		"count":       len(bids),
	})
}

// GetProductOutcomesHandler handles GET /products/:product_key/outcomes
func (h *BiddingHandler) GetProductOutcomesHandler(c *gin.Context) {
	productKey := c.Param("product_key")
	summary, err := h.service.ProductOutcomes(productKey)
	if err != nil && !errors.Is(err, biddingerrors.ErrNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetProductOutcomesHandler: error retrieving outcomes", map[string]any{"product_key": productKey, "error": err.Error()})
		return
	}

	if summary.Records == nil {
		summary.Records = []model.BidRecord{}
	}

	utils.JSONResponse(c, http.StatusOK, summary, "outcomes retrieved successfully")
	helpers.LogSuccess("GetProductOutcomesHandler", "outcomes retrieved successfully", map[string]any{
		"product_key": productKey,
		"count":       summary.Total,
	})
}

// GetBidsByUserHandler handles GET /users/:user_id/bids
func (h *BiddingHandler) GetBidsByUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	summary, err := h.service.UserBids(userID)
	if err != nil && !errors.Is(err, biddingerrors.ErrUserNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidsByUserHandler: error retrieving bids", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	summary.UserID = userID
	if summary.Records == nil {
		summary.Records = []model.BidRecord{}
	}

	utils.JSONResponse(c, http.StatusOK, summary, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByUserHandler", "bids retrieved successfully", map[string]any{
		"user_id":    userID,
		"bids_count": summary.Total,
	})
}

// ListProductsHandler handles GET /products
func (h *BiddingHandler) ListProductsHandler(c *gin.Context) {
	products := h.service.ListProducts(c.Request.Context(), helpers.QueryBool(c, "include_expired"))
	utils.JSONResponse(c, http.StatusOK, products, "products retrieved successfully")
}

// ListAuctionsHandler handles GET /auctions
func (h *BiddingHandler) ListAuctionsHandler(c *gin.Context) {
	auctions := h.service.ListAuctions(helpers.QueryBool(c, "include_expired"))
	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
}

// GetAuctionProductsHandler handles GET /auctions/:auction_id/products
func (h *BiddingHandler) GetAuctionProductsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	products, err := h.service.AuctionProducts(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Info("GetAuctionProductsHandler: auction lookup failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	if products == nil {
		products = []bidding.ProductView{}
	}
	utils.JSONResponse(c, http.StatusOK, products, "auction products retrieved successfully")
}

// GetCountdownHandler handles GET /countdown
func (h *BiddingHandler) GetCountdownHandler(c *gin.Context) {
	snap := h.service.CountdownSnapshot(helpers.QueryIDs(c, "ids")...)
	utils.JSONResponse(c, http.StatusOK, snap, "countdown retrieved successfully")
}

func toPlaceBidResponse(attempt bidding.BidAttempt) helpers.PlaceBidResponse {
	// only a recorded server verdict can report acceptance
	resp := helpers.PlaceBidResponse{
		Reason:     string(attempt.Decision.Reason),
		HighestBid: attempt.HighestBid,
		Stale:      attempt.Stale,
	}
	if r := attempt.Record; r != nil {
		resp.Accepted = r.Outcome == model.OutcomeAccepted
		if r.Reason != "" {
			resp.Reason = r.Reason
		}
		resp.Record = &helpers.BidRecordResponse{
			BidID:       r.BidID,
			ProductKey:  r.ProductKey,
			UserID:      r.BidderID,
			Amount:      r.Amount,
			Outcome:     string(r.Outcome),
			Reason:      r.Reason,
			SubmittedAt: r.SubmittedAt.UTC().Format(time.RFC3339),
		}
	}
	return resp
}
