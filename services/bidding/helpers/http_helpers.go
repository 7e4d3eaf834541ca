package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"auction-bff/internal/biddingerrors"
	"auction-bff/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, biddingerrors.ErrBidRejectedLocally):
		return http.StatusUnprocessableEntity, "bid rejected"
	case errors.Is(err, biddingerrors.ErrRaceLost):
		return http.StatusConflict, "someone else bid higher"
	case errors.Is(err, biddingerrors.ErrBidRejectedByServer):
		return http.StatusConflict, "bid rejected by auction"
	case errors.Is(err, biddingerrors.ErrAPITimeout):
		return http.StatusGatewayTimeout, "auction service timed out"
	case errors.Is(err, biddingerrors.ErrAPIUnavailable),
		errors.Is(err, biddingerrors.ErrAPIStatus),
		errors.Is(err, biddingerrors.ErrMalformedResponse):
		return http.StatusBadGateway, "auction service unavailable"
	case errors.Is(err, biddingerrors.ErrNoBids):
		return http.StatusOK, "no bids found for product"
	case errors.Is(err, biddingerrors.ErrUserNoBids):
		return http.StatusOK, "no bids found for user"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// QueryBool reads a boolean query parameter; anything unparsable is false
func QueryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// QueryIDs reads a comma separated id list, accepting repeated parameters too
func QueryIDs(c *gin.Context, key string) []string {
	var ids []string
	for _, raw := range c.QueryArray(key) {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
