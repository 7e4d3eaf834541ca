package biddingerrors

import (
	"errors"
	"fmt"
)

// Catalog errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrAuctionNotFound = errors.New("auction not found")
	ErrInvalidBid      = errors.New("invalid bid details")
	ErrNoBids          = errors.New("no bids recorded")
	ErrUserNoBids      = errors.New("user has not placed any bids")
	ErrInvalidRecord   = errors.New("invalid bid record")
)

// ErrBidRejectedLocally is matched by every eligibility gate rejection
var ErrBidRejectedLocally = errors.New("bid rejected locally")

// eligibility gate errors
var (
	ErrProductSold           = localReject("product already sold")
	ErrAuctionExpired        = localReject("auction expired")
	ErrNonPositiveAmount     = localReject("bid amount must be positive")
	ErrAmountNotAboveHighest = localReject("bid amount not above current highest bid")
)

// server verdicts
var (
	ErrRaceLost            = errors.New("someone else bid higher")
	ErrBidRejectedByServer = errors.New("bid rejected by auction api")
)

// auction api failures
var (
	ErrAPITimeout        = errors.New("auction api timed out")
	ErrAPIUnavailable    = errors.New("auction api unavailable")
	ErrAPIStatus         = errors.New("auction api returned an error status")
	ErrMalformedResponse = errors.New("malformed auction api response")
)

type gateError struct {
	msg string
}

func localReject(msg string) error {
	return &gateError{msg: msg}
}

func (e *gateError) Error() string { return e.msg }

func (e *gateError) Is(target error) bool { return target == ErrBidRejectedLocally }

// APIError describes a failed call to the auction API
type APIError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("auction api %s: status %d: %s: %v", e.Op, e.StatusCode, e.Body, e.Err)
	}
	return fmt.Sprintf("auction api %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }
