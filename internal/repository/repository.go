package repository

import (
	"fmt"
	"sort"
	"sync"

	"auction-bff/internal/biddingerrors"
	model "auction-bff/internal/models"
)

// BidLedger stores the known outcomes of bid submissions
type BidLedger interface {
	RecordOutcome(record model.BidRecord) error
	GetByProduct(productKey string) ([]model.BidRecord, error)
	GetByUser(userID string) ([]model.BidRecord, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of BidLedger.
// Records are append-only; a record is never updated once stored.
type MemoryRepo struct {
	mu        sync.RWMutex
	records   map[string]model.BidRecord // key: bidID -> value: record
	byProduct map[string][]string        // key: productKey -> value: bidIDs in insertion order
	byUser    map[string][]string        // key: bidderID -> value: bidIDs in insertion order
}

// NewMemoryRepo creates a new in-memory ledger
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		records:   make(map[string]model.BidRecord),
		byProduct: make(map[string][]string),
		byUser:    make(map[string][]string),
	}
}

// RecordOutcome appends a submission outcome. Recording the same BidID twice is a no-op.
func (r *MemoryRepo) RecordOutcome(record model.BidRecord) error {
	if record.BidID == "" || record.ProductKey == "" {
		return fmt.Errorf("record outcome: %w - missing bid id or product key", biddingerrors.ErrInvalidRecord)
	}
	if record.Outcome != model.OutcomeAccepted && record.Outcome != model.OutcomeRejected {
		return fmt.Errorf("record outcome %s: %w - unknown outcome %q", record.BidID, biddingerrors.ErrInvalidRecord, record.Outcome)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.BidID]; ok {
		return nil
	}
	r.records[record.BidID] = record
	r.byProduct[record.ProductKey] = append(r.byProduct[record.ProductKey], record.BidID)
	if record.BidderID != "" {
		r.byUser[record.BidderID] = append(r.byUser[record.BidderID], record.BidID)
	}
	return nil
}

// GetByProduct returns every recorded outcome for a product, oldest first
func (r *MemoryRepo) GetByProduct(productKey string) ([]model.BidRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byProduct[productKey]
	if len(ids) == 0 {
		return nil, fmt.Errorf("get records for product %s: %w", productKey, biddingerrors.ErrNoBids)
	}
	return r.collectLocked(ids), nil
}

// GetByUser returns every recorded outcome for a bidder, oldest first
func (r *MemoryRepo) GetByUser(userID string) ([]model.BidRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	if len(ids) == 0 {
		return nil, fmt.Errorf("get records for user %s: %w", userID, biddingerrors.ErrUserNoBids)
	}
	return r.collectLocked(ids), nil
}

func (r *MemoryRepo) collectLocked(ids []string) []model.BidRecord {
	out := make([]model.BidRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.records[id])
	}
	// stable keeps insertion order for equal timestamps
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}
