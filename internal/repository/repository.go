package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"vintage-auction/internal/auctionerrors"
	"vintage-auction/internal/clock"
	"vintage-auction/internal/events"
	models "vintage-auction/internal/models"
	"vintage-auction/internal/validation"

	"github.com/shopspring/decimal"
)

// AuctionStore owns all auction and bid records. It is the only component
// allowed to mutate them. CommitBid is the transactional boundary: the
// read-revalidate-write sequence for one auction is atomic with respect to
// concurrent callers.
type AuctionStore interface {
	CreateAuction(auction models.Auction) error
	GetAuction(auctionID string) (models.Auction, error)
	ListAuctions() ([]models.Auction, error)
	ListExpired(now time.Time) ([]models.Auction, error)
	ListBids(auctionID string, limit int) ([]models.Bid, error)
	CommitBid(bid models.Bid, expectedPriorBid decimal.Decimal) (models.Auction, models.Bid, error)
	MarkEnded(auctionID string) (models.Auction, error)
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore.
// Bid commits use optimistic concurrency: the caller states the current bid it
// observed, and a mismatch under the lock is reported as ErrConflict so the
// caller can retry with fresh state.
type MemoryStore struct {
	mu       sync.RWMutex
	clk      clock.Clock
	bus      *events.Bus
	auctions map[string]models.Auction
	bids     map[string][]models.Bid // key: auctionID, append order == timestamp order
}

// NewMemoryStore creates an empty in-memory store. bus may be nil when no
// change-event subscribers exist.
func NewMemoryStore(clk clock.Clock, bus *events.Bus) *MemoryStore {
	return &MemoryStore{
		clk:      clk,
		bus:      bus,
		auctions: make(map[string]models.Auction),
		bids:     make(map[string][]models.Bid),
	}
}

// CreateAuction inserts a new listing. The bidding engine only enforces the
// rules in validation.ValidateNewAuction; listing metadata passes through.
func (s *MemoryStore) CreateAuction(auction models.Auction) error {
	if err := validation.ValidateNewAuction(auction); err != nil {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.auctions[auction.AuctionID]; exists {
		return fmt.Errorf("create auction %s: %w: id already exists", auction.AuctionID, auctionerrors.ErrInvalidAuction)
	}
	s.auctions[auction.AuctionID] = auction
	return nil
}

// GetAuction returns a snapshot of one auction.
func (s *MemoryStore) GetAuction(auctionID string) (models.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return models.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// ListAuctions returns all auctions ordered by creation time, most recent
// first. The snapshot may be stale by the time the caller renders it.
func (s *MemoryStore) ListAuctions() ([]models.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auctions := make([]models.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		auctions = append(auctions, a)
	}
	sort.Slice(auctions, func(i, j int) bool {
		if auctions[i].CreatedAt.Equal(auctions[j].CreatedAt) {
			return auctions[i].AuctionID < auctions[j].AuctionID
		}
		return auctions[i].CreatedAt.After(auctions[j].CreatedAt)
	})
	return auctions, nil
}

// ListExpired returns auctions still stored as active whose end time has
// passed. Used by the settlement sweep.
func (s *MemoryStore) ListExpired(now time.Time) ([]models.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []models.Auction
	for _, a := range s.auctions {
		if a.Status == models.StatusActive && !now.Before(a.EndTime) {
			expired = append(expired, a)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].EndTime.Before(expired[j].EndTime) })
	return expired, nil
}

// ListBids returns the bid history for an auction, newest first. limit <= 0
// means no limit.
func (s *MemoryStore) ListBids(auctionID string, limit int) ([]models.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}

	history := s.bids[auctionID]
	out := make([]models.Bid, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// CommitBid atomically re-validates and records a bid. expectedPriorBid is
// the current bid the caller saw when it decided to bid; if another bid
// committed in between, the mismatch surfaces as ErrConflict and nothing is
// written. The bid timestamp is assigned here, under the commit lock, so bid
// history for one auction is totally ordered regardless of caller clocks.
func (s *MemoryStore) CommitBid(bid models.Bid, expectedPriorBid decimal.Decimal) (models.Auction, models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[bid.AuctionID]
	if !ok {
		return models.Auction{}, models.Bid{}, fmt.Errorf("commit bid %s: %w", bid.BidID, auctionerrors.ErrAuctionNotFound)
	}

	if !auction.CurrentBid.Equal(expectedPriorBid) {
		return models.Auction{}, models.Bid{}, fmt.Errorf(
			"commit bid %s: %w: expected prior bid %s, found %s",
			bid.BidID, auctionerrors.ErrConflict, expectedPriorBid.String(), auction.CurrentBid.String())
	}

	now := s.clk.Now()
	if history := s.bids[bid.AuctionID]; len(history) > 0 {
		if last := history[len(history)-1].CreatedAt; !now.After(last) {
			now = last.Add(time.Nanosecond)
		}
	}

	if err := validation.ValidateBid(auction, bid.BidderID, bid.Amount, now); err != nil {
		return models.Auction{}, models.Bid{}, fmt.Errorf("commit bid %s: %w", bid.BidID, err)
	}

	outbid := auction.LastBidderID

	bid.CreatedAt = now
	auction.CurrentBid = bid.Amount
	auction.BidCount++
	auction.LastBidderID = bid.BidderID
	auction.LastBidderName = bid.BidderName

	s.auctions[bid.AuctionID] = auction
	s.bids[bid.AuctionID] = append(s.bids[bid.AuctionID], bid)

	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:           events.KindBidPlaced,
			AuctionID:      bid.AuctionID,
			BidderID:       bid.BidderID,
			OutbidBidderID: outbid,
			Amount:         bid.Amount,
			OccurredAt:     now,
		})
	}

	return auction, bid, nil
}

// MarkEnded flips an auction from active to ended. The transition is
// conditional on the stored status, so concurrent or repeated calls settle
// the auction at most once; calling it on an already-ended auction is a
// no-op that returns the current state.
func (s *MemoryStore) MarkEnded(auctionID string) (models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return models.Auction{}, fmt.Errorf("mark ended %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if auction.Status == models.StatusEnded {
		return auction, nil
	}

	auction.Status = models.StatusEnded
	s.auctions[auctionID] = auction

	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:       events.KindAuctionEnded,
			AuctionID:  auctionID,
			BidderID:   auction.LastBidderID,
			Amount:     auction.CurrentBid,
			OccurredAt: s.clk.Now(),
		})
	}

	return auction, nil
}
