package bidding

import (
	"errors"
	"fmt"
	"time"

	"vintage-auction/internal/auctionerrors"
	"vintage-auction/internal/clock"
	"vintage-auction/internal/models"
	"vintage-auction/internal/repository"
	"vintage-auction/internal/validation"
	"vintage-auction/utils"

	"github.com/shopspring/decimal"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 20 * time.Millisecond
)

// BiddingService defines the business logic for placing and querying bids.
// Every PlaceBid call yields exactly one of: a committed bid, a rejection,
// or a store error; a rejected bid never mutates state.
type BiddingService struct {
	store       repository.AuctionStore
	clk         clock.Clock
	maxAttempts int
	retryDelay  time.Duration
}

// NewBiddingService creates a new BiddingService instance.
func NewBiddingService(store repository.AuctionStore, clk clock.Clock) *BiddingService {
	return &BiddingService{
		store:       store,
		clk:         clk,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
}

// WithRetryPolicy overrides the bound on optimistic-commit retries.
func (s *BiddingService) WithRetryPolicy(maxAttempts int, retryDelay time.Duration) *BiddingService {
	if maxAttempts > 0 {
		s.maxAttempts = maxAttempts
	}
	if retryDelay >= 0 {
		s.retryDelay = retryDelay
	}
	return s
}

// PlaceBid validates and commits a bid on an auction. Validation failures are
// terminal and returned as-is. A commit conflict (another bid landed between
// our read and our write) is retried with fresh state up to the configured
// bound before surfacing ErrContention.
func (s *BiddingService) PlaceBid(auctionID, bidderID, bidderName string, amount decimal.Decimal) (models.Auction, models.Bid, error) {
	if auctionID == "" || bidderID == "" {
		return models.Auction{}, models.Bid{}, fmt.Errorf("service: %w: missing auction or bidder id", auctionerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return models.Auction{}, models.Bid{}, fmt.Errorf("service: %w: non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		auction, err := s.store.GetAuction(auctionID)
		if err != nil {
			return models.Auction{}, models.Bid{}, fmt.Errorf("service: place bid on auction %s: %w", auctionID, err)
		}

		if err := validation.ValidateBid(auction, bidderID, amount, s.clk.Now()); err != nil {
			return models.Auction{}, models.Bid{}, fmt.Errorf("service: place bid on auction %s: %w", auctionID, err)
		}

		bid := models.Bid{
			BidID:      utils.GenerateID(),
			AuctionID:  auctionID,
			BidderID:   bidderID,
			BidderName: bidderName,
			Amount:     amount,
			CreatedAt:  s.clk.Now(), // overwritten by the store's commit clock
		}

		updated, committed, err := s.store.CommitBid(bid, auction.CurrentBid)
		if err == nil {
			return updated, committed, nil
		}
		if !errors.Is(err, auctionerrors.ErrConflict) {
			return models.Auction{}, models.Bid{}, fmt.Errorf("service: place bid on auction %s: %w", auctionID, err)
		}

		utils.Warn("bid commit conflict, retrying", map[string]any{
			"auction_id": auctionID,
			"bidder_id":  bidderID,
			"attempt":    attempt,
		})
		if attempt < s.maxAttempts && s.retryDelay > 0 {
			time.Sleep(s.retryDelay)
		}
	}

	return models.Auction{}, models.Bid{}, fmt.Errorf(
		"service: place bid on auction %s by %s: %w", auctionID, bidderID, auctionerrors.ErrContention)
}

// GetAuction returns one auction snapshot.
func (s *BiddingService) GetAuction(auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w: empty auction id", auctionerrors.ErrInvalidBid)
	}

	auction, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns all auctions, most recently created first.
func (s *BiddingService) ListAuctions() ([]models.Auction, error) {
	auctions, err := s.store.ListAuctions()
	if err != nil {
		return nil, fmt.Errorf("service: list auctions: %w", err)
	}
	return auctions, nil
}

// GetBidHistory returns an auction's bids, newest first.
func (s *BiddingService) GetBidHistory(auctionID string, limit int) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w: empty auction id", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.store.ListBids(auctionID, limit)
	if err != nil {
		return nil, fmt.Errorf("service: get bid history for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// GetWinner returns the current highest bidder of an auction, or ErrNoBids
// when nobody has bid.
func (s *BiddingService) GetWinner(auctionID string) (models.Bid, error) {
	if auctionID == "" {
		return models.Bid{}, fmt.Errorf("service: %w: empty auction id", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.store.ListBids(auctionID, 1)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: get winner for auction %s: %w", auctionID, err)
	}
	if len(bids) == 0 {
		return models.Bid{}, fmt.Errorf("service: get winner for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	return bids[0], nil
}
