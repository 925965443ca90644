package lifecycle

import (
	"fmt"
	"time"

	"vintage-auction/internal/clock"
	models "vintage-auction/internal/models"
	"vintage-auction/internal/repository"
)

// EffectiveStatus derives the status an auction presents to the outside
// world: ended once the stored status says so or the end time has passed,
// whether or not the settlement sweep has caught up.
func EffectiveStatus(auction models.Auction, now time.Time) models.AuctionStatus {
	if auction.Status == models.StatusEnded || !now.Before(auction.EndTime) {
		return models.StatusEnded
	}
	return models.StatusActive
}

// DetermineWinner returns the winning bidder of an auction, or false when no
// bids were placed.
func DetermineWinner(auction models.Auction) (string, bool) {
	if auction.BidCount == 0 {
		return "", false
	}
	return auction.LastBidderID, true
}

// Settler performs the one-way active -> ended transition. The store's
// conditional MarkEnded guarantees the flip commits at most once per auction,
// so Settle is safe to call redundantly from read paths and overlapping
// sweeps.
type Settler struct {
	store repository.AuctionStore
	clk   clock.Clock
}

func NewSettler(store repository.AuctionStore, clk clock.Clock) *Settler {
	return &Settler{store: store, clk: clk}
}

// Settle transitions one auction to ended if its time is up. Settling an
// auction that is already ended, or not yet due, is a no-op.
func (s *Settler) Settle(auction models.Auction) (models.Auction, error) {
	now := s.clk.Now()
	if EffectiveStatus(auction, now) != models.StatusEnded {
		return auction, nil
	}
	if auction.Status == models.StatusEnded {
		return auction, nil
	}

	settled, err := s.store.MarkEnded(auction.AuctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("settle auction %s: %w", auction.AuctionID, err)
	}
	return settled, nil
}

// SweepExpired settles every stored-active auction whose end time has passed
// and returns how many transitions it performed.
func (s *Settler) SweepExpired() (int, error) {
	now := s.clk.Now()
	expired, err := s.store.ListExpired(now)
	if err != nil {
		return 0, fmt.Errorf("sweep expired auctions: %w", err)
	}

	settled := 0
	for _, auction := range expired {
		if _, err := s.Settle(auction); err != nil {
			return settled, err
		}
		settled++
	}
	return settled, nil
}
