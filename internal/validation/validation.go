package validation

import (
	"fmt"
	"time"

	"vintage-auction/internal/auctionerrors"
	"vintage-auction/internal/models"

	"github.com/shopspring/decimal"
)

// ValidateBid decides whether a proposed bid is acceptable against a snapshot
// of auction state. It has no side effects. Checks run in a fixed order and
// the first failing check wins: ended, self-bid, too low. Resolving the
// auction reference itself (not-found) is the caller's job.
//
// The minimum-increment rule is "strictly greater than the current bid";
// anything larger the storefront suggests is a UI hint only.
func ValidateBid(auction models.Auction, bidderID string, amount decimal.Decimal, now time.Time) error {
	if auction.Status == models.StatusEnded || !now.Before(auction.EndTime) {
		return fmt.Errorf("%w: ended at %s", auctionerrors.ErrAuctionEnded, auction.EndTime.UTC().Format(time.RFC3339))
	}
	if bidderID == auction.SellerID {
		return auctionerrors.ErrSelfBid
	}
	if amount.Cmp(auction.CurrentBid) <= 0 {
		return fmt.Errorf("%w: current bid is %s", auctionerrors.ErrBidTooLow, auction.CurrentBid.String())
	}
	return nil
}

// ValidateNewAuction checks the minimal rules the bidding engine requires of
// a freshly listed auction: a positive starting price and an end time after
// creation. Listing metadata (title, category, images) is opaque here.
func ValidateNewAuction(auction models.Auction) error {
	if auction.SellerID == "" {
		return fmt.Errorf("%w: missing seller", auctionerrors.ErrInvalidAuction)
	}
	if !auction.StartingPrice.IsPositive() {
		return fmt.Errorf("%w: starting price must be positive", auctionerrors.ErrInvalidAuction)
	}
	if !auction.EndTime.After(auction.CreatedAt) {
		return fmt.Errorf("%w: end time must be after creation", auctionerrors.ErrInvalidAuction)
	}
	return nil
}
