package bidding

import (
	"fmt"
	"time"

	"vintage-auction/internal/clock"
	"vintage-auction/internal/models"
	"vintage-auction/internal/repository"
	"vintage-auction/utils"

	"github.com/shopspring/decimal"
)

// NewListing carries the seller-supplied fields of a new auction. Metadata
// beyond price and end time is opaque to the bidding engine.
type NewListing struct {
	SellerID      string
	SellerName    string
	Title         string
	Description   string
	Category      string
	Condition     string
	Images        []string
	StartingPrice decimal.Decimal
	Duration      time.Duration
}

// ListingService creates auction records on behalf of sellers.
type ListingService struct {
	store repository.AuctionStore
	clk   clock.Clock
}

func NewListingService(store repository.AuctionStore, clk clock.Clock) *ListingService {
	return &ListingService{store: store, clk: clk}
}

// CreateAuction builds and stores a new active auction. The current bid
// starts at the starting price with zero bids.
func (s *ListingService) CreateAuction(listing NewListing) (models.Auction, error) {
	now := s.clk.Now()

	auction := models.Auction{
		AuctionID:     utils.GenerateID(),
		SellerID:      listing.SellerID,
		SellerName:    listing.SellerName,
		Title:         listing.Title,
		Description:   listing.Description,
		Category:      listing.Category,
		Condition:     listing.Condition,
		Images:        listing.Images,
		StartingPrice: listing.StartingPrice,
		CurrentBid:    listing.StartingPrice,
		BidCount:      0,
		EndTime:       now.Add(listing.Duration),
		Status:        models.StatusActive,
		CreatedAt:     now,
	}

	if err := s.store.CreateAuction(auction); err != nil {
		return models.Auction{}, fmt.Errorf("service: create auction for seller %s: %w", listing.SellerID, err)
	}
	return auction, nil
}
