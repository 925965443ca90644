package helpers

import (
	"time"

	"vintage-auction/internal/lifecycle"
	"vintage-auction/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	AuctionID  string  `json:"auction_id" binding:"required"`
	BidderID   string  `json:"bidder_id" binding:"required"`
	BidderName string  `json:"bidder_name" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

type CreateAuctionRequest struct {
	SellerID      string   `json:"seller_id" binding:"required"`
	SellerName    string   `json:"seller_name" binding:"required"`
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Condition     string   `json:"condition"`
	Images        []string `json:"images"`
	StartingPrice float64  `json:"starting_price" binding:"required,gt=0"`
	DurationHours int      `json:"duration_hours" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID      string          `json:"bid_id"`
	AuctionID  string          `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  string          `json:"created_at"`
}

type AuctionResponse struct {
	AuctionID       string          `json:"auction_id"`
	SellerID        string          `json:"seller_id"`
	SellerName      string          `json:"seller_name"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Condition       string          `json:"condition"`
	Images          []string        `json:"images,omitempty"`
	StartingPrice   decimal.Decimal `json:"starting_price"`
	CurrentBid      decimal.Decimal `json:"current_bid"`
	BidCount        int             `json:"bid_count"`
	LastBidderID    string          `json:"last_bidder_id,omitempty"`
	LastBidderName  string          `json:"last_bidder_name,omitempty"`
	EndTime         string          `json:"end_time"`
	Status          string          `json:"status"`
	TimeLeftSeconds int64           `json:"time_left_seconds"`
	CreatedAt       string          `json:"created_at"`
}

type WinnerResponse struct {
	AuctionID  string          `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
}

// ToBidResponse converts a committed bid to its wire form.
func ToBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:      bid.BidID,
		AuctionID:  bid.AuctionID,
		BidderID:   bid.BidderID,
		BidderName: bid.BidderName,
		Amount:     bid.Amount,
		CreatedAt:  bid.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// ToAuctionResponse converts an auction to its wire form with the status and
// countdown derived at now, so a stored-active auction past its end time
// already renders as ended.
func ToAuctionResponse(auction models.Auction, now time.Time) AuctionResponse {
	timeLeft := int64(0)
	if remaining := auction.EndTime.Sub(now); remaining > 0 {
		timeLeft = int64(remaining.Seconds())
	}

	return AuctionResponse{
		AuctionID:       auction.AuctionID,
		SellerID:        auction.SellerID,
		SellerName:      auction.SellerName,
		Title:           auction.Title,
		Description:     auction.Description,
		Category:        auction.Category,
		Condition:       auction.Condition,
		Images:          auction.Images,
		StartingPrice:   auction.StartingPrice,
		CurrentBid:      auction.CurrentBid,
		BidCount:        auction.BidCount,
		LastBidderID:    auction.LastBidderID,
		LastBidderName:  auction.LastBidderName,
		EndTime:         auction.EndTime.UTC().Format(time.RFC3339),
		Status:          string(lifecycle.EffectiveStatus(auction, now)),
		TimeLeftSeconds: timeLeft,
		CreatedAt:       auction.CreatedAt.UTC().Format(time.RFC3339),
	}
}
