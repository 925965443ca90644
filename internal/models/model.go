package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the stored lifecycle state of an auction. The only legal
// transition is active -> ended, and it happens at most once.
type AuctionStatus string

const (
	StatusActive AuctionStatus = "active"
	StatusEnded  AuctionStatus = "ended"
)

// Auction represents a single time-bounded listing
type Auction struct {
	AuctionID      string          `json:"auction_id"`
	SellerID       string          `json:"seller_id"`
	SellerName     string          `json:"seller_name"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Condition      string          `json:"condition"`
	Images         []string        `json:"images,omitempty"`
	StartingPrice  decimal.Decimal `json:"starting_price"`
	CurrentBid     decimal.Decimal `json:"current_bid"`
	BidCount       int             `json:"bid_count"`
	LastBidderID   string          `json:"last_bidder_id,omitempty"`
	LastBidderName string          `json:"last_bidder_name,omitempty"`
	EndTime        time.Time       `json:"end_time"`
	Status         AuctionStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Bid is an immutable record of one bidder's offer on an auction. Bids are
// never updated or deleted once committed; bidder_name is a snapshot taken
// at bid time, not looked up live.
type Bid struct {
	BidID      string          `json:"bid_id"`
	AuctionID  string          `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}
