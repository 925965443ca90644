package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vintage-auction/internal/auctionerrors"
	bidding "vintage-auction/internal/biddingService"
	"vintage-auction/internal/clock"
	"vintage-auction/internal/lifecycle"
	models "vintage-auction/internal/models"
	"vintage-auction/services/auction/helpers"
	"vintage-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BiddingServiceInterface interface {
	PlaceBid(auctionID, bidderID, bidderName string, amount decimal.Decimal) (models.Auction, models.Bid, error)
	GetAuction(auctionID string) (models.Auction, error)
	ListAuctions() ([]models.Auction, error)
	GetBidHistory(auctionID string, limit int) ([]models.Bid, error)
	GetWinner(auctionID string) (models.Bid, error)
}

type ListingServiceInterface interface {
	CreateAuction(listing bidding.NewListing) (models.Auction, error)
}

type SettlerInterface interface {
	Settle(auction models.Auction) (models.Auction, error)
}

type AuctionHandler struct {
	bidding      BiddingServiceInterface
	listing      ListingServiceInterface
	settler      SettlerInterface
	clk          clock.Clock
	historyLimit int
}

func NewAuctionHandler(biddingSvc BiddingServiceInterface, listingSvc ListingServiceInterface, settler SettlerInterface, clk clock.Clock, historyLimit int) *AuctionHandler {
	return &AuctionHandler{
		bidding:      biddingSvc,
		listing:      listingSvc,
		settler:      settler,
		clk:          clk,
		historyLimit: historyLimit,
	}
}

// PlaceBidHandler handles POST /bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	amount := decimal.NewFromFloat(req.Amount)
	auction, bid, err := h.bidding.PlaceBid(req.AuctionID, req.BidderID, req.BidderName, amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("PlaceBidHandler: bid rejected", map[string]any{
			"auction_id": req.AuctionID,
			"bidder_id":  req.BidderID,
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		return
	}

	resp := gin.H{
		"bid":     helpers.ToBidResponse(bid),
		"auction": helpers.ToAuctionResponse(auction, h.clk.Now()),
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":      bid.BidID,
		"auction_id":  bid.AuctionID,
		"bidder_id":   bid.BidderID,
		"amount":      bid.Amount.String(),
		"current_bid": auction.CurrentBid.String(),
		"bid_count":   auction.BidCount,
	})
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	auction, err := h.listing.CreateAuction(bidding.NewListing{
		SellerID:      req.SellerID,
		SellerName:    req.SellerName,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Condition:     req.Condition,
		Images:        req.Images,
		StartingPrice: decimal.NewFromFloat(req.StartingPrice),
		Duration:      time.Duration(req.DurationHours) * time.Hour,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CreateAuctionHandler: failed to create auction", map[string]any{
			"seller_id": req.SellerID,
			"error":     err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToAuctionResponse(auction, h.clk.Now()), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.AuctionID,
		"seller_id":  auction.SellerID,
		"end_time":   auction.EndTime.UTC().Format(time.RFC3339),
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	auctions, err := h.bidding.ListAuctions()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListAuctionsHandler: error listing auctions", map[string]any{"error": err.Error()})
		return
	}

	now := h.clk.Now()
	resp := make([]helpers.AuctionResponse, 0, len(auctions))
	for _, auction := range auctions {
		resp = append(resp, helpers.ToAuctionResponse(h.settleIfDue(auction), now))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.bidding.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(h.settleIfDue(auction), h.clk.Now()), "auction retrieved successfully")
}

// GetBidHistoryHandler handles GET /auctions/:auction_id/bids
func (h *AuctionHandler) GetBidHistoryHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw), "invalid limit")
			return
		}
		limit = parsed
	}

	bids, err := h.bidding.GetBidHistory(auctionID, limit)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidHistoryHandler: error retrieving bids", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, helpers.ToBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidHistoryHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(resp),
	})
}

// GetWinnerHandler handles GET /auctions/:auction_id/winner
func (h *AuctionHandler) GetWinnerHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	auction, err := h.bidding.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetWinnerHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	if _, ok := lifecycle.DetermineWinner(auction); !ok {
		utils.JSONError(c, http.StatusNotFound, auctionerrors.ErrNoBids, "no bids placed on auction")
		utils.Info("GetWinnerHandler: no winner yet", map[string]any{"auction_id": auctionID})
		return
	}

	winning, err := h.bidding.GetWinner(auctionID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no bids placed on auction")
			return
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	resp := helpers.WinnerResponse{
		AuctionID:  auctionID,
		BidderID:   winning.BidderID,
		BidderName: winning.BidderName,
		Amount:     winning.Amount,
	}

	utils.JSONResponse(c, http.StatusOK, resp, "winner retrieved successfully")
	helpers.LogSuccess("GetWinnerHandler", "winner retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"bidder_id":  winning.BidderID,
		"amount":     winning.Amount.String(),
	})
}

// settleIfDue opportunistically settles an expired auction on the read path.
// Settlement failures only degrade the rendered status, so they are logged
// and the stored snapshot is returned.
func (h *AuctionHandler) settleIfDue(auction models.Auction) models.Auction {
	if auction.Status != models.StatusActive || lifecycle.EffectiveStatus(auction, h.clk.Now()) != models.StatusEnded {
		return auction
	}

	settled, err := h.settler.Settle(auction)
	if err != nil {
		utils.Warn("read-path settlement failed", map[string]any{"auction_id": auction.AuctionID, "error": err.Error()})
		return auction
	}
	return settled
}
