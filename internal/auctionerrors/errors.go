package auctionerrors

import "errors"

// Store-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrNoBids          = errors.New("no bids placed on auction")
	ErrConflict        = errors.New("conflicting concurrent bid")
	ErrStoreUnavailable = errors.New("auction store unavailable")
)

// business rule errors
var (
	ErrInvalidBid     = errors.New("invalid bid")
	ErrInvalidAuction = errors.New("invalid auction")
	ErrAuctionEnded   = errors.New("auction has ended")
	ErrSelfBid        = errors.New("seller cannot bid on own auction")
	ErrBidTooLow      = errors.New("bid amount too low")
	ErrContention     = errors.New("bid contention, retries exhausted")
)
