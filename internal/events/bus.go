package events

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a change event.
type Kind string

const (
	KindBidPlaced    Kind = "bid_placed"
	KindAuctionEnded Kind = "auction_ended"
)

// Event is a change notification keyed by auction. For bid_placed events,
// OutbidBidderID carries the bidder who just lost the lead, if any, so a
// presentation layer can raise outbid alerts.
type Event struct {
	Kind           Kind            `json:"kind"`
	AuctionID      string          `json:"auction_id"`
	BidderID       string          `json:"bidder_id,omitempty"`
	OutbidBidderID string          `json:"outbid_bidder_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Bus fans change events out to subscribers over bounded channels. Publish
// never blocks: a subscriber that falls behind loses events rather than
// stalling the commit path. Subscribers are expected to re-read store state,
// not to treat the stream as a ledger.
type Bus struct {
	mu   sync.Mutex
	subs []chan Event
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new subscriber with the given buffer size.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers e to every subscriber whose buffer has room.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber buffer full, drop
		}
	}
}
