package integrationtests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"vintage-auction/services/auction/helpers"

	"github.com/stretchr/testify/require"
)

func createAuction(t *testing.T, env *testEnv, req helpers.CreateAuctionRequest) string {
	t.Helper()
	resp, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/auctions", req)
	require.Equal(t, http.StatusCreated, w.Code)
	return data(t, resp)["auction_id"].(string)
}

func placeBid(t *testing.T, env *testEnv, req helpers.PlaceBidRequest) (map[string]any, int) {
	t.Helper()
	resp, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/bids", req)
	return resp, w.Code
}

// CreateAuctionHandler tests
func TestCreateAuctionAPI(t *testing.T) {
	t.Run("valid_listing", func(t *testing.T) {
		env := SetupTestEnv()
		resp, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/auctions", helpers.CreateAuctionRequest{
			SellerID:      "seller1",
			SellerName:    "Margaux",
			Title:         "Rotary Phone",
			Description:   "Fully functional with original cord",
			Category:      "Electronics",
			Condition:     "Excellent",
			StartingPrice: 45,
			DurationHours: 72,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		auction := data(t, resp)
		require.NotEmpty(t, auction["auction_id"])
		require.Equal(t, "seller1", auction["seller_id"])
		require.Equal(t, "45", auction["starting_price"])
		require.Equal(t, "45", auction["current_bid"])
		require.Equal(t, float64(0), auction["bid_count"])
		require.Equal(t, "active", auction["status"])

		endTime, err := time.Parse(time.RFC3339, auction["end_time"].(string))
		require.NoError(t, err)
		require.Equal(t, testStart.Add(72*time.Hour), endTime)
	})

	t.Run("missing_required_fields", func(t *testing.T) {
		env := SetupTestEnv()
		_, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/auctions", map[string]any{
			"seller_id": "seller1",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid_json", func(t *testing.T) {
		env := SetupTestEnv()
		_, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/auctions", []byte("{seller_id: 'missing quotes'}"))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// The bidding scenario from end to end: rejections, acceptance, expiry.
func TestPlaceBidAPI_Scenario(t *testing.T) {
	env := SetupTestEnv()
	auctionID := createAuction(t, env, helpers.CreateAuctionRequest{
		SellerID:      "sellerS",
		SellerName:    "Sadie",
		Title:         "Jazz Records",
		StartingPrice: 50,
		DurationHours: 24,
	})

	t.Run("bid_equal_to_current_rejected", func(t *testing.T) {
		_, code := placeBid(t, env, helpers.PlaceBidRequest{
			AuctionID: auctionID, BidderID: "bidder1", BidderName: "Ray", Amount: 50,
		})
		require.Equal(t, http.StatusConflict, code)
	})

	t.Run("self_bid_rejected_regardless_of_amount", func(t *testing.T) {
		_, code := placeBid(t, env, helpers.PlaceBidRequest{
			AuctionID: auctionID, BidderID: "sellerS", BidderName: "Sadie", Amount: 999,
		})
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("higher_bid_accepted", func(t *testing.T) {
		resp, code := placeBid(t, env, helpers.PlaceBidRequest{
			AuctionID: auctionID, BidderID: "bidder1", BidderName: "Ray", Amount: 55,
		})
		require.Equal(t, http.StatusCreated, code)

		payload := data(t, resp)
		bid := payload["bid"].(map[string]any)
		auction := payload["auction"].(map[string]any)

		require.NotEmpty(t, bid["bid_id"])
		require.Equal(t, "55", bid["amount"])
		require.Equal(t, "55", auction["current_bid"])
		require.Equal(t, float64(1), auction["bid_count"])
		require.Equal(t, "bidder1", auction["last_bidder_id"])
	})

	t.Run("bid_after_end_time_rejected", func(t *testing.T) {
		env.clk.Advance(25 * time.Hour)

		_, code := placeBid(t, env, helpers.PlaceBidRequest{
			AuctionID: auctionID, BidderID: "bidder2", BidderName: "Lee", Amount: 60,
		})
		require.Equal(t, http.StatusGone, code)

		// state unchanged
		resp, w := env.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		auction := data(t, resp)
		require.Equal(t, "55", auction["current_bid"])
		require.Equal(t, float64(1), auction["bid_count"])
		require.Equal(t, "ended", auction["status"])
	})

	t.Run("winner_is_last_bidder", func(t *testing.T) {
		resp, w := env.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/winner", nil)
		require.Equal(t, http.StatusOK, w.Code)

		winner := data(t, resp)
		require.Equal(t, "bidder1", winner["bidder_id"])
		require.Equal(t, "Ray", winner["bidder_name"])
		require.Equal(t, "55", winner["amount"])
	})
}

func TestPlaceBidAPI_Errors(t *testing.T) {
	t.Run("unknown_auction", func(t *testing.T) {
		env := SetupTestEnv()
		_, code := placeBid(t, env, helpers.PlaceBidRequest{
			AuctionID: "missing", BidderID: "bidder1", BidderName: "Ray", Amount: 10,
		})
		require.Equal(t, http.StatusNotFound, code)
	})

	t.Run("invalid_json", func(t *testing.T) {
		env := SetupTestEnv()
		_, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/bids", []byte("{auction_id: 'missing quotes', amount: 100}"))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing_amount", func(t *testing.T) {
		env := SetupTestEnv()
		_, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/bids", map[string]any{
			"auction_id": "auction1",
			"bidder_id":  "bidder1",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// GetBidHistoryHandler tests
func TestBidHistoryAPI(t *testing.T) {
	env := SetupTestEnv()
	auctionID := createAuction(t, env, helpers.CreateAuctionRequest{
		SellerID:      "seller1",
		SellerName:    "Margaux",
		Title:         "Pocket Watch",
		StartingPrice: 20,
		DurationHours: 24,
	})

	for i, amount := range []float64{25, 30, 42} {
		_, code := placeBid(t, env, helpers.PlaceBidRequest{
			AuctionID:  auctionID,
			BidderID:   fmt.Sprintf("bidder-%d", i),
			BidderName: fmt.Sprintf("Bidder %d", i),
			Amount:     amount,
		})
		require.Equal(t, http.StatusCreated, code)
	}

	t.Run("newest_first", func(t *testing.T) {
		resp, w := env.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/bids", nil)
		require.Equal(t, http.StatusOK, w.Code)

		bids := dataList(t, resp)
		require.Len(t, bids, 3)
		require.Equal(t, "42", bids[0].(map[string]any)["amount"])
		require.Equal(t, "30", bids[1].(map[string]any)["amount"])
		require.Equal(t, "25", bids[2].(map[string]any)["amount"])
	})

	t.Run("limit_query", func(t *testing.T) {
		resp, w := env.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/bids?limit=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, dataList(t, resp), 1)
	})

	t.Run("invalid_limit", func(t *testing.T) {
		_, w := env.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/bids?limit=banana", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown_auction", func(t *testing.T) {
		_, w := env.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/missing/bids", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// ListAuctionsHandler tests
func TestListAuctionsAPI(t *testing.T) {
	env := SetupTestEnv()

	first := createAuction(t, env, helpers.CreateAuctionRequest{
		SellerID: "seller1", SellerName: "Margaux", Title: "First", StartingPrice: 10, DurationHours: 1,
	})
	env.clk.Advance(time.Minute)
	second := createAuction(t, env, helpers.CreateAuctionRequest{
		SellerID: "seller1", SellerName: "Margaux", Title: "Second", StartingPrice: 10, DurationHours: 48,
	})

	t.Run("most_recent_first", func(t *testing.T) {
		resp, w := env.ExecuteRequestAndParse(t, http.MethodGet, "/auctions", nil)
		require.Equal(t, http.StatusOK, w.Code)

		auctions := dataList(t, resp)
		require.Len(t, auctions, 2)
		require.Equal(t, second, auctions[0].(map[string]any)["auction_id"])
		require.Equal(t, first, auctions[1].(map[string]any)["auction_id"])
	})

	t.Run("expired_auction_renders_ended_and_settles", func(t *testing.T) {
		env.clk.Advance(2 * time.Hour) // past the first auction's end

		resp, w := env.ExecuteRequestAndParse(t, http.MethodGet, "/auctions", nil)
		require.Equal(t, http.StatusOK, w.Code)

		for _, raw := range dataList(t, resp) {
			auction := raw.(map[string]any)
			switch auction["auction_id"] {
			case first:
				require.Equal(t, "ended", auction["status"])
				require.Equal(t, float64(0), auction["time_left_seconds"])
			case second:
				require.Equal(t, "active", auction["status"])
			}
		}

		// the read path settled the stored record too
		stored, err := env.store.GetAuction(first)
		require.NoError(t, err)
		require.Equal(t, "ended", string(stored.Status))
	})
}

// GetWinnerHandler tests
func TestWinnerAPI_NoBids(t *testing.T) {
	env := SetupTestEnv()
	auctionID := createAuction(t, env, helpers.CreateAuctionRequest{
		SellerID: "seller1", SellerName: "Margaux", Title: "Unwanted Lamp", StartingPrice: 5, DurationHours: 24,
	})

	_, w := env.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/winner", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
