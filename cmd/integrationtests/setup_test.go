package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	bidding "vintage-auction/internal/biddingService"
	"vintage-auction/internal/clock"
	"vintage-auction/internal/events"
	"vintage-auction/internal/lifecycle"
	"vintage-auction/internal/repository"
	"vintage-auction/internal/server"
	handler "vintage-auction/services/auction/handler"

	"github.com/gin-gonic/gin"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testEnv bundles the wired application with the fake clock and store the
// tests use to steer time and inspect state.
type testEnv struct {
	router *gin.Engine
	store  *repository.MemoryStore
	clk    *clock.Fake
	bus    *events.Bus
}

// SetupTestEnv wires the full stack against an in-memory store and a fake
// clock frozen at testStart.
func SetupTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	clk := clock.NewFake(testStart)
	bus := events.NewBus()
	store := repository.NewMemoryStore(clk, bus)

	biddingSvc := bidding.NewBiddingService(store, clk).WithRetryPolicy(3, 0)
	listingSvc := bidding.NewListingService(store, clk)
	settler := lifecycle.NewSettler(store, clk)

	auctionHandler := handler.NewAuctionHandler(biddingSvc, listingSvc, settler, clk, 50)

	return &testEnv{
		router: server.SetupRouter(auctionHandler),
		store:  store,
		clk:    clk,
		bus:    bus,
	}
}

// ExecuteRequestAndParse executes an HTTP request on the router and parses
// the JSON envelope.
func (env *testEnv) ExecuteRequestAndParse(t *testing.T, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// data unwraps the envelope's data field as an object.
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response data is not an object: %v", resp)
	}
	return d
}

// dataList unwraps the envelope's data field as an array.
func dataList(t *testing.T, resp map[string]any) []any {
	t.Helper()
	d, ok := resp["data"].([]any)
	if !ok {
		t.Fatalf("response data is not an array: %v", resp)
	}
	return d
}
