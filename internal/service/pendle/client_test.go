package pendle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MaturityPlanner/internal/domain/models"
	xhttp "MaturityPlanner/pkg/http"
	"MaturityPlanner/pkg/logger"
	"MaturityPlanner/pkg/metrics"
	"MaturityPlanner/pkg/util"
)

const marketsBody = `{
  "markets": [
    {"name": "stETH", "address": "0xa", "chainId": 1, "expiry": "2025-12-25T00:00:00.000Z", "details": {"totalTvl": 612345678.5}},
    {"name": "USDe", "address": "0xb", "chainId": "42161", "expiry": "2025-12-25T00:00:00Z", "details": {"totalTvl": "15000000"}},
    {"name": "nulltvl", "address": "0xc", "chainId": 56, "expiry": "2026-03-26T00:00:00.000Z", "details": {"totalTvl": null}},
    {"name": "notvl", "address": "0xd", "chainId": 8453, "expiry": "2026-03-26T00:00:00.000Z", "details": {}},
    {"name": "neg", "address": "0xe", "chainId": 1, "expiry": "2026-03-26T00:00:00.000Z", "details": {"totalTvl": -12}},
    {"name": "bad", "address": "0xf", "chainId": 1, "expiry": "soon", "details": {"totalTvl": 5}}
  ]
}`

func newTestClient(t *testing.T, url string) (*Client, *metrics.Recorder) {
	t.Helper()
	rec := metrics.New(prometheus.NewRegistry())
	clock := util.ClockFunc(func() time.Time { return time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC) })
	return New(url, xhttp.NewClient(xhttp.WithTimeout(2*time.Second)), clock, logger.Nop(), rec), rec
}

func TestFetchMarketsNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("isActive"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(marketsBody))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL+"/core/v1/markets/all?isActive=true")
	snap, err := c.FetchMarkets(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Markets, 5)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), snap.FetchedAt)

	st := snap.Markets[0]
	assert.Equal(t, "stETH", st.Name)
	assert.Equal(t, "1", st.ChainID)
	assert.Equal(t, "2025-12-25", st.ExpiryDate())
	assert.True(t, st.TVL.Equal(decimal.RequireFromString("612345678.5")))
	assert.Equal(t, models.Tier1, st.Tier)

	assert.Equal(t, "42161", snap.Markets[1].ChainID)
	assert.Equal(t, models.Tier3, snap.Markets[1].Tier)

	for _, m := range snap.Markets[2:] {
		assert.True(t, m.TVL.IsZero(), m.Name)
		assert.Equal(t, models.Tier4, m.Tier, m.Name)
	}
	assert.Len(t, snap.Warnings, 4)
}

func TestFetchMarketsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	snap, err := c.FetchMarkets(context.Background())
	assert.Nil(t, snap)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataFetch))

	var fe *models.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
}

func TestFetchMarketsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"markets": [`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	_, err := c.FetchMarkets(context.Background())
	assert.ErrorIs(t, err, models.ErrDataFetch)
}

func TestFetchMarketsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := newTestClient(t, url)
	_, err := c.FetchMarkets(context.Background())
	assert.ErrorIs(t, err, models.ErrDataFetch)
}

func TestChainIDUnmarshal(t *testing.T) {
	var c chainID
	require.NoError(t, c.UnmarshalJSON([]byte(`137`)))
	assert.Equal(t, chainID("137"), c)
	require.NoError(t, c.UnmarshalJSON([]byte(`"10"`)))
	assert.Equal(t, chainID("10"), c)
	require.NoError(t, c.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, chainID(""), c)
	assert.Error(t, c.UnmarshalJSON([]byte(`{}`)))
}
