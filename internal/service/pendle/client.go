package pendle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"MaturityPlanner/internal/domain/models"
	drepo "MaturityPlanner/internal/domain/repository"
	"MaturityPlanner/internal/services/maturity"
	xhttp "MaturityPlanner/pkg/http"
	"MaturityPlanner/pkg/logger"
	"MaturityPlanner/pkg/util"
)

// DefaultURL lists the active Pendle v2 markets across chains.
const DefaultURL = "https://api-v2.pendle.finance/core/v1/markets/all?isActive=true"

// Data-quality warning kinds.
const (
	WarnMissingTVL    = "missing_tvl"
	WarnNegativeTVL   = "negative_tvl"
	WarnInvalidExpiry = "invalid_expiry"
)

// Client implements MarketSource backed by the Pendle REST API.
type Client struct {
	url     string
	http    *xhttp.Client
	clock   util.Clock
	log     *logger.Logger
	metrics drepo.Metrics
}

// New creates a new Pendle MarketSource.
func New(url string, httpClient *xhttp.Client, clock util.Clock, log *logger.Logger, metrics drepo.Metrics) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = xhttp.NewClient()
	}
	if clock == nil {
		clock = util.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{url: url, http: httpClient, clock: clock, log: log, metrics: metrics}
}

// FetchMarkets fetches and normalizes the active market list. Any network, status or
// decoding failure is returned as *models.FetchError.
func (c *Client) FetchMarkets(ctx context.Context) (*models.MarketSnapshot, error) {
	start := time.Now()
	var resp marketsResponse
	err := c.http.GetJSON(ctx, xhttp.GetRequest{URL: c.url}, &resp)
	if c.metrics != nil {
		c.metrics.RecordLatency("pendle_fetch", time.Since(start).Seconds())
	}
	if err != nil {
		fe := &models.FetchError{URL: c.url, Err: err}
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			fe.StatusCode = se.StatusCode
		}
		c.record("error")
		c.log.Error("pendle: fetch markets failed", logger.String("url", c.url), logger.Int("status", fe.StatusCode), logger.Error(err))
		return nil, fe
	}

	snap := &models.MarketSnapshot{
		Markets:   make([]models.MarketRecord, 0, len(resp.Markets)),
		FetchedAt: c.clock.Now().UTC(),
	}
	for _, m := range resp.Markets {
		rec, ok := c.toRecord(m, snap)
		if ok {
			snap.Markets = append(snap.Markets, rec)
		}
	}
	c.record("ok")
	c.log.Debug("pendle: markets fetched",
		logger.Int("markets", len(snap.Markets)),
		logger.Int("warnings", len(snap.Warnings)),
		logger.Duration("took", time.Since(start)))
	return snap, nil
}

func (c *Client) toRecord(m marketDTO, snap *models.MarketSnapshot) (models.MarketRecord, bool) {
	expiry, ok := util.ParseTime(m.Expiry)
	if !ok {
		c.warn(snap, WarnInvalidExpiry, m, fmt.Sprintf("market %s skipped: unparsable expiry %q", label(m), m.Expiry))
		return models.MarketRecord{}, false
	}

	tvl := decimal.Zero
	switch {
	case !m.Details.TotalTVL.Valid:
		c.warn(snap, WarnMissingTVL, m, fmt.Sprintf("market %s has no totalTvl, treated as 0", label(m)))
	case m.Details.TotalTVL.Decimal.IsNegative():
		c.warn(snap, WarnNegativeTVL, m, fmt.Sprintf("market %s has negative totalTvl %s, treated as 0", label(m), m.Details.TotalTVL.Decimal))
	default:
		tvl = m.Details.TotalTVL.Decimal
	}
	tvl = maturity.NormalizeTVL(tvl)

	return models.MarketRecord{
		Name:    m.Name,
		Address: m.Address,
		ChainID: string(m.ChainID),
		Expiry:  expiry.UTC(),
		TVL:     tvl,
		Tier:    maturity.Classify(tvl),
	}, true
}

func (c *Client) warn(snap *models.MarketSnapshot, kind string, m marketDTO, msg string) {
	snap.Warnings = append(snap.Warnings, msg)
	if c.metrics != nil {
		c.metrics.RecordDataWarning(kind)
	}
	c.log.Warn("pendle: data quality", logger.String("kind", kind), logger.String("address", m.Address), logger.String("name", m.Name))
}

func (c *Client) record(result string) {
	if c.metrics != nil {
		c.metrics.RecordFetch(result)
	}
}

func label(m marketDTO) string {
	if m.Name != "" {
		return m.Name
	}
	return m.Address
}

var _ drepo.MarketSource = (*Client)(nil)
