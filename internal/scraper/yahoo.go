// Package scraper resolves company names to tickers and pulls the raw
// statement values the rule-based scorer consumes, using the public
// Yahoo Finance endpoints.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/credyukti/syndata-go/internal/rules"
)

const (
	// DefaultBaseURL is the base URL for the Yahoo Finance API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	// Yahoo throttles aggressively, so stay conservative.
	DefaultRateLimit = 2

	userAgent = "Mozilla/5.0"
)

// ErrNotFound is returned when no ticker or statement matches.
var ErrNotFound = fmt.Errorf("not found")

// APIError is a non-200 response from Yahoo.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Client is a Yahoo Finance API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Yahoo Finance client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request against the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	slog.Debug("yahoo request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		QuoteType string `json:"quoteType"`
		ShortName string `json:"shortname"`
	} `json:"quotes"`
}

// SearchTicker resolves a free-text company name to a symbol. The
// first equity or ETF hit wins; anything else (indices, currencies) is
// skipped.
func (c *Client) SearchTicker(ctx context.Context, companyName string) (string, error) {
	params := url.Values{}
	params.Set("q", companyName)

	var result searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &result); err != nil {
		return "", err
	}

	for _, q := range result.Quotes {
		if (q.QuoteType == "EQUITY" || q.QuoteType == "ETF") && q.Symbol != "" {
			return q.Symbol, nil
		}
	}
	return "", fmt.Errorf("ticker for %q: %w", companyName, ErrNotFound)
}

type rawValue struct {
	Raw float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			IncomeStatementHistory struct {
				Statements []incomeStatement `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			BalanceSheetHistory struct {
				Statements []balanceSheet `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type incomeStatement struct {
	EndDate         rawValue `json:"endDate"`
	TotalRevenue    rawValue `json:"totalRevenue"`
	NetIncome       rawValue `json:"netIncome"`
	EBIT            rawValue `json:"ebit"`
	InterestExpense rawValue `json:"interestExpense"`
}

type balanceSheet struct {
	EndDate                 rawValue `json:"endDate"`
	TotalAssets             rawValue `json:"totalAssets"`
	TotalLiab               rawValue `json:"totalLiab"`
	TotalStockholderEquity  rawValue `json:"totalStockholderEquity"`
	TotalCurrentAssets      rawValue `json:"totalCurrentAssets"`
	TotalCurrentLiabilities rawValue `json:"totalCurrentLiabilities"`
	LongTermDebt            rawValue `json:"longTermDebt"`
}

// Statement holds the most recent fiscal year's raw values and the
// derived ratios, shaped to feed the scorer.
type Statement struct {
	Symbol     string
	FiscalYear int

	Financials rules.Financials

	ReturnOnEquity        float64
	ReturnOnAssets        float64
	CurrentRatio          float64
	AssetTurnoverRatio    float64
	DebtEquityRatio       float64
	DebtToAssetRatio      float64
	InterestCoverageRatio float64
}

// FetchStatement pulls the latest annual income statement and balance
// sheet for a symbol and derives the scorer inputs.
func (c *Client) FetchStatement(ctx context.Context, symbol string) (*Statement, error) {
	params := url.Values{}
	params.Set("modules", "incomeStatementHistory,balanceSheetHistory")

	var result quoteSummaryResponse
	if err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params, &result); err != nil {
		return nil, err
	}

	if result.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary for %s: %s", symbol, result.QuoteSummary.Error.Description)
	}
	if len(result.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("statements for %s: %w", symbol, ErrNotFound)
	}

	r := result.QuoteSummary.Result[0]
	if len(r.IncomeStatementHistory.Statements) == 0 || len(r.BalanceSheetHistory.Statements) == 0 {
		return nil, fmt.Errorf("statements for %s: %w", symbol, ErrNotFound)
	}

	// Yahoo orders statements newest first.
	inc := r.IncomeStatementHistory.Statements[0]
	bal := r.BalanceSheetHistory.Statements[0]

	st := &Statement{
		Symbol:     symbol,
		FiscalYear: time.Unix(int64(inc.EndDate.Raw), 0).UTC().Year(),
		Financials: rules.Financials{
			TotalAssets:        bal.TotalAssets.Raw,
			NetIncome:          inc.NetIncome.Raw,
			Equity:             bal.TotalStockholderEquity.Raw,
			TotalDebt:          bal.LongTermDebt.Raw,
			CurrentLiabilities: bal.TotalCurrentLiabilities.Raw,
			CurrentAssets:      bal.TotalCurrentAssets.Raw,
			EBIT:               inc.EBIT.Raw,
			NetProfitMargin:    safeDiv(inc.NetIncome.Raw, inc.TotalRevenue.Raw) * 100,
		},
		ReturnOnEquity:        safeDiv(inc.NetIncome.Raw, bal.TotalStockholderEquity.Raw) * 100,
		ReturnOnAssets:        safeDiv(inc.NetIncome.Raw, bal.TotalAssets.Raw) * 100,
		CurrentRatio:          safeDiv(bal.TotalCurrentAssets.Raw, bal.TotalCurrentLiabilities.Raw),
		AssetTurnoverRatio:    safeDiv(inc.TotalRevenue.Raw, bal.TotalAssets.Raw),
		DebtEquityRatio:       safeDiv(bal.TotalLiab.Raw, bal.TotalStockholderEquity.Raw),
		DebtToAssetRatio:      safeDiv(bal.TotalLiab.Raw, bal.TotalAssets.Raw),
		InterestCoverageRatio: safeDiv(inc.EBIT.Raw, inc.InterestExpense.Raw),
	}

	return st, nil
}

// safeDiv divides, returning 0 on a zero denominator.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
