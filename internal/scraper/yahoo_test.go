package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const searchBody = `{
	"quotes": [
		{"symbol": "^NSEI", "quoteType": "INDEX", "shortname": "Nifty 50"},
		{"symbol": "RELIANCE.NS", "quoteType": "EQUITY", "shortname": "Reliance Industries"},
		{"symbol": "RELI.BO", "quoteType": "EQUITY", "shortname": "Reliance Home"}
	]
}`

const quoteSummaryBody = `{
	"quoteSummary": {
		"result": [{
			"incomeStatementHistory": {
				"incomeStatementHistory": [{
					"endDate": {"raw": 1711843200},
					"totalRevenue": {"raw": 100000000},
					"netIncome": {"raw": 15000000},
					"ebit": {"raw": 22000000},
					"interestExpense": {"raw": 2000000}
				}]
			},
			"balanceSheetHistory": {
				"balanceSheetStatements": [{
					"endDate": {"raw": 1711843200},
					"totalAssets": {"raw": 200000000},
					"totalLiab": {"raw": 120000000},
					"totalStockholderEquity": {"raw": 80000000},
					"totalCurrentAssets": {"raw": 50000000},
					"totalCurrentLiabilities": {"raw": 25000000},
					"longTermDebt": {"raw": 60000000}
				}]
			}
		}],
		"error": null
	}
}`

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestSearchTicker_PicksFirstEquity(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Reliance" {
			t.Errorf("q = %q, want Reliance", got)
		}
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte(searchBody))
	})

	symbol, err := client.SearchTicker(context.Background(), "Reliance")
	if err != nil {
		t.Fatalf("SearchTicker() error = %v", err)
	}
	// The index hit comes first but must be skipped.
	if symbol != "RELIANCE.NS" {
		t.Errorf("symbol = %q, want RELIANCE.NS", symbol)
	}
}

func TestSearchTicker_NoMatch(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quotes": []}`))
	})

	_, err := client.SearchTicker(context.Background(), "No Such Company")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFetchStatement(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v10/finance/quoteSummary/RELIANCE.NS" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(quoteSummaryBody))
	})

	st, err := client.FetchStatement(context.Background(), "RELIANCE.NS")
	if err != nil {
		t.Fatalf("FetchStatement() error = %v", err)
	}

	if st.FiscalYear != 2024 {
		t.Errorf("FiscalYear = %d, want 2024", st.FiscalYear)
	}
	if st.Financials.NetProfitMargin != 15.0 {
		t.Errorf("NetProfitMargin = %f, want 15.0", st.Financials.NetProfitMargin)
	}
	if st.CurrentRatio != 2.0 {
		t.Errorf("CurrentRatio = %f, want 2.0", st.CurrentRatio)
	}
	if st.DebtEquityRatio != 1.5 {
		t.Errorf("DebtEquityRatio = %f, want 1.5", st.DebtEquityRatio)
	}
	if st.InterestCoverageRatio != 11.0 {
		t.Errorf("InterestCoverageRatio = %f, want 11.0", st.InterestCoverageRatio)
	}
	if st.Financials.TotalDebt != 60000000 {
		t.Errorf("TotalDebt = %f, want 60000000", st.Financials.TotalDebt)
	}
}

func TestFetchStatement_Empty(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary": {"result": [], "error": null}}`))
	})

	_, err := client.FetchStatement(context.Background(), "XYZ")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGet_StatusError(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := client.SearchTicker(context.Background(), "Acme")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
}
