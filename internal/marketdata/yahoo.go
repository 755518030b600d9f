package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// YahooProvider implements Provider using Yahoo Finance public endpoints.
type YahooProvider struct {
	Client     *http.Client
	BaseURL    string // overridable for tests
	SeriesDays int
}

// NewYahooProvider creates a Yahoo Finance provider, optionally routed
// through an HTTP proxy.
func NewYahooProvider(proxyURL string) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooProvider{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL:    "https://query1.finance.yahoo.com",
		SeriesDays: 300,
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v any) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (p *YahooProvider) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// GetSeries fetches the trailing daily bars for the ticker, oldest first.
func (p *YahooProvider) GetSeries(ctx context.Context, ticker string) (*model.PriceSeries, error) {
	symbol := NormalizeTicker(ticker)
	days := p.SeriesDays
	rng := "2y"
	switch {
	case days <= 30:
		rng = "1mo"
	case days <= 90:
		rng = "3mo"
	case days <= 180:
		rng = "6mo"
	case days <= 365:
		rng = "1y"
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		p.BaseURL, url.PathEscape(symbol), rng)

	var chart yahooChart
	if err := p.getJSON(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no chart data for %s", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.Bar{
			Date:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: no usable bars for %s", symbol)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return &model.PriceSeries{Ticker: ticker, Bars: bars, FetchedAt: time.Now()}, nil
}

// yahooValue is Yahoo's raw/fmt pair for a numeric field.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

// yahooSummary covers the quoteSummary modules the snapshot reads.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName          string     `json:"shortName"`
				RegularMarketPrice yahooValue `json:"regularMarketPrice"`
				MarketCap          yahooValue `json:"marketCap"`
			} `json:"price"`
			AssetProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			SummaryDetail *struct {
				PreviousClose    yahooValue `json:"previousClose"`
				FiftyTwoWeekHigh yahooValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  yahooValue `json:"fiftyTwoWeekLow"`
				Volume           yahooValue `json:"volume"`
				AverageVolume    yahooValue `json:"averageVolume"`
				TrailingPE       yahooValue `json:"trailingPE"`
				ForwardPE        yahooValue `json:"forwardPE"`
				PriceToBook      yahooValue `json:"priceToBook"`
				DividendYield    yahooValue `json:"dividendYield"`
				DividendRate     yahooValue `json:"dividendRate"`
				ExDividendDate   yahooValue `json:"exDividendDate"`
				Beta             yahooValue `json:"beta"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				PegRatio                yahooValue `json:"pegRatio"`
				ProfitMargins           yahooValue `json:"profitMargins"`
				ShortPercentOfFloat     yahooValue `json:"shortPercentOfFloat"`
				HeldPercentInsiders     yahooValue `json:"heldPercentInsiders"`
				HeldPercentInstitutions yahooValue `json:"heldPercentInstitutions"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				TargetLowPrice          yahooValue `json:"targetLowPrice"`
				TargetMeanPrice         yahooValue `json:"targetMeanPrice"`
				TargetHighPrice         yahooValue `json:"targetHighPrice"`
				RecommendationKey       string     `json:"recommendationKey"`
				NumberOfAnalystOpinions yahooValue `json:"numberOfAnalystOpinions"`
			} `json:"financialData"`
			CalendarEvents *struct {
				Earnings struct {
					EarningsDate []yahooValue `json:"earningsDate"`
				} `json:"earnings"`
			} `json:"calendarEvents"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func rawOrZero(v yahooValue) float64 {
	if v.Raw == nil {
		return 0
	}
	return *v.Raw
}

func epochDate(v yahooValue) *time.Time {
	if v.Raw == nil || *v.Raw == 0 {
		return nil
	}
	t := time.Unix(int64(*v.Raw), 0)
	return &t
}

// GetSnapshot fetches the point-in-time instrument view.
func (p *YahooProvider) GetSnapshot(ctx context.Context, ticker string) (*model.MarketSnapshot, error) {
	symbol := NormalizeTicker(ticker)
	modules := "price,assetProfile,summaryDetail,defaultKeyStatistics,financialData,calendarEvents"
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		p.BaseURL, url.PathEscape(symbol), modules)

	var summary yahooSummary
	if err := p.getJSON(ctx, u, &summary); err != nil {
		return nil, err
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s",
			summary.QuoteSummary.Error.Code, summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no summary data for %s", symbol)
	}
	r := summary.QuoteSummary.Result[0]

	snap := &model.MarketSnapshot{
		Ticker:         ticker,
		IsCrypto:       IsCrypto(ticker),
		Recommendation: "none",
		FetchedAt:      time.Now(),
	}

	if r.Price != nil {
		snap.Name = r.Price.ShortName
		snap.Price = rawOrZero(r.Price.RegularMarketPrice)
		snap.MarketCap = rawOrZero(r.Price.MarketCap)
	}
	if r.AssetProfile != nil {
		snap.Sector = r.AssetProfile.Sector
		snap.Industry = r.AssetProfile.Industry
	}
	if d := r.SummaryDetail; d != nil {
		snap.PreviousClose = rawOrZero(d.PreviousClose)
		snap.Week52High = rawOrZero(d.FiftyTwoWeekHigh)
		snap.Week52Low = rawOrZero(d.FiftyTwoWeekLow)
		snap.Volume = rawOrZero(d.Volume)
		snap.AvgVolume = rawOrZero(d.AverageVolume)
		snap.PERatio = d.TrailingPE.Raw
		snap.ForwardPE = d.ForwardPE.Raw
		snap.PriceToBook = d.PriceToBook.Raw
		// Yahoo reports yield as a fraction.
		snap.DividendYield = rawOrZero(d.DividendYield) * 100
		snap.DividendRate = rawOrZero(d.DividendRate)
		snap.ExDividendDate = epochDate(d.ExDividendDate)
		snap.Beta = d.Beta.Raw
	}
	if k := r.DefaultKeyStatistics; k != nil {
		snap.PEGRatio = k.PegRatio.Raw
		snap.ProfitMargin = k.ProfitMargins.Raw
		snap.ShortPercent = k.ShortPercentOfFloat.Raw
		snap.HeldPercentInsiders = k.HeldPercentInsiders.Raw
		snap.HeldPercentInstitutions = k.HeldPercentInstitutions.Raw
	}
	if f := r.FinancialData; f != nil {
		snap.TargetLow = f.TargetLowPrice.Raw
		snap.TargetMean = f.TargetMeanPrice.Raw
		snap.TargetHigh = f.TargetHighPrice.Raw
		if f.RecommendationKey != "" {
			snap.Recommendation = f.RecommendationKey
		}
		snap.NumAnalysts = int(rawOrZero(f.NumberOfAnalystOpinions))
	}
	if c := r.CalendarEvents; c != nil && len(c.Earnings.EarningsDate) > 0 {
		snap.EarningsDate = epochDate(c.Earnings.EarningsDate[0])
	}

	if snap.Price == 0 {
		return nil, fmt.Errorf("yahoo: no price for %s", symbol)
	}
	return snap, nil
}
