package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
// When no explicit series or snapshot is registered for a ticker, a gently
// drifting synthetic series around Price is generated.
type MockProvider struct {
	Price     float64
	Bars      int
	Series    map[string]*model.PriceSeries
	Snapshots map[string]*model.MarketSnapshot
	Err       map[string]error // per-ticker injected failures
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) GetSeries(_ context.Context, ticker string) (*model.PriceSeries, error) {
	if err := m.Err[ticker]; err != nil {
		return nil, err
	}
	if s, ok := m.Series[ticker]; ok {
		return s, nil
	}
	count := m.Bars
	if count == 0 {
		count = 300
	}
	return &model.PriceSeries{
		Ticker:    ticker,
		Bars:      GenerateMockBars(m.basePrice(), count),
		FetchedAt: time.Now(),
	}, nil
}

func (m *MockProvider) GetSnapshot(_ context.Context, ticker string) (*model.MarketSnapshot, error) {
	if err := m.Err[ticker]; err != nil {
		return nil, err
	}
	if s, ok := m.Snapshots[ticker]; ok {
		return s, nil
	}
	price := m.basePrice()
	return &model.MarketSnapshot{
		Ticker:         ticker,
		Name:           fmt.Sprintf("%s (mock)", ticker),
		Sector:         "Technology",
		IsCrypto:       IsCrypto(ticker),
		Price:          price,
		PreviousClose:  price * 0.998,
		Week52High:     price * 1.3,
		Week52Low:      price * 0.7,
		Volume:         1_000_000,
		AvgVolume:      1_000_000,
		Recommendation: "none",
		FetchedAt:      time.Now(),
	}, nil
}

func (m *MockProvider) basePrice() float64 {
	if m.Price > 0 {
		return m.Price
	}
	return 100
}

// GenerateMockBars builds count synthetic daily bars drifting mildly around
// basePrice, most recent last.
func GenerateMockBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1_000_000,
		}
	}
	return bars
}
