package marketdata

import "strings"

// cryptoMap translates bare crypto symbols to their USD-quoted pairs.
var cryptoMap = map[string]string{
	"BTC":   "BTC-USD",
	"ETH":   "ETH-USD",
	"SOL":   "SOL-USD",
	"ADA":   "ADA-USD",
	"DOT":   "DOT-USD",
	"DOGE":  "DOGE-USD",
	"XRP":   "XRP-USD",
	"AVAX":  "AVAX-USD",
	"MATIC": "MATIC-USD",
	"LINK":  "LINK-USD",
	"UNI":   "UNI-USD",
	"ATOM":  "ATOM-USD",
	"LTC":   "LTC-USD",
	"BCH":   "BCH-USD",
	"SHIB":  "SHIB-USD",
}

// IsCrypto reports whether the ticker names a cryptocurrency, either as a
// bare symbol or an explicit -USD pair.
func IsCrypto(ticker string) bool {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if _, ok := cryptoMap[t]; ok {
		return true
	}
	return strings.HasSuffix(t, "-USD")
}

// NormalizeTicker uppercases the ticker and expands bare crypto symbols to
// their USD pair.
func NormalizeTicker(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if pair, ok := cryptoMap[t]; ok {
		return pair
	}
	return t
}
