package marketdata

// DefaultSeedPrice is the base price for symbols missing from seedPrices.
const DefaultSeedPrice = 150.0

// seedPrices anchors generated data around a realistic level per symbol.
var seedPrices = map[string]float64{
	"AAPL":  175.50,
	"GOOGL": 142.80,
	"MSFT":  378.90,
	"TSLA":  248.50,
	"AMZN":  145.20,
	"META":  334.90,
	"NVDA":  485.60,
	"NFLX":  485.30,
	"JPM":   172.40,
	"JNJ":   162.80,
	"V":     250.70,
	"PG":    152.30,
	"HD":    325.60,
	"MA":    415.20,
	"UNH":   515.80,
	"DIS":   92.40,
	"PYPL":  58.90,
	"ADBE":  525.40,
	"CRM":   245.60,
	"NKE":   98.70,
}

// symbolUniverse is the fixed list searched in synthetic mode, in display order.
var symbolUniverse = []string{
	"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "META", "NVDA", "NFLX",
	"JPM", "JNJ", "V", "PG", "HD", "MA", "UNH", "DIS", "PYPL", "ADBE",
	"CRM", "NKE", "INTC", "CSCO", "PFE", "TMO", "ABT", "KO", "PEP",
	"WMT", "COST", "TGT", "LOW", "SBUX", "MCD", "YUM", "CMCSA", "VZ",
	"T", "TMUS", "CHTR", "ORCL", "IBM", "QCOM", "AVGO", "TXN", "MU",
}

// SeedPrice returns the base price for symbol, or DefaultSeedPrice.
func SeedPrice(symbol string) float64 {
	if p, ok := seedPrices[symbol]; ok {
		return p
	}
	return DefaultSeedPrice
}
