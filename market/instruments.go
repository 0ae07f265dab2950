// market/instruments.go
package market

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// venueSuffixes maps Yahoo ticker suffixes to ISO 10383 MIC codes.
var venueSuffixes = map[string]string{
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".AS": "xams",
	".BR": "xbru",
	".MI": "xmil",
	".MC": "xmad",
	".ST": "xsto",
	".CO": "xcse",
	".HE": "xhel",
	".VI": "xwbo",
	".SW": "xswx",
	".TO": "xtse",
	".V":  "xtsx",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
	".KS": "xkrx",
	".TW": "xtai",
	".SS": "xshg",
	".SZ": "xshe",
}

// VenueMIC guesses the listing venue from the ticker suffix. US listings
// have no suffix and default to NYSE. Crypto pairs (BTC-USD) trade around
// the clock and return "".
func VenueMIC(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if strings.HasSuffix(symbol, "-USD") || strings.HasSuffix(symbol, "-EUR") {
		return ""
	}
	if i := strings.LastIndex(symbol, "."); i > 0 {
		if mic, ok := venueSuffixes[symbol[i:]]; ok {
			return mic
		}
	}
	return "xnys"
}

// MarketOpen reports whether the symbol's venue is in session at t. known is
// false when no calendar applies.
func MarketOpen(symbol string, t time.Time) (open bool, known bool) {
	mic := VenueMIC(symbol)
	if mic == "" {
		return true, false
	}
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		return true, false
	}
	return cal.IsOpen(t), true
}
