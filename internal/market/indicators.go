package market

// Technical indicator helpers used by the analyst stage. Inputs are price
// series ordered oldest first; callers guarantee minimum lengths.

// MA returns the simple moving average of the last n prices. With fewer
// than n points it averages what is available; an empty series returns 0.
func MA(prices []float64, n int) float64 {
	if len(prices) == 0 || n <= 0 {
		return 0
	}
	if len(prices) < n {
		n = len(prices)
	}
	var sum float64
	for _, p := range prices[len(prices)-n:] {
		sum += p
	}
	return sum / float64(n)
}

// RSI returns the n-period Relative Strength Index with Wilder's smoothing
// over the tail of the series. A series too short for one full window
// returns the neutral 50.
func RSI(prices []float64, n int) float64 {
	if n <= 0 || len(prices) < n+1 {
		return 50
	}

	var gain, loss float64
	start := len(prices) - n - 1
	for i := start + 1; i <= start+n; i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(n)
	avgLoss := loss / float64(n)

	for i := start + n + 1; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*float64(n-1) + g) / float64(n)
		avgLoss = (avgLoss*float64(n-1) + l) / float64(n)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Trend returns the fractional change across the last n prices, used by the
// noise-filter signal pass.
func Trend(prices []float64, n int) float64 {
	if len(prices) < 2 {
		return 0
	}
	if len(prices) < n {
		n = len(prices)
	}
	window := prices[len(prices)-n:]
	first := window[0]
	if first == 0 {
		return 0
	}
	return (window[len(window)-1] - first) / first
}
