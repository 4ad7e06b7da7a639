package pattern

import (
	"math"
	"strings"
)

// avoidanceMarkers are phrases that pull a message's sentiment down.
var avoidanceMarkers = []string{
	"can't", "don't know", "stuck", "give up", "impossible", "hate",
}

// Sentiment scores a user message in [-1,1]: longer, engaged messages score
// higher, each avoidance marker costs 0.3. Rounded to two decimals.
func Sentiment(text string) float64 {
	score := math.Min(float64(len(text))/200, 1)
	lower := strings.ToLower(text)
	for _, w := range avoidanceMarkers {
		if strings.Contains(lower, w) {
			score -= 0.3
		}
	}
	score = math.Max(-1, math.Min(1, score))
	return math.Round(score*100) / 100
}
