package arena

// RegretMatcher learns a strategy for play at a single decision point.
//
// The arena only holds a RegretMatcher on behalf of the solver. It never
// calls one, and never persists one: a PlayerData decoded from a snapshot
// always has a nil RegretMatcher.
type RegretMatcher interface {
	// GetStrategy returns the current probability of playing each action.
	GetStrategy() []float32
	// AddRegret accumulates observed instantaneous regrets with weight w.
	AddRegret(w float32, instantaneousRegrets []float32)
	// NextStrategy recomputes the current strategy from accumulated regret.
	NextStrategy(discountPos, discountNeg, discountSum float32)
	// GetAverageStrategy returns the average strategy over all iterations.
	GetAverageStrategy() []float32
}
