package keyword

// SeedKeyword is a ranked token representing the page topic.
// Score is the keyword count relative to the most frequent keyword, in [0,1].
type SeedKeyword struct {
	value string
	score float64
}

func NewSeedKeyword(value string, score float64) SeedKeyword {
	return SeedKeyword{
		value: value,
		score: score,
	}
}

func (s SeedKeyword) Value() string {
	return s.value
}

func (s SeedKeyword) Score() float64 {
	return s.score
}
