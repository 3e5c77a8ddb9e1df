package pos

// Sequence is a decoded tag path. Score is the joint log-probability of the
// path and the words.
type Sequence struct {
	Score    float64
	Outcomes []string
}
