package pos

import (
	"math"
	"text2phenotype.com/postagger/corpus"
)

// column holds the best score per tag for one position. live marks the tags
// that have been reached at all; scores of other tags are meaningless.
type column struct {
	scores []float64
	live   []bool
}

func newColumn(size int) column {
	return column{
		scores: make([]float64, size),
		live:   make([]bool, size),
	}
}

func (c column) reset() {
	for i := range c.live {
		c.live[i] = false
	}
}

// argmax scans tags in ID order and keeps the first maximum.
func (c column) argmax() (int32, float64) {
	best, bestScore := int32(-1), math.Inf(-1)
	for id, ok := range c.live {
		if ok && (best < 0 || c.scores[id] > bestScore) {
			best, bestScore = int32(id), c.scores[id]
		}
	}
	return best, bestScore
}

// Decode tags a raw sentence. The sentence is lowercased and split on single
// spaces; the result has one tag per token.
func (m *Model) Decode(sentence string) ([]string, error) {
	return m.DecodeTokens(corpus.Tokenize(sentence))
}

// DecodeTokens tags pre-split words.
func (m *Model) DecodeTokens(words []string) ([]string, error) {
	seq, err := m.Best(words)
	if err != nil {
		return nil, err
	}
	return seq.Outcomes, nil
}

// Best runs Viterbi over words and returns the most probable tag sequence
// together with its joint log-probability. Ties go to the path found first.
func (m *Model) Best(words []string) (Sequence, error) {
	if m == nil || !m.hasPrior() {
		return Sequence{}, ErrEmptyModel
	}
	if len(words) == 0 {
		return Sequence{Outcomes: []string{}}, nil
	}

	numTags := m.tags.Len()
	curr, next := newColumn(numTags), newColumn(numTags)
	curr.live[startID] = true
	curr.scores[startID] = 0

	// back[i][t] is the tag at i-1 on the best path that ends in t at i
	back := make([][]int32, len(words))
	folded := corpus.FoldWords(words)

	for i, word := range folded {
		wordID := m.words.Lookup(word)
		pointers := make([]int32, numTags)
		next.reset()
		reached := false

		for from, ok := range curr.live {
			if !ok {
				continue
			}
			score := curr.scores[from]
			for _, a := range m.transitions[from] {
				candidate := score + a.logProb + m.emission(a.to, wordID)
				if !next.live[a.to] || candidate > next.scores[a.to] {
					next.live[a.to] = true
					next.scores[a.to] = candidate
					pointers[a.to] = int32(from)
					reached = true
				}
			}
		}

		if !reached {
			last, _ := curr.argmax()
			return Sequence{}, &StuckError{
				Position: i,
				Word:     words[i],
				Prefix:   m.backtrace(last, back[:i]),
			}
		}
		back[i] = pointers
		curr, next = next, curr
	}

	last, score := curr.argmax()
	return Sequence{
		Score:    score,
		Outcomes: m.backtrace(last, back),
	}, nil
}

func (m *Model) backtrace(last int32, back [][]int32) []string {
	tags := make([]string, len(back))
	tag := last
	for i := len(back) - 1; i >= 0; i-- {
		tags[i] = m.tags.Name(tag)
		tag = back[i][tag]
	}
	return tags
}
