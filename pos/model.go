package pos

import (
	"text2phenotype.com/postagger/corpus"
	"text2phenotype.com/postagger/utils"
)

const (
	// StartTag is the synthetic predecessor of every sentence-initial tag. It
	// must not occur in training data.
	StartTag = "#"

	// UnseenLogProb is the emission log-probability used when a tag never
	// emitted the word, or never emitted anything.
	UnseenLogProb = -20.0
)

const startID int32 = 0

type arc struct {
	to      int32
	logProb float64
}

// Model is a first-order HMM over interned tags and words. A Model never
// changes after it is built, so one Model may serve any number of concurrent
// decoders.
type Model struct {
	tags  *utils.SymbolTable
	words *utils.SymbolTable

	// transitions[from] lists successors in the order they were first seen.
	// A nil row means the tag has no successors.
	transitions [][]arc
	// emissions[tag] maps word IDs to log-probabilities. A nil map means the
	// tag has no emission row.
	emissions []map[int32]float64
	unseen    float64
}

// Tags returns every tag known to the model, in first-seen order, without the
// start tag.
func (m *Model) Tags() []string {
	return m.tags.Names()[1:]
}

// TransitionSources returns the tags that have an outgoing transition row,
// including StartTag when the model has a prior.
func (m *Model) TransitionSources() []string {
	var out []string
	for id, row := range m.transitions {
		if len(row) > 0 {
			out = append(out, m.tags.Name(int32(id)))
		}
	}
	return out
}

func (m *Model) UnseenLogProb() float64 {
	return m.unseen
}

func (m *Model) TransitionLogProb(from, to string) (float64, bool) {
	fromID, toID := m.tags.Lookup(from), m.tags.Lookup(to)
	if fromID == utils.NoSymbol || toID == utils.NoSymbol {
		return 0, false
	}
	for _, a := range m.transitions[fromID] {
		if a.to == toID {
			return a.logProb, true
		}
	}
	return 0, false
}

// EmissionLogProb looks up the recorded emission of word by tag. The word is
// lowercased first. It does not apply the unseen floor.
func (m *Model) EmissionLogProb(tag, word string) (float64, bool) {
	tagID := m.tags.Lookup(tag)
	wordID := m.words.Lookup(corpus.FoldWord(word))
	if tagID == utils.NoSymbol || wordID == utils.NoSymbol {
		return 0, false
	}
	lp, ok := m.emissions[tagID][wordID]
	return lp, ok
}

// TransitionRow returns a copy of the successors of from, or nil when from has
// no outgoing row.
func (m *Model) TransitionRow(from string) map[string]float64 {
	fromID := m.tags.Lookup(from)
	if fromID == utils.NoSymbol || len(m.transitions[fromID]) == 0 {
		return nil
	}
	row := make(map[string]float64, len(m.transitions[fromID]))
	for _, a := range m.transitions[fromID] {
		row[m.tags.Name(a.to)] = a.logProb
	}
	return row
}

// EmissionRow returns a copy of the words emitted by tag, or nil when the tag
// has no emission row.
func (m *Model) EmissionRow(tag string) map[string]float64 {
	tagID := m.tags.Lookup(tag)
	if tagID == utils.NoSymbol || m.emissions[tagID] == nil {
		return nil
	}
	row := make(map[string]float64, len(m.emissions[tagID]))
	for wordID, lp := range m.emissions[tagID] {
		row[m.words.Name(wordID)] = lp
	}
	return row
}

// emission applies the unseen floor. wordID may be utils.NoSymbol.
func (m *Model) emission(tagID, wordID int32) float64 {
	if lp, ok := m.emissions[tagID][wordID]; ok {
		return lp
	}
	return m.unseen
}

func (m *Model) hasPrior() bool {
	return len(m.transitions) > 0 && len(m.transitions[startID]) > 0
}
