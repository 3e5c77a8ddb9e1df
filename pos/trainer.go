package pos

import (
	"math"
	"text2phenotype.com/postagger/corpus"
	"text2phenotype.com/postagger/utils"
)

// PairSource is satisfied by *corpus.Reader.
type PairSource interface {
	Scan() bool
	Pair() corpus.Pair
	Err() error
}

// counts is one row of a count table with keys in first-seen order.
type counts struct {
	keys   []int32
	counts map[int32]int
	total  int
}

func (c *counts) add(key int32) {
	if c.counts == nil {
		c.counts = make(map[int32]int)
	}
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
	c.total++
}

func (c *counts) logProb(key int32) float64 {
	return math.Log(float64(c.counts[key]) / float64(c.total))
}

// Trainer accumulates transition and emission counts. Call Model to
// normalise the counts seen so far into log-probabilities.
type Trainer struct {
	tags        *utils.SymbolTable
	words       *utils.SymbolTable
	transitions []counts
	emissions   []counts
	sentences   int
	tokens      int
	opts        options
}

func NewTrainer(opts ...Option) *Trainer {
	t := &Trainer{
		tags:  utils.NewSymbolTable(),
		words: utils.NewSymbolTable(),
		opts:  newOptions(opts),
	}
	t.tags.Intern(StartTag)
	return t
}

// Observe counts one pair. Words are lowercased here as well, so pairs built
// by hand behave like pairs from corpus.Reader. A pair is rejected as a whole:
// on error nothing of it has been counted.
func (t *Trainer) Observe(p corpus.Pair) error {
	if len(p.Tags) != len(p.Words) {
		return &corpus.MismatchError{Line: p.Line, Tags: len(p.Tags), Words: len(p.Words)}
	}
	for i, tag := range p.Tags {
		if tag == StartTag {
			return &ReservedTagError{Line: p.Line, Position: i}
		}
	}
	if len(p.Tags) == 0 {
		return nil
	}

	words := corpus.FoldWords(p.Words)
	prev := startID
	for i, tag := range p.Tags {
		tagID := t.tags.Intern(tag)
		wordID := t.words.Intern(words[i])
		t.grow()
		t.transitions[prev].add(tagID)
		t.emissions[tagID].add(wordID)
		prev = tagID
	}
	t.sentences++
	t.tokens += len(p.Tags)
	return nil
}

func (t *Trainer) grow() {
	for len(t.transitions) < t.tags.Len() {
		t.transitions = append(t.transitions, counts{})
		t.emissions = append(t.emissions, counts{})
	}
}

// Model normalises every row to log(count/rowTotal). The Trainer keeps its
// counts and may observe more pairs afterwards.
func (t *Trainer) Model() *Model {
	t.grow()
	m := &Model{
		tags:        t.tags.Clone(),
		words:       t.words.Clone(),
		transitions: make([][]arc, len(t.transitions)),
		emissions:   make([]map[int32]float64, len(t.emissions)),
		unseen:      t.opts.unseen,
	}
	for id := range t.transitions {
		row := &t.transitions[id]
		if row.total == 0 {
			continue
		}
		arcs := make([]arc, len(row.keys))
		for i, to := range row.keys {
			arcs[i] = arc{to: to, logProb: row.logProb(to)}
		}
		m.transitions[id] = arcs
	}
	for id := range t.emissions {
		row := &t.emissions[id]
		if row.total == 0 {
			continue
		}
		emits := make(map[int32]float64, len(row.keys))
		for _, w := range row.keys {
			emits[w] = row.logProb(w)
		}
		m.emissions[id] = emits
	}
	m.tags.Lock()
	m.words.Lock()

	t.opts.logger.Debug().
		Int("sentences", t.sentences).
		Int("tokens", t.tokens).
		Int("tags", m.tags.Len()-1).
		Int("words", m.words.Len()).
		Msg("Built HMM from counts")
	return m
}

// Train counts every pair of src and returns the normalised model. The first
// error from src or from a pair stops training.
func Train(src PairSource, opts ...Option) (*Model, error) {
	t := NewTrainer(opts...)
	for src.Scan() {
		if err := t.Observe(src.Pair()); err != nil {
			return nil, err
		}
	}
	if err := src.Err(); err != nil {
		return nil, err
	}
	return t.Model(), nil
}
