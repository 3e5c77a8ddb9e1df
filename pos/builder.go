package pos

import (
	"text2phenotype.com/postagger/corpus"
	"text2phenotype.com/postagger/utils"
)

// Builder assembles a Model directly from log-probability tables. Entries are
// kept in the order they are added; that order is the decoder's iteration
// order. Setting the same entry twice keeps the first position and the last
// value. StartTag only ever has outgoing transitions: transitions into it and
// emissions by it are ignored.
type Builder struct {
	tags        *utils.SymbolTable
	words       *utils.SymbolTable
	transitions [][]arc
	emissions   []map[int32]float64
	opts        options
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		tags:  utils.NewSymbolTable(),
		words: utils.NewSymbolTable(),
		opts:  newOptions(opts),
	}
	b.tags.Intern(StartTag)
	return b
}

func (b *Builder) Transition(from, to string, logProb float64) *Builder {
	if to == StartTag {
		return b
	}
	fromID, toID := b.tags.Intern(from), b.tags.Intern(to)
	b.grow()
	row := b.transitions[fromID]
	for i := range row {
		if row[i].to == toID {
			row[i].logProb = logProb
			return b
		}
	}
	b.transitions[fromID] = append(row, arc{to: toID, logProb: logProb})
	return b
}

func (b *Builder) Emission(tag, word string, logProb float64) *Builder {
	if tag == StartTag {
		return b
	}
	tagID := b.tags.Intern(tag)
	wordID := b.words.Intern(corpus.FoldWord(word))
	b.grow()
	if b.emissions[tagID] == nil {
		b.emissions[tagID] = make(map[int32]float64)
	}
	b.emissions[tagID][wordID] = logProb
	return b
}

func (b *Builder) grow() {
	for len(b.transitions) < b.tags.Len() {
		b.transitions = append(b.transitions, nil)
	}
	for len(b.emissions) < b.tags.Len() {
		b.emissions = append(b.emissions, nil)
	}
}

// Build returns an independent Model. The builder may keep being used.
func (b *Builder) Build() *Model {
	b.grow()
	m := &Model{
		tags:        b.tags.Clone(),
		words:       b.words.Clone(),
		transitions: make([][]arc, len(b.transitions)),
		emissions:   make([]map[int32]float64, len(b.emissions)),
		unseen:      b.opts.unseen,
	}
	for id, row := range b.transitions {
		if len(row) > 0 {
			m.transitions[id] = append([]arc(nil), row...)
		}
	}
	for id, row := range b.emissions {
		if row == nil {
			continue
		}
		m.emissions[id] = make(map[int32]float64, len(row))
		for w, lp := range row {
			m.emissions[id][w] = lp
		}
	}
	m.tags.Lock()
	m.words.Lock()
	return m
}
