package eval

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"text2phenotype.com/postagger/corpus"
	"text2phenotype.com/postagger/pos"
)

func trainedModel(t *testing.T) *pos.Model {
	t.Helper()
	r, err := corpus.Open("../pos/testdata/train-tags.txt", "../pos/testdata/train-sentences.txt")
	require.NoError(t, err)
	defer r.Close()
	m, err := pos.Train(r)
	require.NoError(t, err)
	return m
}

func TestEvaluate(t *testing.T) {
	m := trainedModel(t)
	r, err := corpus.Open("../pos/testdata/test-tags.txt", "../pos/testdata/test-sentences.txt")
	require.NoError(t, err)
	defer r.Close()

	res, err := Evaluate(m, r)
	require.NoError(t, err)
	assert.Equal(t, Result{Correct: 19, Wrong: 1, Sentences: 4}, res)
	assert.InDelta(t, 0.95, res.Accuracy(), 1e-12)
}

func TestEvaluateStuckSentence(t *testing.T) {
	m, err := pos.Train(corpus.NewReader(strings.NewReader("DET N V"), strings.NewReader("the cat runs")))
	require.NoError(t, err)

	gold := corpus.NewReader(
		strings.NewReader("DET N V ADV\nDET N V"),
		strings.NewReader("the cat runs fast\nthe dog runs"),
	)
	res, err := Evaluate(m, gold)
	require.NoError(t, err)
	assert.Equal(t, Result{Correct: 6, Wrong: 1, Sentences: 2, Stuck: 1}, res)
}

type failingTagger struct{}

func (failingTagger) DecodeTokens([]string) ([]string, error) {
	return nil, pos.ErrEmptyModel
}

func TestEvaluatePropagatesErrors(t *testing.T) {
	gold := corpus.NewReader(strings.NewReader("N"), strings.NewReader("dog"))
	_, err := Evaluate(failingTagger{}, gold)
	assert.True(t, errors.Is(err, pos.ErrEmptyModel))

	gold = corpus.NewReader(strings.NewReader("N\nN"), strings.NewReader("dog\nbig dog"))
	res, err := Evaluate(trainedModel(t), gold)
	assert.True(t, errors.Is(err, corpus.ErrMismatch))
	assert.Equal(t, 1, res.Sentences)
}

func TestScore(t *testing.T) {
	cases := []struct {
		name           string
		predicted      []string
		gold           []string
		correct, wrong int
	}{
		{"equal", []string{"N", "V"}, []string{"N", "V"}, 2, 0},
		{"case sensitive", []string{"n", "V"}, []string{"N", "V"}, 1, 1},
		{"short output", []string{"N"}, []string{"N", "V", "N"}, 1, 2},
		{"long output", []string{"N", "V", "N"}, []string{"N"}, 1, 2},
		{"empty", nil, nil, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			correct, wrong := Score(c.predicted, c.gold)
			assert.Equal(t, c.correct, correct)
			assert.Equal(t, c.wrong, wrong)
		})
	}
	assert.Equal(t, 0.0, Result{}.Accuracy())
}
