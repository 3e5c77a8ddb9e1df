package pipeline

import (
	"encoding/json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"text2phenotype.com/postagger/pos"
	"text2phenotype.com/postagger/registry"
	"text2phenotype.com/postagger/types"
)

type staticModels map[string]*pos.Model

func (m staticModels) Get(name string) (*pos.Model, error) {
	model, ok := m[name]
	if !ok {
		return nil, registry.ErrUnknownCorpus
	}
	return model, nil
}

func (m staticModels) Config(name string) (types.CorpusConfig, bool) {
	_, ok := m[name]
	return types.CorpusConfig{Name: name, Source: types.SourceFile}, ok
}

func chainModel() *pos.Model {
	return pos.NewBuilder().
		Transition(pos.StartTag, "DET", 0).
		Transition("DET", "N", 0).
		Transition("N", "V", 0).
		Emission("DET", "the", 0).
		Emission("N", "dog", 0).
		Emission("V", "runs", 0).
		Build()
}

func run(t *testing.T, ppln Pipeline, req Request) types.TagResponse {
	t.Helper()
	out := ppln(req)
	raw, ok := <-out
	require.True(t, ok, "pipeline closed without a response")
	_, more := <-out
	require.False(t, more, "pipeline sent more than one response")

	var res types.TagResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &res))
	return res
}

func TestPipeline(t *testing.T) {
	ppln := New(staticModels{"chain": chainModel()})
	modelID := types.CorpusConfig{Name: "chain", Source: types.SourceFile}.ModelID()

	t.Run("lines", func(t *testing.T) {
		res := run(t, ppln, Request{
			Tid:    "t1",
			Corpus: "chain",
			Text:   "The Dog runs\r\n\n   \nthe dog",
		})
		expected := types.TagResponse{
			Tid:     "t1",
			Corpus:  "chain",
			ModelID: modelID,
			Sentences: []types.TaggedSentence{
				{
					Text: "The Dog runs",
					Tokens: []types.TaggedToken{
						{Word: "The", Tag: "DET"},
						{Word: "Dog", Tag: "N"},
						{Word: "runs", Tag: "V"},
					},
				},
				{
					Text: "the dog",
					Tokens: []types.TaggedToken{
						{Word: "the", Tag: "DET"},
						{Word: "dog", Tag: "N"},
					},
				},
			},
		}
		if diff := cmp.Diff(expected, res); diff != "" {
			t.Errorf("response mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stuck sentence keeps prefix", func(t *testing.T) {
		res := run(t, ppln, Request{Tid: "t2", Corpus: "chain", Text: "the dog runs the"})
		require.Len(t, res.Sentences, 1)
		sent := res.Sentences[0]
		assert.NotEmpty(t, sent.Error)
		assert.Equal(t, []types.TaggedToken{
			{Word: "the", Tag: "DET"},
			{Word: "dog", Tag: "N"},
			{Word: "runs", Tag: "V"},
		}, sent.Tokens)
	})

	t.Run("empty text", func(t *testing.T) {
		res := run(t, ppln, Request{Tid: "t3", Corpus: "chain", Text: ""})
		assert.Empty(t, res.Error)
		assert.NotNil(t, res.Sentences)
		assert.Empty(t, res.Sentences)
	})

	t.Run("unknown corpus", func(t *testing.T) {
		res := run(t, ppln, Request{Tid: "t4", Corpus: "brown", Text: "the dog"})
		assert.Contains(t, res.Error, "unknown corpus")
		assert.Empty(t, res.ModelID)
		assert.Empty(t, res.Sentences)
	})
}

func TestTrainedCorpus(t *testing.T) {
	reg, err := registry.Load([]types.CorpusConfig{{
		Name:   "simple",
		Source: types.SourceFile,
		Train: types.CorpusFiles{
			Tags:      "../pos/testdata/train-tags.txt",
			Sentences: "../pos/testdata/train-sentences.txt",
		},
	}}, map[string]registry.CorpusOpener{types.SourceFile: registry.FileOpener{}})
	require.NoError(t, err)

	res := run(t, New(reg), Request{Tid: "t5", Corpus: "simple", Text: "you love me .\nzorp"})
	require.Len(t, res.Sentences, 2)

	tags := func(sent types.TaggedSentence) []string {
		out := make([]string, 0, len(sent.Tokens))
		for _, tok := range sent.Tokens {
			out = append(out, tok.Tag)
		}
		return out
	}
	assert.Equal(t, []string{"PRO", "V", "PRO", "."}, tags(res.Sentences[0]))
	assert.Equal(t, []string{"DET"}, tags(res.Sentences[1]))
}
