package registry

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"text2phenotype.com/postagger/corpus"
	"text2phenotype.com/postagger/eval"
	"text2phenotype.com/postagger/types"
)

type memoryOpener map[string]string

func (m memoryOpener) OpenCorpus(tags, sentences string) (*corpus.Reader, error) {
	t, ok := m[tags]
	if !ok {
		return nil, &corpus.IOError{Path: tags, Err: errors.New("no such object")}
	}
	return corpus.NewReader(strings.NewReader(t), strings.NewReader(m[sentences])), nil
}

func simpleConfig() types.CorpusConfig {
	return types.CorpusConfig{
		Name:   "simple",
		Source: types.SourceFile,
		Train: types.CorpusFiles{
			Tags:      "../pos/testdata/train-tags.txt",
			Sentences: "../pos/testdata/train-sentences.txt",
		},
		Test: types.CorpusFiles{
			Tags:      "../pos/testdata/test-tags.txt",
			Sentences: "../pos/testdata/test-sentences.txt",
		},
	}
}

func tinyConfig() types.CorpusConfig {
	return types.CorpusConfig{
		Name:   "tiny",
		Source: types.SourceS3,
		Train:  types.CorpusFiles{Tags: "tiny/tags", Sentences: "tiny/sentences"},
	}
}

func TestLoad(t *testing.T) {
	openers := map[string]CorpusOpener{
		types.SourceFile: FileOpener{},
		types.SourceS3:   memoryOpener{"tiny/tags": "DET N V", "tiny/sentences": "the cat runs"},
	}
	reg, err := Load([]types.CorpusConfig{simpleConfig(), tinyConfig()}, openers)
	require.NoError(t, err)
	assert.Equal(t, []string{"simple", "tiny"}, reg.Names())

	tiny, err := reg.Get("tiny")
	require.NoError(t, err)
	tags, err := tiny.Decode("The cat purrs")
	require.NoError(t, err)
	assert.Equal(t, []string{"DET", "N", "V"}, tags)

	cfg, ok := reg.Config("simple")
	require.True(t, ok)
	assert.Equal(t, "simple", cfg.Name)

	_, err = reg.Get("brown")
	assert.True(t, errors.Is(err, ErrUnknownCorpus))
}

func TestLoadFailures(t *testing.T) {
	_, err := Load([]types.CorpusConfig{tinyConfig()}, map[string]CorpusOpener{types.SourceFile: FileOpener{}})
	assert.Error(t, err)

	missing := simpleConfig()
	missing.Train.Tags = "../pos/testdata/missing.txt"
	_, err = Load([]types.CorpusConfig{missing}, map[string]CorpusOpener{types.SourceFile: FileOpener{}})
	assert.True(t, errors.Is(err, corpus.ErrIO))

	_, err = Load([]types.CorpusConfig{simpleConfig(), simpleConfig()}, map[string]CorpusOpener{types.SourceFile: FileOpener{}})
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	openers := map[string]CorpusOpener{
		types.SourceFile: FileOpener{},
		types.SourceS3:   memoryOpener{"tiny/tags": "DET N V", "tiny/sentences": "the cat runs"},
	}
	reg, err := Load([]types.CorpusConfig{simpleConfig(), tinyConfig()}, openers)
	require.NoError(t, err)

	res, err := reg.Evaluate("simple")
	require.NoError(t, err)
	assert.Equal(t, eval.Result{Correct: 19, Wrong: 1, Sentences: 4}, res)

	_, err = reg.Evaluate("tiny")
	assert.True(t, errors.Is(err, ErrNoTestCorpus))
	_, err = reg.Evaluate("brown")
	assert.True(t, errors.Is(err, ErrUnknownCorpus))
}
