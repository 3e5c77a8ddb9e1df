package pipeline

import (
	"errors"
	"text2phenotype.com/postagger/corpus"
	"text2phenotype.com/postagger/pos"
	"text2phenotype.com/postagger/types"
)

// NewPOSTagger tags sentences one at a time, in input order.
func NewPOSTagger(model *pos.Model) func(in <-chan string) <-chan types.TaggedSentence {
	return func(in <-chan string) <-chan types.TaggedSentence {
		out := make(chan types.TaggedSentence)
		go func() {
			defer close(out)
			for line := range in {
				out <- tagLine(model, line)
			}
		}()
		return out
	}
}

func tagLine(model *pos.Model, line string) types.TaggedSentence {
	words := corpus.Tokenize(line)
	sent := types.TaggedSentence{
		Text:   line,
		Tokens: make([]types.TaggedToken, 0, len(words)),
	}

	tags, err := model.DecodeTokens(words)
	if err != nil {
		sent.Error = err.Error()
		var stuck *pos.StuckError
		if errors.As(err, &stuck) {
			tags = stuck.Prefix
		}
	}
	for i, tag := range tags {
		sent.Tokens = append(sent.Tokens, types.TaggedToken{Word: words[i], Tag: tag})
	}
	return sent
}
