package pipeline

import (
	"encoding/json"
	"text2phenotype.com/postagger/types"
)

func buildResponse(request Request, modelID string, in <-chan types.TaggedSentence) string {
	response := types.TagResponse{
		Tid:       request.Tid,
		Corpus:    request.Corpus,
		ModelID:   modelID,
		Sentences: []types.TaggedSentence{},
	}
	for sent := range in {
		response.Sentences = append(response.Sentences, sent)
	}
	return marshalResponse(response)
}

func errorResponse(request Request, err error) string {
	return marshalResponse(types.TagResponse{
		Tid:       request.Tid,
		Corpus:    request.Corpus,
		Sentences: []types.TaggedSentence{},
		Error:     err.Error(),
	})
}

func marshalResponse(response types.TagResponse) string {
	b, err := json.Marshal(response)
	if err != nil {
		// TagResponse holds only strings and slices of them
		panic(err)
	}
	return string(b)
}
