package pipeline

import (
	"text2phenotype.com/postagger/logger"
	"text2phenotype.com/postagger/pos"
	"text2phenotype.com/postagger/types"
)

// Pipeline tags a request and sends exactly one JSON encoded
// types.TagResponse before closing the channel.
type Pipeline func(request Request) <-chan string

// Models is satisfied by *registry.Registry.
type Models interface {
	Get(name string) (*pos.Model, error)
	Config(name string) (types.CorpusConfig, bool)
}

func New(models Models) Pipeline {
	pplnLogger := logger.NewLogger("Tagging pipeline")
	splitter := NewLineSplitter()

	return func(request Request) <-chan string {
		responseChan := make(chan string, 1)
		reqLogger := pplnLogger.With().
			Str("tid", request.Tid).
			Str("corpus", request.Corpus).
			Logger()
		reqLogger.Info().Msg("Started tagging pipeline")

		go func() {
			defer close(responseChan)

			model, err := models.Get(request.Corpus)
			if err != nil {
				reqLogger.Err(err).Msg("Cannot tag request")
				responseChan <- errorResponse(request, err)
				return
			}
			cfg, _ := models.Config(request.Corpus)

			tag := NewPOSTagger(model)
			sentences := tag(splitter(request.Text))
			responseChan <- buildResponse(request, cfg.ModelID(), sentences)
			reqLogger.Info().Msg("Finished tagging pipeline")
		}()
		return responseChan
	}
}
