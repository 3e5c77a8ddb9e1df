package registry

import (
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"text2phenotype.com/postagger/corpus"
	"text2phenotype.com/postagger/eval"
	"text2phenotype.com/postagger/logger"
	"text2phenotype.com/postagger/pos"
	"text2phenotype.com/postagger/types"
)

var (
	ErrUnknownCorpus = errors.New("unknown corpus")
	ErrNoTestCorpus  = errors.New("corpus has no test files configured")
)

// CorpusOpener opens a tags/sentences pair by location. The meaning of the
// locations depends on the corpus source.
type CorpusOpener interface {
	OpenCorpus(tags, sentences string) (*corpus.Reader, error)
}

type FileOpener struct{}

func (FileOpener) OpenCorpus(tags, sentences string) (*corpus.Reader, error) {
	return corpus.Open(tags, sentences)
}

type entry struct {
	cfg   types.CorpusConfig
	model *pos.Model
}

// Registry holds one trained model per corpus configuration. It is read-only
// once Load returns.
type Registry struct {
	entries   map[string]entry
	names     []string
	openers   map[string]CorpusOpener
	regLogger zerolog.Logger
}

// Load trains a model for every configuration, one after the other. openers
// maps a corpus source (types.SourceFile, types.SourceS3) to its opener.
func Load(cfgs []types.CorpusConfig, openers map[string]CorpusOpener) (*Registry, error) {
	regLogger := logger.NewLogger("Registry")
	reg := &Registry{
		entries:   make(map[string]entry, len(cfgs)),
		openers:   openers,
		regLogger: regLogger,
	}

	for _, cfg := range cfgs {
		if _, dup := reg.entries[cfg.Name]; dup {
			return nil, fmt.Errorf("corpus %q configured twice", cfg.Name)
		}
		cfgLogger := regLogger.With().Str("corpus", cfg.Name).Str("model_id", cfg.ModelID()).Logger()

		model, err := reg.train(cfg, cfgLogger)
		if err != nil {
			cfgLogger.Err(err).Msg("Failed to train model")
			return nil, fmt.Errorf("train corpus %q: %w", cfg.Name, err)
		}
		reg.entries[cfg.Name] = entry{cfg: cfg, model: model}
		reg.names = append(reg.names, cfg.Name)
		cfgLogger.Info().Int("tags", len(model.Tags())).Msg("Model trained")
	}
	return reg, nil
}

func (reg *Registry) open(cfg types.CorpusConfig, files types.CorpusFiles) (*corpus.Reader, error) {
	opener, ok := reg.openers[cfg.Source]
	if !ok {
		return nil, fmt.Errorf("no opener for corpus source %q", cfg.Source)
	}
	return opener.OpenCorpus(files.Tags, files.Sentences)
}

func (reg *Registry) train(cfg types.CorpusConfig, cfgLogger zerolog.Logger) (*pos.Model, error) {
	r, err := reg.open(cfg, cfg.Train)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return pos.Train(r, pos.WithUnseenLogProb(cfg.Floor()), pos.WithLogger(cfgLogger))
}

func (reg *Registry) Get(name string) (*pos.Model, error) {
	e, ok := reg.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCorpus, name)
	}
	return e.model, nil
}

func (reg *Registry) Config(name string) (types.CorpusConfig, bool) {
	e, ok := reg.entries[name]
	return e.cfg, ok
}

// Names lists the corpora in configuration order.
func (reg *Registry) Names() []string {
	out := make([]string, len(reg.names))
	copy(out, reg.names)
	return out
}

// Evaluate scores the corpus model against its configured test files.
func (reg *Registry) Evaluate(name string) (eval.Result, error) {
	e, ok := reg.entries[name]
	if !ok {
		return eval.Result{}, fmt.Errorf("%w: %q", ErrUnknownCorpus, name)
	}
	if e.cfg.Test.IsEmpty() {
		return eval.Result{}, fmt.Errorf("%w: %q", ErrNoTestCorpus, name)
	}
	r, err := reg.open(e.cfg, e.cfg.Test)
	if err != nil {
		return eval.Result{}, err
	}
	defer r.Close()

	res, err := eval.Evaluate(e.model, r)
	if err != nil {
		return res, err
	}
	reg.regLogger.Info().
		Str("corpus", name).
		Int("correct", res.Correct).
		Int("wrong", res.Wrong).
		Int("stuck", res.Stuck).
		Float64("accuracy", res.Accuracy()).
		Msg("Evaluated model")
	return res, nil
}
