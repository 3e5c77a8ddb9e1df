package pos

import "github.com/rs/zerolog"

type options struct {
	unseen float64
	logger zerolog.Logger
}

type Option func(*options)

// WithUnseenLogProb overrides the emission floor. Models built without it
// use UnseenLogProb.
func WithUnseenLogProb(lp float64) Option {
	return func(o *options) {
		o.unseen = lp
	}
}

// WithLogger sets the logger that training reports to. Decoding never logs.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{
		unseen: UnseenLogProb,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
