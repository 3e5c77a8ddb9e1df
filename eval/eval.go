package eval

import (
	"errors"
	"text2phenotype.com/postagger/pos"
)

// Tagger is satisfied by *pos.Model.
type Tagger interface {
	DecodeTokens(words []string) ([]string, error)
}

type Result struct {
	Correct   int `json:"correct"`
	Wrong     int `json:"wrong"`
	Sentences int `json:"sentences"`
	Stuck     int `json:"stuck"`
}

func (r Result) Accuracy() float64 {
	total := r.Correct + r.Wrong
	if total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(total)
}

// Score compares predicted tags against gold tags position by position.
// Positions present on only one side count as wrong.
func Score(predicted, gold []string) (correct, wrong int) {
	n := len(gold)
	if len(predicted) > n {
		n = len(predicted)
	}
	for i := 0; i < n; i++ {
		if i < len(predicted) && i < len(gold) && predicted[i] == gold[i] {
			correct++
		} else {
			wrong++
		}
	}
	return correct, wrong
}

// Evaluate decodes every pair of src and tallies token accuracy. A sentence
// where decoding gets stuck is scored on the tags produced before the dead
// end. Any other error stops the evaluation.
func Evaluate(tagger Tagger, src pos.PairSource) (Result, error) {
	var res Result
	for src.Scan() {
		p := src.Pair()
		predicted, err := tagger.DecodeTokens(p.Words)
		if err != nil {
			var stuck *pos.StuckError
			if !errors.As(err, &stuck) {
				return res, err
			}
			predicted = stuck.Prefix
			res.Stuck++
		}
		correct, wrong := Score(predicted, p.Tags)
		res.Correct += correct
		res.Wrong += wrong
		res.Sentences++
	}
	return res, src.Err()
}
