package pipeline

import (
	"strings"
	"text2phenotype.com/postagger/corpus"
)

// NewLineSplitter emits every line of a text that holds at least one token.
func NewLineSplitter() func(text string) <-chan string {
	return func(text string) <-chan string {
		out := make(chan string)
		go func() {
			defer close(out)
			for _, line := range strings.Split(text, "\n") {
				line = strings.TrimSuffix(line, "\r")
				if len(corpus.Tokenize(line)) == 0 {
					continue
				}
				out <- line
			}
		}()
		return out
	}
}
