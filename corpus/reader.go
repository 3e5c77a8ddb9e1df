package corpus

import (
	"bufio"
	"io"
	"os"
)

const maxLineSize = 1 << 20

// Pair is one training or evaluation example: a line of tags and the line of
// words it labels. Words are lowercased, tags are kept verbatim.
type Pair struct {
	Line  int
	Tags  []string
	Words []string
}

// Reader yields Pairs from two line-aligned streams. It stops as soon as
// either stream ends. Use it like bufio.Scanner:
//
//	for r.Scan() {
//		p := r.Pair()
//	}
//	if err := r.Err(); err != nil {
//	}
type Reader struct {
	tags      *bufio.Scanner
	sentences *bufio.Scanner
	tagsName  string
	sentsName string
	closers   []io.Closer
	line      int
	pair      Pair
	err       error
	done      bool
}

// Open opens a tags file and a sentences file. The caller must Close the
// returned Reader.
func Open(tagsPath, sentencesPath string) (*Reader, error) {
	tags, err := os.Open(tagsPath)
	if err != nil {
		return nil, &IOError{Path: tagsPath, Err: err}
	}
	sentences, err := os.Open(sentencesPath)
	if err != nil {
		_ = tags.Close()
		return nil, &IOError{Path: sentencesPath, Err: err}
	}

	r := newReader(tags, sentences, tagsPath, sentencesPath)
	r.closers = []io.Closer{tags, sentences}
	return r, nil
}

// NewReader reads from already opened streams. Close on the result is a no-op
// unless the streams were opened by Open.
func NewReader(tags, sentences io.Reader) *Reader {
	return newReader(tags, sentences, "tags", "sentences")
}

func newReader(tags, sentences io.Reader, tagsName, sentsName string) *Reader {
	return &Reader{
		tags:      newLineScanner(tags),
		sentences: newLineScanner(sentences),
		tagsName:  tagsName,
		sentsName: sentsName,
	}
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return s
}

// Scan advances to the next non-blank pair. It returns false at the end of
// either stream or on the first error.
func (r *Reader) Scan() bool {
	if r.done {
		return false
	}
	for {
		if !r.tags.Scan() {
			return r.stop(r.tagsName, r.tags.Err())
		}
		if !r.sentences.Scan() {
			return r.stop(r.sentsName, r.sentences.Err())
		}
		r.line++

		tags := Tokenize(r.tags.Text())
		words := Tokenize(r.sentences.Text())
		if len(tags) == 0 && len(words) == 0 {
			continue
		}
		if len(tags) != len(words) {
			r.err = &MismatchError{Line: r.line, Tags: len(tags), Words: len(words)}
			r.done = true
			return false
		}

		r.pair = Pair{
			Line:  r.line,
			Tags:  tags,
			Words: FoldWords(words),
		}
		return true
	}
}

func (r *Reader) stop(name string, err error) bool {
	r.done = true
	if err != nil {
		r.err = &IOError{Path: name, Err: err}
	}
	return false
}

func (r *Reader) Pair() Pair {
	return r.pair
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

// ReadAll drains r.
func ReadAll(r *Reader) ([]Pair, error) {
	var pairs []Pair
	for r.Scan() {
		pairs = append(pairs, r.Pair())
	}
	return pairs, r.Err()
}
