package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text2phenotype.com/postagger/eval"
	"text2phenotype.com/postagger/pos"
)

type corpora interface {
	Names() []string
	Get(name string) (*pos.Model, error)
	Evaluate(name string) (eval.Result, error)
}

// formatTags renders a decoded sentence. A dead end prints the tags found so
// far followed by the error.
func formatTags(tags []string, err error) string {
	var stuck *pos.StuckError
	switch {
	case errors.As(err, &stuck):
		return fmt.Sprintf("%s (%v)", strings.Join(stuck.Prefix, " "), err)
	case err != nil:
		return fmt.Sprintf("error: %v", err)
	default:
		return strings.Join(tags, " ")
	}
}

func formatResult(res eval.Result) string {
	return fmt.Sprintf("The model got %d tags correct vs %d tags wrong (accuracy %.4f).",
		res.Correct, res.Wrong, res.Accuracy())
}

// runInteractive asks for a corpus, then tags sentences or evaluates the model
// until the user quits or the input ends.
func runInteractive(in io.Reader, out io.Writer, reg corpora) error {
	scanner := bufio.NewScanner(in)
	prompt := func(lines ...string) (string, bool) {
		for _, l := range lines {
			fmt.Fprintln(out, l)
		}
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	names := reg.Names()
	if len(names) == 0 {
		return errors.New("no corpora configured")
	}
	fmt.Fprintln(out, "Welcome to the Viterbi tester!")

	var corpus string
	for len(corpus) == 0 {
		choices := make([]string, 0, len(names)+1)
		choices = append(choices, "Select the corpus to tag with:")
		for i, name := range names {
			choices = append(choices, fmt.Sprintf("  %d) %s", i+1, name))
		}
		answer, ok := prompt(choices...)
		if !ok {
			return scanner.Err()
		}
		var n int
		if _, err := fmt.Sscanf(answer, "%d", &n); err == nil && n >= 1 && n <= len(names) {
			corpus = names[n-1]
			continue
		}
		for _, name := range names {
			if strings.EqualFold(answer, name) {
				corpus = name
			}
		}
		if len(corpus) == 0 {
			fmt.Fprintln(out, "Invalid input")
		}
	}

	model, err := reg.Get(corpus)
	if err != nil {
		return err
	}
	for {
		answer, ok := prompt("Enter 1 to tag your own sentence, 2 to measure the model on the test files, 3 to quit.")
		if !ok {
			return scanner.Err()
		}
		switch answer {
		case "1":
			line, ok := prompt("Write it here, with spaces around punctuation:")
			if !ok {
				return scanner.Err()
			}
			fmt.Fprintln(out, formatTags(model.Decode(line)))
		case "2":
			res, err := reg.Evaluate(corpus)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, formatResult(res))
		case "3":
			fmt.Fprintln(out, "Thank you for playing!")
			return nil
		default:
			fmt.Fprintln(out, "Invalid input")
		}
	}
}
