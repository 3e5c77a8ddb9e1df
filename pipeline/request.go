package pipeline

// Request is one text to tag. Every non-blank line of Text is a sentence.
type Request struct {
	Tid    string `json:"tid"`
	Corpus string `json:"corpus"`
	Text   string `json:"text"`
}
