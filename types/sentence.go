package types

type TaggedToken struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

// TaggedSentence is one tagged line of a request. When decoding got stuck,
// Tokens covers the words before the dead end and Error says why.
type TaggedSentence struct {
	Text   string        `json:"text"`
	Tokens []TaggedToken `json:"tokens"`
	Error  string        `json:"error,omitempty"`
}

type TagResponse struct {
	Tid       string           `json:"tid"`
	Corpus    string           `json:"corpus"`
	ModelID   string           `json:"model_id,omitempty"`
	Sentences []TaggedSentence `json:"sentences"`
	Error     string           `json:"error,omitempty"`
}
