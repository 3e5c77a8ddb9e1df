package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"io/ioutil"
	"net/http"
	"text2phenotype.com/postagger/eval"
	"text2phenotype.com/postagger/pipeline"
	"text2phenotype.com/postagger/registry"
	"text2phenotype.com/postagger/utils"
)

// Corpora is satisfied by *registry.Registry.
type Corpora interface {
	Names() []string
	Evaluate(name string) (eval.Result, error)
}

type Handlers struct {
	Pipeline pipeline.Pipeline
	Corpora  Corpora
}

type evaluationResponse struct {
	Corpus string `json:"corpus"`
	eval.Result
	Accuracy float64 `json:"accuracy"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes mounts the tagging endpoints on a new mux.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/tag", h.Tag)
	mux.HandleFunc("/corpora", h.ListCorpora)
	mux.HandleFunc("/evaluate", h.Evaluate)
	return mux
}

// Tag runs the pipeline over the request body with the model of the corpus
// named by the "corpus" query parameter.
func (h *Handlers) Tag(w http.ResponseWriter, r *http.Request) {
	reqLogger := makeRequestLogger(r)
	if !allowMethod(w, r, http.MethodPost, reqLogger) {
		return
	}
	corpus := r.URL.Query().Get("corpus")
	if len(corpus) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("missing corpus parameter"), reqLogger)
		return
	}
	msg, err := ioutil.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not read request body: %w", err), reqLogger)
		return
	}

	request := pipeline.Request{
		Tid:    "api-" + utils.HashHex(utils.HashStrings(corpus, string(msg))),
		Corpus: corpus,
		Text:   string(msg),
	}
	reqLogger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp := <-h.Pipeline(request)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(resp))
	reqLogger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

func (h *Handlers) ListCorpora(w http.ResponseWriter, r *http.Request) {
	reqLogger := makeRequestLogger(r)
	if !allowMethod(w, r, http.MethodGet, reqLogger) {
		return
	}
	writeJSON(w, http.StatusOK, h.Corpora.Names(), reqLogger)
}

// Evaluate scores the corpus model on its configured test files.
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	reqLogger := makeRequestLogger(r)
	if !allowMethod(w, r, http.MethodPost, reqLogger) {
		return
	}
	corpus := r.URL.Query().Get("corpus")
	res, err := h.Corpora.Evaluate(corpus)
	switch {
	case errors.Is(err, registry.ErrUnknownCorpus):
		writeError(w, http.StatusNotFound, err, reqLogger)
		return
	case errors.Is(err, registry.ErrNoTestCorpus):
		writeError(w, http.StatusConflict, err, reqLogger)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err, reqLogger)
		return
	}
	writeJSON(w, http.StatusOK, evaluationResponse{
		Corpus:   corpus,
		Result:   res,
		Accuracy: res.Accuracy(),
	}, reqLogger)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string, reqLogger zerolog.Logger) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("only %s is allowed here", method), reqLogger)
	return false
}

func writeError(w http.ResponseWriter, status int, err error, reqLogger zerolog.Logger) {
	reqLogger.Err(err).Int("status", status).Msg("Request failed")
	writeJSON(w, status, errorResponse{Error: err.Error()}, reqLogger)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}, reqLogger zerolog.Logger) {
	b, err := json.Marshal(body)
	if err != nil {
		reqLogger.Err(err).Msg("Could not encode response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
