package server

import (
	"net/http"
)

type contextRequest struct {
	Context string `json:"context"`
}

type answerRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if s.content == nil {
		writeError(w, r, errNoContentService)
		return
	}
	var req contextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := s.content.Summarize(r.Context(), req.Context)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	if s.content == nil {
		writeError(w, r, errNoContentService)
		return
	}
	var req contextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	topics, err := s.content.Topics(r.Context(), req.Context)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"topics": nonNil(topics)})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if s.content == nil {
		writeError(w, r, errNoContentService)
		return
	}
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	answer, err := s.content.Answer(r.Context(), req.Context, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
