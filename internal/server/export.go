package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/edugen/edugen/internal/export"
)

type exportRequest struct {
	ShuffleChoices bool `json:"shuffleChoices"`
	ShowAnswers    bool `json:"showAnswers"`
}

func (s *Server) handleExportQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "quizID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req exportRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	qz, err := s.bank.GetQuiz(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	opts := s.export
	opts.ShuffleChoices = req.ShuffleChoices
	opts.ShowAnswers = req.ShowAnswers

	var buf bytes.Buffer
	if err := export.Render(&buf, qz.Title, qz.Items(), opts); err != nil {
		writeError(w, r, fmt.Errorf("render quiz %d: %w", id, err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-%d.pdf"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
