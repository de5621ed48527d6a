package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/session"
)

type sessionView struct {
	ID          string            `json:"id"`
	SourceChars int               `json:"sourceChars"`
	Topics      []string          `json:"topics"`
	Counts      map[quiz.Kind]int `json:"counts"`
	Questions   []quiz.Item       `json:"questions"`
}

func viewOf(sess *session.Session) sessionView {
	return sessionView{
		ID:          sess.ID,
		SourceChars: len([]rune(sess.Source())),
		Topics:      nonNil(sess.Topics()),
		Counts:      sess.Counts(),
		Questions:   sess.Items(),
	}
}

type topicsRequest struct {
	Topics  []string `json:"topics"`
	Extract bool     `json:"extract"`
}

type collectRequest struct {
	Kind  string `json:"kind"`
	Quota int    `json:"quota"`
}

type collectResponse struct {
	Added  []quiz.Item       `json:"added"`
	Counts map[quiz.Kind]int `json:"counts"`
}

type saveRequest struct {
	Title string `json:"title"`
}

func (s *Server) session(r *http.Request) (*session.Session, error) {
	return s.sessions.Get(chi.URLParam(r, "sessionID"))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetSource(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req contextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := sess.SetSource(r.Context(), req.Context); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleSetTopics(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req topicsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	topics := req.Topics
	if req.Extract {
		if s.content == nil {
			writeError(w, r, errNoContentService)
			return
		}
		if topics, err = s.content.Topics(r.Context(), sess.Source()); err != nil {
			writeError(w, r, err)
			return
		}
	}
	sess.SetTopics(topics)
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req collectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	kind, ok := quiz.ParseKind(req.Kind)
	if !ok {
		writeError(w, r, badRequestf("unknown kind %q", req.Kind))
		return
	}
	quota := req.Quota
	if quota <= 0 {
		quota = s.quota
	}

	added, err := sess.Collect(r.Context(), kind, quota)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collectResponse{Added: nonNil(added), Counts: sess.Counts()})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := sess.Reset(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleRemoveSessionQuestion(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, badRequestf("invalid index %q", chi.URLParam(r, "index")))
		return
	}
	if _, err := sess.Remove(idx); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// handleSaveSession stores the session's questions in the bank as a new
// quiz.
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req saveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	qz, err := s.bank.CreateQuiz(r.Context(), req.Title, sess.Items())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, qz)
}
