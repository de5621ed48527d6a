package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/store"
)

type addQuestionsRequest struct {
	Questions []quiz.Item `json:"questions"`
}

type createQuizRequest struct {
	Title       string      `json:"title"`
	QuestionIDs []int64     `json:"questionIds"`
	Questions   []quiz.Item `json:"questions"`
}

type updateQuizRequest struct {
	Title       *string `json:"title"`
	QuestionIDs []int64 `json:"questionIds"`
}

type questionIDsRequest struct {
	QuestionIDs []int64 `json:"questionIds"`
}

type mergeRequest struct {
	Title   string  `json:"title"`
	QuizIDs []int64 `json:"quizIds"`
}

type attemptRequest struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
	Total  int    `json:"total"`
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.QuestionFilter{
		Topic:  q.Get("topic"),
		Search: q.Get("q"),
	}
	if raw := q.Get("kind"); raw != "" {
		kind, ok := quiz.ParseKind(raw)
		if !ok {
			writeError(w, r, badRequestf("unknown kind %q", raw))
			return
		}
		f.Kind = kind
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, badRequestf("invalid limit %q", raw))
			return
		}
		f.Limit = n
	}

	questions, err := s.bank.ListQuestions(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.Question{"questions": nonNil(questions)})
}

func (s *Server) handleAddQuestions(w http.ResponseWriter, r *http.Request) {
	var req addQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Questions) == 0 {
		writeError(w, r, badRequestf("questions must not be empty"))
		return
	}
	ids, err := s.bank.AddQuestions(r.Context(), req.Questions...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string][]int64{"ids": ids})
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "questionID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := s.bank.GetQuestion(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "questionID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var it quiz.Item
	if err := decodeJSON(w, r, &it); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.bank.UpdateQuestion(r.Context(), id, it); err != nil {
		writeError(w, r, err)
		return
	}
	q, err := s.bank.GetQuestion(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "questionID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.bank.DeleteQuestion(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.bank.ListQuizzes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.QuizSummary{"quizzes": nonNil(quizzes)})
}

// handleCreateQuiz builds a quiz either from banked question IDs or from
// new questions, which are banked first.
func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.QuestionIDs) > 0 && len(req.Questions) > 0 {
		writeError(w, r, badRequestf("send either questionIds or questions, not both"))
		return
	}

	var (
		qz  *store.Quiz
		err error
	)
	if len(req.QuestionIDs) > 0 {
		qz, err = s.bank.CreateQuizFrom(r.Context(), req.Title, req.QuestionIDs)
	} else {
		qz, err = s.bank.CreateQuiz(r.Context(), req.Title, req.Questions)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, qz)
}

func (s *Server) handleMergeQuizzes(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	qz, err := s.bank.MergeQuizzes(r.Context(), req.Title, req.QuizIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, qz)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "quizID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	qz, err := s.bank.GetQuiz(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qz)
}

func (s *Server) handleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "quizID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Title != nil {
		if err := s.bank.RenameQuiz(r.Context(), id, *req.Title); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if req.QuestionIDs != nil {
		if err := s.bank.ReplaceQuestions(r.Context(), id, req.QuestionIDs); err != nil {
			writeError(w, r, err)
			return
		}
	}
	s.respondQuiz(w, r, id)
}

func (s *Server) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "quizID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.bank.DeleteQuiz(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAppendQuestions(w http.ResponseWriter, r *http.Request) {
	s.modifyQuestions(w, r, s.bank.AppendQuestions)
}

func (s *Server) handleRemoveQuestions(w http.ResponseWriter, r *http.Request) {
	s.modifyQuestions(w, r, s.bank.RemoveQuestions)
}

func (s *Server) modifyQuestions(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int64, questionIDs []int64) error) {
	id, err := idParam(r, "quizID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req questionIDsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.QuestionIDs) == 0 {
		writeError(w, r, badRequestf("questionIds must not be empty"))
		return
	}
	if err := apply(r.Context(), id, req.QuestionIDs); err != nil {
		writeError(w, r, err)
		return
	}
	s.respondQuiz(w, r, id)
}

func (s *Server) respondQuiz(w http.ResponseWriter, r *http.Request, id int64) {
	qz, err := s.bank.GetQuiz(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qz)
}

func (s *Server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "quizID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	attempts, err := s.bank.ListAttempts(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.Attempt{"attempts": nonNil(attempts)})
}

func (s *Server) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "quizID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req attemptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	attemptID, err := s.bank.RecordAttempt(r.Context(), store.Attempt{
		QuizID: id,
		Player: req.Player,
		Score:  req.Score,
		Total:  req.Total,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": attemptID})
}
