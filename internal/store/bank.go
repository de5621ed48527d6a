package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/textsim"
)

// Question is a banked question.
type Question struct {
	ID        int64     `json:"id"`
	Item      quiz.Item `json:"item"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Quiz is a named, ordered set of banked questions.
type Quiz struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Questions []Question `json:"questions,omitempty"`
}

// Items returns the quiz's questions as items, in quiz order.
func (q *Quiz) Items() []quiz.Item {
	out := make([]quiz.Item, len(q.Questions))
	for i, qq := range q.Questions {
		out[i] = qq.Item
	}
	return out
}

// QuizSummary is a row of the quiz listing.
type QuizSummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"questionCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// QuestionFilter narrows ListQuestions.
type QuestionFilter struct {
	Kind   quiz.Kind
	Topic  string
	Search string
	Limit  int
}

// Attempt is one recorded play-through of a quiz.
type Attempt struct {
	ID        int64     `json:"id"`
	QuizID    int64     `json:"quizId"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bank stores questions, quizzes and play attempts.
type Bank struct {
	db *sql.DB
}

// AddQuestions validates and stores items, returning their IDs in order.
func (b *Bank) AddQuestions(ctx context.Context, items ...quiz.Item) ([]int64, error) {
	norm := make([]quiz.Item, len(items))
	for i, it := range items {
		n, err := NormalizeItem(it)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		norm[i] = n
	}

	var ids []int64
	err := withTx(ctx, b.db, func(tx *sql.Tx) error {
		var err error
		ids, err = insertQuestions(ctx, tx, norm)
		return err
	})
	return ids, err
}

func insertQuestions(ctx context.Context, tx *sql.Tx, items []quiz.Item) ([]int64, error) {
	now := time.Now().UnixMilli()
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		choices, err := json.Marshal(nonNil(it.Choices))
		if err != nil {
			return nil, fmt.Errorf("encode choices: %w", err)
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO questions
			(kind, text, key, choices, answer, explanation, topic, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(it.Kind), it.Text, textsim.Key(it.Text), string(choices), string(it.Answer),
			it.Explanation, it.Topic, now, now)
		if err != nil {
			return nil, fmt.Errorf("insert question: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("question id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UpdateQuestion replaces the content of question id.
func (b *Bank) UpdateQuestion(ctx context.Context, id int64, it quiz.Item) error {
	it, err := NormalizeItem(it)
	if err != nil {
		return err
	}
	choices, err := json.Marshal(nonNil(it.Choices))
	if err != nil {
		return fmt.Errorf("encode choices: %w", err)
	}
	res, err := b.db.ExecContext(ctx, `UPDATE questions SET kind = ?, text = ?, key = ?, choices = ?,
		answer = ?, explanation = ?, topic = ?, updated_at = ? WHERE id = ?`,
		string(it.Kind), it.Text, textsim.Key(it.Text), string(choices), string(it.Answer),
		it.Explanation, it.Topic, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return expectRow(res)
}

// GetQuestion returns question id or ErrNotFound.
func (b *Bank) GetQuestion(ctx context.Context, id int64) (*Question, error) {
	row := b.db.QueryRowContext(ctx, "SELECT "+questionColumns+" FROM questions WHERE id = ?", id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return q, err
}

// ListQuestions returns banked questions newest first.
func (b *Bank) ListQuestions(ctx context.Context, f QuestionFilter) ([]Question, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Topic != "" {
		where = append(where, "topic = ?")
		args = append(args, f.Topic)
	}
	if f.Search != "" {
		where = append(where, "text LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	q := "SELECT " + questionColumns + " FROM questions"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := b.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// DeleteQuestion removes question id from the bank and from every quiz.
func (b *Bank) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := b.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return expectRow(res)
}

// CreateQuiz stores items as new questions and a quiz holding them in
// order.
func (b *Bank) CreateQuiz(ctx context.Context, title string, items []quiz.Item) (*Quiz, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	norm := make([]quiz.Item, len(items))
	for i, it := range items {
		if norm[i], err = NormalizeItem(it); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	var quizID int64
	err = withTx(ctx, b.db, func(tx *sql.Tx) error {
		ids, err := insertQuestions(ctx, tx, norm)
		if err != nil {
			return err
		}
		if quizID, err = insertQuiz(ctx, tx, title); err != nil {
			return err
		}
		return linkQuestions(ctx, tx, quizID, ids)
	})
	if err != nil {
		return nil, err
	}
	return b.GetQuiz(ctx, quizID)
}

// CreateQuizFrom creates a quiz from already banked questions. An empty
// list creates an empty quiz.
func (b *Bank) CreateQuizFrom(ctx context.Context, title string, questionIDs []int64) (*Quiz, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	var quizID int64
	err = withTx(ctx, b.db, func(tx *sql.Tx) error {
		var err error
		if quizID, err = insertQuiz(ctx, tx, title); err != nil {
			return err
		}
		return linkQuestions(ctx, tx, quizID, dedupIDs(questionIDs))
	})
	if err != nil {
		return nil, err
	}
	return b.GetQuiz(ctx, quizID)
}

// GetQuiz returns quiz id with its questions in order, or ErrNotFound.
func (b *Bank) GetQuiz(ctx context.Context, id int64) (*Quiz, error) {
	var (
		qz               Quiz
		created, updated int64
	)
	err := b.db.QueryRowContext(ctx,
		"SELECT id, title, created_at, updated_at FROM quizzes WHERE id = ?", id,
	).Scan(&qz.ID, &qz.Title, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query quiz: %w", err)
	}
	qz.CreatedAt = time.UnixMilli(created)
	qz.UpdatedAt = time.UnixMilli(updated)

	rows, err := b.db.QueryContext(ctx, `SELECT `+prefixed("q.", questionColumns)+`
		FROM quiz_questions qq JOIN questions q ON q.id = qq.question_id
		WHERE qq.quiz_id = ? ORDER BY qq.position`, id)
	if err != nil {
		return nil, fmt.Errorf("query quiz questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		qz.Questions = append(qz.Questions, *q)
	}
	return &qz, rows.Err()
}

// ListQuizzes returns every quiz, most recently updated first.
func (b *Bank) ListQuizzes(ctx context.Context) ([]QuizSummary, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT z.id, z.title, z.updated_at, COUNT(qq.question_id)
		FROM quizzes z LEFT JOIN quiz_questions qq ON qq.quiz_id = z.id
		GROUP BY z.id ORDER BY z.updated_at DESC, z.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizSummary
	for rows.Next() {
		var (
			s       QuizSummary
			updated int64
		)
		if err := rows.Scan(&s.ID, &s.Title, &updated, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		s.UpdatedAt = time.UnixMilli(updated)
		out = append(out, s)
	}
	return out, rows.Err()
}

// RenameQuiz changes the title of quiz id.
func (b *Bank) RenameQuiz(ctx context.Context, id int64, title string) error {
	title, err := validateTitle(title)
	if err != nil {
		return err
	}
	res, err := b.db.ExecContext(ctx, "UPDATE quizzes SET title = ?, updated_at = ? WHERE id = ?",
		title, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("rename quiz: %w", err)
	}
	return expectRow(res)
}

// ReplaceQuestions sets the question list of quiz id.
func (b *Bank) ReplaceQuestions(ctx context.Context, id int64, questionIDs []int64) error {
	return b.modifyQuiz(ctx, id, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM quiz_questions WHERE quiz_id = ?", id); err != nil {
			return fmt.Errorf("clear quiz questions: %w", err)
		}
		return linkQuestions(ctx, tx, id, dedupIDs(questionIDs))
	})
}

// AppendQuestions adds questions to the end of quiz id. Questions already
// in the quiz are skipped.
func (b *Bank) AppendQuestions(ctx context.Context, id int64, questionIDs []int64) error {
	return b.modifyQuiz(ctx, id, func(tx *sql.Tx) error {
		existing, err := quizQuestionIDs(ctx, tx, id)
		if err != nil {
			return err
		}
		have := make(map[int64]bool, len(existing))
		for _, qid := range existing {
			have[qid] = true
		}
		var add []int64
		for _, qid := range dedupIDs(questionIDs) {
			if !have[qid] {
				add = append(add, qid)
			}
		}
		return linkQuestionsAt(ctx, tx, id, add, len(existing))
	})
}

// RemoveQuestions detaches questions from quiz id. The questions stay in
// the bank.
func (b *Bank) RemoveQuestions(ctx context.Context, id int64, questionIDs []int64) error {
	return b.modifyQuiz(ctx, id, func(tx *sql.Tx) error {
		drop := make(map[int64]bool, len(questionIDs))
		for _, qid := range questionIDs {
			drop[qid] = true
		}
		existing, err := quizQuestionIDs(ctx, tx, id)
		if err != nil {
			return err
		}
		var keep []int64
		for _, qid := range existing {
			if !drop[qid] {
				keep = append(keep, qid)
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM quiz_questions WHERE quiz_id = ?", id); err != nil {
			return fmt.Errorf("clear quiz questions: %w", err)
		}
		return linkQuestions(ctx, tx, id, keep)
	})
}

// MergeQuizzes creates a new quiz holding the questions of every source
// quiz in order, each question at most once.
func (b *Bank) MergeQuizzes(ctx context.Context, title string, quizIDs []int64) (*Quiz, error) {
	if len(quizIDs) < 2 {
		return nil, &ValidationError{Field: "quizzes", Reason: "need at least two to merge"}
	}
	var all []int64
	for _, id := range quizIDs {
		qz, err := b.GetQuiz(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("quiz %d: %w", id, err)
		}
		for _, q := range qz.Questions {
			all = append(all, q.ID)
		}
	}
	return b.CreateQuizFrom(ctx, title, all)
}

// DeleteQuiz removes quiz id and its attempts. Its questions stay in the
// bank.
func (b *Bank) DeleteQuiz(ctx context.Context, id int64) error {
	res, err := b.db.ExecContext(ctx, "DELETE FROM quizzes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return expectRow(res)
}

// RecordAttempt stores the result of playing quiz a.QuizID.
func (b *Bank) RecordAttempt(ctx context.Context, a Attempt) (int64, error) {
	if a.Total <= 0 || a.Score < 0 || a.Score > a.Total {
		return 0, &ValidationError{Field: "score", Reason: fmt.Sprintf("%d/%d is out of range", a.Score, a.Total)}
	}
	player := strings.TrimSpace(a.Player)
	if player == "" {
		player = "anonymous"
	}
	res, err := b.db.ExecContext(ctx,
		"INSERT INTO attempts (quiz_id, player, score, total, created_at) VALUES (?, ?, ?, ?, ?)",
		a.QuizID, player, a.Score, a.Total, time.Now().UnixMilli())
	if err != nil {
		if isForeignKeyErr(err) {
			return 0, fmt.Errorf("quiz %d: %w", a.QuizID, ErrNotFound)
		}
		return 0, fmt.Errorf("insert attempt: %w", err)
	}
	return res.LastInsertId()
}

// ListAttempts returns the attempts on quiz id, best score first.
func (b *Bank) ListAttempts(ctx context.Context, quizID int64) ([]Attempt, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT id, quiz_id, player, score, total, created_at
		FROM attempts WHERE quiz_id = ? ORDER BY CAST(score AS REAL) / total DESC, created_at`, quizID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a       Attempt
			created int64
		)
		if err := rows.Scan(&a.ID, &a.QuizID, &a.Player, &a.Score, &a.Total, &created); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.CreatedAt = time.UnixMilli(created)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (b *Bank) modifyQuiz(ctx context.Context, id int64, fn func(tx *sql.Tx) error) error {
	return withTx(ctx, b.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE quizzes SET updated_at = ? WHERE id = ?", time.Now().UnixMilli(), id)
		if err != nil {
			return fmt.Errorf("touch quiz: %w", err)
		}
		if err := expectRow(res); err != nil {
			return err
		}
		return fn(tx)
	})
}

func insertQuiz(ctx context.Context, tx *sql.Tx, title string) (int64, error) {
	now := time.Now().UnixMilli()
	res, err := tx.ExecContext(ctx, "INSERT INTO quizzes (title, created_at, updated_at) VALUES (?, ?, ?)", title, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert quiz: %w", err)
	}
	return res.LastInsertId()
}

func linkQuestions(ctx context.Context, tx *sql.Tx, quizID int64, questionIDs []int64) error {
	return linkQuestionsAt(ctx, tx, quizID, questionIDs, 0)
}

func linkQuestionsAt(ctx context.Context, tx *sql.Tx, quizID int64, questionIDs []int64, offset int) error {
	for i, qid := range questionIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO quiz_questions (quiz_id, question_id, position) VALUES (?, ?, ?)",
			quizID, qid, offset+i)
		if err != nil {
			if isForeignKeyErr(err) {
				return fmt.Errorf("question %d: %w", qid, ErrNotFound)
			}
			return fmt.Errorf("link question %d: %w", qid, err)
		}
	}
	return nil
}

func quizQuestionIDs(ctx context.Context, tx *sql.Tx, quizID int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT question_id FROM quiz_questions WHERE quiz_id = ? ORDER BY position", quizID)
	if err != nil {
		return nil, fmt.Errorf("query quiz questions: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const questionColumns = "id, kind, text, choices, answer, explanation, topic, created_at, updated_at"

func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = prefix + p
	}
	return strings.Join(parts, ", ")
}

func scanQuestion(row rowScanner) (*Question, error) {
	var (
		q                Question
		kind, choices    string
		answer           string
		created, updated int64
	)
	err := row.Scan(&q.ID, &kind, &q.Item.Text, &choices, &answer, &q.Item.Explanation,
		&q.Item.Topic, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}
	q.Item.Kind = quiz.Kind(kind)
	q.Item.Answer = quiz.Answer(answer)
	if err := json.Unmarshal([]byte(choices), &q.Item.Choices); err != nil {
		return nil, fmt.Errorf("decode choices of question %d: %w", q.ID, err)
	}
	if len(q.Item.Choices) == 0 {
		q.Item.Choices = nil
	}
	q.CreatedAt = time.UnixMilli(created)
	q.UpdatedAt = time.UnixMilli(updated)
	return &q, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func dedupIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func isForeignKeyErr(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
