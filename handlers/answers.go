// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Bensagra/meirim-backend/cliparse"
	"github.com/Bensagra/meirim-backend/middleware"
	"github.com/Bensagra/meirim-backend/models"
	"github.com/Bensagra/meirim-backend/textutil"
)

type AnswerHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAnswerHandler(db *sql.DB, cfg cliparse.Config) *AnswerHandler {
	return &AnswerHandler{db: db, cfg: cfg}
}

// SubmitAnswer handles POST /questions/:id/answers
// Stores at most one answer per (question, voter); resubmitting replaces the
// previous text. The write is a single atomic upsert, so interleaved
// submissions from the same voter can never leave two rows behind.
func (h *AnswerHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var req models.SubmitAnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}
	normalized := textutil.Normalize(req.Text)
	if normalized == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	// Eligibility: question must exist, be active, and not be locked
	var active, locked bool
	err := h.db.QueryRow(`
		SELECT active, locked FROM question WHERE id = $1
	`, questionID).Scan(&active, &locked)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !active {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Question is not open for voting")
		return
	}
	if locked {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Question is locked")
		return
	}

	// Atomic upsert keyed on (question_id, voter_id). The uniqueness
	// constraint serializes concurrent submissions from the same voter to a
	// single final row.
	newID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO answer (id, question_id, voter_id, text, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (question_id, voter_id)
		DO UPDATE SET text = excluded.text, submitted_at = excluded.submitted_at
	`, newID, questionID, req.VoterID, normalized, time.Now())

	if err != nil {
		slog.Error("failed to upsert answer", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit answer")
		return
	}

	var answer models.Answer
	err = h.db.QueryRow(`
		SELECT id, question_id, voter_id, text, submitted_at
		FROM answer
		WHERE question_id = $1 AND voter_id = $2
	`, questionID, req.VoterID).Scan(
		&answer.ID, &answer.QuestionID, &answer.VoterID, &answer.Text, &answer.SubmittedAt,
	)
	if err != nil {
		slog.Error("failed to read back answer", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	message := "Answer recorded"
	if answer.ID != newID {
		// The conflict branch fired: an earlier row was overwritten.
		message = "Answer updated"
	}

	slog.Info("answer submitted", "question_id", questionID, "answer_id", answer.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitAnswerResponse{
		Answer:  answer,
		Message: message,
	})
}

// ListVoterAnswers handles GET /voters/:voterID/answers
// Returns the voter's answers across all questions, in question display order.
func (h *AnswerHandler) ListVoterAnswers(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("voterID")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT a.id, a.question_id, a.voter_id, a.text, a.submitted_at
		FROM answer a
		JOIN question q ON q.id = a.question_id
		WHERE a.voter_id = $1
		ORDER BY q.display_order, q.created_at
	`, voterID)
	if err != nil {
		slog.Error("failed to query voter answers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.VoterID, &a.Text, &a.SubmittedAt); err != nil {
			slog.Error("failed to scan answer", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		answers = append(answers, a)
	}

	middleware.JSONResponse(w, http.StatusOK, answers)
}

// GetResults handles GET /questions/:id/results
func (h *AnswerHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM question WHERE id = $1)
	`, questionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}

	tally, err := ComputeTally(h.db, questionID)
	if err != nil {
		slog.Error("failed to compute tally", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

// VerifyAnswer handles POST /questions/:id/verify-answer
// Reports whether the candidate text matches any stored answer, with its
// count and share of the total.
func (h *AnswerHandler) VerifyAnswer(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var req models.VerifyAnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM question WHERE id = $1)
	`, questionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}

	result, err := VerifyAnswer(h.db, questionID, req.Text)
	if err != nil {
		slog.Error("failed to verify answer", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify answer")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}
