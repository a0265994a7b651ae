// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Bensagra/meirim-backend/cliparse"
	"github.com/Bensagra/meirim-backend/middleware"
	"github.com/Bensagra/meirim-backend/models"
)

type QuestionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewQuestionHandler(db *sql.DB, cfg cliparse.Config) *QuestionHandler {
	return &QuestionHandler{db: db, cfg: cfg}
}

// CreateQuestion handles POST /questions
// Creates a question together with its ordered options in one transaction.
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Prompt == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "prompt is required")
		return
	}
	for _, opt := range req.Options {
		if opt.Label == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option label is required")
			return
		}
	}
	if len(req.Options) > 0 && !contiguousPositions(req.Options) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option positions must be contiguous from 1")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	questionID := uuid.NewString()
	now := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO question (id, prompt, display_order, active, locked, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`, questionID, req.Prompt, req.DisplayOrder, active, now)
	if err != nil {
		slog.Error("failed to insert question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	options := []models.QuestionOption{}
	for _, opt := range req.Options {
		optionID := uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO question_option (id, question_id, label, position, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, optionID, questionID, opt.Label, opt.Position, opt.Quantity)
		if err != nil {
			slog.Error("failed to insert option", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
			return
		}
		options = append(options, models.QuestionOption{
			ID:         optionID,
			QuestionID: questionID,
			Label:      opt.Label,
			Position:   opt.Position,
			Quantity:   opt.Quantity,
		})
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	sort.Slice(options, func(i, j int) bool { return options[i].Position < options[j].Position })

	slog.Info("question created", "question_id", questionID)

	middleware.JSONResponse(w, http.StatusCreated, models.QuestionWithOptions{
		Question: models.Question{
			ID:           questionID,
			Prompt:       req.Prompt,
			DisplayOrder: req.DisplayOrder,
			Active:       active,
			Locked:       false,
			CreatedAt:    now,
		},
		Options: options,
	})
}

// ListQuestions handles GET /questions?mode=vote|play
// mode=vote returns questions eligible for answer submission (active, not
// locked) without their options; mode=play returns questions eligible for
// the ordering game (active) with options in canonical order. Without a
// mode, all questions are returned.
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	query := `
		SELECT id, prompt, display_order, active, locked, created_at
		FROM question
	`
	switch mode {
	case models.ModeVote:
		query += ` WHERE active = TRUE AND locked = FALSE`
	case models.ModePlay:
		query += ` WHERE active = TRUE`
	case "":
		// admin view: everything
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "mode must be vote or play")
		return
	}
	query += ` ORDER BY display_order, created_at`

	rows, err := h.db.Query(query)
	if err != nil {
		slog.Error("failed to query questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	list := []models.QuestionWithOptions{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.DisplayOrder, &q.Active, &q.Locked, &q.CreatedAt); err != nil {
			slog.Error("failed to scan question", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		list = append(list, models.QuestionWithOptions{Question: q})
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// The vote surface never shows the canonical options; play and the
	// admin view carry them in position order.
	if mode != models.ModeVote {
		for i := range list {
			options, err := getQuestionOptions(h.db, list[i].Question.ID)
			if err != nil {
				slog.Error("failed to query options", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
				return
			}
			list[i].Options = options
		}
	}

	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetQuestion handles GET /questions/:id
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var q models.Question
	err := h.db.QueryRow(`
		SELECT id, prompt, display_order, active, locked, created_at
		FROM question
		WHERE id = $1
	`, questionID).Scan(&q.ID, &q.Prompt, &q.DisplayOrder, &q.Active, &q.Locked, &q.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	options, err := getQuestionOptions(h.db, questionID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionWithOptions{Question: q, Options: options})
}

// UpdateQuestion handles PATCH /questions/:id
// Partial update of prompt, display order, and the active/locked flags.
func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var req models.UpdateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var q models.Question
	err := h.db.QueryRow(`
		SELECT id, prompt, display_order, active, locked, created_at
		FROM question
		WHERE id = $1
	`, questionID).Scan(&q.ID, &q.Prompt, &q.DisplayOrder, &q.Active, &q.Locked, &q.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.Prompt != nil {
		q.Prompt = *req.Prompt
	}
	if req.DisplayOrder != nil {
		q.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		q.Active = *req.Active
	}
	if req.Locked != nil {
		q.Locked = *req.Locked
	}

	_, err = h.db.Exec(`
		UPDATE question
		SET prompt = $1, display_order = $2, active = $3, locked = $4
		WHERE id = $5
	`, q.Prompt, q.DisplayOrder, q.Active, q.Locked, questionID)
	if err != nil {
		slog.Error("failed to update question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update question")
		return
	}

	slog.Info("question updated", "question_id", questionID)

	middleware.JSONResponse(w, http.StatusOK, q)
}

// DeleteQuestion handles DELETE /questions/:id
// Answers and options cascade with the question row.
func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM question WHERE id = $1`, questionID)
	if err != nil {
		slog.Error("failed to delete question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete question")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}

	slog.Info("question deleted", "question_id", questionID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Question deleted"})
}

// GetStats handles GET /questions/stats
func (h *QuestionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var total, active int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM question`).Scan(&total); err != nil {
		slog.Error("failed to count questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM question WHERE active = TRUE`).Scan(&active); err != nil {
		slog.Error("failed to count active questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionStatsResponse{
		TotalQuestions:  total,
		ActiveQuestions: active,
	})
}

// contiguousPositions reports whether the option positions are exactly 1..N.
func contiguousPositions(options []models.CreateOptionRequest) bool {
	seen := make(map[int]bool, len(options))
	for _, opt := range options {
		if opt.Position < 1 || opt.Position > len(options) || seen[opt.Position] {
			return false
		}
		seen[opt.Position] = true
	}
	return true
}
