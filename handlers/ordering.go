// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Bensagra/meirim-backend/cliparse"
	"github.com/Bensagra/meirim-backend/middleware"
	"github.com/Bensagra/meirim-backend/models"
)

type OrderingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewOrderingHandler(db *sql.DB, cfg cliparse.Config) *OrderingHandler {
	return &OrderingHandler{db: db, cfg: cfg}
}

// VerifyOrder handles POST /questions/:id/verify-order
// Scores a submitted option ordering against the canonical positions.
func (h *OrderingHandler) VerifyOrder(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var req models.VerifyOrderRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.OrderedOptionIDs == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ordered_option_ids is required")
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

	options, err := getQuestionOptions(h.db, questionID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	positions := make(map[string]int, len(options))
	for _, opt := range options {
		positions[opt.ID] = opt.Position
	}

	correctCount, perItem := ScoreOrdering(positions, req.OrderedOptionIDs)

	middleware.JSONResponse(w, http.StatusOK, models.OrderScoreResponse{
		CorrectCount: correctCount,
		Total:        len(perItem),
		Percent:      percentOf(correctCount, len(perItem)),
		PerItem:      perItem,
		Options:      options,
	})
}

// ScoreOrdering compares a submitted ordering (1-based index = submitted
// position) against the canonical positions. Submitted IDs not present in the
// positions map score incorrect with no canonical position; they do not fail
// the whole submission.
func ScoreOrdering(positions map[string]int, submitted []string) (int, []models.OrderScoreItem) {
	correctCount := 0
	perItem := make([]models.OrderScoreItem, 0, len(submitted))

	for i, optionID := range submitted {
		submittedPos := i + 1
		item := models.OrderScoreItem{
			OptionID:          optionID,
			SubmittedPosition: submittedPos,
		}
		if canonical, ok := positions[optionID]; ok {
			pos := canonical
			item.CorrectPosition = &pos
			item.Correct = canonical == submittedPos
		}
		if item.Correct {
			correctCount++
		}
		perItem = append(perItem, item)
	}

	return correctCount, perItem
}

// getQuestionOptions returns a question's options ordered by canonical position.
func getQuestionOptions(db *sql.DB, questionID string) ([]models.QuestionOption, error) {
	rows, err := db.Query(`
		SELECT id, question_id, label, position, quantity
		FROM question_option
		WHERE question_id = $1
		ORDER BY position
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.QuestionOption{}
	for rows.Next() {
		var opt models.QuestionOption
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.Label, &opt.Position, &opt.Quantity); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}
