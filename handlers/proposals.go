// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Bensagra/meirim-backend/cliparse"
	"github.com/Bensagra/meirim-backend/middleware"
	"github.com/Bensagra/meirim-backend/models"
)

type ProposalHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewProposalHandler(db *sql.DB, cfg cliparse.Config) *ProposalHandler {
	return &ProposalHandler{db: db, cfg: cfg}
}

// ListProposals handles GET /proposals?date=2025-07-15
// Without a date filter, returns all proposals newest first. With a date,
// returns only proposals linked to that day's activity.
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	var rows *sql.Rows
	var err error
	if date == "" {
		rows, err = h.db.Query(`
			SELECT id, content, created_at
			FROM proposal
			ORDER BY created_at DESC, id
		`)
	} else {
		if _, perr := time.Parse("2006-01-02", date); perr != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		rows, err = h.db.Query(`
			SELECT p.id, p.content, p.created_at
			FROM proposal p
			JOIN activity_proposal ap ON ap.proposal_id = p.id
			JOIN activity a ON a.id = ap.activity_id
			WHERE a.activity_date = $1
			ORDER BY p.created_at DESC, p.id
		`, date)
	}
	if err != nil {
		slog.Error("failed to query proposals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		var p models.Proposal
		if err := rows.Scan(&p.ID, &p.Content, &p.CreatedAt); err != nil {
			slog.Error("failed to scan proposal", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read proposals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, proposals)
}

// GetProposal handles GET /proposals/:id
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("id")

	var p models.Proposal
	err := h.db.QueryRow(`
		SELECT id, content, created_at FROM proposal WHERE id = $1
	`, proposalID).Scan(&p.ID, &p.Content, &p.CreatedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Proposal not found")
		return
	}
	if err != nil {
		slog.Error("failed to query proposal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// CreateProposal handles POST /proposals
// Attaches the proposal to the named day's activity, creating the activity
// row first if the day has none yet. The activity, the proposal, and their
// link are written in one transaction.
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content is required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var activityID string
	err = tx.QueryRow(`
		SELECT id FROM activity WHERE activity_date = $1
	`, req.Date).Scan(&activityID)
	if err == sql.ErrNoRows {
		activityID = uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO activity (id, activity_date, status, notes, created_at)
			VALUES ($1, $2, $3, '', $4)
		`, activityID, req.Date, models.ActivityNeedsPeople, time.Now())
	}
	if err != nil {
		slog.Error("failed to resolve activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create proposal")
		return
	}

	p := models.Proposal{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(req.Content),
		CreatedAt: time.Now(),
	}
	_, err = tx.Exec(`
		INSERT INTO proposal (id, content, created_at)
		VALUES ($1, $2, $3)
	`, p.ID, p.Content, p.CreatedAt)
	if err != nil {
		slog.Error("failed to insert proposal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create proposal")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO activity_proposal (activity_id, proposal_id)
		VALUES ($1, $2)
	`, activityID, p.ID)
	if err != nil {
		slog.Error("failed to link proposal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create proposal")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create proposal")
		return
	}

	slog.Info("proposal created", "proposal_id", p.ID, "date", req.Date)

	middleware.JSONResponse(w, http.StatusCreated, p)
}

// DeleteProposal handles DELETE /proposals/:id
func (h *ProposalHandler) DeleteProposal(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM proposal WHERE id = $1`, proposalID)
	if err != nil {
		slog.Error("failed to delete proposal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete proposal")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Proposal not found")
		return
	}

	slog.Info("proposal deleted", "proposal_id", proposalID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Proposal deleted"})
}
