// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Bensagra/meirim-backend/cliparse"
	"github.com/Bensagra/meirim-backend/middleware"
	"github.com/Bensagra/meirim-backend/models"
)

type CamperHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCamperHandler(db *sql.DB, cfg cliparse.Config) *CamperHandler {
	return &CamperHandler{db: db, cfg: cfg}
}

// ListCampers handles GET /campers
func (h *CamperHandler) ListCampers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, surname, email, dni
		FROM camper
		ORDER BY name, dni
	`)
	if err != nil {
		slog.Error("failed to query campers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	campers := []models.Camper{}
	for rows.Next() {
		c, err := scanCamper(rows)
		if err != nil {
			slog.Error("failed to scan camper", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		campers = append(campers, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read campers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, campers)
}

// GetCamper handles GET /campers/:dni
func (h *CamperHandler) GetCamper(w http.ResponseWriter, r *http.Request) {
	dni := r.PathValue("dni")

	var c models.Camper
	var surname, email sql.NullString
	err := h.db.QueryRow(`
		SELECT id, name, surname, email, dni FROM camper WHERE dni = $1
	`, dni).Scan(&c.ID, &c.Name, &surname, &email, &c.DNI)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Camper not found")
		return
	}
	if err != nil {
		slog.Error("failed to query camper", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	c.Surname = surname.String
	c.Email = email.String

	middleware.JSONResponse(w, http.StatusOK, c)
}

// CreateCamper handles POST /campers
func (h *CamperHandler) CreateCamper(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCamperRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.DNI = strings.TrimSpace(req.DNI)
	if req.Name == "" || req.DNI == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and dni are required")
		return
	}

	c := models.Camper{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Surname: strings.TrimSpace(req.Surname),
		Email:   strings.TrimSpace(req.Email),
		DNI:     req.DNI,
	}

	_, err := h.db.Exec(`
		INSERT INTO camper (id, name, surname, email, dni)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Surname, c.Email, c.DNI)
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "A camper with that DNI already exists")
			return
		}
		slog.Error("failed to insert camper", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create camper")
		return
	}

	slog.Info("camper created", "camper_id", c.ID, "dni", c.DNI)

	middleware.JSONResponse(w, http.StatusCreated, c)
}

func scanCamper(rows *sql.Rows) (models.Camper, error) {
	var c models.Camper
	var surname, email sql.NullString
	if err := rows.Scan(&c.ID, &c.Name, &surname, &email, &c.DNI); err != nil {
		return models.Camper{}, err
	}
	c.Surname = surname.String
	c.Email = email.String
	return c, nil
}
