// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Bensagra/meirim-backend/cliparse"
	"github.com/Bensagra/meirim-backend/middleware"
	"github.com/Bensagra/meirim-backend/models"
)

// An activity counts as staffed once this many campers are linked.
const minParticipants = 3

type ActivityHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewActivityHandler(db *sql.DB, cfg cliparse.Config) *ActivityHandler {
	return &ActivityHandler{db: db, cfg: cfg}
}

// ListActivities handles GET /activities?year=2025&month=7
// Without filters, returns every activity day; with year and month, only
// that month's days. Each entry carries its linked participants and topics.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	month := r.URL.Query().Get("month")
	if (year == "") != (month == "") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "year and month must be provided together")
		return
	}

	query := `
		SELECT id, activity_date, status, notes, created_at
		FROM activity
	`
	args := []interface{}{}
	if year != "" {
		var y, m int
		if _, err := fmt.Sscanf(year, "%d", &y); err != nil || y < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid year")
			return
		}
		if _, err := fmt.Sscanf(month, "%d", &m); err != nil || m < 1 || m > 12 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid month")
			return
		}
		query += ` WHERE activity_date LIKE $1`
		args = append(args, fmt.Sprintf("%04d-%02d-%%", y, m))
	}
	query += ` ORDER BY activity_date`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query activities", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			slog.Error("failed to scan activity", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		activities = append(activities, a)
	}
	rows.Close()

	details := []models.ActivityDetail{}
	for _, a := range activities {
		detail, err := h.loadActivityDetail(a)
		if err != nil {
			slog.Error("failed to load activity detail", "error", err, "activity_id", a.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		details = append(details, detail)
	}

	middleware.JSONResponse(w, http.StatusOK, details)
}

// GetActivity handles GET /activities/:date
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	a, err := h.getActivityByDate(date)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No activity for that date")
		return
	}
	if err != nil {
		slog.Error("failed to query activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	detail, err := h.loadActivityDetail(a)
	if err != nil {
		slog.Error("failed to load activity detail", "error", err, "activity_id", a.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// UpsertActivity handles POST /activities
// Creates the day's activity row if absent, otherwise updates its notes and
// status. A planned=true request pins the status to planned; otherwise the
// status is recomputed from the participant count.
func (h *ActivityHandler) UpsertActivity(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertActivityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
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

	created := err == sql.ErrNoRows
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to query activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if created {
		activityID = uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO activity (id, activity_date, status, notes, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, activityID, req.Date, models.ActivityNeedsPeople, req.Notes, time.Now())
		if err != nil {
			slog.Error("failed to insert activity", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save activity")
			return
		}
	}

	status := models.ActivityPlanned
	if req.Planned == nil || !*req.Planned {
		var count int
		err = tx.QueryRow(`
			SELECT COUNT(*) FROM activity_participant WHERE activity_id = $1
		`, activityID).Scan(&count)
		if err != nil {
			slog.Error("failed to count participants", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		status = statusForParticipants(count)
	}

	_, err = tx.Exec(`
		UPDATE activity SET status = $1, notes = $2 WHERE id = $3
	`, status, req.Notes, activityID)
	if err != nil {
		slog.Error("failed to update activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save activity")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save activity")
		return
	}

	a, err := h.getActivityByDate(req.Date)
	if err != nil {
		slog.Error("failed to read back activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("activity upserted", "activity_id", a.ID, "date", req.Date, "created", created)

	statusCode := http.StatusOK
	if created {
		statusCode = http.StatusCreated
	}
	middleware.JSONResponse(w, statusCode, a)
}

// DeleteActivity handles DELETE /activities/:date
// Participant, topic, and proposal links cascade with the activity row.
func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	res, err := h.db.Exec(`DELETE FROM activity WHERE activity_date = $1`, date)
	if err != nil {
		slog.Error("failed to delete activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete activity")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No activity for that date")
		return
	}

	slog.Info("activity deleted", "date", date)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Activity deleted"})
}

// LinkActivity handles PUT /activities/:id/links
// Links campers (by DNI) and topics (by label, created on first use) to an
// activity, then recomputes its status from the participant count. All link
// writes happen in one transaction: a mid-sequence failure leaves nothing
// applied.
func (h *ActivityHandler) LinkActivity(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("id")
	if activityID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "activity id is required")
		return
	}

	var req models.LinkActivityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM activity WHERE id = $1)
	`, activityID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Activity not found")
		return
	}

	// Resolve campers up front so a bad DNI rejects the whole request
	// before anything is written.
	camperIDs, missing, err := h.resolveCampers(req.Participants)
	if err != nil {
		slog.Error("failed to resolve campers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(missing) > 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Campers not found: "+strings.Join(missing, ", "))
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	for _, camperID := range camperIDs {
		_, err = tx.Exec(`
			INSERT INTO activity_participant (activity_id, camper_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, activityID, camperID)
		if err != nil {
			slog.Error("failed to link participant", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link activity")
			return
		}
	}

	for _, label := range req.Topics {
		if label == "" {
			continue
		}
		var topicID string
		err = tx.QueryRow(`SELECT id FROM topic WHERE label = $1`, label).Scan(&topicID)
		if err == sql.ErrNoRows {
			topicID = uuid.NewString()
			_, err = tx.Exec(`
				INSERT INTO topic (id, label, used) VALUES ($1, $2, TRUE)
			`, topicID, label)
		}
		if err != nil {
			slog.Error("failed to resolve topic", "error", err, "label", label)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link activity")
			return
		}

		_, err = tx.Exec(`
			INSERT INTO activity_topic (activity_id, topic_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, activityID, topicID)
		if err != nil {
			slog.Error("failed to link topic", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link activity")
			return
		}
	}

	var count int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM activity_participant WHERE activity_id = $1
	`, activityID).Scan(&count)
	if err != nil {
		slog.Error("failed to count participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = tx.Exec(`
		UPDATE activity SET status = $1 WHERE id = $2
	`, statusForParticipants(count), activityID)
	if err != nil {
		slog.Error("failed to update activity status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link activity")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link activity")
		return
	}

	var a models.Activity
	row := h.db.QueryRow(`
		SELECT id, activity_date, status, notes, created_at
		FROM activity WHERE id = $1
	`, activityID)
	a, err = scanActivityRow(row)
	if err != nil {
		slog.Error("failed to read back activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	detail, err := h.loadActivityDetail(a)
	if err != nil {
		slog.Error("failed to load activity detail", "error", err, "activity_id", activityID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("activity links updated", "activity_id", activityID,
		"participants", len(camperIDs), "topics", len(req.Topics))

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// statusForParticipants applies the staffing rule to a participant count.
func statusForParticipants(count int) string {
	if count >= minParticipants {
		return models.ActivityHasPeople
	}
	return models.ActivityNeedsPeople
}

// resolveCampers maps DNIs to camper IDs, reporting any DNIs with no camper.
func (h *ActivityHandler) resolveCampers(dnis []string) (ids []string, missing []string, err error) {
	for _, dni := range dnis {
		var id string
		err := h.db.QueryRow(`SELECT id FROM camper WHERE dni = $1`, dni).Scan(&id)
		if err == sql.ErrNoRows {
			missing = append(missing, dni)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
	}
	return ids, missing, nil
}

func (h *ActivityHandler) getActivityByDate(date string) (models.Activity, error) {
	row := h.db.QueryRow(`
		SELECT id, activity_date, status, notes, created_at
		FROM activity WHERE activity_date = $1
	`, date)
	return scanActivityRow(row)
}

func (h *ActivityHandler) loadActivityDetail(a models.Activity) (models.ActivityDetail, error) {
	detail := models.ActivityDetail{
		Activity:     a,
		Participants: []models.Camper{},
		Topics:       []models.Topic{},
	}

	rows, err := h.db.Query(`
		SELECT c.id, c.name, c.surname, c.email, c.dni
		FROM activity_participant ap
		JOIN camper c ON c.id = ap.camper_id
		WHERE ap.activity_id = $1
		ORDER BY c.name, c.dni
	`, a.ID)
	if err != nil {
		return models.ActivityDetail{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Camper
		var surname, email sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &surname, &email, &c.DNI); err != nil {
			return models.ActivityDetail{}, err
		}
		c.Surname = surname.String
		c.Email = email.String
		detail.Participants = append(detail.Participants, c)
	}
	if err := rows.Err(); err != nil {
		return models.ActivityDetail{}, err
	}
	rows.Close()

	topicRows, err := h.db.Query(`
		SELECT t.id, t.label, t.used
		FROM activity_topic at
		JOIN topic t ON t.id = at.topic_id
		WHERE at.activity_id = $1
		ORDER BY t.label
	`, a.ID)
	if err != nil {
		return models.ActivityDetail{}, err
	}
	defer topicRows.Close()
	for topicRows.Next() {
		var t models.Topic
		if err := topicRows.Scan(&t.ID, &t.Label, &t.Used); err != nil {
			return models.ActivityDetail{}, err
		}
		detail.Topics = append(detail.Topics, t)
	}
	if err := topicRows.Err(); err != nil {
		return models.ActivityDetail{}, err
	}

	return detail, nil
}

// scanActivity reads an activity from a result set with NULL-safe notes.
func scanActivity(rows *sql.Rows) (models.Activity, error) {
	var a models.Activity
	var notes sql.NullString
	if err := rows.Scan(&a.ID, &a.Date, &a.Status, &notes, &a.CreatedAt); err != nil {
		return models.Activity{}, err
	}
	a.Notes = notes.String
	return a, nil
}

func scanActivityRow(row *sql.Row) (models.Activity, error) {
	var a models.Activity
	var notes sql.NullString
	if err := row.Scan(&a.ID, &a.Date, &a.Status, &notes, &a.CreatedAt); err != nil {
		return models.Activity{}, err
	}
	a.Notes = notes.String
	return a, nil
}
