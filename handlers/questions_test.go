// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Bensagra/meirim-backend/models"
	"github.com/Bensagra/meirim-backend/testutil"
)

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestCreateQuestion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.QuestionWithOptions)
	}{
		{
			name: "valid question with ordered options",
			requestBody: models.CreateQuestionRequest{
				Prompt: "Order the days",
				Options: []models.CreateOptionRequest{
					{Label: "Monday", Position: 1},
					{Label: "Tuesday", Position: 2, Quantity: intPtr(4)},
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.QuestionWithOptions) {
				if resp.Question.ID == "" {
					t.Error("Expected non-empty question id")
				}
				if !resp.Question.Active || resp.Question.Locked {
					t.Error("Expected new question active and unlocked")
				}
				if len(resp.Options) != 2 {
					t.Fatalf("Expected 2 options, got %d", len(resp.Options))
				}
				if resp.Options[0].Label != "Monday" || resp.Options[1].Label != "Tuesday" {
					t.Error("Expected options sorted by position")
				}
				if resp.Options[1].Quantity == nil || *resp.Options[1].Quantity != 4 {
					t.Error("Expected quantity carried through")
				}

				// Verify rows landed
				var count int
				if err := db.QueryRow("SELECT COUNT(*) FROM question_option WHERE question_id = $1", resp.Question.ID).Scan(&count); err != nil {
					t.Fatalf("Failed to count options: %v", err)
				}
				if count != 2 {
					t.Errorf("Expected 2 option rows, got %d", count)
				}
			},
		},
		{
			name: "question without options",
			requestBody: models.CreateQuestionRequest{
				Prompt: "Favorite drink?",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "inactive on creation",
			requestBody: models.CreateQuestionRequest{
				Prompt: "Hidden question",
				Active: boolPtr(false),
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.QuestionWithOptions) {
				if resp.Question.Active {
					t.Error("Expected question created inactive")
				}
			},
		},
		{
			name: "missing prompt",
			requestBody: models.CreateQuestionRequest{
				Options: []models.CreateOptionRequest{{Label: "A", Position: 1}},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "gap in positions",
			requestBody: models.CreateQuestionRequest{
				Prompt: "Bad positions",
				Options: []models.CreateOptionRequest{
					{Label: "A", Position: 1},
					{Label: "B", Position: 3},
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate positions",
			requestBody: models.CreateQuestionRequest{
				Prompt: "Bad positions",
				Options: []models.CreateOptionRequest{
					{Label: "A", Position: 1},
					{Label: "B", Position: 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "empty option label",
			requestBody: models.CreateQuestionRequest{
				Prompt: "Bad label",
				Options: []models.CreateOptionRequest{
					{Label: "", Position: 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/questions", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.CreateQuestion(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.QuestionWithOptions
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestListQuestions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	openID := testutil.CreateTestQuestion(t, db, "Open question", true, false)
	testutil.CreateTestQuestion(t, db, "Locked question", true, true)
	testutil.CreateTestQuestion(t, db, "Inactive question", false, false)
	testutil.AddTestOption(t, db, openID, "First", 1)
	testutil.AddTestOption(t, db, openID, "Second", 2)

	tests := []struct {
		name        string
		mode        string
		wantCount   int
		wantOptions bool
		wantErr     bool
	}{
		{name: "no mode returns everything", mode: "", wantCount: 3, wantOptions: true},
		{name: "vote mode excludes locked and inactive", mode: "vote", wantCount: 1},
		{name: "play mode excludes only inactive", mode: "play", wantCount: 2, wantOptions: true},
		{name: "invalid mode", mode: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/questions"
			if tt.mode != "" {
				path += "?mode=" + tt.mode
			}
			req := testutil.MakeRequest("GET", path, nil, nil)
			w := httptest.NewRecorder()

			handler.ListQuestions(w, req)

			if tt.wantErr {
				testutil.AssertStatus(t, w, http.StatusBadRequest)
				return
			}

			testutil.AssertStatus(t, w, http.StatusOK)

			var list []models.QuestionWithOptions
			testutil.AssertJSON(t, w, &list)

			if len(list) != tt.wantCount {
				t.Errorf("Expected %d questions, got %d", tt.wantCount, len(list))
			}
			for _, entry := range list {
				if entry.Question.ID != openID {
					continue
				}
				if tt.wantOptions && len(entry.Options) != 2 {
					t.Errorf("Expected options attached, got %d", len(entry.Options))
				}
				if !tt.wantOptions && len(entry.Options) != 0 {
					t.Errorf("Expected no options in vote mode, got %d", len(entry.Options))
				}
			}
		})
	}
}

func TestGetQuestion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	questionID := testutil.CreateTestQuestion(t, db, "Order the meals", true, false)
	testutil.AddTestOption(t, db, questionID, "Breakfast", 1)
	testutil.AddTestOption(t, db, questionID, "Lunch", 2)

	req := testutil.MakeRequest("GET", "/questions/"+questionID, nil, nil)
	req.SetPathValue("id", questionID)
	w := httptest.NewRecorder()

	handler.GetQuestion(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.QuestionWithOptions
	testutil.AssertJSON(t, w, &resp)

	if resp.Question.Prompt != "Order the meals" {
		t.Errorf("Unexpected prompt '%s'", resp.Question.Prompt)
	}
	if len(resp.Options) != 2 || resp.Options[0].Position != 1 {
		t.Errorf("Expected 2 options in canonical order, got %+v", resp.Options)
	}
}

func TestGetQuestionNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	req := testutil.MakeRequest("GET", "/questions/nonexistent", nil, nil)
	req.SetPathValue("id", "nonexistent")
	w := httptest.NewRecorder()

	handler.GetQuestion(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestUpdateQuestion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	questionID := testutil.CreateTestQuestion(t, db, "Original prompt", true, false)

	req := testutil.MakeRequest("PATCH", "/questions/"+questionID, models.UpdateQuestionRequest{
		Prompt: strPtr("New prompt"),
		Locked: boolPtr(true),
	}, nil)
	req.SetPathValue("id", questionID)
	w := httptest.NewRecorder()

	handler.UpdateQuestion(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.Question
	testutil.AssertJSON(t, w, &resp)

	if resp.Prompt != "New prompt" || !resp.Locked {
		t.Errorf("Unexpected updated question: %+v", resp)
	}
	// Untouched fields survive
	if !resp.Active {
		t.Error("Expected active flag untouched")
	}

	var locked bool
	if err := db.QueryRow("SELECT locked FROM question WHERE id = $1", questionID).Scan(&locked); err != nil {
		t.Fatalf("Failed to query question: %v", err)
	}
	if !locked {
		t.Error("Expected locked flag persisted")
	}
}

func TestUpdateQuestionNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	req := testutil.MakeRequest("PATCH", "/questions/nonexistent", models.UpdateQuestionRequest{
		Prompt: strPtr("New prompt"),
	}, nil)
	req.SetPathValue("id", "nonexistent")
	w := httptest.NewRecorder()

	handler.UpdateQuestion(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeleteQuestion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	questionID := testutil.CreateTestQuestion(t, db, "Doomed question", true, false)
	testutil.AddTestOption(t, db, questionID, "Option", 1)
	testutil.SubmitTestAnswer(t, db, questionID, "voter-1", "answer")

	req := testutil.MakeRequest("DELETE", "/questions/"+questionID, nil, nil)
	req.SetPathValue("id", questionID)
	w := httptest.NewRecorder()

	handler.DeleteQuestion(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	// Options and answers cascade
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM answer WHERE question_id = $1", questionID).Scan(&count); err != nil {
		t.Fatalf("Failed to count answers: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected cascaded answer delete, %d rows remain", count)
	}

	// Second delete is a 404
	w = httptest.NewRecorder()
	req = testutil.MakeRequest("DELETE", "/questions/"+questionID, nil, nil)
	req.SetPathValue("id", questionID)
	handler.DeleteQuestion(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	testutil.CreateTestQuestion(t, db, "Active one", true, false)
	testutil.CreateTestQuestion(t, db, "Active two", true, true)
	testutil.CreateTestQuestion(t, db, "Inactive", false, false)

	req := testutil.MakeRequest("GET", "/questions/stats", nil, nil)
	w := httptest.NewRecorder()

	handler.GetStats(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.QuestionStatsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.TotalQuestions != 3 {
		t.Errorf("Expected 3 total, got %d", resp.TotalQuestions)
	}
	if resp.ActiveQuestions != 2 {
		t.Errorf("Expected 2 active, got %d", resp.ActiveQuestions)
	}
}
