// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Bensagra/meirim-backend/models"
	"github.com/Bensagra/meirim-backend/testutil"
)

// TestConcurrentAnswerSubmissions verifies that simultaneous submissions from
// different voters don't cause data corruption or duplicates
func TestConcurrentAnswerSubmissions(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewAnswerHandler(db, cfg)

	questionID := testutil.CreateTestQuestion(t, db, "Favorite drink?", true, false)

	numVoters := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/questions/"+questionID+"/answers", models.SubmitAnswerRequest{
				VoterID: fmt.Sprintf("voter-%d", voterIdx),
				Text:    "mate",
			}, nil)
			req.SetPathValue("id", questionID)
			w := httptest.NewRecorder()

			handler.SubmitAnswer(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	// Exactly one row per voter
	var answerCount, uniqueVoters int
	if err := db.QueryRow("SELECT COUNT(*) FROM answer WHERE question_id = $1", questionID).Scan(&answerCount); err != nil {
		t.Fatalf("Failed to count answers: %v", err)
	}
	if answerCount != numVoters {
		t.Errorf("Expected %d answer rows, got %d", numVoters, answerCount)
	}
	if err := db.QueryRow("SELECT COUNT(DISTINCT voter_id) FROM answer WHERE question_id = $1", questionID).Scan(&uniqueVoters); err != nil {
		t.Fatalf("Failed to count unique voters: %v", err)
	}
	if uniqueVoters != numVoters {
		t.Errorf("Expected %d unique voters, got %d (possible duplicates)", numVoters, uniqueVoters)
	}
}

// TestConcurrentSameVoterSubmissions verifies that interleaved submissions
// from one voter collapse into a single stored answer
func TestConcurrentSameVoterSubmissions(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewAnswerHandler(db, cfg)

	questionID := testutil.CreateTestQuestion(t, db, "Favorite drink?", true, false)

	numAttempts := 8
	texts := []string{"mate", "coffee", "tea", "juice"}

	var wg sync.WaitGroup
	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(attempt int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/questions/"+questionID+"/answers", models.SubmitAnswerRequest{
				VoterID: "contested-voter",
				Text:    texts[attempt%len(texts)],
			}, nil)
			req.SetPathValue("id", questionID)
			w := httptest.NewRecorder()

			handler.SubmitAnswer(w, req)
		}(i)
	}

	wg.Wait()

	// Every attempt upserts the same row
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM answer WHERE question_id = $1 AND voter_id = $2", questionID, "contested-voter").Scan(&count); err != nil {
		t.Fatalf("Failed to count answers: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 answer row for the voter, got %d", count)
	}

	// The surviving text is one of the submitted values
	var text string
	if err := db.QueryRow("SELECT text FROM answer WHERE question_id = $1 AND voter_id = $2", questionID, "contested-voter").Scan(&text); err != nil {
		t.Fatalf("Failed to query answer: %v", err)
	}
	found := false
	for _, candidate := range texts {
		if text == candidate {
			found = true
		}
	}
	if !found {
		t.Errorf("Stored text '%s' is not one of the submitted values", text)
	}
}

// TestConcurrentRevotes verifies that racing revotes leave a single
// nomination row per voter
func TestConcurrentRevotes(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewNominationHandler(db, cfg)

	categoryID := testutil.CreateTestCategory(t, db, "Best Dancer", true)
	nominees := []string{
		testutil.CreateTestNominee(t, db, "Ana"),
		testutil.CreateTestNominee(t, db, "Bruno"),
		testutil.CreateTestNominee(t, db, "Carla"),
	}

	numAttempts := 9
	var wg sync.WaitGroup
	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(attempt int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/categories/"+categoryID+"/votes", models.CastVoteRequest{
				VoterID:   "contested-voter",
				NomineeID: nominees[attempt%len(nominees)],
			}, nil)
			req.SetPathValue("id", categoryID)
			w := httptest.NewRecorder()

			handler.CastVote(w, req)
		}(i)
	}

	wg.Wait()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM nomination WHERE category_id = $1 AND voter_id = $2", categoryID, "contested-voter").Scan(&count); err != nil {
		t.Fatalf("Failed to count nominations: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 nomination row for the voter, got %d", count)
	}
}
