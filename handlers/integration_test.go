// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Bensagra/meirim-backend/models"
	"github.com/Bensagra/meirim-backend/testutil"
)

// TestFullTriviaWorkflow tests the complete end-to-end workflow:
// 1. Create a question with ordered options
// 2. Voters submit free-text answers
// 3. A voter replaces their answer
// 4. Lock the question
// 5. Verify the ranked tally
// 6. Verify a candidate answer
// 7. Score a submitted ordering
func TestFullTriviaWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	questionHandler := NewQuestionHandler(db, cfg)
	answerHandler := NewAnswerHandler(db, cfg)
	orderingHandler := NewOrderingHandler(db, cfg)

	// Step 1: Create a question with ordered options
	req := testutil.MakeRequest("POST", "/questions", models.CreateQuestionRequest{
		Prompt: "Favorite camp dessert",
		Options: []models.CreateOptionRequest{
			{Label: "Cookies", Position: 1, Quantity: intPtr(30)},
			{Label: "Tiramisu", Position: 2, Quantity: intPtr(25)},
			{Label: "Brigadeiros", Position: 3, Quantity: intPtr(20)},
		},
	}, nil)
	w := httptest.NewRecorder()
	questionHandler.CreateQuestion(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create question failed: %d - %s", w.Code, w.Body.String())
	}

	var created models.QuestionWithOptions
	testutil.AssertJSON(t, w, &created)
	questionID := created.Question.ID
	t.Logf("Step 1 - Created question: %s", questionID)

	// Step 2: Voters submit answers
	answers := map[string]string{
		"voter-1": "Cookies",
		"voter-2": "cookies!",
		"voter-3": "Tiramisú",
		"voter-4": "brigadeiros",
	}
	for voterID, text := range answers {
		req := testutil.MakeRequest("POST", "/questions/"+questionID+"/answers", models.SubmitAnswerRequest{
			VoterID: voterID,
			Text:    text,
		}, nil)
		req.SetPathValue("id", questionID)
		w := httptest.NewRecorder()
		answerHandler.SubmitAnswer(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Answer from %s failed: %d - %s", voterID, w.Code, w.Body.String())
		}
	}
	t.Logf("Step 2 - Submitted %d answers", len(answers))

	// Step 3: One voter changes their mind
	req = testutil.MakeRequest("POST", "/questions/"+questionID+"/answers", models.SubmitAnswerRequest{
		VoterID: "voter-4",
		Text:    "Cookies",
	}, nil)
	req.SetPathValue("id", questionID)
	w = httptest.NewRecorder()
	answerHandler.SubmitAnswer(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 3 - Replace answer failed: %d - %s", w.Code, w.Body.String())
	}
	var replaced models.SubmitAnswerResponse
	testutil.AssertJSON(t, w, &replaced)
	if replaced.Message != "Answer updated" {
		t.Errorf("Step 3 - Expected update message, got '%s'", replaced.Message)
	}

	// Step 4: Lock the question against further answers
	req = testutil.MakeRequest("PATCH", "/questions/"+questionID, models.UpdateQuestionRequest{
		Locked: boolPtr(true),
	}, nil)
	req.SetPathValue("id", questionID)
	w = httptest.NewRecorder()
	questionHandler.UpdateQuestion(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Lock failed: %d - %s", w.Code, w.Body.String())
	}

	req = testutil.MakeRequest("POST", "/questions/"+questionID+"/answers", models.SubmitAnswerRequest{
		VoterID: "voter-5",
		Text:    "too late",
	}, nil)
	req.SetPathValue("id", questionID)
	w = httptest.NewRecorder()
	answerHandler.SubmitAnswer(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Step 4 - Expected locked question to reject answers, got %d", w.Code)
	}

	// Step 5: Ranked tally reflects the final state
	req = testutil.MakeRequest("GET", "/questions/"+questionID+"/results", nil, nil)
	req.SetPathValue("id", questionID)
	w = httptest.NewRecorder()
	answerHandler.GetResults(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Results failed: %d - %s", w.Code, w.Body.String())
	}

	var tally models.TallyResult
	testutil.AssertJSON(t, w, &tally)
	if tally.Total != 4 {
		t.Errorf("Step 5 - Expected 4 answers, got %d", tally.Total)
	}
	if len(tally.Ranking) != 2 {
		t.Fatalf("Step 5 - Expected 2 ranking entries, got %d", len(tally.Ranking))
	}
	if tally.Ranking[0].Value != "cookies" || tally.Ranking[0].Count != 3 || tally.Ranking[0].Percent != 75 {
		t.Errorf("Step 5 - Unexpected leader: %+v", tally.Ranking[0])
	}
	if tally.Ranking[1].Value != "tiramisu" || tally.Ranking[1].Count != 1 {
		t.Errorf("Step 5 - Unexpected runner-up: %+v", tally.Ranking[1])
	}

	// Step 6: Verify a candidate answer against the tally
	req = testutil.MakeRequest("POST", "/questions/"+questionID+"/verify-answer", models.VerifyAnswerRequest{
		Text: "COOKIES",
	}, nil)
	req.SetPathValue("id", questionID)
	w = httptest.NewRecorder()
	answerHandler.VerifyAnswer(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Verify failed: %d - %s", w.Code, w.Body.String())
	}
	var verified models.VerifyAnswerResponse
	testutil.AssertJSON(t, w, &verified)
	if !verified.Matched || verified.Count != 3 {
		t.Errorf("Step 6 - Unexpected verification: %+v", verified)
	}

	// Step 7: Score an ordering submission against the canonical positions
	ordered := []string{created.Options[1].ID, created.Options[0].ID, created.Options[2].ID}
	req = testutil.MakeRequest("POST", "/questions/"+questionID+"/verify-order", models.VerifyOrderRequest{
		OrderedOptionIDs: ordered,
	}, nil)
	req.SetPathValue("id", questionID)
	w = httptest.NewRecorder()
	orderingHandler.VerifyOrder(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Verify order failed: %d - %s", w.Code, w.Body.String())
	}
	var score models.OrderScoreResponse
	testutil.AssertJSON(t, w, &score)
	if score.CorrectCount != 1 || score.Percent != 33 {
		t.Errorf("Step 7 - Expected 1 correct at 33%%, got %d at %d%%", score.CorrectCount, score.Percent)
	}
}

// TestFullNominationWorkflow walks the superlative flow: seed fixtures, cast
// votes, revote, and read the aggregated results.
func TestFullNominationWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	nominationHandler := NewNominationHandler(db, cfg)
	seedHandler := NewSeedHandler(db, cfg)

	// Step 1: Seed the built-in fixtures
	req := testutil.MakeRequest("POST", "/seed", nil, nil)
	w := httptest.NewRecorder()
	seedHandler.Seed(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Seed failed: %d - %s", w.Code, w.Body.String())
	}
	var seeded models.SeedResponse
	testutil.AssertJSON(t, w, &seeded)
	if seeded.CategoriesCreated == 0 || seeded.NomineesCreated == 0 {
		t.Fatalf("Step 1 - Expected fixtures created, got %+v", seeded)
	}

	// Step 2: Pick a category and two nominees from the fixtures
	req = testutil.MakeRequest("GET", "/categories", nil, nil)
	w = httptest.NewRecorder()
	nominationHandler.ListCategories(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var categories []models.NominationCategory
	testutil.AssertJSON(t, w, &categories)
	if len(categories) == 0 {
		t.Fatal("Step 2 - Expected seeded categories")
	}
	categoryID := categories[0].ID

	req = testutil.MakeRequest("GET", "/nominees", nil, nil)
	w = httptest.NewRecorder()
	nominationHandler.ListNominees(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var nominees []models.Nominee
	testutil.AssertJSON(t, w, &nominees)
	if len(nominees) < 2 {
		t.Fatal("Step 2 - Expected at least 2 seeded nominees")
	}

	// Step 3: Three voters vote, then one moves their vote
	cast := func(voterID, nomineeID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/categories/"+categoryID+"/votes", models.CastVoteRequest{
			VoterID:   voterID,
			NomineeID: nomineeID,
		}, nil)
		req.SetPathValue("id", categoryID)
		w := httptest.NewRecorder()
		nominationHandler.CastVote(w, req)
		return w
	}

	for i, voter := range []string{"voter-1", "voter-2", "voter-3"} {
		w := cast(voter, nominees[i%2].ID)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 3 - Vote from %s failed: %d - %s", voter, w.Code, w.Body.String())
		}
	}

	w = cast("voter-3", nominees[0].ID)
	testutil.AssertStatus(t, w, http.StatusOK)
	var revote models.CastVoteResponse
	testutil.AssertJSON(t, w, &revote)
	if !revote.WasUpdate {
		t.Error("Step 3 - Expected was_update on revote")
	}

	// Step 4: Category results reflect the moved vote
	req = testutil.MakeRequest("GET", fmt.Sprintf("/categories/%s/results", categoryID), nil, nil)
	req.SetPathValue("id", categoryID)
	w = httptest.NewRecorder()
	nominationHandler.CategoryResults(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.CategoryResults
	testutil.AssertJSON(t, w, &results)
	if results.TotalVotes != 3 {
		t.Errorf("Step 4 - Expected 3 votes, got %d", results.TotalVotes)
	}
	if len(results.Ranking) == 0 || results.Ranking[0].NomineeName != nominees[0].Name || results.Ranking[0].Votes != 2 {
		t.Errorf("Step 4 - Unexpected ranking: %+v", results.Ranking)
	}
}

// TestFullActivityWorkflow walks the activity board: create campers, plan a
// day, link people and topics, attach a proposal, and tear it down.
func TestFullActivityWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	activityHandler := NewActivityHandler(db, cfg)
	proposalHandler := NewProposalHandler(db, cfg)
	camperHandler := NewCamperHandler(db, cfg)

	// Step 1: Register campers
	for i, name := range []string{"Ana", "Bruno", "Carla"} {
		req := testutil.MakeRequest("POST", "/campers", models.CreateCamperRequest{
			Name: name,
			DNI:  fmt.Sprintf("dni-%d", i+1),
		}, nil)
		w := httptest.NewRecorder()
		camperHandler.CreateCamper(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Create camper '%s' failed: %d - %s", name, w.Code, w.Body.String())
		}
	}

	// Step 2: A proposal creates the day's activity implicitly
	req := testutil.MakeRequest("POST", "/proposals", models.CreateProposalRequest{
		Date:    "2026-01-15",
		Content: "River kayaking",
	}, nil)
	w := httptest.NewRecorder()
	proposalHandler.CreateProposal(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create proposal failed: %d - %s", w.Code, w.Body.String())
	}

	req = testutil.MakeRequest("GET", "/activities/2026-01-15", nil, nil)
	req.SetPathValue("date", "2026-01-15")
	w = httptest.NewRecorder()
	activityHandler.GetActivity(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var detail models.ActivityDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.Activity.Status != models.ActivityNeedsPeople {
		t.Errorf("Step 2 - Expected needs_people, got '%s'", detail.Activity.Status)
	}
	activityID := detail.Activity.ID

	// Step 3: Linking three campers staffs the day
	req = testutil.MakeRequest("PUT", "/activities/"+activityID+"/links", models.LinkActivityRequest{
		Participants: []string{"dni-1", "dni-2", "dni-3"},
		Topics:       []string{"water safety"},
	}, nil)
	req.SetPathValue("id", activityID)
	w = httptest.NewRecorder()
	activityHandler.LinkActivity(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.AssertJSON(t, w, &detail)
	if detail.Activity.Status != models.ActivityHasPeople {
		t.Errorf("Step 3 - Expected has_people, got '%s'", detail.Activity.Status)
	}
	if len(detail.Participants) != 3 || len(detail.Topics) != 1 {
		t.Errorf("Step 3 - Unexpected links: %d participants, %d topics", len(detail.Participants), len(detail.Topics))
	}

	// Step 4: Marking the day planned pins the status
	req = testutil.MakeRequest("POST", "/activities", models.UpsertActivityRequest{
		Date:    "2026-01-15",
		Planned: boolPtr(true),
		Notes:   "all set",
	}, nil)
	w = httptest.NewRecorder()
	activityHandler.UpsertActivity(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var planned models.Activity
	testutil.AssertJSON(t, w, &planned)
	if planned.Status != models.ActivityPlanned {
		t.Errorf("Step 4 - Expected planned, got '%s'", planned.Status)
	}

	// Step 5: Deleting the day cascades its links but keeps campers
	req = testutil.MakeRequest("DELETE", "/activities/2026-01-15", nil, nil)
	req.SetPathValue("date", "2026-01-15")
	w = httptest.NewRecorder()
	activityHandler.DeleteActivity(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var camperCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM camper").Scan(&camperCount); err != nil {
		t.Fatalf("Step 5 - Failed to count campers: %v", err)
	}
	if camperCount != 3 {
		t.Errorf("Step 5 - Expected campers untouched, got %d", camperCount)
	}
}
