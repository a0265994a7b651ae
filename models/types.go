// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Activity status constants
const (
	ActivityNeedsPeople = "needs_people"
	ActivityHasPeople   = "has_people"
	ActivityPlanned     = "planned"
)

// Question list modes
const (
	ModeVote = "vote"
	ModePlay = "play"
)

// Request types

type CreateQuestionRequest struct {
	Prompt       string                `json:"prompt"`
	DisplayOrder int                   `json:"display_order"`
	Active       *bool                 `json:"active,omitempty"`
	Options      []CreateOptionRequest `json:"options,omitempty"`
}

type CreateOptionRequest struct {
	Label    string `json:"label"`
	Position int    `json:"position"`
	Quantity *int   `json:"quantity,omitempty"`
}

type UpdateQuestionRequest struct {
	Prompt       *string `json:"prompt,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	Active       *bool   `json:"active,omitempty"`
	Locked       *bool   `json:"locked,omitempty"`
}

type SubmitAnswerRequest struct {
	VoterID string `json:"voter_id"`
	Text    string `json:"text"`
}

type VerifyAnswerRequest struct {
	Text string `json:"text"`
}

type VerifyOrderRequest struct {
	VoterID          string   `json:"voter_id,omitempty"`
	OrderedOptionIDs []string `json:"ordered_option_ids"`
}

type CreateCategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"active,omitempty"`
}

type CreateNomineeRequest struct {
	Name string `json:"name"`
}

type CastVoteRequest struct {
	VoterID   string `json:"voter_id"`
	NomineeID string `json:"nominee_id"`
}

type UpsertActivityRequest struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Planned *bool  `json:"planned,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type LinkActivityRequest struct {
	Participants []string `json:"participants"` // camper DNIs
	Topics       []string `json:"topics"`       // free-text topic labels
}

type CreateProposalRequest struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Content string `json:"content"`
}

type CreateCamperRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	DNI     string `json:"dni"`
}

// Response types

type SubmitAnswerResponse struct {
	Answer  Answer `json:"answer"`
	Message string `json:"message"`
}

type CastVoteResponse struct {
	Vote      Nomination `json:"vote"`
	WasUpdate bool       `json:"was_update"`
}

type QuestionStatsResponse struct {
	TotalQuestions  int `json:"total_questions"`
	ActiveQuestions int `json:"active_questions"`
}

type SeedResponse struct {
	Message           string `json:"message"`
	QuestionsCreated  int    `json:"questions_created"`
	CategoriesCreated int    `json:"categories_created"`
	NomineesCreated   int    `json:"nominees_created"`
}

// Domain types

type Question struct {
	ID           string    `json:"id"`
	Prompt       string    `json:"prompt"`
	DisplayOrder int       `json:"display_order"`
	Active       bool      `json:"active"`
	Locked       bool      `json:"locked"`
	CreatedAt    time.Time `json:"created_at"`
}

type QuestionOption struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Label      string `json:"label"`
	Position   int    `json:"position"`
	Quantity   *int   `json:"quantity,omitempty"`
}

type QuestionWithOptions struct {
	Question Question         `json:"question"`
	Options  []QuestionOption `json:"options"`
}

type Answer struct {
	ID          string    `json:"id"`
	QuestionID  string    `json:"question_id"`
	VoterID     string    `json:"voter_id"`
	Text        string    `json:"text"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// TallyEntry is one normalized value group in a question's results.
type TallyEntry struct {
	Value   string `json:"value"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

type TallyResult struct {
	QuestionID string       `json:"question_id"`
	Total      int          `json:"total"`
	Ranking    []TallyEntry `json:"ranking"`
}

type VerifyAnswerResponse struct {
	Matched bool   `json:"matched"`
	Value   string `json:"value,omitempty"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// OrderScoreItem reports one submitted option against its canonical position.
// CorrectPosition is nil when the submitted ID is unknown for the question.
type OrderScoreItem struct {
	OptionID          string `json:"option_id"`
	SubmittedPosition int    `json:"submitted_position"`
	CorrectPosition   *int   `json:"correct_position,omitempty"`
	Correct           bool   `json:"correct"`
}

type OrderScoreResponse struct {
	CorrectCount int              `json:"correct_count"`
	Total        int              `json:"total"`
	Percent      int              `json:"percent"`
	PerItem      []OrderScoreItem `json:"per_item"`
	Options      []QuestionOption `json:"options"`
}

type NominationCategory struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Active       bool   `json:"active"`
	DisplayOrder int    `json:"display_order"`
}

type Nominee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Nomination struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	NomineeID   string    `json:"nominee_id"`
	NomineeName string    `json:"nominee_name,omitempty"`
	VoterID     string    `json:"voter_id"`
	CastAt      time.Time `json:"cast_at"`
}

type NomineeCount struct {
	NomineeName string `json:"nominee_name"`
	Votes       int    `json:"votes"`
}

type CategoryResults struct {
	CategoryID   string         `json:"category_id"`
	CategoryName string         `json:"category_name"`
	TotalVotes   int            `json:"total_votes"`
	Ranking      []NomineeCount `json:"ranking"`
}

type Camper struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Email   string `json:"email,omitempty"`
	DNI     string `json:"dni"`
}

type Activity struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Topic struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Used  bool   `json:"used"`
}

type ActivityDetail struct {
	Activity     Activity `json:"activity"`
	Participants []Camper `json:"participants"`
	Topics       []Topic  `json:"topics"`
}

type Proposal struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
