// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateQuestionRequest: prompt, display_order, options
  - UpdateQuestionRequest: partial question fields
  - SubmitAnswerRequest: voter_id, text
  - VerifyAnswerRequest: text
  - VerifyOrderRequest: ordered_option_ids
  - CreateCategoryRequest: name, description, display_order
  - CreateNomineeRequest: name
  - CastVoteRequest: voter_id, nominee_id
  - UpsertActivityRequest: date, planned, notes
  - LinkActivityRequest: participants (DNIs), topics (labels)
  - CreateProposalRequest: date, content
  - CreateCamperRequest: name, surname, email, dni

# Response Types

Types for JSON responses:

  - SubmitAnswerResponse: answer, message
  - VerifyAnswerResponse: matched, value, count, percent
  - OrderScoreResponse: correct_count, total, percent, per_item
  - TallyResult: question_id, total, ranking
  - CastVoteResponse: vote, was_update
  - CategoryResults: category, total, ranking
  - QuestionStatsResponse: total, active
  - SeedResponse: created counts
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Question / QuestionOption / QuestionWithOptions
  - Answer: one voter's stored answer text
  - TallyEntry: normalized value, count, percent
  - Nomination / NominationCategory / Nominee
  - Camper / Activity / Topic / ActivityDetail / Proposal

# Constants

Activity status values:

	ActivityNeedsPeople = "needs_people"
	ActivityHasPeople   = "has_people"
	ActivityPlanned     = "planned"

Question list modes:

	ModeVote = "vote"
	ModePlay = "play"
*/
package models
