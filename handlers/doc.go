// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Meirim API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - QuestionHandler: Question and option management
  - AnswerHandler: Free-text answer submission and result tallies
  - OrderingHandler: Order-verification scoring for sequencing questions
  - NominationHandler: Superlative categories, nominees, and votes
  - ActivityHandler: The daily activity board and its links
  - ProposalHandler: Free-form proposals attached to activity days
  - CamperHandler: Camper registry keyed by DNI
  - SeedHandler: Built-in fixture loading

Handlers are created via constructor functions that accept *sql.DB and Config:

	questionHandler := handlers.NewQuestionHandler(db, cfg)

# Answer Flow

Each voter holds at most one answer per question. Resubmitting replaces the
stored text in place:

	POST /questions/{id}/answers        → SubmitAnswer (create or update)
	GET  /questions/{id}/results        → GetResults (ranked tally)
	POST /questions/{id}/verify-answer  → VerifyAnswer
	POST /questions/{id}/verify-order   → VerifyOrder

Answers are normalized before comparison: lowercased, accents stripped,
punctuation dropped. "Café!" and "cafe" count as the same value.

# Nomination Flow

Each voter holds at most one nomination per category. Voting again moves the
vote to the new nominee:

	POST /categories/{id}/votes   → CastVote (create or update)
	GET  /categories/{id}/results → CategoryResults
	GET  /nominations/results     → AllResults

# Activity Board

Activities are keyed by calendar day. Linking three or more campers flips the
status from needs_people to has_people; a planned flag pins it to planned:

	POST   /activities            → UpsertActivity
	PUT    /activities/{id}/links → LinkActivity
	GET    /activities?year=&month= → ListActivities

# Tally Algorithm

Ranked tallies are computed in tally.go:

	result, err := ComputeTally(db, questionID)

This groups normalized answer texts, counts each group, and ranks them by
count with ties broken by first submission.
*/
package handlers
