// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Meirim API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Question management:

	POST   /questions       - Create question with ordered options
	GET    /questions       - List questions (?mode=vote|play)
	GET    /questions/stats - Question counts
	GET    /questions/{id}  - Get question with options
	PATCH  /questions/{id}  - Update question fields
	DELETE /questions/{id}  - Delete question

Answers and verification:

	POST /questions/{id}/answers       - Submit or replace an answer
	GET  /questions/{id}/results       - Ranked tally of answers
	POST /questions/{id}/verify-answer - Check a candidate answer
	POST /questions/{id}/verify-order  - Score a submitted ordering
	GET  /voters/{voterID}/answers     - A voter's answers

Superlative nominations:

	GET  /categories              - List active categories
	POST /categories              - Create category
	POST /categories/{id}/votes   - Cast or move a vote
	GET  /categories/{id}/results - Ranked nominees for a category
	GET  /nominees                - List nominees
	POST /nominees                - Create nominee
	GET  /nominations/results     - Results for every active category
	GET  /voters/{voterID}/votes  - A voter's votes

Activity board:

	GET    /activities            - List activities (?year=&month=)
	POST   /activities            - Create or update a day's activity
	GET    /activities/{date}     - Get one day's activity
	DELETE /activities/{date}     - Delete a day's activity
	PUT    /activities/{id}/links - Link campers and topics

Proposals:

	GET    /proposals      - List proposals (?date=)
	POST   /proposals      - Create proposal for a day
	GET    /proposals/{id} - Get proposal
	DELETE /proposals/{id} - Delete proposal

Camper registry:

	GET  /campers       - List campers
	POST /campers       - Create camper
	GET  /campers/{dni} - Get camper by DNI

Fixtures:

	POST /seed - Load built-in fixtures

# Handler Initialization

The router creates handler instances with dependency injection:

	questionHandler := handlers.NewQuestionHandler(db, cfg)
	answerHandler := handlers.NewAnswerHandler(db, cfg)
	nominationHandler := handlers.NewNominationHandler(db, cfg)
	activityHandler := handlers.NewActivityHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
