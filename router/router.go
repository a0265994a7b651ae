// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/Bensagra/meirim-backend/cliparse"
	"github.com/Bensagra/meirim-backend/handlers"
	"github.com/Bensagra/meirim-backend/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(db, cfg)
	answerHandler := handlers.NewAnswerHandler(db, cfg)
	orderingHandler := handlers.NewOrderingHandler(db, cfg)
	nominationHandler := handlers.NewNominationHandler(db, cfg)
	activityHandler := handlers.NewActivityHandler(db, cfg)
	proposalHandler := handlers.NewProposalHandler(db, cfg)
	camperHandler := handlers.NewCamperHandler(db, cfg)
	seedHandler := handlers.NewSeedHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Question management
	mux.HandleFunc("POST /questions", middleware.WithLogging(questionHandler.CreateQuestion))
	mux.HandleFunc("GET /questions", middleware.WithLogging(questionHandler.ListQuestions))
	mux.HandleFunc("GET /questions/stats", middleware.WithLogging(questionHandler.GetStats))
	mux.HandleFunc("GET /questions/{id}", middleware.WithLogging(questionHandler.GetQuestion))
	mux.HandleFunc("PATCH /questions/{id}", middleware.WithLogging(questionHandler.UpdateQuestion))
	mux.HandleFunc("DELETE /questions/{id}", middleware.WithLogging(questionHandler.DeleteQuestion))

	// Answers and verification
	mux.HandleFunc("POST /questions/{id}/answers", middleware.WithLogging(answerHandler.SubmitAnswer))
	mux.HandleFunc("GET /questions/{id}/results", middleware.WithLogging(answerHandler.GetResults))
	mux.HandleFunc("POST /questions/{id}/verify-answer", middleware.WithLogging(answerHandler.VerifyAnswer))
	mux.HandleFunc("POST /questions/{id}/verify-order", middleware.WithLogging(orderingHandler.VerifyOrder))
	mux.HandleFunc("GET /voters/{voterID}/answers", middleware.WithLogging(answerHandler.ListVoterAnswers))

	// Superlative nominations
	mux.HandleFunc("GET /categories", middleware.WithLogging(nominationHandler.ListCategories))
	mux.HandleFunc("POST /categories", middleware.WithLogging(nominationHandler.CreateCategory))
	mux.HandleFunc("POST /categories/{id}/votes", middleware.WithLogging(nominationHandler.CastVote))
	mux.HandleFunc("GET /categories/{id}/results", middleware.WithLogging(nominationHandler.CategoryResults))
	mux.HandleFunc("GET /nominees", middleware.WithLogging(nominationHandler.ListNominees))
	mux.HandleFunc("POST /nominees", middleware.WithLogging(nominationHandler.CreateNominee))
	mux.HandleFunc("GET /nominations/results", middleware.WithLogging(nominationHandler.AllResults))
	mux.HandleFunc("GET /voters/{voterID}/votes", middleware.WithLogging(nominationHandler.ListVoterVotes))

	// Activity board
	mux.HandleFunc("GET /activities", middleware.WithLogging(activityHandler.ListActivities))
	mux.HandleFunc("POST /activities", middleware.WithLogging(activityHandler.UpsertActivity))
	mux.HandleFunc("GET /activities/{date}", middleware.WithLogging(activityHandler.GetActivity))
	mux.HandleFunc("DELETE /activities/{date}", middleware.WithLogging(activityHandler.DeleteActivity))
	mux.HandleFunc("PUT /activities/{id}/links", middleware.WithLogging(activityHandler.LinkActivity))

	// Proposals
	mux.HandleFunc("GET /proposals", middleware.WithLogging(proposalHandler.ListProposals))
	mux.HandleFunc("POST /proposals", middleware.WithLogging(proposalHandler.CreateProposal))
	mux.HandleFunc("GET /proposals/{id}", middleware.WithLogging(proposalHandler.GetProposal))
	mux.HandleFunc("DELETE /proposals/{id}", middleware.WithLogging(proposalHandler.DeleteProposal))

	// Camper registry
	mux.HandleFunc("GET /campers", middleware.WithLogging(camperHandler.ListCampers))
	mux.HandleFunc("POST /campers", middleware.WithLogging(camperHandler.CreateCamper))
	mux.HandleFunc("GET /campers/{dni}", middleware.WithLogging(camperHandler.GetCamper))

	// Fixture loading
	mux.HandleFunc("POST /seed", middleware.WithLogging(seedHandler.Seed))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("meirim API v1"))
	})

	return mux
}
