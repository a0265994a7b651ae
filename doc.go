// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Meirim API server.

Meirim is the backend for a summer camp community app: a daily activity
board with camper sign-ups, free-form proposals, trivia questions with
free-text answer tallies and an order-the-options game, and superlative
nomination voting.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3000 -d "postgres://..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (questions, answers, nominations, activities)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - textutil: Answer text normalization
  - db: Schema creation and fixture seeding
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
