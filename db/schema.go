// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is kept to the subset valid on both PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Trivia questions
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    prompt TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    locked BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_question_active ON question(active);

-- Canonical ordered options for the ordering game
CREATE TABLE IF NOT EXISTS question_option (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    label TEXT NOT NULL,
    position INTEGER NOT NULL,
    quantity INTEGER,
    UNIQUE (question_id, position)
);

CREATE INDEX IF NOT EXISTS idx_question_option_question_id ON question_option(question_id);

-- Free-text answers, one per (question, voter)
CREATE TABLE IF NOT EXISTS answer (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    text TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (question_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_answer_question_id ON answer(question_id);
CREATE INDEX IF NOT EXISTS idx_answer_voter_id ON answer(voter_id);

-- Superlative nomination categories
CREATE TABLE IF NOT EXISTS nomination_category (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS nominee (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

-- Nomination votes, one per (category, voter)
CREATE TABLE IF NOT EXISTS nomination (
    id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL REFERENCES nomination_category(id) ON DELETE CASCADE,
    nominee_id TEXT NOT NULL REFERENCES nominee(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (category_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_nomination_category_id ON nomination(category_id);
CREATE INDEX IF NOT EXISTS idx_nomination_voter_id ON nomination(voter_id);

-- Camper registry
CREATE TABLE IF NOT EXISTS camper (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    surname TEXT,
    email TEXT,
    dni TEXT NOT NULL UNIQUE
);

-- Scheduled activities, one row per day
CREATE TABLE IF NOT EXISTS activity (
    id TEXT PRIMARY KEY,
    activity_date TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL DEFAULT 'needs_people'
        CHECK (status IN ('needs_people', 'has_people', 'planned')),
    notes TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS activity_participant (
    activity_id TEXT NOT NULL REFERENCES activity(id) ON DELETE CASCADE,
    camper_id TEXT NOT NULL REFERENCES camper(id) ON DELETE CASCADE,
    PRIMARY KEY (activity_id, camper_id)
);

CREATE TABLE IF NOT EXISTS topic (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL UNIQUE,
    used BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS activity_topic (
    activity_id TEXT NOT NULL REFERENCES activity(id) ON DELETE CASCADE,
    topic_id TEXT NOT NULL REFERENCES topic(id) ON DELETE CASCADE,
    PRIMARY KEY (activity_id, topic_id)
);

-- Free-form proposals linked to an activity day
CREATE TABLE IF NOT EXISTS proposal (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS activity_proposal (
    activity_id TEXT NOT NULL REFERENCES activity(id) ON DELETE CASCADE,
    proposal_id TEXT NOT NULL REFERENCES proposal(id) ON DELETE CASCADE,
    PRIMARY KEY (activity_id, proposal_id)
);
`
