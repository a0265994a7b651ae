// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and fixture seeding.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL sticks to the subset valid on both PostgreSQL and SQLite, so the
same schema serves production and the in-memory test databases.

# Tables

The schema includes:

  - question: Trivia questions with active/locked flags
  - question_option: Canonical ordered options per question
  - answer: One free-text answer per voter per question
  - nomination_category: Superlative categories
  - nominee: People who can be nominated
  - nomination: One vote per voter per category
  - camper: Camper registry keyed by DNI
  - activity: One activity row per calendar day
  - activity_participant: Links campers to activities
  - topic: Free-text topic labels
  - activity_topic: Links topics to activities
  - proposal: Free-form proposals
  - activity_proposal: Links proposals to activity days

# Relationships

	question 1──* question_option
	question 1──* answer
	nomination_category 1──* nomination
	nominee 1──* nomination
	activity *──* camper (via activity_participant)
	activity *──* topic (via activity_topic)
	activity *──* proposal (via activity_proposal)

All foreign keys use ON DELETE CASCADE.

# Seeding

Seed loads the built-in fixtures (questions with their ordered options,
nomination categories, nominees) inside one transaction:

	questions, categories, nominees, err := db.Seed(conn)

Questions are only inserted into an empty question table; categories and
nominees use ON CONFLICT DO NOTHING, so repeated seeding never duplicates.
*/
package db
