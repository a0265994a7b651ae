// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type seedOption struct {
	Label    string
	Position int
	Quantity int
}

type seedQuestion struct {
	Prompt  string
	Order   int
	Options []seedOption
}

type seedCategory struct {
	Name        string
	Description string
	Order       int
}

var seedQuestions = []seedQuestion{
	{"Favorite game", 1, []seedOption{
		{"Violent ball games", 1, 40},
		{"Blind rooster", 2, 30},
		{"Two dogs one bone", 3, 20},
		{"I love London", 4, 10},
	}},
	{"Most anticipated camp moment", 2, []seedOption{
		{"Mesaza", 1, 50},
		{"The games", 2, 35},
		{"Judinews", 3, 15},
	}},
	{"Favorite mesaza", 3, []seedOption{
		{"Cookies", 1, 30},
		{"Tiramisu", 2, 25},
		{"Brigadeiros", 3, 20},
		{"Masitas", 4, 15},
		{"Dulce de leche cones", 5, 10},
	}},
	{"Best chapter meeting", 4, []seedOption{
		{"Kickoff sushi", 1, 35},
		{"Clowns and childhood", 2, 30},
		{"Parents info night", 3, 20},
		{"Training center", 4, 15},
	}},
	{"Favorite board position", 5, []seedOption{
		{"Mazkirim", 1, 35},
		{"Godol & N'siah", 2, 30},
		{"Sganim", 3, 20},
		{"Morim", 4, 15},
	}},
	{"Favorite regional event", 6, []seedOption{
		{"Israel Experience", 1, 45},
		{"LTD", 2, 35},
		{"Wrapped", 3, 20},
	}},
	{"Best thing about the movement", 7, []seedOption{
		{"The friends", 1, 40},
		{"Chapter meetings", 2, 30},
		{"The camp", 3, 20},
		{"IC", 4, 10},
	}},
}

var seedCategories = []seedCategory{
	{"Funniest", "Always makes you laugh", 1},
	{"Most Energetic", "Has energy for everything", 2},
	{"Most Athletic", "The star of any sport", 3},
	{"Most Charismatic", "Everybody's friend", 4},
	{"Most Creative", "Always has original ideas", 5},
	{"Best Companion", "Always there to help", 6},
	{"Most Adventurous", "Afraid of nothing", 7},
	{"Life of the Party", "Where they are, there is fun", 8},
}

var seedNominees = []string{
	"Mati", "Benyi", "Mica", "Caro", "Eyal", "Juan",
	"Luz", "Rafa", "Tomy", "Wolko", "Dani",
}

// Seed loads the demo camp dataset: trivia questions with their canonical
// option ordering, nomination categories, and nominees. Questions are only
// seeded into an empty question table; categories and nominees upsert by name.
// Returns how many of each were created.
func Seed(db *sql.DB) (questions, categories, nominees int, err error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM question`).Scan(&existing); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	if existing == 0 {
		for _, q := range seedQuestions {
			questionID := uuid.NewString()
			_, err := tx.Exec(`
				INSERT INTO question (id, prompt, display_order, active, locked, created_at)
				VALUES ($1, $2, $3, TRUE, FALSE, $4)
			`, questionID, q.Prompt, q.Order, time.Now())
			if err != nil {
				return 0, 0, 0, fmt.Errorf("failed to seed question %q: %w", q.Prompt, err)
			}

			for _, opt := range q.Options {
				_, err := tx.Exec(`
					INSERT INTO question_option (id, question_id, label, position, quantity)
					VALUES ($1, $2, $3, $4, $5)
				`, uuid.NewString(), questionID, opt.Label, opt.Position, opt.Quantity)
				if err != nil {
					return 0, 0, 0, fmt.Errorf("failed to seed option %q: %w", opt.Label, err)
				}
			}
			questions++
		}
	}

	for _, cat := range seedCategories {
		res, err := tx.Exec(`
			INSERT INTO nomination_category (id, name, description, active, display_order)
			VALUES ($1, $2, $3, TRUE, $4)
			ON CONFLICT (name) DO NOTHING
		`, uuid.NewString(), cat.Name, cat.Description, cat.Order)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			categories++
		}
	}

	for _, name := range seedNominees {
		res, err := tx.Exec(`
			INSERT INTO nominee (id, name)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, uuid.NewString(), name)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("failed to seed nominee %q: %w", name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			nominees++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	return questions, categories, nominees, nil
}
