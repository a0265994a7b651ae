// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/Bensagra/meirim-backend/models"
	"github.com/Bensagra/meirim-backend/textutil"
)

// ComputeTally groups a question's answers by normalized text, counts each
// group, and ranks groups by descending count. Ties keep first-seen order.
func ComputeTally(db *sql.DB, questionID string) (models.TallyResult, error) {
	rows, err := db.Query(`
		SELECT text FROM answer
		WHERE question_id = $1
		ORDER BY submitted_at, id
	`, questionID)
	if err != nil {
		return models.TallyResult{}, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return models.TallyResult{}, fmt.Errorf("failed to scan answer: %w", err)
		}
		values = append(values, text)
	}
	if err := rows.Err(); err != nil {
		return models.TallyResult{}, fmt.Errorf("failed to read answers: %w", err)
	}

	total, ranking := rankValues(values)

	return models.TallyResult{
		QuestionID: questionID,
		Total:      total,
		Ranking:    ranking,
	}, nil
}

// VerifyAnswer checks a candidate answer against the stored answers for a
// question. Matching is exact on normalized text.
func VerifyAnswer(db *sql.DB, questionID, candidate string) (models.VerifyAnswerResponse, error) {
	tally, err := ComputeTally(db, questionID)
	if err != nil {
		return models.VerifyAnswerResponse{}, err
	}

	normalized := textutil.Normalize(candidate)
	for _, entry := range tally.Ranking {
		if entry.Value == normalized {
			return models.VerifyAnswerResponse{
				Matched: true,
				Value:   entry.Value,
				Count:   entry.Count,
				Percent: entry.Percent,
			}, nil
		}
	}

	return models.VerifyAnswerResponse{Matched: false}, nil
}

// rankValues normalizes and groups raw values in first-seen order, then
// stable-sorts by descending count so ties preserve insertion order.
func rankValues(values []string) (int, []models.TallyEntry) {
	indexOf := make(map[string]int)
	ranking := []models.TallyEntry{}
	total := 0

	for _, raw := range values {
		value := textutil.Normalize(raw)
		if value == "" {
			continue
		}
		total++
		if i, ok := indexOf[value]; ok {
			ranking[i].Count++
			continue
		}
		indexOf[value] = len(ranking)
		ranking = append(ranking, models.TallyEntry{Value: value, Count: 1})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})

	for i := range ranking {
		ranking[i].Percent = percentOf(ranking[i].Count, total)
	}

	return total, ranking
}

// percentOf returns round(100*count/total), or 0 when total is 0.
func percentOf(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}
