package repository

import (
	"time"

	"promptboard/internal/model"
)

// sampleBoard has one card with every optional field set and one with none.
func sampleBoard() model.Board {
	created := time.Date(2026, 5, 6, 7, 8, 9, 123456789, time.UTC)
	b := model.DefaultBoard()
	b.Columns[0].Cards = []model.Card{
		{
			ID:              "c-full",
			Title:           "Add login page",
			Description:     "OAuth plus password",
			Notes:           "check with design",
			CreatedAt:       created,
			UpdatedAt:       created.Add(time.Minute),
			GeneratedPrompt: "Objective: ...",
		},
		{
			ID:        "c-bare",
			Title:     "Bare",
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
	b.Columns = append(b.Columns, model.Column{ID: "extra", Title: "Review", Cards: []model.Card{}, Order: 3})
	return b
}
