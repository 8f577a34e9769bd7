package model

import (
	"strings"
	"time"
)

// Board is the aggregate root: the only owner of columns and their cards.
// Every transformation below works on a copy and leaves the receiver intact.
type Board struct {
	Columns []Column `json:"columns"`
}

// CardFields are the user-editable parts of a card.
type CardFields struct {
	Title       string
	Description string
	Notes       string
}

// DefaultBoard is used when no snapshot has been persisted yet.
func DefaultBoard() Board {
	return Board{
		Columns: []Column{
			{ID: "todo", Title: "TODO", Cards: []Card{}, Order: 0},
			{ID: "in-progress", Title: "In Progress", Cards: []Card{}, Order: 1},
			{ID: "completed", Title: "Completed", Cards: []Card{}, Order: 2},
		},
	}
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	out := Board{Columns: make([]Column, len(b.Columns))}
	for i, col := range b.Columns {
		cards := make([]Card, len(col.Cards))
		copy(cards, col.Cards)
		col.Cards = cards
		out.Columns[i] = col
	}
	return out
}

func (b Board) columnIndex(columnID string) int {
	for i := range b.Columns {
		if b.Columns[i].ID == columnID {
			return i
		}
	}
	return -1
}

// locate scans all columns for the card.
func (b Board) locate(cardID string) (int, int) {
	for i := range b.Columns {
		if j := b.Columns[i].indexOf(cardID); j != -1 {
			return i, j
		}
	}
	return -1, -1
}

// Column returns the column with the given id.
func (b Board) Column(columnID string) (Column, bool) {
	i := b.columnIndex(columnID)
	if i == -1 {
		return Column{}, false
	}
	return b.Columns[i], true
}

// FindCard returns the card and the id of the column that holds it.
func (b Board) FindCard(cardID string) (Card, string, bool) {
	i, j := b.locate(cardID)
	if i == -1 {
		return Card{}, "", false
	}
	return b.Columns[i].Cards[j], b.Columns[i].ID, true
}

// MoveCard detaches the card from whichever column holds it and appends it
// to the tail of the destination column. Timestamps are left untouched.
func (b Board) MoveCard(cardID, destinationColumnID string) (Board, error) {
	src, idx := b.locate(cardID)
	if src == -1 {
		return b, ErrCardNotFound
	}
	dst := b.columnIndex(destinationColumnID)
	if dst == -1 {
		return b, ErrColumnNotFound
	}

	out := b.Clone()
	card := out.Columns[src].Cards[idx]
	out.Columns[src].Cards = append(out.Columns[src].Cards[:idx], out.Columns[src].Cards[idx+1:]...)
	out.Columns[dst].Cards = append(out.Columns[dst].Cards, card)
	return out, nil
}

// AddCard appends a fully built card to the column.
func (b Board) AddCard(columnID string, card Card) (Board, error) {
	title, err := requireText("title", card.Title)
	if err != nil {
		return b, err
	}
	i := b.columnIndex(columnID)
	if i == -1 {
		return b, ErrColumnNotFound
	}

	card.Title = title
	out := b.Clone()
	out.Columns[i].Cards = append(out.Columns[i].Cards, card)
	return out, nil
}

// UpdateCard replaces the editable fields of a card and stamps updatedAt.
func (b Board) UpdateCard(columnID, cardID string, fields CardFields, now time.Time) (Board, error) {
	title, err := requireText("title", fields.Title)
	if err != nil {
		return b, err
	}
	i := b.columnIndex(columnID)
	if i == -1 {
		return b, ErrColumnNotFound
	}
	j := b.Columns[i].indexOf(cardID)
	if j == -1 {
		return b, ErrCardNotFound
	}

	out := b.Clone()
	card := &out.Columns[i].Cards[j]
	card.Title = title
	card.Description = fields.Description
	card.Notes = fields.Notes
	card.UpdatedAt = now
	return out, nil
}

// DeleteCard removes the card from the given column only.
func (b Board) DeleteCard(columnID, cardID string) (Board, error) {
	i := b.columnIndex(columnID)
	if i == -1 {
		return b, ErrColumnNotFound
	}
	j := b.Columns[i].indexOf(cardID)
	if j == -1 {
		return b, ErrCardNotFound
	}

	out := b.Clone()
	out.Columns[i].Cards = append(out.Columns[i].Cards[:j], out.Columns[i].Cards[j+1:]...)
	return out, nil
}

// AddColumn appends a column ranked after all existing ones.
func (b Board) AddColumn(id, title string) (Board, error) {
	title, err := requireText("title", title)
	if err != nil {
		return b, err
	}

	out := b.Clone()
	out.Columns = append(out.Columns, Column{
		ID:    id,
		Title: title,
		Cards: []Card{},
		Order: len(b.Columns),
	})
	return out, nil
}

func (b Board) RenameColumn(columnID, title string) (Board, error) {
	title, err := requireText("title", title)
	if err != nil {
		return b, err
	}
	i := b.columnIndex(columnID)
	if i == -1 {
		return b, ErrColumnNotFound
	}

	out := b.Clone()
	out.Columns[i].Title = title
	return out, nil
}

// SetGeneratedPrompt stores a generation result on the card. The card is
// looked up in columnID first and then across the board, so a result that
// arrives after the card was dragged elsewhere still lands on it.
func (b Board) SetGeneratedPrompt(columnID, cardID, prompt string, now time.Time) (Board, error) {
	i, j := -1, -1
	if ci := b.columnIndex(columnID); ci != -1 {
		if cj := b.Columns[ci].indexOf(cardID); cj != -1 {
			i, j = ci, cj
		}
	}
	if i == -1 {
		i, j = b.locate(cardID)
	}
	if i == -1 {
		return b, ErrCardNotFound
	}

	out := b.Clone()
	card := &out.Columns[i].Cards[j]
	card.GeneratedPrompt = prompt
	card.UpdatedAt = now
	return out, nil
}

// CountCard reports in how many columns the card appears.
func (b Board) CountCard(cardID string) int {
	n := 0
	for _, col := range b.Columns {
		if col.indexOf(cardID) != -1 {
			n++
		}
	}
	return n
}

func requireText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Field: field}
	}
	return trimmed, nil
}
