package model_test

import (
	"testing"
	"time"

	"promptboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWithCard() model.Board {
	b := model.DefaultBoard()
	b.Columns[0].Cards = append(b.Columns[0].Cards, model.Card{
		ID:        "c1",
		Title:     "Write docs",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	return b
}

func TestDefaultBoard(t *testing.T) {
	b := model.DefaultBoard()

	require.Len(t, b.Columns, 3)
	assert.Equal(t, "todo", b.Columns[0].ID)
	assert.Equal(t, "TODO", b.Columns[0].Title)
	assert.Equal(t, "in-progress", b.Columns[1].ID)
	assert.Equal(t, "completed", b.Columns[2].ID)
	for i, col := range b.Columns {
		assert.Equal(t, i, col.Order)
		assert.Empty(t, col.Cards)
	}
}

func TestMoveCard_ToOtherColumn(t *testing.T) {
	b := boardWithCard()
	b.Columns[2].Cards = []model.Card{{ID: "c0", Title: "Already done"}}

	moved, err := b.MoveCard("c1", "completed")

	require.NoError(t, err)
	assert.Empty(t, moved.Columns[0].Cards)
	require.Len(t, moved.Columns[2].Cards, 2)
	assert.Equal(t, "c1", moved.Columns[2].Cards[1].ID)
	// Перемещение не меняет временные метки
	assert.Equal(t, b.Columns[0].Cards[0].UpdatedAt, moved.Columns[2].Cards[1].UpdatedAt)
	// Исходная доска не изменилась
	assert.Len(t, b.Columns[0].Cards, 1)
}

func TestMoveCard_SameColumnGoesToTail(t *testing.T) {
	b := boardWithCard()
	b.Columns[0].Cards = append(b.Columns[0].Cards, model.Card{ID: "c2", Title: "Second"})

	moved, err := b.MoveCard("c1", "todo")

	require.NoError(t, err)
	require.Len(t, moved.Columns[0].Cards, 2)
	assert.Equal(t, "c2", moved.Columns[0].Cards[0].ID)
	assert.Equal(t, "c1", moved.Columns[0].Cards[1].ID)
}

func TestMoveCard_UnknownIDs(t *testing.T) {
	b := boardWithCard()

	_, err := b.MoveCard("missing", "completed")
	assert.ErrorIs(t, err, model.ErrCardNotFound)

	same, err := b.MoveCard("c1", "nowhere")
	assert.ErrorIs(t, err, model.ErrColumnNotFound)
	assert.Equal(t, b, same)
}

func TestMoveCard_CardAlwaysInExactlyOneColumn(t *testing.T) {
	b := boardWithCard()
	b.Columns[1].Cards = []model.Card{{ID: "c2", Title: "Other"}}

	for _, dst := range []string{"todo", "in-progress", "completed", "unknown"} {
		for _, id := range []string{"c1", "c2"} {
			b, _ = b.MoveCard(id, dst)
			assert.Equal(t, 1, b.CountCard("c1"))
			assert.Equal(t, 1, b.CountCard("c2"))
		}
	}
}

func TestAddCard(t *testing.T) {
	b := model.DefaultBoard()

	out, err := b.AddCard("in-progress", model.Card{ID: "n1", Title: "  Ship it  "})

	require.NoError(t, err)
	require.Len(t, out.Columns[1].Cards, 1)
	assert.Equal(t, "Ship it", out.Columns[1].Cards[0].Title)
	assert.Empty(t, b.Columns[1].Cards)
}

func TestAddCard_EmptyTitle(t *testing.T) {
	b := model.DefaultBoard()

	for _, title := range []string{"", "   ", "\t\n"} {
		out, err := b.AddCard("todo", model.Card{ID: "n1", Title: title, Description: "desc"})

		assert.ErrorIs(t, err, model.ErrValidation)
		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
		assert.Equal(t, b, out)
	}
}

func TestAddCard_UnknownColumn(t *testing.T) {
	_, err := model.DefaultBoard().AddCard("nope", model.Card{ID: "n1", Title: "x"})
	assert.ErrorIs(t, err, model.ErrColumnNotFound)
}

func TestUpdateCard(t *testing.T) {
	b := boardWithCard()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	out, err := b.UpdateCard("todo", "c1", model.CardFields{Title: "Rewrite docs", Description: "d", Notes: "n"}, now)

	require.NoError(t, err)
	card := out.Columns[0].Cards[0]
	assert.Equal(t, "Rewrite docs", card.Title)
	assert.Equal(t, "d", card.Description)
	assert.Equal(t, "n", card.Notes)
	assert.Equal(t, now, card.UpdatedAt)
	assert.Equal(t, b.Columns[0].Cards[0].CreatedAt, card.CreatedAt)
}

func TestUpdateCard_Errors(t *testing.T) {
	b := boardWithCard()
	now := time.Now()

	_, err := b.UpdateCard("todo", "c1", model.CardFields{Title: " "}, now)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = b.UpdateCard("completed", "c1", model.CardFields{Title: "x"}, now)
	assert.ErrorIs(t, err, model.ErrCardNotFound)

	_, err = b.UpdateCard("nope", "c1", model.CardFields{Title: "x"}, now)
	assert.ErrorIs(t, err, model.ErrColumnNotFound)
}

func TestDeleteCard(t *testing.T) {
	b := boardWithCard()

	out, err := b.DeleteCard("todo", "c1")
	require.NoError(t, err)
	assert.Empty(t, out.Columns[0].Cards)

	// c1 не лежит в completed: ничего не меняется
	same, err := b.DeleteCard("completed", "c1")
	assert.ErrorIs(t, err, model.ErrCardNotFound)
	assert.Equal(t, b, same)
}

func TestAddColumn(t *testing.T) {
	b := model.DefaultBoard()

	out, err := b.AddColumn("col-4", "Review")
	require.NoError(t, err)
	require.Len(t, out.Columns, 4)
	assert.Equal(t, model.Column{ID: "col-4", Title: "Review", Cards: []model.Card{}, Order: 3}, out.Columns[3])

	_, err = b.AddColumn("col-5", "")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestRenameColumn(t *testing.T) {
	b := model.DefaultBoard()

	out, err := b.RenameColumn("todo", "Backlog")
	require.NoError(t, err)
	assert.Equal(t, "Backlog", out.Columns[0].Title)

	_, err = b.RenameColumn("todo", "")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = b.RenameColumn("nope", "Backlog")
	assert.ErrorIs(t, err, model.ErrColumnNotFound)
}

func TestSetGeneratedPrompt_FollowsMovedCard(t *testing.T) {
	b := boardWithCard()
	b, err := b.MoveCard("c1", "in-progress")
	require.NoError(t, err)
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	// Ответ пришел для старой колонки, карточка уже в in-progress
	out, err := b.SetGeneratedPrompt("todo", "c1", "do the thing", now)

	require.NoError(t, err)
	card, columnID, ok := out.FindCard("c1")
	require.True(t, ok)
	assert.Equal(t, "in-progress", columnID)
	assert.Equal(t, "do the thing", card.GeneratedPrompt)
	assert.Equal(t, now, card.UpdatedAt)
}

func TestSetGeneratedPrompt_DeletedCard(t *testing.T) {
	b := model.DefaultBoard()

	_, err := b.SetGeneratedPrompt("todo", "gone", "text", time.Now())
	assert.ErrorIs(t, err, model.ErrCardNotFound)
}
