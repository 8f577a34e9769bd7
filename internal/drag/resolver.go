package drag

import (
	"context"

	"promptboard/internal/model"
)

// EndEvent is the end of a drag gesture. OverID is empty when the card was
// dropped outside any droppable zone.
type EndEvent struct {
	ActiveID string `json:"activeId" binding:"required"`
	OverID   string `json:"overId"`
}

// Mover is the part of the board store the resolver drives.
type Mover interface {
	Snapshot() model.Board
	MoveCard(ctx context.Context, cardID, destinationColumnID string) (model.Board, error)
}

type Resolver struct {
	mover Mover
}

func NewResolver(mover Mover) *Resolver {
	return &Resolver{mover: mover}
}

// Resolve turns a drag-end event into a move. The drop target may be a
// column or a card; dropping on a card moves to that card's column. The card
// always goes to the tail of the destination. It reports whether the card
// ended up in the target column.
func (r *Resolver) Resolve(ctx context.Context, ev EndEvent) (model.Board, bool, error) {
	current := r.mover.Snapshot()
	if ev.OverID == "" || ev.ActiveID == "" {
		return current, false, nil
	}

	target, ok := destination(current, ev.OverID)
	if !ok {
		return current, false, nil
	}

	board, err := r.mover.MoveCard(ctx, ev.ActiveID, target)
	if err != nil {
		return board, false, err
	}
	_, columnID, found := board.FindCard(ev.ActiveID)
	return board, found && columnID == target, nil
}

func destination(board model.Board, overID string) (string, bool) {
	if _, ok := board.Column(overID); ok {
		return overID, true
	}
	if _, columnID, ok := board.FindCard(overID); ok {
		return columnID, true
	}
	return "", false
}
