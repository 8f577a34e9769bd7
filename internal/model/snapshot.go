package model

import "time"

// BoardSnapshot is the relational row holding one encoded board.
type BoardSnapshot struct {
	Key       string `gorm:"column:snapshot_key;primaryKey"`
	Payload   string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (BoardSnapshot) TableName() string {
	return "board_snapshots"
}
