package model

type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cards []Card `json:"cards"`
	Order int    `json:"order"`
}

func (c Column) indexOf(cardID string) int {
	for i := range c.Cards {
		if c.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}
