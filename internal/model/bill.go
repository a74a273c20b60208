package model

// Bill is one shared expense paid up front by a member.
type Bill struct {
	ID      string  `json:"id"`
	PayerID string  `json:"payer_id"`
	Item    string  `json:"item"`
	Amount  float64 `json:"amount"`
	Date    string  `json:"date"`
}

// Transfer is one settlement instruction: From pays To Amount.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}
