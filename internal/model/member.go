package model

// Member is one person on the trip roster. Identity is self-selected at
// login; IsAdmin unlocks reassignment and override operations. HasPIN is
// derived from the local PIN table, never stored in the synced document.
type Member struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
	IsAdmin bool   `json:"is_admin,omitempty"`
	HasPIN  bool   `json:"has_pin,omitempty"`
}

// GearOwner identifies the member who claimed a public gear item.
type GearOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IngredientOwner identifies the member who contributed an ingredient.
type IngredientOwner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// CheckOwner is the member responsible for a checklist line. A nil owner
// means the item still needs to be bought.
type CheckOwner struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
