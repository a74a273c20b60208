package model

// Gear categories. Public gear is claimed by one member for the whole
// group; personal gear is a per-member packing reminder.
const (
	GearPublic   = "public"
	GearPersonal = "personal"
)

// GearItem is one row on the gear board.
//
// Public items carry an Owner once claimed. Personal items track packed
// state per member in PackedBy so one member ticking a sleeping bag does
// not tick everyone's.
type GearItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Owner    *GearOwner      `json:"owner,omitempty"`
	Required bool            `json:"required,omitempty"`
	PackedBy map[string]bool `json:"packed_by,omitempty"`
	IsCustom bool            `json:"is_custom,omitempty"`
}

// Packed reports whether the given member has packed this personal item.
func (g GearItem) Packed(memberID string) bool {
	return g.PackedBy[memberID]
}
