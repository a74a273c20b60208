package trip

import "errors"

var (
	// ErrNotFound means the referenced entity is not in the document.
	ErrNotFound = errors.New("not found")

	// ErrIngredientLocked means the ingredient is held by a meal plan and
	// must be released before it can change.
	ErrIngredientLocked = errors.New("ingredient locked by meal plan")

	// ErrGearTaken means a public gear item is already claimed by someone
	// else and the caller is not an admin.
	ErrGearTaken = errors.New("gear already claimed")

	// ErrNotOwner means the caller tried to change state belonging to
	// another member without admin rights.
	ErrNotOwner = errors.New("not the owner")

	// ErrNotAdmin means the operation requires an admin member.
	ErrNotAdmin = errors.New("admin required")

	// ErrNoSelection means a meal generation was requested with no
	// ingredients selected.
	ErrNoSelection = errors.New("no ingredients selected")

	// ErrNoAdvisor means an AI-assisted operation was called without a
	// configured advisor client.
	ErrNoAdvisor = errors.New("advisor not configured")
)
