package store

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PinStore manages member PINs. PINs guard identity switching on shared
// devices and the admin elevation flow; hashes never enter the synced
// document.
type PinStore struct {
	db *sql.DB
}

func NewPinStore(db *sql.DB) *PinStore {
	return &PinStore{db: db}
}

// Set hashes and stores a member's PIN. A 4 to 8 digit string is
// expected; validation happens at the handler.
func (s *PinStore) Set(memberID, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO member_pins (member_id, pin_hash, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(member_id) DO UPDATE SET pin_hash = excluded.pin_hash, updated_at = excluded.updated_at`,
		memberID, string(hash), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	return nil
}

// Verify checks a PIN attempt. Members without a stored PIN verify
// trivially so a fresh roster entry can log in before setting one.
func (s *PinStore) Verify(memberID, pin string) (bool, error) {
	var hash string
	err := s.db.QueryRow(`SELECT pin_hash FROM member_pins WHERE member_id = ?`, memberID).Scan(&hash)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get pin: %w", err)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil, nil
}

// Has reports whether the member has a PIN set.
func (s *PinStore) Has(memberID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM member_pins WHERE member_id = ?`, memberID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check pin: %w", err)
	}
	return n > 0, nil
}

// Clear removes a member's PIN.
func (s *PinStore) Clear(memberID string) error {
	_, err := s.db.Exec(`DELETE FROM member_pins WHERE member_id = ?`, memberID)
	if err != nil {
		return fmt.Errorf("clear pin: %w", err)
	}
	return nil
}
