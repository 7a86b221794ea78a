package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrIncompleteContact = errors.New("contact is incomplete")

// Contact holds the customer fields entered at checkout. It is never persisted.
type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// Validate checks that name, phone and address are present. Notes are optional.
func (c Contact) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(c.Address) == "" {
		missing = append(missing, "address")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteContact, strings.Join(missing, ", "))
	}
	return nil
}

// FullAddress is the address with the optional delivery note appended on its own line.
func (c Contact) FullAddress() string {
	if c.Notes == "" {
		return c.Address
	}
	return c.Address + "\nCatatan: " + c.Notes
}
