// Package repository defines the contact store interface and errors.
package repository

import (
	"context"

	"github.com/okian/addressbook/internal/domain/contact"
)

// Contact is the record type held by stores.
type Contact = contact.Contact

// Store provides ordered read/write access to contacts.
type Store interface {
	// Create assigns the next id to payload, appends it and returns the stored copy.
	Create(ctx context.Context, payload Contact) (Contact, error)

	// List returns every contact in insertion order.
	List(ctx context.Context) ([]Contact, error)

	// Get returns the contact with the given id.
	// Returns ErrNotFound if no contact matches.
	Get(ctx context.Context, id string) (Contact, error)

	// Update shallow-merges payload into the stored contact, keeping its id and position.
	// Returns ErrNotFound if no contact matches.
	Update(ctx context.Context, id string, payload Contact) (Contact, error)

	// Delete removes every contact with the given id.
	// Returns ErrNotFound if nothing was removed.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored contacts.
	Count(ctx context.Context) int
}
