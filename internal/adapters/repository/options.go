// Package repository defines the contact store interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithFirstID sets the id handed to the first created contact.
func WithFirstID(id uint64) Option {
	return func(s *MemStore) {
		if id > 0 {
			s.nextID = id
		}
	}
}

// WithContacts preloads the store. Each contact gets a fresh id in order.
func WithContacts(cs ...Contact) Option {
	return func(s *MemStore) {
		s.seed = append(s.seed, cs...)
	}
}
