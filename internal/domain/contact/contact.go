// Package contact contains the schema-less contact record passed between layers.
package contact

import "maps"

// IDField is the only attribute the system owns on a contact.
const IDField = "id"

// Contact is an address-book entry. Apart from "id", fields are whatever the
// caller sent; nothing is typed or validated.
type Contact map[string]any

// ID returns the contact identifier, or "" when absent or not a string.
func (c Contact) ID() string {
	id, _ := c[IDField].(string)
	return id
}

// Clone returns a shallow copy. A nil contact clones to an empty one.
func (c Contact) Clone() Contact {
	out := make(Contact, len(c)+1)
	maps.Copy(out, c)
	return out
}

// WithID returns a copy of c with id forced to the given value.
func (c Contact) WithID(id string) Contact {
	out := c.Clone()
	out[IDField] = id
	return out
}

// Merge overlays patch onto a copy of c and pins the id of c.
// Fields missing from patch keep their previous values.
func (c Contact) Merge(patch Contact) Contact {
	id := c.ID()
	out := c.Clone()
	maps.Copy(out, patch)
	out[IDField] = id
	return out
}

// CloneAll clones every contact in cs into a new non-nil slice.
func CloneAll(cs []Contact) []Contact {
	out := make([]Contact, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Clone())
	}
	return out
}
