package models

// IdentifierKeys are the wire keys a record identifier may arrive under, in
// precedence order.
var IdentifierKeys = []string{"ID", "id", "Id", "_id"}

// Identity is the outcome of identifier resolution for one raw record.
type Identity struct {
	// ID is empty when no candidate was present or candidates disagreed.
	ID string
	// Key is the first candidate key that carried the identifier.
	Key string
	// Conflicting lists the candidate keys when they disagreed.
	Conflicting []string
}

// Resolved reports whether an identifier was found.
func (i Identity) Resolved() bool {
	return i.ID != ""
}

// ResolveIdentifier picks the canonical identifier of a raw record. Every
// present, non-empty candidate must agree; a record whose candidates carry
// different values is left unresolved instead of taking the first match.
func ResolveIdentifier(raw map[string]string) Identity {
	var id Identity
	var present []string
	for _, key := range IdentifierKeys {
		v, ok := raw[key]
		if !ok || v == "" {
			continue
		}
		present = append(present, key)
		if id.Key == "" {
			id.ID, id.Key = v, key
			continue
		}
		if v != id.ID {
			return Identity{Conflicting: present}
		}
	}
	return id
}

// IsIdentifierKey reports whether key is one of IdentifierKeys.
func IsIdentifierKey(key string) bool {
	for _, k := range IdentifierKeys {
		if k == key {
			return true
		}
	}
	return false
}
