// Package models holds the server-side domain types.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Category names a record set.
type Category string

const (
	CategoryInternal Category = "internal"
	CategoryExternal Category = "external"
)

// ParseCategory accepts the category names in any case.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryInternal, CategoryExternal:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Wire keys the server owns. They are never taken from client payloads or
// imported sheets.
const (
	KeyID         = "ID"
	KeyUploadDate = "lastUploadDate"
	KeyEvidence   = "Evidence"
	KeyStatus     = "Status"
	StatusClosed  = "Closed"
)

// IdentifierKeys are the keys a client may use for the record identifier.
var IdentifierKeys = []string{"ID", "id", "Id", "_id"}

// Record is one audit finding. Data holds every column of the imported
// sheet under its wire key.
type Record struct {
	ID         int64
	Category   Category
	Position   int
	Data       map[string]any
	UploadedAt time.Time
}

// Wire returns Data with the identifier and upload date added.
func (r *Record) Wire() map[string]any {
	out := make(map[string]any, len(r.Data)+2)
	for k, v := range r.Data {
		out[k] = v
	}
	out[KeyID] = fmt.Sprintf("%d", r.ID)
	if !r.UploadedAt.IsZero() {
		out[KeyUploadDate] = r.UploadedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// StripServerKeys removes the keys the server owns from data.
func StripServerKeys(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if isServerKey(k) {
			continue
		}
		out[k] = v
	}
	return out
}

func isServerKey(k string) bool {
	if k == KeyUploadDate || k == "UploadDate" {
		return true
	}
	for _, id := range IdentifierKeys {
		if k == id {
			return true
		}
	}
	return false
}
