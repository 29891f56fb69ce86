// Package models defines the client-side view of audit records, sessions and
// the user directory.
package models

import (
	"slices"
	"strings"
)

// Field is the wire key of a record attribute.
type Field string

const (
	FieldSN               Field = "SN"
	FieldLocation         Field = "Location"
	FieldDomainClauses    Field = "DomainClauses"
	FieldDateOfAudit      Field = "DateOfAudit"
	FieldReportDate       Field = "DateOfSubmission"
	FieldNCType           Field = "NCMinI"
	FieldObservation      Field = "ObservationDescription"
	FieldRootCause        Field = "RootCauseAnalysis"
	FieldCorrectiveAction Field = "CorrectiveAction"
	FieldPreventiveAction Field = "PreventiveAction"
	FieldResponsibility   Field = "Responsibility"
	FieldClosingDate      Field = "ClosingDates"
	FieldStatus           Field = "Status"
	FieldEvidence         Field = "Evidence"
)

// Fields lists the typed attributes in display order.
var Fields = []Field{
	FieldSN, FieldLocation, FieldDomainClauses, FieldDateOfAudit, FieldReportDate,
	FieldNCType, FieldObservation, FieldRootCause, FieldCorrectiveAction,
	FieldPreventiveAction, FieldResponsibility, FieldClosingDate, FieldStatus,
	FieldEvidence,
}

// ParseField matches name against the known fields case-insensitively.
func ParseField(name string) (Field, bool) {
	for _, f := range Fields {
		if strings.EqualFold(string(f), name) {
			return f, true
		}
	}
	return "", false
}

// Status is the lifecycle state of a finding.
type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

// ParseStatus accepts "open"/"closed" in any case.
func ParseStatus(s string) (Status, bool) {
	switch {
	case strings.EqualFold(s, string(StatusOpen)):
		return StatusOpen, true
	case strings.EqualFold(s, string(StatusClosed)):
		return StatusClosed, true
	}
	return "", false
}

// Handle is a local, load-scoped reference to a record. It is stable while
// the record stays in the store, unlike its position in a filtered view.
type Handle uint64

// Record is one audit finding.
type Record struct {
	Handle Handle

	// ID is the canonical identifier, empty when it could not be resolved.
	ID string
	// IDKey is the wire key the identifier was read from; it is written back
	// under the same key.
	IDKey string
	// IDConflict lists candidate keys that carried disagreeing identifiers.
	IDConflict []string

	SN               string
	Location         string
	DomainClauses    string
	DateOfAudit      string
	ReportDate       string
	NCType           string
	Observation      string
	RootCause        string
	CorrectiveAction string
	PreventiveAction string
	Responsibility   string
	ClosingDate      string
	Status           Status
	Evidence         string

	// Extra keeps keys the client does not model (upload timestamps, ...).
	Extra map[string]string
}

// EffectiveStatus treats an empty status as Open.
func (r Record) EffectiveStatus() Status {
	if r.Status == "" {
		return StatusOpen
	}
	return r.Status
}

func (r *Record) fieldPtr(f Field) *string {
	switch f {
	case FieldSN:
		return &r.SN
	case FieldLocation:
		return &r.Location
	case FieldDomainClauses:
		return &r.DomainClauses
	case FieldDateOfAudit:
		return &r.DateOfAudit
	case FieldReportDate:
		return &r.ReportDate
	case FieldNCType:
		return &r.NCType
	case FieldObservation:
		return &r.Observation
	case FieldRootCause:
		return &r.RootCause
	case FieldCorrectiveAction:
		return &r.CorrectiveAction
	case FieldPreventiveAction:
		return &r.PreventiveAction
	case FieldResponsibility:
		return &r.Responsibility
	case FieldClosingDate:
		return &r.ClosingDate
	case FieldEvidence:
		return &r.Evidence
	}
	return nil
}

// Get returns the value of f.
func (r Record) Get(f Field) string {
	if f == FieldStatus {
		return string(r.Status)
	}
	if p := r.fieldPtr(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns the value of f. Unknown fields are ignored and reported false.
func (r *Record) Set(f Field, value string) bool {
	if f == FieldStatus {
		r.Status = Status(value)
		return true
	}
	p := r.fieldPtr(f)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Values returns the string form of every attribute the record carries,
// identifier and extra keys included. Empty values are skipped.
func (r Record) Values() []string {
	values := make([]string, 0, len(Fields)+len(r.Extra)+1)
	if r.ID != "" {
		values = append(values, r.ID)
	}
	for _, f := range Fields {
		if v := r.Get(f); v != "" {
			values = append(values, v)
		}
	}
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if v := r.Extra[k]; v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	c := r
	c.IDConflict = slices.Clone(r.IDConflict)
	if r.Extra != nil {
		c.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	return c
}
