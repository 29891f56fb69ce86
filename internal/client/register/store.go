package register

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
)

// Upload timestamp keys a server may stamp on imported rows.
var uploadDateKeys = []string{"lastUploadDate", "UploadDate"}

var uploadDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load fetches the active category and replaces the store with it. On
// failure the store and the view are emptied and a *LoadError is returned.
// ErrStale means a newer load or a category switch overtook this one.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.epoch++
	epoch, category := e.epoch, e.category
	e.mu.Unlock()

	records, err := e.backend.FetchRecords(ctx, category)

	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		e.reset(nil)
		e.mu.Unlock()
		e.log.Error(ctx, "load failed", "category", category, "error", err)
		e.notify(LevelError, "Failed to load audit data")
		return &LoadError{Category: category, Err: err}
	}
	e.reset(records)
	count := len(e.records)
	e.mu.Unlock()

	e.log.Info(ctx, "records loaded", "category", category, "count", count)
	return nil
}

// SetCategory switches the record set, discarding the store, and loads it.
func (e *Engine) SetCategory(ctx context.Context, c models.Category) error {
	e.mu.Lock()
	e.category = c
	e.epoch++
	e.reset(nil)
	e.mu.Unlock()
	return e.Load(ctx)
}

// LoadDirectory fetches the user directory. On failure the directory is
// emptied, the error is logged and a *DirectoryLoadError is returned; no
// notice is raised.
func (e *Engine) LoadDirectory(ctx context.Context) error {
	users, err := e.backend.FetchUsers(ctx)
	if err != nil {
		e.mu.Lock()
		e.directory = nil
		e.mu.Unlock()
		e.log.Warn(ctx, "user directory unavailable", "error", err)
		return &DirectoryLoadError{Err: err}
	}
	e.mu.Lock()
	e.directory = users
	e.mu.Unlock()
	return nil
}

// Directory returns the loaded user directory.
func (e *Engine) Directory() []models.DirectoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.directory)
}

// SetQuery changes the free-text query and re-derives the view.
func (e *Engine) SetQuery(q string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = q
	e.refresh()
}

// SetLocation changes the location facet. loc must be AllLocations or a
// location present in the store.
func (e *Engine) SetLocation(loc string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if loc == "" {
		loc = AllLocations
	}
	if !slices.Contains(e.locations, loc) {
		return ErrUnknownLocation
	}
	e.location = loc
	e.refresh()
	return nil
}

// Filter returns the current query and location facet.
func (e *Engine) Filter() (query, location string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query, e.location
}

// Locations returns the facet options, AllLocations first.
func (e *Engine) Locations() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.locations)
}

// LastUpload returns the most recent upload timestamp found on any row.
func (e *Engine) LastUpload() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUpload, !e.lastUpload.IsZero()
}

// Len returns the number of records in the store.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.records)
}

// Rows returns copies of the records in the current view.
func (e *Engine) Rows() []models.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Record, 0, len(e.view))
	for _, h := range e.view {
		out = append(out, e.records[e.index[h]].Clone())
	}
	return out
}

// Row returns a copy of the record at row of the current view.
func (e *Engine) Row(row int) (models.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, r, err := e.lookupRow(row)
	if err != nil {
		return models.Record{}, err
	}
	return r.Clone(), nil
}

// All returns copies of every record in the store, in store order.
func (e *Engine) All() []models.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Record, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r.Clone())
	}
	return out
}

// reset replaces the store with records and derives everything that
// depends on it. Must be called with e.mu held.
func (e *Engine) reset(records []models.Record) {
	e.records = make([]models.Record, 0, len(records))
	e.index = make(map[models.Handle]int, len(records))
	e.lastUpload = time.Time{}
	for _, r := range records {
		e.nextHandle++
		r = r.Clone()
		r.Handle = e.nextHandle
		e.index[r.Handle] = len(e.records)
		e.records = append(e.records, r)
		if t, ok := uploadTime(r); ok && t.After(e.lastUpload) {
			e.lastUpload = t
		}
	}
	e.seq = make(map[editKey]uint64)
	e.staged = make(map[models.Handle]string)

	e.locations = Locations(e.records)
	if !slices.Contains(e.locations, e.location) {
		e.location = AllLocations
	}
	e.refresh()
}

// refresh re-derives the view. Must be called with e.mu held.
func (e *Engine) refresh() {
	e.view = e.view[:0]
	q := strings.ToLower(e.query)
	for _, r := range e.records {
		if matches(r, q, e.location) {
			e.view = append(e.view, r.Handle)
		}
	}
}

// lookupRow resolves a view row. Must be called with e.mu held.
func (e *Engine) lookupRow(row int) (models.Handle, *models.Record, error) {
	if row < 0 || row >= len(e.view) {
		return 0, nil, ErrRowOutOfRange
	}
	h := e.view[row]
	return h, &e.records[e.index[h]], nil
}

// record returns the stored record of h, or nil once it is gone. Must be
// called with e.mu held.
func (e *Engine) record(h models.Handle) *models.Record {
	i, ok := e.index[h]
	if !ok {
		return nil
	}
	return &e.records[i]
}

func uploadTime(r models.Record) (time.Time, bool) {
	var latest time.Time
	for _, key := range uploadDateKeys {
		raw := r.Extra[key]
		if raw == "" {
			continue
		}
		for _, layout := range uploadDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				if t.After(latest) {
					latest = t
				}
				break
			}
		}
	}
	return latest, !latest.IsZero()
}

// IsStale reports whether err means the result was dropped because the
// register changed meanwhile.
func IsStale(err error) bool {
	return errors.Is(err, ErrStale)
}
