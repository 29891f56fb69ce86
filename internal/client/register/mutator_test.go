package register

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, role models.Role, records ...models.Record) (*Engine, *fakeBackend, *recorder) {
	t.Helper()
	b := newFakeBackend(records...)
	e, n := newEngine(b, role)
	require.NoError(t, e.Load(context.Background()))
	n.reset()
	return e, b, n
}

func TestUpdateField_PersistsWholeRecord(t *testing.T) {
	r := rec("1", "Plant A", models.StatusOpen)
	r.Observation = "leak"
	e, b, n := loaded(t, models.RoleUser, r)

	require.NoError(t, e.UpdateField(context.Background(), 0, models.FieldRootCause, "worn gasket"))

	require.Len(t, b.persisted, 1)
	got := b.persisted[0]
	assert.Equal(t, models.CategoryInternal, got.category)
	assert.Equal(t, "worn gasket", got.record.RootCause)
	assert.Equal(t, "leak", got.record.Observation)
	assert.Equal(t, "1", got.record.ID)
	assert.Equal(t, "worn gasket", e.All()[0].RootCause)
	assert.Empty(t, n.levels())
}

func TestUpdateField_AddressesRecordThroughView(t *testing.T) {
	e, b, _ := loaded(t, models.RoleUser,
		rec("1", "Plant A", models.StatusOpen),
		rec("2", "Plant B", models.StatusOpen),
		rec("3", "Plant B", models.StatusOpen),
	)
	require.NoError(t, e.SetLocation("Plant B"))

	require.NoError(t, e.UpdateField(context.Background(), 1, models.FieldCorrectiveAction, "retrain"))

	assert.Equal(t, "3", b.persisted[0].record.ID)
	all := e.All()
	assert.Empty(t, all[0].CorrectiveAction)
	assert.Empty(t, all[1].CorrectiveAction)
	assert.Equal(t, "retrain", all[2].CorrectiveAction)
}

func TestUpdateField_FailureKeepsOptimisticValue(t *testing.T) {
	e, b, n := loaded(t, models.RoleUser,
		rec("1", "Plant A", models.StatusOpen),
		rec("2", "Plant B", models.StatusOpen),
	)
	before := e.All()
	b.persist = func(persistCall) error { return errBoom }

	err := e.UpdateField(context.Background(), 0, models.FieldResponsibility, "Acme (jdoe)")

	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, models.FieldResponsibility, saveErr.Field)

	after := e.All()
	require.Len(t, after, 2)
	assert.Equal(t, "Acme (jdoe)", after[0].Responsibility)
	after[0].Responsibility = ""
	assert.Equal(t, before, after)
	assert.Equal(t, []Level{LevelError}, n.levels())
}

func TestUpdateField_StatusEditKeepsFilterMembership(t *testing.T) {
	e, _, _ := loaded(t, models.RoleUser,
		rec("1", "Plant A", models.StatusOpen),
		rec("2", "Plant B", models.StatusOpen),
		rec("3", "Plant A", models.StatusOpen),
	)
	require.NoError(t, e.SetLocation("Plant A"))
	e.SetQuery("plant")
	require.Equal(t, []string{"1", "3"}, ids(e.Rows()))

	require.NoError(t, e.UpdateField(context.Background(), 1, models.FieldStatus, "Closed"))

	assert.Equal(t, []string{"1", "3"}, ids(e.Rows()))
	assert.Equal(t, models.StatusClosed, e.Rows()[1].Status)
}

func TestUpdateField_StatusEditRefiltersView(t *testing.T) {
	e, b, _ := loaded(t, models.RoleUser,
		rec("1", "Plant A", models.StatusOpen),
		rec("2", "Plant B", models.StatusOpen),
	)
	e.SetQuery("open")
	require.Equal(t, []string{"1", "2"}, ids(e.Rows()))

	require.NoError(t, e.UpdateField(context.Background(), 0, models.FieldStatus, "Closed"))

	assert.Equal(t, []string{"2"}, ids(e.Rows()))
	require.Len(t, b.persisted, 1)
	assert.Equal(t, models.StatusClosed, b.persisted[0].record.Status)
	assert.Equal(t, models.StatusClosed, e.All()[0].Status)
}

func TestUpdateField_StatusRules(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		current models.Status
		value   string
		wantErr error
		want    models.Status
	}{
		{name: "user closes open", role: models.RoleUser, current: models.StatusOpen, value: "closed", want: models.StatusClosed},
		{name: "user closes empty", role: models.RoleUser, current: "", value: "Closed", want: models.StatusClosed},
		{name: "user reopens closed", role: models.RoleUser, current: models.StatusClosed, value: "Open", wantErr: ErrStatusLocked},
		{name: "manager reopens closed", role: models.RoleManager, current: models.StatusClosed, value: "Open", wantErr: ErrStatusLocked},
		{name: "admin reopens closed", role: models.RoleAdmin, current: models.StatusClosed, value: "open", want: models.StatusOpen},
		{name: "invalid value", role: models.RoleAdmin, current: models.StatusOpen, value: "Pending", wantErr: ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, b, _ := loaded(t, tt.role, rec("1", "A", tt.current))

			err := e.UpdateField(context.Background(), 0, models.FieldStatus, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, b.persisted)
				assert.Equal(t, tt.current, e.All()[0].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.All()[0].Status)
		})
	}
}

func TestUpdateField_ClosedRecordTextStillEditable(t *testing.T) {
	e, b, _ := loaded(t, models.RoleUser, rec("1", "A", models.StatusClosed))

	assert.ErrorIs(t, e.UpdateField(context.Background(), 0, models.FieldStatus, "Open"), ErrStatusLocked)
	require.NoError(t, e.UpdateField(context.Background(), 0, models.FieldRootCause, "late calibration"))
	require.NoError(t, e.UpdateField(context.Background(), 0, models.FieldCorrectiveAction, "recalibrate"))

	assert.Len(t, b.persisted, 2)
	assert.Equal(t, models.StatusClosed, e.All()[0].Status)
}

func TestUpdateField_ReadOnlyFields(t *testing.T) {
	e, b, _ := loaded(t, models.RoleAdmin, rec("1", "A", ""))

	for _, f := range []models.Field{models.FieldSN, models.FieldLocation, models.FieldObservation, models.FieldNCType, "Bogus"} {
		assert.ErrorIs(t, e.UpdateField(context.Background(), 0, f, "x"), ErrFieldReadOnly, string(f))
	}
	assert.Empty(t, b.persisted)
	assert.True(t, Editable(models.FieldClosingDate))
	assert.False(t, Editable(models.FieldDateOfAudit))
}

func TestUpdateField_RowOutOfRange(t *testing.T) {
	e, _, _ := loaded(t, models.RoleUser, rec("1", "A", ""))
	assert.ErrorIs(t, e.UpdateField(context.Background(), 3, models.FieldRootCause, "x"), ErrRowOutOfRange)
}

func TestUpdateField_EvidenceOnlyClearedByAdmin(t *testing.T) {
	r := rec("1", "A", models.StatusClosed)
	r.Evidence = "a.pdf"

	e, _, _ := loaded(t, models.RoleManager, r)
	assert.ErrorIs(t, e.UpdateField(context.Background(), 0, models.FieldEvidence, ""), ErrForbidden)
	assert.ErrorIs(t, e.ClearEvidence(context.Background(), 0), ErrForbidden)

	e, _, _ = loaded(t, models.RoleAdmin, r)
	assert.ErrorIs(t, e.UpdateField(context.Background(), 0, models.FieldEvidence, "b.pdf"), ErrFieldReadOnly)
}

func TestClearEvidence_KeepsStatus(t *testing.T) {
	r := rec("1", "A", models.StatusClosed)
	r.Evidence = "a.pdf"
	e, b, _ := loaded(t, models.RoleAdmin, r)

	require.NoError(t, e.ClearEvidence(context.Background(), 0))

	got := e.All()[0]
	assert.Empty(t, got.Evidence)
	assert.Equal(t, models.StatusClosed, got.Status)
	require.Len(t, b.persisted, 1)
	assert.Empty(t, b.persisted[0].record.Evidence)
}

func TestUpdateField_SupersededFailureIsNotNotified(t *testing.T) {
	first := newGate()
	e, b, n := loaded(t, models.RoleUser, rec("1", "A", ""))
	calls := 0
	b.persist = func(c persistCall) error {
		calls++
		if calls == 1 {
			return first.wait()
		}
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- e.UpdateField(context.Background(), 0, models.FieldRootCause, "first") }()
	<-first.entered

	require.NoError(t, e.UpdateField(context.Background(), 0, models.FieldRootCause, "second"))
	first.release <- errBoom

	var saveErr *SaveError
	assert.ErrorAs(t, <-done, &saveErr)
	assert.Empty(t, n.levels())
	assert.Equal(t, "second", e.All()[0].RootCause)
}

func TestUpdateField_OtherFieldDoesNotSupersede(t *testing.T) {
	first := newGate()
	e, b, n := loaded(t, models.RoleUser, rec("1", "A", ""))
	calls := 0
	b.persist = func(c persistCall) error {
		calls++
		if calls == 1 {
			return first.wait()
		}
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- e.UpdateField(context.Background(), 0, models.FieldRootCause, "first") }()
	<-first.entered

	require.NoError(t, e.UpdateField(context.Background(), 0, models.FieldClosingDate, "2025-06-30"))
	first.release <- errBoom

	assert.Error(t, <-done)
	assert.Equal(t, []Level{LevelError}, n.levels())
}

func TestUpdateField_StaleFailureAfterReloadIsNotNotified(t *testing.T) {
	g := newGate()
	e, b, n := loaded(t, models.RoleUser, rec("1", "A", ""))
	b.persist = func(persistCall) error { return g.wait() }

	done := make(chan error, 1)
	go func() { done <- e.UpdateField(context.Background(), 0, models.FieldRootCause, "x") }()
	<-g.entered

	require.NoError(t, e.Load(context.Background()))
	g.release <- errBoom

	assert.Error(t, <-done)
	assert.Empty(t, n.levels())
}

func TestUpdateField_QueriesProceedWhileSaving(t *testing.T) {
	g := newGate()
	e, b, _ := loaded(t, models.RoleUser, rec("1", "Plant A", ""), rec("2", "Plant B", ""))
	b.persist = func(persistCall) error { return g.wait() }

	done := make(chan error, 1)
	go func() { done <- e.UpdateField(context.Background(), 0, models.FieldRootCause, "x") }()
	<-g.entered

	e.SetQuery("plant b")
	assert.Equal(t, []string{"2"}, ids(e.Rows()))
	assert.Equal(t, "x", e.All()[0].RootCause)

	g.release <- nil
	assert.NoError(t, <-done)
}
