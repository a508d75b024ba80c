package repository

import (
	"context"
	"sync"

	"github.com/templui/carepledge/internal/model"
)

// memoryTable is an insertion-ordered slice guarded by its own lock. Rows
// are stored and returned by value so callers never share memory with the
// table.
type memoryTable[T any] struct {
	mu   sync.RWMutex
	rows []T
	key  func(*T) string
}

func newMemoryTable[T any](key func(*T) string) *memoryTable[T] {
	return &memoryTable[T]{key: key}
}

func (t *memoryTable[T]) insert(row T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = append(t.rows, row)
}

func (t *memoryTable[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.rows {
		if t.key(&t.rows[i]) == id {
			return t.rows[i], true
		}
	}
	var zero T
	return zero, false
}

func (t *memoryTable[T]) replace(row T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.key(&row)
	for i := range t.rows {
		if t.key(&t.rows[i]) == id {
			t.rows[i] = row
			return true
		}
	}
	return false
}

func (t *memoryTable[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

type memoryGoalRepository struct {
	table *memoryTable[model.Goal]
}

func NewMemoryGoalRepository() GoalRepository {
	return &memoryGoalRepository{table: newMemoryTable(func(g *model.Goal) string { return g.ID })}
}

func (r *memoryGoalRepository) Create(_ context.Context, goal *model.Goal) error {
	r.table.insert(*goal)
	return nil
}

func (r *memoryGoalRepository) ByID(_ context.Context, id string) (*model.Goal, error) {
	goal, ok := r.table.get(id)
	if !ok {
		return nil, ErrGoalNotFound
	}
	return &goal, nil
}

func (r *memoryGoalRepository) Goals(_ context.Context) ([]*model.Goal, error) {
	return pointers(r.table.all()), nil
}

func (r *memoryGoalRepository) Update(_ context.Context, goal *model.Goal) error {
	if !r.table.replace(*goal) {
		return ErrGoalNotFound
	}
	return nil
}

type memoryPledgeRepository struct {
	table *memoryTable[model.Pledge]
}

func NewMemoryPledgeRepository() PledgeRepository {
	return &memoryPledgeRepository{table: newMemoryTable(func(p *model.Pledge) string { return p.ID })}
}

func (r *memoryPledgeRepository) Create(_ context.Context, pledge *model.Pledge) error {
	r.table.insert(*pledge)
	return nil
}

func (r *memoryPledgeRepository) ByID(_ context.Context, id string) (*model.Pledge, error) {
	pledge, ok := r.table.get(id)
	if !ok {
		return nil, ErrPledgeNotFound
	}
	return &pledge, nil
}

func (r *memoryPledgeRepository) Pledges(_ context.Context) ([]*model.Pledge, error) {
	return pointers(r.table.all()), nil
}

func (r *memoryPledgeRepository) Update(_ context.Context, pledge *model.Pledge) error {
	if !r.table.replace(*pledge) {
		return ErrPledgeNotFound
	}
	return nil
}

type memoryPatientRepository struct {
	table *memoryTable[model.Patient]
}

func NewMemoryPatientRepository() PatientRepository {
	return &memoryPatientRepository{table: newMemoryTable(func(p *model.Patient) string { return p.ID })}
}

func (r *memoryPatientRepository) Create(_ context.Context, patient *model.Patient) error {
	if _, exists := r.table.get(patient.ID); exists {
		return ErrDuplicatePatient
	}
	r.table.insert(*patient)
	return nil
}

func (r *memoryPatientRepository) Patients(_ context.Context) ([]model.Patient, error) {
	return r.table.all(), nil
}

func (r *memoryPatientRepository) Update(_ context.Context, patient *model.Patient) error {
	if !r.table.replace(*patient) {
		return ErrPatientNotFound
	}
	return nil
}

// memoryCollection backs the append-and-list repositories.
type memoryCollection[T any] struct {
	table *memoryTable[T]
}

func newMemoryCollection[T any]() *memoryCollection[T] {
	return &memoryCollection[T]{table: newMemoryTable(func(*T) string { return "" })}
}

func (c *memoryCollection[T]) Create(_ context.Context, row *T) error {
	c.table.insert(*row)
	return nil
}

func (c *memoryCollection[T]) list() ([]T, error) {
	return c.table.all(), nil
}

type memoryStaffRepository struct{ *memoryCollection[model.Staff] }

func (r memoryStaffRepository) Staff(context.Context) ([]model.Staff, error) { return r.list() }

type memoryAlertRepository struct{ *memoryCollection[model.Alert] }

func (r memoryAlertRepository) Alerts(context.Context) ([]model.Alert, error) { return r.list() }

type memoryTipRepository struct{ *memoryCollection[model.Tip] }

func (r memoryTipRepository) Tips(context.Context) ([]model.Tip, error) { return r.list() }

type memoryAppointmentRepository struct {
	*memoryCollection[model.Appointment]
}

func (r memoryAppointmentRepository) Appointments(context.Context) ([]model.Appointment, error) {
	return r.list()
}

type memoryRatingRepository struct{ *memoryCollection[model.Rating] }

func (r memoryRatingRepository) Ratings(context.Context) ([]model.Rating, error) { return r.list() }

type memoryLedgerRepository struct{ *memoryCollection[model.LedgerEntry] }

func (r memoryLedgerRepository) Record(ctx context.Context, entry *model.LedgerEntry) error {
	prepareEntry(entry)
	return r.Create(ctx, entry)
}

func (r memoryLedgerRepository) Entries(context.Context) ([]model.LedgerEntry, error) {
	return r.list()
}
