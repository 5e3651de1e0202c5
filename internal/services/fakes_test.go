package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"inspection-system/internal/entities"
	"inspection-system/internal/report"
	"inspection-system/internal/repositories"
	apperrors "inspection-system/pkg/errors"
	"inspection-system/pkg/eventbus"
	"inspection-system/pkg/types"
	"inspection-system/pkg/utils"
)

func adminCtx() context.Context {
	return utils.WithActor(context.Background(), utils.Actor{UserID: "admin-1", Role: entities.RoleAdmin})
}

func employeeCtx(id string) context.Context {
	return utils.WithActor(context.Background(), utils.Actor{UserID: id, Role: entities.RoleEmployee})
}

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// fakeServiceRepo keeps services in memory with the same copy semantics as
// a database round trip.
type fakeServiceRepo struct {
	mu        sync.Mutex
	services  map[string]*entities.Service
	vehicles  *fakeVehicleRepo
	seq       int
	linkErr   error
	linkCalls int
}

func newFakeServiceRepo(vehicles *fakeVehicleRepo) *fakeServiceRepo {
	return &fakeServiceRepo{services: map[string]*entities.Service{}, vehicles: vehicles}
}

func (r *fakeServiceRepo) put(svc entities.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[svc.ID] = &svc
}

func (r *fakeServiceRepo) Create(ctx context.Context, s entities.Service) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	s.ID = fmt.Sprintf("svc-%d", r.seq)
	s.Status = entities.ServiceDraft
	s.CreatedAt = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	r.services[s.ID] = &s
	return s.ID, nil
}

func (r *fakeServiceRepo) FindByID(ctx context.Context, id string) (*entities.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *s
	out.ChecklistData.Answers = s.ChecklistData.Answers.Clone()
	if s.ChecklistData.Meta != nil {
		meta := *s.ChecklistData.Meta
		out.ChecklistData.Meta = &meta
	}
	if r.vehicles != nil && s.VehicleID.Valid {
		if v, err := r.vehicles.FindByID(ctx, s.VehicleID.String); err == nil {
			out.Vehicle = v
		}
	}
	return &out, nil
}

func (r *fakeServiceRepo) GetAll(ctx context.Context, filter types.Filter, employeeID string) ([]*entities.Service, uint64, error) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.services))
	for id, s := range r.services {
		if employeeID == "" || s.EmployeeID.String == employeeID {
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()

	out := make([]*entities.Service, 0, len(ids))
	for _, id := range ids {
		s, _ := r.FindByID(ctx, id)
		out = append(out, s)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeServiceRepo) SaveAnswers(ctx context.Context, tx pgx.Tx, id string, answers entities.Answers) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.ChecklistData.Answers = answers.Clone()
	return nil
}

func (r *fakeServiceRepo) Finalize(ctx context.Context, tx pgx.Tx, id string, answers entities.Answers, observations null.String) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.ChecklistData.Answers = answers.Clone()
	s.Observations = observations
	s.Status = entities.ServiceFinalized
	return nil
}

func (r *fakeServiceRepo) LinkReport(ctx context.Context, id, handle string, meta *entities.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.linkCalls++
	if r.linkErr != nil {
		return r.linkErr
	}
	s, ok := r.services[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.PdfURL = null.StringFrom(handle)
	if meta != nil {
		m := *meta
		s.ChecklistData.Meta = &m
	}
	return nil
}

func (r *fakeServiceRepo) Delete(ctx context.Context, id string) (null.String, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return null.String{}, apperrors.ErrNotFound
	}
	delete(r.services, id)
	return s.PdfURL, nil
}

func (r *fakeServiceRepo) get(id string) entities.Service {
	s, _ := r.FindByID(context.Background(), id)
	return *s
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[string]entities.Vehicle
}

func (r *fakeVehicleRepo) FindByID(ctx context.Context, id string) (*entities.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &v, nil
}

func (r *fakeVehicleRepo) UpdateKm(ctx context.Context, tx pgx.Tx, id string, km int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	v.KmCurrent = null.IntFrom(km)
	r.vehicles[id] = v
	return nil
}

type fakeChecklistRepo struct {
	mu       sync.Mutex
	sections []entities.ChecklistSection
	items    []entities.ChecklistItem
	seq      int
	lists    int
}

func (r *fakeChecklistRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *fakeChecklistRepo) ListSections(ctx context.Context) ([]entities.ChecklistSection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return append([]entities.ChecklistSection(nil), r.sections...), nil
}

func (r *fakeChecklistRepo) ListItems(ctx context.Context) ([]entities.ChecklistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.ChecklistItem(nil), r.items...), nil
}

func (r *fakeChecklistRepo) FindSection(ctx context.Context, id string) (*entities.ChecklistSection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sections {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeChecklistRepo) CreateSection(ctx context.Context, tx pgx.Tx, s entities.ChecklistSection) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID("sec")
	r.sections = append(r.sections, s)
	return s.ID, nil
}

func (r *fakeChecklistRepo) UpdateSection(ctx context.Context, s entities.ChecklistSection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sections {
		if r.sections[i].ID == s.ID {
			r.sections[i] = s
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeChecklistRepo) DeleteSection(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sections[:0]
	found := false
	for _, s := range r.sections {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return apperrors.ErrNotFound
	}
	r.sections = kept
	items := r.items[:0]
	for _, item := range r.items {
		if item.SectionID != id {
			items = append(items, item)
		}
	}
	r.items = items
	return nil
}

func (r *fakeChecklistRepo) FindItem(ctx context.Context, id string) (*entities.ChecklistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeChecklistRepo) CreateItem(ctx context.Context, tx pgx.Tx, item entities.ChecklistItem) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = r.nextID("item")
	r.items = append(r.items, item)
	return item.ID, nil
}

func (r *fakeChecklistRepo) UpdateItem(ctx context.Context, item entities.ChecklistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = item
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeChecklistRepo) DeleteItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeChecklistRepo) DeleteAll(ctx context.Context, tx pgx.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections = nil
	r.items = nil
	return nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	default:
		c.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	var n int64
	_, _ = fmt.Sscan(c.data[key], &n)
	n++
	c.data[key] = fmt.Sprint(n)
	return n, nil
}

// MockStorage is a testify double for filestorage.FileStorageInterface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, handle string) ([]byte, error) {
	args := m.Called(ctx, handle)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, handle string) error {
	return m.Called(ctx, handle).Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, handle string) (bool, error) {
	args := m.Called(ctx, handle)
	return args.Bool(0), args.Error(1)
}

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	pdf   []byte
	err   error
	last  report.Document
}

func (r *fakeRenderer) Render(ctx context.Context, doc report.Document) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = doc
	if r.err != nil {
		return nil, r.err
	}
	return r.pdf, nil
}

type recordingPublisher struct {
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event eventbus.Event) {
	p.events = append(p.events, event)
}

func nullString(s string) null.String { return null.StringFrom(s) }
