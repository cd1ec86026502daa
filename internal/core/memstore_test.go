package core_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// memStore is an in-memory core.Store for service tests.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	rows       map[string][]core.Record
	facilities []core.Facility
	logs       []core.MaintenanceLog

	insertManyCalls [][]core.Record
	facilityCalls   int
	failInsert      error
}

func newMemStore(facilities ...core.Facility) *memStore {
	return &memStore{rows: make(map[string][]core.Record), facilities: facilities}
}

func (m *memStore) facilityName(rec core.Record) {
	id, ok := rec.Int("facility_id")
	if !ok {
		return
	}
	for _, f := range m.facilities {
		if f.ID == id {
			rec[core.FieldFacilityName] = f.Name
		}
	}
}

func (m *memStore) List(_ context.Context, def core.KindDefinition) ([]core.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Record, len(m.rows[def.Info.Key]))
	for i, r := range m.rows[def.Info.Key] {
		out[i] = r.Clone()
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, def core.KindDefinition, id int64) (core.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows[def.Info.Key] {
		if r.ID() == id {
			return r.Clone(), nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memStore) Insert(ctx context.Context, def core.KindDefinition, rec core.Record) (core.Record, error) {
	out, err := m.InsertMany(ctx, def, []core.Record{rec})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (m *memStore) InsertMany(_ context.Context, def core.KindDefinition, recs []core.Record) ([]core.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertManyCalls = append(m.insertManyCalls, recs)
	if m.failInsert != nil {
		return nil, m.failInsert
	}
	out := make([]core.Record, len(recs))
	for i, r := range recs {
		m.nextID++
		row := r.Clone()
		row[core.FieldID] = m.nextID
		row[core.FieldCreatedAt] = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		m.facilityName(row)
		m.rows[def.Info.Key] = append(m.rows[def.Info.Key], row)
		out[i] = row.Clone()
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, def core.KindDefinition, id int64, fields core.Record) (core.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows[def.Info.Key] {
		if r.ID() == id {
			for k, v := range fields {
				r[k] = v
			}
			m.facilityName(r)
			return r.Clone(), nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memStore) DeleteMany(_ context.Context, def core.KindDefinition, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []core.Record
	var n int64
	for _, r := range m.rows[def.Info.Key] {
		if drop[r.ID()] {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows[def.Info.Key] = kept
	return n, nil
}

func (m *memStore) Facilities(context.Context) ([]core.Facility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facilityCalls++
	return append([]core.Facility(nil), m.facilities...), nil
}

func (m *memStore) InsertMaintenanceLog(_ context.Context, log core.MaintenanceLog) (core.MaintenanceLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	log.ID = m.nextID
	log.CreatedAt = log.PerformedAt
	m.logs = append(m.logs, log)
	return log, nil
}

func (m *memStore) ListMaintenanceLogs(_ context.Context, checklist string) ([]core.MaintenanceLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.MaintenanceLog
	for _, l := range m.logs {
		if l.Checklist == checklist {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt.After(out[j].PerformedAt) })
	return out, nil
}

// seed inserts records directly, bypassing validation.
func (m *memStore) seed(kind string, recs ...core.Record) {
	def, ok := core.Get(kind)
	if !ok {
		panic(fmt.Sprintf("unknown kind %s", kind))
	}
	if _, err := m.InsertMany(context.Background(), def, recs); err != nil {
		panic(err)
	}
	m.insertManyCalls = nil
}

// memCache is a core.FacilityCache backed by a slice.
type memCache struct {
	facilities []core.Facility
	ok         bool
}

func (c *memCache) GetFacilities(context.Context) ([]core.Facility, bool) {
	return c.facilities, c.ok
}

func (c *memCache) SetFacilities(_ context.Context, f []core.Facility) error {
	c.facilities, c.ok = f, true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.facilities, c.ok = nil, false
	return nil
}
