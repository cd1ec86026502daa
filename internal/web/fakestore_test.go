package web

import (
	"context"
	"sync"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// fakeStore is a minimal in-memory core.Store for handler tests.
type fakeStore struct {
	mu         sync.Mutex
	nextID     int64
	rows       map[string][]core.Record
	facilities []core.Facility
	logs       []core.MaintenanceLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:       make(map[string][]core.Record),
		facilities: []core.Facility{{ID: 1, Name: "Main Building"}},
	}
}

func (f *fakeStore) List(_ context.Context, def core.KindDefinition) ([]core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Record, 0, len(f.rows[def.Info.Key]))
	for _, r := range f.rows[def.Info.Key] {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, def core.KindDefinition, id int64) (core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows[def.Info.Key] {
		if r.ID() == id {
			return r.Clone(), nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) Insert(ctx context.Context, def core.KindDefinition, rec core.Record) (core.Record, error) {
	out, err := f.InsertMany(ctx, def, []core.Record{rec})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (f *fakeStore) InsertMany(_ context.Context, def core.KindDefinition, recs []core.Record) ([]core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Record, 0, len(recs))
	for _, r := range recs {
		f.nextID++
		row := r.Clone()
		row[core.FieldID] = f.nextID
		if id, ok := row.Int("facility_id"); ok {
			for _, fac := range f.facilities {
				if fac.ID == id {
					row[core.FieldFacilityName] = fac.Name
				}
			}
		}
		f.rows[def.Info.Key] = append(f.rows[def.Info.Key], row)
		out = append(out, row.Clone())
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, def core.KindDefinition, id int64, fields core.Record) (core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows[def.Info.Key] {
		if r.ID() == id {
			for k, v := range fields {
				r[k] = v
			}
			return r.Clone(), nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) DeleteMany(_ context.Context, def core.KindDefinition, ids []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []core.Record
	var n int64
	for _, r := range f.rows[def.Info.Key] {
		if drop[r.ID()] {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows[def.Info.Key] = kept
	return n, nil
}

func (f *fakeStore) Facilities(context.Context) ([]core.Facility, error) {
	return f.facilities, nil
}

func (f *fakeStore) InsertMaintenanceLog(_ context.Context, log core.MaintenanceLog) (core.MaintenanceLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	log.ID = f.nextID
	f.logs = append(f.logs, log)
	return log, nil
}

func (f *fakeStore) ListMaintenanceLogs(_ context.Context, checklist string) ([]core.MaintenanceLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.MaintenanceLog
	for _, l := range f.logs {
		if l.Checklist == checklist {
			out = append(out, l)
		}
	}
	return out, nil
}
