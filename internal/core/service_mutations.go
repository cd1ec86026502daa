package core

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Create sanitizes body through the kind's schema, validates it, and inserts it.
func (s *Service) Create(ctx context.Context, kind string, body map[string]any) (Record, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}

	rec := Sanitize(def, body)
	if err := ValidateRecord(def, rec); err != nil {
		return nil, err
	}

	created, err := s.store.Insert(ctx, def, rec)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return created, nil
}

// BulkCreate inserts every body or none. Unlike Import, a single invalid
// entry fails the whole request, reported with its 1-based position.
func (s *Service) BulkCreate(ctx context.Context, kind string, bodies []map[string]any) ([]Record, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}

	recs := make([]Record, len(bodies))
	for i, body := range bodies {
		recs[i] = Sanitize(def, body)
		if err := ValidateRecord(def, recs[i]); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return s.insertMany(ctx, def, recs)
}

func (s *Service) insertMany(ctx context.Context, def KindDefinition, recs []Record) ([]Record, error) {
	if len(recs) == 0 {
		return []Record{}, nil
	}
	created, err := s.store.InsertMany(ctx, def, recs)
	if err != nil {
		return nil, fmt.Errorf("bulk create %s: %w", def.Info.Key, err)
	}
	return created, nil
}

// Update applies fields to the record. Only schema keys are kept, and the
// merged record must still satisfy the kind's rules.
func (s *Service) Update(ctx context.Context, kind string, id int64, fields map[string]any) (Record, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}

	changes := Sanitize(def, fields)
	if len(changes) == 0 {
		return s.Get(ctx, kind, id)
	}

	current, err := s.store.Get(ctx, def, id)
	if err != nil {
		return nil, fmt.Errorf("update %s %d: %w", kind, id, err)
	}
	merged := current.Clone()
	for k, v := range changes {
		merged[k] = v
	}
	if err := ValidateRecord(def, merged); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, def, id, changes)
	if err != nil {
		return nil, fmt.Errorf("update %s %d: %w", kind, id, err)
	}
	return updated, nil
}

// BulkDelete removes the given ids and returns how many rows went away.
// Ids that do not exist are ignored.
func (s *Service) BulkDelete(ctx context.Context, kind string, ids []int64) (int64, error) {
	def, err := MustGet(kind)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.store.DeleteMany(ctx, def, ids)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", kind, err)
	}
	return n, nil
}

// AttachImage validates a photo, writes it under the image directory, and
// points the record's image_url at it.
func (s *Service) AttachImage(ctx context.Context, kind string, id int64, fileName string, data []byte) (Record, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}
	if _, ok := def.Spec("image_url"); !ok {
		return nil, fmt.Errorf("%w: %s records have no image", ErrInvalidImage, kind)
	}
	if err := ValidateImageFile(fileName, data, s.maxImageSize); err != nil {
		return nil, err
	}
	if _, err := s.store.Get(ctx, def, id); err != nil {
		return nil, fmt.Errorf("attach image to %s %d: %w", kind, id, err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(fileName))
	dir := filepath.Join(s.imageDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("write image: %w", err)
	}

	url := path.Join(s.imageURLPrefix, kind, name)
	updated, err := s.store.Update(ctx, def, id, Record{"image_url": url})
	if err != nil {
		return nil, fmt.Errorf("attach image to %s %d: %w", kind, id, err)
	}
	return updated, nil
}
