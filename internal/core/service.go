package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/JonMunkholm/facilitydesk/internal/logging"
)

// DefaultImportTimeout is the maximum duration for one import, from parse to insert.
const DefaultImportTimeout = 5 * time.Minute

// Service wires the tabular pipeline to the record store.
type Service struct {
	store   Store
	cache   FacilityCache
	limiter *ImportLimiter

	importTimeout time.Duration

	imageDir       string
	imageURLPrefix string
	maxImageSize   int64

	stockMu   sync.RWMutex
	lastStock *StockSummary

	now func() time.Time
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Cache   FacilityCache  // nil disables facility caching
	Limiter *ImportLimiter // nil uses NewImportLimiter(0, 0)

	ImportTimeout time.Duration

	ImageDir       string // where AttachImage writes photos
	ImageURLPrefix string // public prefix stored in image_url
	MaxImageSize   int64
}

// NewService creates a Service over store.
func NewService(store Store, opts Options) *Service {
	if opts.Cache == nil {
		opts.Cache = NoopCache{}
	}
	if opts.Limiter == nil {
		opts.Limiter = NewImportLimiter(0, 0)
	}
	if opts.ImportTimeout <= 0 {
		opts.ImportTimeout = DefaultImportTimeout
	}
	if opts.ImageDir == "" {
		opts.ImageDir = filepath.Join("data", "images")
	}
	if opts.ImageURLPrefix == "" {
		opts.ImageURLPrefix = "/images"
	}

	return &Service{
		store:          store,
		cache:          opts.Cache,
		limiter:        opts.Limiter,
		importTimeout:  opts.ImportTimeout,
		imageDir:       opts.ImageDir,
		imageURLPrefix: opts.ImageURLPrefix,
		maxImageSize:   opts.MaxImageSize,
		now:            time.Now,
	}
}

// Limiter exposes the import limiter for health reporting and shutdown.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// Kinds returns information about all registered record kinds.
func (s *Service) Kinds() []KindInfo {
	defs := All()
	infos := make([]KindInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
		infos[i].Aliases = Aliases(def.Info.Key)
	}
	return infos
}

// Facilities returns the facility lookup, served from the cache when warm.
// A cache write failure is logged and otherwise ignored.
func (s *Service) Facilities(ctx context.Context) ([]Facility, error) {
	if cached, ok := s.cache.GetFacilities(ctx); ok {
		return cached, nil
	}

	facilities, err := s.store.Facilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}

	if err := s.cache.SetFacilities(ctx, facilities); err != nil {
		logging.FromContext(ctx).Warn("facility cache write failed", "error", err)
	}
	return facilities, nil
}

// RefreshFacilities drops the cached lookup and reloads it from the store.
// Facilities are maintained outside this service, so an operator calls this
// after editing them.
func (s *Service) RefreshFacilities(ctx context.Context) ([]Facility, error) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warn("facility cache invalidate failed", "error", err)
	}
	return s.Facilities(ctx)
}

// NoopCache is a FacilityCache that never holds anything.
type NoopCache struct{}

func (NoopCache) GetFacilities(context.Context) ([]Facility, bool) { return nil, false }
func (NoopCache) SetFacilities(context.Context, []Facility) error { return nil }
func (NoopCache) Invalidate(context.Context) error                { return nil }
