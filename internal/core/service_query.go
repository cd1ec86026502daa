package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// FileFormat is an import/export file format.
type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatXLSX FileFormat = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" (case-insensitive, optional dot).
func ParseFormat(s string) (FileFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// FormatFromFileName picks the format from a file extension.
func FormatFromFileName(name string) (FileFormat, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, name)
	}
	return ParseFormat(ext)
}

// PageResult is one page of decorated records.
type PageResult struct {
	Rows       []Record `json:"rows"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// List returns every stored record of kind that matches p, in store order.
func (s *Service) List(ctx context.Context, kind string, p Predicates) ([]Record, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}
	records, err := s.store.List(ctx, def)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return Filter(records, def, p), nil
}

// Page filters, then returns the requested 1-based page with stock and status
// badges attached. The page number is not clamped.
func (s *Service) Page(ctx context.Context, kind string, p Predicates, page, size int) (*PageResult, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	records, err := s.List(ctx, kind, p)
	if err != nil {
		return nil, err
	}

	window := Paginate(records, page, size)
	rows := make([]Record, len(window))
	for i, rec := range window {
		rows[i] = Decorate(rec, def)
	}

	return &PageResult{
		Rows:       rows,
		Total:      len(records),
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(records), size),
	}, nil
}

// Get returns one record by id.
func (s *Service) Get(ctx context.Context, kind string, id int64) (Record, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, def, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", kind, id, err)
	}
	return rec, nil
}

// Export renders the filtered records of kind as CSV or a workbook.
// The file name is {kind}_export_{YYYY-MM-DD}.{ext}.
func (s *Service) Export(ctx context.Context, kind string, format FileFormat, p Predicates) (*ExportFile, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}
	records, err := s.List(ctx, kind, p)
	if err != nil {
		return nil, err
	}

	out := &ExportFile{
		FileName: fmt.Sprintf("%s_export_%s.%s", kind, s.now().Format("2006-01-02"), format),
	}
	switch format {
	case FormatCSV:
		out.ContentType = "text/csv; charset=utf-8"
		out.Data = []byte(Serialize(records, def))
	case FormatXLSX:
		out.ContentType = WorkbookContentType
		out.Data, err = SerializeWorkbook(records, def)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", kind, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return out, nil
}

// Template returns a header-only CSV for kind.
func (s *Service) Template(kind string) (*ExportFile, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		FileName:    kind + "_template.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte(Template(def)),
	}, nil
}
