package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/facilitydesk/internal/logging"
)

// Import parses a .csv or .xlsx file, drops rows that fail validation, and
// bulk-inserts the rest in one all-or-nothing call.
//
// A file without a header and a data row fails with a *MalformedInputError
// and nothing is written. When every row is rejected the result is returned
// together with ErrNoValidRows. Otherwise the result lists the rejected rows
// next to the inserted count.
//
// Returns ErrTooManyImports if no import slot frees up in time.
func (s *Service) Import(ctx context.Context, kind, fileName string, data []byte) (*ImportResult, error) {
	def, err := MustGet(kind)
	if err != nil {
		return nil, err
	}
	format, err := FormatFromFileName(fileName)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	start := time.Now()
	result := &ImportResult{
		ImportID: uuid.New().String(),
		Kind:     kind,
		FileName: fileName,
		Phase:    PhaseParsing,
	}
	log := logging.WithFields(ctx,
		"import_id", result.ImportID,
		"kind", kind,
		"file", fileName,
		"client_ip", ClientIPFromContext(ctx),
	)
	log.Info("import started", "format", format, "bytes", len(data))

	fail := func(err error) (*ImportResult, error) {
		result.Duration = time.Since(start)
		log.Warn("import failed", "phase", result.Phase, "error", err)
		return result, err
	}

	var rows []ParsedRow
	switch format {
	case FormatXLSX:
		rows, err = ParseWorkbook(data, def)
	default:
		rows, err = ParseRows(string(data), def)
	}
	if err != nil {
		return fail(fmt.Errorf("parse %s: %w", fileName, err))
	}
	result.Parsed = len(rows)

	result.Phase = PhaseValidating
	valid, rejected := ValidateBatch(def, rows)
	result.Rejected = rejected
	if len(valid) == 0 {
		return fail(fmt.Errorf("%s: %w", fileName, ErrNoValidRows))
	}

	result.Phase = PhaseInserting
	created, err := s.insertMany(ctx, def, valid)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("import exceeded %s: %w", s.importTimeout, err)
		}
		return fail(err)
	}

	result.Inserted = len(created)
	result.Phase = PhaseComplete
	result.Duration = time.Since(start)
	log.Info("import completed",
		"parsed", result.Parsed,
		"inserted", result.Inserted,
		"rejected", len(result.Rejected),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}
