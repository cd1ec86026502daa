package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

var maintenanceColumns = []string{
	"id", "checklist", "equipment_id", "performed_by", "performed_at", "items", "remarks", "created_at",
}

// InsertMaintenanceLog stores a completed checklist. Item results are kept
// as a JSONB document.
func (p *Postgres) InsertMaintenanceLog(ctx context.Context, log core.MaintenanceLog) (core.MaintenanceLog, error) {
	items, err := json.Marshal(log.Items)
	if err != nil {
		return core.MaintenanceLog{}, fmt.Errorf("encode checklist items: %w", err)
	}

	sql, args, err := psql.Insert("maintenance_logs").
		Columns("checklist", "equipment_id", "performed_by", "performed_at", "items", "remarks").
		Values(log.Checklist, log.EquipmentID, log.PerformedBy, log.PerformedAt, items, log.Remarks).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return core.MaintenanceLog{}, fmt.Errorf("build maintenance insert: %w", err)
	}

	if err := p.db.QueryRow(ctx, sql, args...).Scan(&log.ID, &log.CreatedAt); err != nil {
		return core.MaintenanceLog{}, fmt.Errorf("insert maintenance log: %w", err)
	}
	return log, nil
}

// ListMaintenanceLogs returns the logs of one checklist, newest first.
func (p *Postgres) ListMaintenanceLogs(ctx context.Context, checklist string) ([]core.MaintenanceLog, error) {
	sql, args, err := psql.Select(maintenanceColumns...).
		From("maintenance_logs").
		Where("checklist = ?", checklist).
		OrderBy("performed_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build maintenance query: %w", err)
	}

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query maintenance logs: %w", err)
	}

	logs, err := pgx.CollectRows(rows, scanMaintenanceLog)
	if err != nil {
		return nil, fmt.Errorf("scan maintenance logs: %w", err)
	}
	return logs, nil
}

func scanMaintenanceLog(row pgx.CollectableRow) (core.MaintenanceLog, error) {
	var (
		log   core.MaintenanceLog
		items []byte
	)
	err := row.Scan(&log.ID, &log.Checklist, &log.EquipmentID, &log.PerformedBy,
		&log.PerformedAt, &items, &log.Remarks, &log.CreatedAt)
	if err != nil {
		return core.MaintenanceLog{}, err
	}
	if err := json.Unmarshal(items, &log.Items); err != nil {
		return core.MaintenanceLog{}, fmt.Errorf("decode checklist items: %w", err)
	}
	return log, nil
}
