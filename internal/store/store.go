// Package store implements core.Store on PostgreSQL using pgx and squirrel.
//
// Each record kind maps to a table named after its kind key whose columns are
// the kind's canonical field keys. Reads join facilities so every row carries
// facility_name alongside facility_id.
package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// Querier is the subset of pgxpool.Pool and pgx.Tx the store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Postgres is the production store.
type Postgres struct {
	db Querier
}

var _ core.Store = (*Postgres)(nil)

// New returns a store backed by db (normally a *pgxpool.Pool).
func New(db Querier) *Postgres {
	return &Postgres{db: db}
}

// List returns every row of the kind ordered by id.
func (p *Postgres) List(ctx context.Context, def core.KindDefinition) ([]core.Record, error) {
	return queryRecords(ctx, p.db, selectRecords(def))
}

// Get returns one row or core.ErrNotFound.
func (p *Postgres) Get(ctx context.Context, def core.KindDefinition, id int64) (core.Record, error) {
	return getRecord(ctx, p.db, def, id)
}

// Insert writes one record and returns it as stored.
func (p *Postgres) Insert(ctx context.Context, def core.KindDefinition, rec core.Record) (core.Record, error) {
	id, err := insertRecord(ctx, p.db, def, rec)
	if err != nil {
		return nil, err
	}
	return getRecord(ctx, p.db, def, id)
}

// InsertMany writes all records in one transaction.
func (p *Postgres) InsertMany(ctx context.Context, def core.KindDefinition, recs []core.Record) ([]core.Record, error) {
	if len(recs) == 0 {
		return []core.Record{}, nil
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ids := make([]int64, 0, len(recs))
	for i, rec := range recs {
		id, err := insertRecord(ctx, tx, def, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}

	created, err := queryRecords(ctx, tx, selectRecords(def).Where("t.id = ANY(?)", ids))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return created, nil
}

// Update sets the given columns and returns the updated row.
func (p *Postgres) Update(ctx context.Context, def core.KindDefinition, id int64, fields core.Record) (core.Record, error) {
	q, ok := updateRecord(def, id, fields)
	if !ok {
		return getRecord(ctx, p.db, def, id)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var updated int64
	if err := p.db.QueryRow(ctx, sql, args...).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", def.Info.Key, id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("update %s: %w", def.Info.Key, err)
	}
	return getRecord(ctx, p.db, def, updated)
}

// DeleteMany removes the rows with the given ids and reports how many existed.
func (p *Postgres) DeleteMany(ctx context.Context, def core.KindDefinition, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sql, args, err := deleteRecords(def, ids).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := p.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", def.Info.Key, err)
	}
	return tag.RowsAffected(), nil
}

// Facilities returns the facility lookup ordered by id.
func (p *Postgres) Facilities(ctx context.Context) ([]core.Facility, error) {
	sql, args, err := psql.Select("id", "name").From("facilities").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build facilities query: %w", err)
	}

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query facilities: %w", err)
	}

	facilities, err := pgx.CollectRows(rows, pgx.RowToStructByPos[core.Facility])
	if err != nil {
		return nil, fmt.Errorf("scan facilities: %w", err)
	}
	return facilities, nil
}

func getRecord(ctx context.Context, q Querier, def core.KindDefinition, id int64) (core.Record, error) {
	recs, err := queryRecords(ctx, q, selectRecords(def).Where(sq.Eq{"t.id": id}))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s %d: %w", def.Info.Key, id, core.ErrNotFound)
	}
	return recs[0], nil
}

func insertRecord(ctx context.Context, q Querier, def core.KindDefinition, rec core.Record) (int64, error) {
	sql, args, err := insertQuery(def, rec).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", def.Info.Key, err)
	}
	return id, nil
}

// queryRecords runs a select and turns each row into a Record keyed by
// column name. NULL columns are left out of the record.
func queryRecords(ctx context.Context, q Querier, b sq.SelectBuilder) ([]core.Record, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	recs := []core.Record{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, recordFromValues(fields, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return recs, nil
}

func recordFromValues(fields []pgconn.FieldDescription, values []any) core.Record {
	rec := make(core.Record, len(fields))
	for i, f := range fields {
		if values[i] == nil {
			continue
		}
		switch v := values[i].(type) {
		case int32:
			rec[f.Name] = int64(v)
		default:
			rec[f.Name] = v
		}
	}
	return rec
}
