package core

// stockwatch.go runs a periodic sweep over every supply and keeps a summary
// of stock levels for the dashboard and the logs.
//
// The sweep is scheduled with robfig/cron, runs once on start, and then
// follows the configured schedule. A failed sweep is logged and the previous
// summary is kept.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultStockSchedule checks stock hourly.
const DefaultStockSchedule = "@every 1h"

// stockSweepTimeout bounds a single sweep.
const stockSweepTimeout = 2 * time.Minute

// StockAlert is a supply at or below its stocking point.
type StockAlert struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Quantity      int64    `json:"quantity"`
	StockingPoint int64    `json:"stocking_point"`
	Label         string   `json:"label"`
	Color         ColorKey `json:"color"`
}

// StockSummary is the result of one sweep.
type StockSummary struct {
	CheckedAt  time.Time    `json:"checked_at"`
	InStock    int          `json:"in_stock"`
	LowStock   int          `json:"low_stock"`
	OutOfStock int          `json:"out_of_stock"`
	Attention  []StockAlert `json:"attention"`
}

// SummarizeStock classifies every record of a stock kind.
func SummarizeStock(records []Record, def KindDefinition, at time.Time) StockSummary {
	sum := StockSummary{CheckedAt: at, Attention: []StockAlert{}}
	for _, rec := range records {
		q, _ := rec.Int(def.QuantityField)
		sp, _ := rec.Int(def.StockingPointField)
		st := ClassifyStock(q, sp)
		switch st.Label {
		case LabelInStock:
			sum.InStock++
			continue
		case LabelLowStock:
			sum.LowStock++
		case LabelOutOfStock:
			sum.OutOfStock++
		}
		sum.Attention = append(sum.Attention, StockAlert{
			ID:            rec.ID(),
			Name:          rec.Text(def.NameField),
			Quantity:      q,
			StockingPoint: sp,
			Label:         st.Label,
			Color:         st.Color,
		})
	}
	return sum
}

// CheckStock runs one sweep over every stock-carrying kind and stores the summary.
func (s *Service) CheckStock(ctx context.Context) (StockSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, stockSweepTimeout)
	defer cancel()

	summary := StockSummary{CheckedAt: s.now(), Attention: []StockAlert{}}
	for _, def := range All() {
		if !def.HasStock() {
			continue
		}
		records, err := s.store.List(ctx, def)
		if err != nil {
			return StockSummary{}, fmt.Errorf("stock check %s: %w", def.Info.Key, err)
		}
		part := SummarizeStock(records, def, summary.CheckedAt)
		summary.InStock += part.InStock
		summary.LowStock += part.LowStock
		summary.OutOfStock += part.OutOfStock
		summary.Attention = append(summary.Attention, part.Attention...)
	}

	s.stockMu.Lock()
	s.lastStock = &summary
	s.stockMu.Unlock()
	return summary, nil
}

// StockSummary returns the last sweep, or false before the first one finishes.
func (s *Service) StockSummary() (StockSummary, bool) {
	s.stockMu.RLock()
	defer s.stockMu.RUnlock()
	if s.lastStock == nil {
		return StockSummary{}, false
	}
	return *s.lastStock, true
}

// StockWatch schedules CheckStock.
type StockWatch struct {
	svc      *Service
	cron     *cron.Cron
	schedule string
}

// NewStockWatch creates a watcher for the given cron schedule. Standard
// five-field expressions and descriptors such as "@every 30m" are accepted.
func NewStockWatch(svc *Service, schedule string) *StockWatch {
	if schedule == "" {
		schedule = DefaultStockSchedule
	}
	return &StockWatch{svc: svc, cron: cron.New(), schedule: schedule}
}

// Start runs one sweep immediately and then schedules the rest.
// It returns an error only for an invalid schedule.
func (w *StockWatch) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.schedule, func() { w.run(ctx) }); err != nil {
		return fmt.Errorf("schedule stock watch %q: %w", w.schedule, err)
	}
	slog.Info("stock watch started", "schedule", w.schedule)

	go w.run(ctx)
	w.cron.Start()
	return nil
}

// Stop stops scheduling and waits for a running sweep to finish.
func (w *StockWatch) Stop() {
	<-w.cron.Stop().Done()
	slog.Info("stock watch stopped")
}

func (w *StockWatch) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()

	summary, err := w.svc.CheckStock(ctx)
	if err != nil {
		slog.Error("stock check failed", "error", err)
		return
	}

	for _, a := range summary.Attention {
		slog.Warn("supply needs restocking",
			"id", a.ID,
			"name", a.Name,
			"quantity", a.Quantity,
			"stocking_point", a.StockingPoint,
			"status", a.Label,
		)
	}
	slog.Info("stock check completed",
		"in_stock", summary.InStock,
		"low_stock", summary.LowStock,
		"out_of_stock", summary.OutOfStock,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
