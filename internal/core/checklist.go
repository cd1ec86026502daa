package core

// checklist.go holds the preventive-maintenance checklists and validates the
// logs staff submit against them.

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/JonMunkholm/facilitydesk/internal/logging"
)

// ErrChecklistNotFound is returned for an unknown checklist key.
var ErrChecklistNotFound = errors.New("checklist not found")

// ErrInvalidChecklist wraps every maintenance log validation failure.
var ErrInvalidChecklist = errors.New("invalid checklist")

// Item statuses a technician can record.
const (
	ItemOK             = "ok"
	ItemNeedsAttention = "needs_attention"
	ItemNotApplicable  = "not_applicable"
)

// ChecklistItem is one line of a checklist template.
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Checklist is a fixed maintenance template.
type Checklist struct {
	Key   string          `json:"key"`
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

var checklists = map[string]Checklist{
	"aircon": {
		Key:   "aircon",
		Title: "Air Conditioner Preventive Maintenance",
		Items: []ChecklistItem{
			{ID: "filter_cleaned", Label: "Air filter cleaned or replaced"},
			{ID: "coil_inspected", Label: "Evaporator and condenser coils inspected"},
			{ID: "drain_clear", Label: "Condensate drain line clear"},
			{ID: "refrigerant_checked", Label: "Refrigerant level checked"},
			{ID: "electrical_checked", Label: "Electrical connections tightened"},
			{ID: "thermostat_tested", Label: "Thermostat operation tested"},
			{ID: "noise_vibration", Label: "No abnormal noise or vibration"},
		},
	},
	"computer": {
		Key:   "computer",
		Title: "Computer Preventive Maintenance",
		Items: []ChecklistItem{
			{ID: "dust_removed", Label: "Dust removed from case and fans"},
			{ID: "cables_checked", Label: "Power and peripheral cables checked"},
			{ID: "os_updated", Label: "Operating system updates applied"},
			{ID: "antivirus_updated", Label: "Antivirus definitions updated"},
			{ID: "disk_checked", Label: "Disk health and free space checked"},
			{ID: "backup_verified", Label: "Backup verified"},
			{ID: "peripherals_tested", Label: "Keyboard, mouse and display tested"},
		},
	},
}

// Checklists returns every template sorted by key.
func Checklists() []Checklist {
	out := make([]Checklist, 0, len(checklists))
	for _, c := range checklists {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// GetChecklist returns a template by key.
func GetChecklist(key string) (Checklist, error) {
	c, ok := checklists[key]
	if !ok {
		return Checklist{}, fmt.Errorf("%w: %s", ErrChecklistNotFound, key)
	}
	return c, nil
}

// ItemResult is the answer for one checklist item.
type ItemResult struct {
	Status  string `json:"status" validate:"required,oneof=ok needs_attention not_applicable"`
	Remarks string `json:"remarks,omitempty" validate:"max=500"`
}

// MaintenanceLog is a completed checklist.
type MaintenanceLog struct {
	ID          int64                 `json:"id"`
	Checklist   string                `json:"checklist" validate:"required"`
	EquipmentID *int64                `json:"equipment_id,omitempty" validate:"omitempty,gt=0"`
	PerformedBy string                `json:"performed_by" validate:"required,max=120"`
	PerformedAt time.Time             `json:"performed_at"`
	Items       map[string]ItemResult `json:"items" validate:"required,dive"`
	Remarks     string                `json:"remarks,omitempty" validate:"max=2000"`
	CreatedAt   time.Time             `json:"created_at"`
}

// NeedsAttention returns the ids of items marked needs_attention, sorted.
func (l MaintenanceLog) NeedsAttention() []string {
	var ids []string
	for id, r := range l.Items {
		if r.Status == ItemNeedsAttention {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ValidateMaintenanceLog checks struct rules and that the items answer every
// template item exactly, with no extras.
func ValidateMaintenanceLog(log MaintenanceLog) error {
	tmpl, err := GetChecklist(log.Checklist)
	if err != nil {
		return err
	}

	if err := validate.Struct(log); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChecklist, err)
	}

	var missing, unknown []string
	known := make(map[string]bool, len(tmpl.Items))
	for _, item := range tmpl.Items {
		known[item.ID] = true
		if _, ok := log.Items[item.ID]; !ok {
			missing = append(missing, item.ID)
		}
	}
	for id := range log.Items {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)

	switch {
	case len(missing) > 0:
		return fmt.Errorf("%w: unanswered items: %s", ErrInvalidChecklist, strings.Join(missing, ", "))
	case len(unknown) > 0:
		return fmt.Errorf("%w: unknown items: %s", ErrInvalidChecklist, strings.Join(unknown, ", "))
	}
	return nil
}

// SubmitMaintenanceLog validates and stores a log. PerformedAt defaults to now.
func (s *Service) SubmitMaintenanceLog(ctx context.Context, log MaintenanceLog) (MaintenanceLog, error) {
	log.Checklist = strings.ToLower(strings.TrimSpace(log.Checklist))
	log.PerformedBy = strings.TrimSpace(log.PerformedBy)
	if log.PerformedAt.IsZero() {
		log.PerformedAt = s.now()
	}

	if err := ValidateMaintenanceLog(log); err != nil {
		return MaintenanceLog{}, err
	}

	if log.EquipmentID != nil {
		def, err := MustGet("equipments")
		if err != nil {
			return MaintenanceLog{}, err
		}
		if _, err := s.store.Get(ctx, def, *log.EquipmentID); err != nil {
			return MaintenanceLog{}, fmt.Errorf("equipment %d: %w", *log.EquipmentID, err)
		}
	}

	saved, err := s.store.InsertMaintenanceLog(ctx, log)
	if err != nil {
		return MaintenanceLog{}, fmt.Errorf("save maintenance log: %w", err)
	}

	if items := saved.NeedsAttention(); len(items) > 0 {
		logging.FromContext(ctx).Warn("maintenance items need attention",
			"checklist", saved.Checklist,
			"log_id", saved.ID,
			"items", items,
		)
	}
	return saved, nil
}

// MaintenanceLogs lists stored logs for a checklist, newest first.
func (s *Service) MaintenanceLogs(ctx context.Context, checklist string) ([]MaintenanceLog, error) {
	if _, err := GetChecklist(checklist); err != nil {
		return nil, err
	}
	return s.store.ListMaintenanceLogs(ctx, checklist)
}
