package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/julianstephens/tracklit/internal/constants"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/codec"
	"github.com/julianstephens/tracklit/internal/storage/driver"
	"github.com/julianstephens/tracklit/internal/validation"
)

// ExportSnapshot reads every selected family into a versioned bundle.
// Families are read independently; an unselected family contributes no
// rows, children included.
func (s *Store) ExportSnapshot(ctx context.Context, sel models.ExportSelection) (models.Snapshot, error) {
	snap := models.Snapshot{Version: constants.SnapshotVersion, ExportedAt: s.timestamp()}
	var err error

	if sel.Habits {
		if snap.Habits, err = queryAll(ctx, s.drv, scanHabit,
			"SELECT "+codec.HabitColumns+" FROM habits ORDER BY created_at, id"); err != nil {
			return snap, fmt.Errorf("failed to export habits: %w", err)
		}
		if snap.HabitSchedules, err = queryAll(ctx, s.drv, scanSchedule,
			"SELECT "+codec.ScheduleColumns+" FROM habit_schedules ORDER BY id"); err != nil {
			return snap, fmt.Errorf("failed to export schedules: %w", err)
		}
		if snap.Completions, err = queryAll(ctx, s.drv, scanCompletion,
			"SELECT "+codec.CompletionColumns+" FROM completions ORDER BY date, id"); err != nil {
			return snap, fmt.Errorf("failed to export completions: %w", err)
		}
		if snap.HabitLogs, err = queryAll(ctx, s.drv, scanHabitLog,
			"SELECT "+codec.HabitLogColumns+" FROM habit_logs ORDER BY date, id"); err != nil {
			return snap, fmt.Errorf("failed to export logs: %w", err)
		}
		if snap.Reminders, err = s.ListReminders(ctx, ""); err != nil {
			return snap, fmt.Errorf("failed to export reminders: %w", err)
		}
	}

	if sel.Checkins {
		if snap.CheckinTemplates, err = queryAll(ctx, s.drv, scanTemplate,
			"SELECT "+codec.TemplateColumns+" FROM checkin_templates ORDER BY created_at, id"); err != nil {
			return snap, fmt.Errorf("failed to export templates: %w", err)
		}
		if snap.CheckinQuestions, err = queryAll(ctx, s.drv, scanQuestion,
			"SELECT "+codec.QuestionColumns+" FROM checkin_questions ORDER BY template_id, display_order, id"); err != nil {
			return snap, fmt.Errorf("failed to export questions: %w", err)
		}
		if snap.CheckinResponses, err = queryAll(ctx, s.drv, scanResponse,
			"SELECT "+codec.ResponseColumns+" FROM checkin_responses ORDER BY date, id"); err != nil {
			return snap, fmt.Errorf("failed to export responses: %w", err)
		}
		if snap.CheckinReminders, err = s.ListCheckinReminders(ctx, ""); err != nil {
			return snap, fmt.Errorf("failed to export check-in reminders: %w", err)
		}
	}

	if sel.Journal {
		if snap.CheckinEntries, err = s.ListEntries(ctx, "", ""); err != nil {
			return snap, fmt.Errorf("failed to export entries: %w", err)
		}
	}
	if sel.Scribbles {
		if snap.Scribbles, err = s.ListScribbles(ctx); err != nil {
			return snap, fmt.Errorf("failed to export scribbles: %w", err)
		}
	}
	if sel.Todos {
		if snap.Todos, err = s.ListTodos(ctx, true); err != nil {
			return snap, fmt.Errorf("failed to export todos: %w", err)
		}
	}
	if sel.Bored {
		if snap.BoredCategories, err = s.ListCategories(ctx); err != nil {
			return snap, fmt.Errorf("failed to export categories: %w", err)
		}
		if snap.BoredActivities, err = s.ListActivities(ctx, "", true); err != nil {
			return snap, fmt.Errorf("failed to export activities: %w", err)
		}
	}
	return snap, nil
}

// ExportSnapshotJSON is ExportSnapshot encoded as the bundle's wire form
func (s *Store) ExportSnapshotJSON(ctx context.Context, sel models.ExportSelection) ([]byte, error) {
	snap, err := s.ExportSnapshot(ctx, sel)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// DecodeSnapshot checks the bundle version before decoding the rest, so a
// bundle from an unknown format version is refused without interpretation.
func DecodeSnapshot(data []byte) (models.Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return models.Snapshot{}, fmt.Errorf("%w: snapshot is not valid JSON", apperr.ErrInvalidRequest)
	}
	v := gjson.GetBytes(data, "version")
	if !v.Exists() || v.Type != gjson.Number || v.Int() != constants.SnapshotVersion {
		return models.Snapshot{}, fmt.Errorf("%w: %s", apperr.ErrUnsupportedVersion, v.Raw)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", apperr.ErrInvalidRequest, err)
	}
	return snap, nil
}

// ImportSnapshotJSON decodes and imports a bundle
func (s *Store) ImportSnapshotJSON(ctx context.Context, data []byte) (models.ImportReport, error) {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return models.ImportReport{}, err
	}
	return s.ImportSnapshot(ctx, snap)
}

// importer accumulates per-table counts inside the import transaction
type importer struct {
	ctx    context.Context
	tx     driver.Tx
	report models.ImportReport
}

// insert writes one row with ON CONFLICT DO NOTHING and counts the outcome
func (im *importer) insert(table, columns string, args []any) error {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	res, err := im.tx.Exec(im.ctx, "INSERT INTO "+table+" ("+columns+") VALUES ("+marks+") ON CONFLICT DO NOTHING", args...)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if _, ok := im.report.Inserted[table]; !ok {
		im.report.Inserted[table] = 0
		im.report.Skipped[table] = 0
	}
	if n > 0 {
		im.report.Inserted[table]++
	} else {
		im.report.Skipped[table]++
	}
	return nil
}

// ids returns the ids present in table plus extra
func (im *importer) ids(table string, extra ...string) (validation.IDSet, error) {
	set := validation.IDSet{}
	rows, err := im.tx.Query(im.ctx, "SELECT id FROM "+table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = true
	}
	for _, id := range extra {
		set[id] = true
	}
	return set, rows.Err()
}

// ImportSnapshot merges a bundle into the database in one transaction.
// Families are validated and inserted at three checkpoints, habits then
// check-ins then everything else; each checkpoint resolves references
// against the bundle and the rows already present. Existing ids are left
// untouched, so importing the same bundle twice inserts nothing the second
// time. Any failure rolls back every family.
func (s *Store) ImportSnapshot(ctx context.Context, snap models.Snapshot) (models.ImportReport, error) {
	if snap.Version != constants.SnapshotVersion {
		return models.ImportReport{}, fmt.Errorf("%w: %d", apperr.ErrUnsupportedVersion, snap.Version)
	}

	v := validation.New()
	im := &importer{ctx: ctx, report: models.ImportReport{Inserted: map[string]int{}, Skipped: map[string]int{}}}
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		im.tx = tx
		if err := s.importHabitFamily(im, v, snap); err != nil {
			return err
		}
		if err := s.importCheckinFamily(im, v, snap); err != nil {
			return err
		}
		return s.importOtherFamily(im, v, snap)
	})
	if err != nil {
		logger.Warn("Snapshot import rolled back", "error", err)
		return models.ImportReport{}, err
	}
	logger.Info("Snapshot imported", "inserted", im.report.Inserted)
	return im.report, nil
}

func (s *Store) importHabitFamily(im *importer, v *validation.Validator, snap models.Snapshot) error {
	bundled := make([]string, 0, len(snap.Habits))
	for _, h := range snap.Habits {
		bundled = append(bundled, h.ID)
	}
	habits, err := im.ids("habits", bundled...)
	if err != nil {
		return fmt.Errorf("failed to read habits: %w", err)
	}
	result := v.ValidateHabitFamily(snap, habits)
	if err := result.Err(); err != nil {
		return err
	}

	for _, h := range snap.Habits {
		if h.Type == "" {
			h.Type = constants.HabitTypeBoolean
		}
		if err := im.insert("habits", codec.HabitColumns, codec.HabitToRow(h).Args()); err != nil {
			return err
		}
	}
	for _, sc := range snap.HabitSchedules {
		if sc.ScheduleType == "" {
			sc.ScheduleType = constants.ScheduleDaily
		}
		if err := im.insert("habit_schedules", codec.ScheduleColumns, codec.ScheduleToRow(sc).Args()); err != nil {
			return err
		}
	}
	for _, c := range snap.Completions {
		if err := im.insert("completions", codec.CompletionColumns, codec.CompletionArgs(c)); err != nil {
			return err
		}
	}
	for _, l := range snap.HabitLogs {
		if err := im.insert("habit_logs", codec.HabitLogColumns, codec.HabitLogToRow(l).Args()); err != nil {
			return err
		}
	}
	for _, r := range snap.Reminders {
		if err := im.insert("reminders", codec.ReminderColumns, codec.ReminderToRow(r).Args()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) importCheckinFamily(im *importer, v *validation.Validator, snap models.Snapshot) error {
	var bundledTemplates, bundledQuestions []string
	for _, t := range snap.CheckinTemplates {
		bundledTemplates = append(bundledTemplates, t.ID)
	}
	for _, q := range snap.CheckinQuestions {
		bundledQuestions = append(bundledQuestions, q.ID)
	}
	templates, err := im.ids("checkin_templates", bundledTemplates...)
	if err != nil {
		return fmt.Errorf("failed to read templates: %w", err)
	}
	questions, err := im.ids("checkin_questions", bundledQuestions...)
	if err != nil {
		return fmt.Errorf("failed to read questions: %w", err)
	}
	result := v.ValidateCheckinFamily(snap, templates, questions)
	if err := result.Err(); err != nil {
		return err
	}

	for _, t := range snap.CheckinTemplates {
		if err := im.insert("checkin_templates", codec.TemplateColumns, codec.TemplateArgs(t)); err != nil {
			return err
		}
	}
	for _, q := range snap.CheckinQuestions {
		if err := im.insert("checkin_questions", codec.QuestionColumns, codec.QuestionArgs(q)); err != nil {
			return err
		}
	}
	for _, r := range snap.CheckinResponses {
		if err := im.insert("checkin_responses", codec.ResponseColumns, codec.ResponseArgs(r)); err != nil {
			return err
		}
	}
	for _, r := range snap.CheckinReminders {
		if err := im.insert("checkin_reminders", codec.CheckinReminderColumns, codec.CheckinReminderToRow(r).Args()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) importOtherFamily(im *importer, v *validation.Validator, snap models.Snapshot) error {
	var bundled []string
	for _, c := range snap.BoredCategories {
		bundled = append(bundled, c.ID)
	}
	categories, err := im.ids("bored_categories", bundled...)
	if err != nil {
		return fmt.Errorf("failed to read categories: %w", err)
	}
	result := v.ValidateOtherFamily(snap, categories)
	if err := result.Err(); err != nil {
		return err
	}

	for _, e := range snap.CheckinEntries {
		if err := im.insert("checkin_entries", codec.EntryColumns, codec.EntryArgs(e)); err != nil {
			return err
		}
	}
	for _, sc := range snap.Scribbles {
		if err := im.insert("scribbles", codec.ScribbleColumns, codec.ScribbleToRow(sc).Args()); err != nil {
			return err
		}
	}
	for _, c := range snap.BoredCategories {
		if err := im.insert("bored_categories", codec.CategoryColumns, codec.CategoryArgs(c)); err != nil {
			return err
		}
	}
	for _, a := range snap.BoredActivities {
		if err := im.insert("bored_activities", codec.ActivityColumns, codec.ActivityToRow(a).Args()); err != nil {
			return err
		}
	}
	for _, t := range snap.Todos {
		if t.CategoryID != nil && !categories[*t.CategoryID] {
			t.CategoryID = nil
		}
		if err := im.insert("todos", codec.TodoColumns, codec.TodoToRow(t).Args()); err != nil {
			return err
		}
	}
	return nil
}
