package codec

import (
	"database/sql"

	"github.com/julianstephens/tracklit/internal/models"
)

const CategoryColumns = "id, name, icon, color, created_at"

func CategoryDest(c *models.BoredCategory) []any {
	return []any{&c.ID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt}
}

func CategoryArgs(c models.BoredCategory) []any {
	return []any{c.ID, c.Name, c.Icon, c.Color, c.CreatedAt}
}

const ActivityColumns = "id, category_id, title, description, estimated_minutes, is_done, done_count, last_done_at, completed_at, recurrence, archived_at, created_at"

type ActivityRow struct {
	ID               string
	CategoryID       string
	Title            string
	Description      string
	EstimatedMinutes sql.NullInt64
	IsDone           int64
	DoneCount        int64
	LastDoneAt       sql.NullString
	CompletedAt      sql.NullString
	Recurrence       sql.NullString
	ArchivedAt       sql.NullString
	CreatedAt        string
}

func (r *ActivityRow) Dest() []any {
	return []any{&r.ID, &r.CategoryID, &r.Title, &r.Description, &r.EstimatedMinutes, &r.IsDone,
		&r.DoneCount, &r.LastDoneAt, &r.CompletedAt, &r.Recurrence, &r.ArchivedAt, &r.CreatedAt}
}

func (r ActivityRow) Args() []any {
	return []any{r.ID, r.CategoryID, r.Title, r.Description, r.EstimatedMinutes, r.IsDone,
		r.DoneCount, r.LastDoneAt, r.CompletedAt, r.Recurrence, r.ArchivedAt, r.CreatedAt}
}

func ActivityFromRow(r ActivityRow) models.BoredActivity {
	return models.BoredActivity{
		ID:               r.ID,
		CategoryID:       r.CategoryID,
		Title:            r.Title,
		Description:      r.Description,
		EstimatedMinutes: IntPtr(r.EstimatedMinutes),
		IsDone:           Bool(r.IsDone),
		DoneCount:        int(r.DoneCount),
		LastDoneAt:       StringPtr(r.LastDoneAt),
		CompletedAt:      StringPtr(r.CompletedAt),
		Recurrence:       StringPtr(r.Recurrence),
		ArchivedAt:       StringPtr(r.ArchivedAt),
		CreatedAt:        r.CreatedAt,
	}
}

func ActivityToRow(a models.BoredActivity) ActivityRow {
	return ActivityRow{
		ID:               a.ID,
		CategoryID:       a.CategoryID,
		Title:            a.Title,
		Description:      a.Description,
		EstimatedMinutes: NullInt(a.EstimatedMinutes),
		IsDone:           Int(a.IsDone),
		DoneCount:        int64(a.DoneCount),
		LastDoneAt:       NullString(a.LastDoneAt),
		CompletedAt:      NullString(a.CompletedAt),
		Recurrence:       NullString(a.Recurrence),
		ArchivedAt:       NullString(a.ArchivedAt),
		CreatedAt:        a.CreatedAt,
	}
}

const TodoColumns = "id, title, notes, category_id, due_date, estimated_minutes, is_done, done_count, last_done_at, completed_at, recurrence, include_in_oracle, archived_at, created_at"

type TodoRow struct {
	ID               string
	Title            string
	Notes            string
	CategoryID       sql.NullString
	DueDate          sql.NullString
	EstimatedMinutes sql.NullInt64
	IsDone           int64
	DoneCount        int64
	LastDoneAt       sql.NullString
	CompletedAt      sql.NullString
	Recurrence       sql.NullString
	IncludeInOracle  int64
	ArchivedAt       sql.NullString
	CreatedAt        string
}

func (r *TodoRow) Dest() []any {
	return []any{&r.ID, &r.Title, &r.Notes, &r.CategoryID, &r.DueDate, &r.EstimatedMinutes, &r.IsDone,
		&r.DoneCount, &r.LastDoneAt, &r.CompletedAt, &r.Recurrence, &r.IncludeInOracle, &r.ArchivedAt, &r.CreatedAt}
}

func (r TodoRow) Args() []any {
	return []any{r.ID, r.Title, r.Notes, r.CategoryID, r.DueDate, r.EstimatedMinutes, r.IsDone,
		r.DoneCount, r.LastDoneAt, r.CompletedAt, r.Recurrence, r.IncludeInOracle, r.ArchivedAt, r.CreatedAt}
}

func TodoFromRow(r TodoRow) models.Todo {
	return models.Todo{
		ID:               r.ID,
		Title:            r.Title,
		Notes:            r.Notes,
		CategoryID:       StringPtr(r.CategoryID),
		DueDate:          StringPtr(r.DueDate),
		EstimatedMinutes: IntPtr(r.EstimatedMinutes),
		IsDone:           Bool(r.IsDone),
		DoneCount:        int(r.DoneCount),
		LastDoneAt:       StringPtr(r.LastDoneAt),
		CompletedAt:      StringPtr(r.CompletedAt),
		Recurrence:       StringPtr(r.Recurrence),
		IncludeInOracle:  Bool(r.IncludeInOracle),
		ArchivedAt:       StringPtr(r.ArchivedAt),
		CreatedAt:        r.CreatedAt,
	}
}

func TodoToRow(t models.Todo) TodoRow {
	return TodoRow{
		ID:               t.ID,
		Title:            t.Title,
		Notes:            t.Notes,
		CategoryID:       NullString(t.CategoryID),
		DueDate:          NullString(t.DueDate),
		EstimatedMinutes: NullInt(t.EstimatedMinutes),
		IsDone:           Int(t.IsDone),
		DoneCount:        int64(t.DoneCount),
		LastDoneAt:       NullString(t.LastDoneAt),
		CompletedAt:      NullString(t.CompletedAt),
		Recurrence:       NullString(t.Recurrence),
		IncludeInOracle:  Int(t.IncludeInOracle),
		ArchivedAt:       NullString(t.ArchivedAt),
		CreatedAt:        t.CreatedAt,
	}
}
