package dispatch

import (
	"context"
	"encoding/json"

	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage"
)

type ctxT = context.Context
type prov = storage.Provider

// byID adapts a delete-style operation that only reports an error
func byID(name string, fn func(p prov) func(ctx ctxT, id string) error) handler {
	return handle(func(ctx ctxT, p prov, in idPayload) (any, error) {
		if err := required(name, in.ID); err != nil {
			return nil, err
		}
		return nil, fn(p)(ctx, in.ID)
	})
}

// fetch adapts a lookup by id
func fetch[T any](fn func(p prov) func(ctx ctxT, id string) (T, error)) handler {
	return handle(func(ctx ctxT, p prov, in idPayload) (any, error) {
		if err := required("id", in.ID); err != nil {
			return nil, err
		}
		return fn(p)(ctx, in.ID)
	})
}

// patch adapts an update of the record named by the payload id
func patch[P, T any](fn func(p prov) func(ctx ctxT, id string, patch P) (T, error)) handler {
	return handle(func(ctx ctxT, p prov, in patchPayload[P]) (any, error) {
		if err := required("id", in.ID); err != nil {
			return nil, err
		}
		return fn(p)(ctx, in.ID, in.Patch)
	})
}

// create adapts an operation whose payload is its input record
func create[I, T any](fn func(p prov) func(ctx ctxT, in I) (T, error)) handler {
	return handle(func(ctx ctxT, p prov, in I) (any, error) {
		return fn(p)(ctx, in)
	})
}

func routes() map[Type]handler {
	return map[Type]handler{
		// Habits
		GetHabits:         bare(func(ctx ctxT, p prov) (any, error) { return p.ListHabits(ctx) }),
		GetArchivedHabits: bare(func(ctx ctxT, p prov) (any, error) { return p.ListArchivedHabits(ctx) }),
		GetHabit:          fetch(func(p prov) func(ctxT, string) (models.HabitWithSchedule, error) { return p.GetHabit }),
		CreateHabit:       create(func(p prov) func(ctxT, models.HabitInput) (models.HabitWithSchedule, error) { return p.CreateHabit }),
		UpdateHabit: patch(func(p prov) func(ctxT, string, models.HabitPatch) (models.HabitWithSchedule, error) {
			return p.UpdateHabit
		}),
		ArchiveHabit:   byID("id", func(p prov) func(ctxT, string) error { return p.ArchiveHabit }),
		UnarchiveHabit: byID("id", func(p prov) func(ctxT, string) error { return p.UnarchiveHabit }),
		DeleteHabit:    byID("id", func(p prov) func(ctxT, string) error { return p.DeleteHabit }),
		GetSchedule: handle(func(ctx ctxT, p prov, in habitPayload) (any, error) {
			if err := required("habit_id", in.HabitID); err != nil {
				return nil, err
			}
			return p.GetSchedule(ctx, in.HabitID)
		}),
		UpdateSchedule: handle(func(ctx ctxT, p prov, in struct {
			HabitID string               `json:"habit_id"`
			Patch   models.SchedulePatch `json:"patch"`
		}) (any, error) {
			if err := required("habit_id", in.HabitID); err != nil {
				return nil, err
			}
			return p.UpdateSchedule(ctx, in.HabitID, in.Patch)
		}),

		// Completions, logs, streaks
		ToggleCompletion: handle(func(ctx ctxT, p prov, in habitDatePayload) (any, error) {
			if err := required("habit_id", in.HabitID); err != nil {
				return nil, err
			}
			c, err := p.ToggleCompletion(ctx, in.HabitID, in.Date)
			if err != nil || c == nil {
				return nil, err
			}
			return c, nil
		}),
		GetCompletions: handle(func(ctx ctxT, p prov, in habitRangePayload) (any, error) {
			return p.ListCompletions(ctx, in.HabitID, in.From, in.To)
		}),
		GetCompletionsByDate: handle(func(ctx ctxT, p prov, in datePayload) (any, error) {
			return p.ListCompletionsByDate(ctx, in.Date)
		}),
		AddLog:    create(func(p prov) func(ctxT, models.HabitLogInput) (models.HabitLog, error) { return p.AddLog }),
		DeleteLog: byID("id", func(p prov) func(ctxT, string) error { return p.DeleteLog }),
		GetLogs: handle(func(ctx ctxT, p prov, in habitRangePayload) (any, error) {
			return p.ListLogs(ctx, in.HabitID, in.From, in.To)
		}),
		GetLogsByDate: handle(func(ctx ctxT, p prov, in datePayload) (any, error) {
			return p.ListLogsByDate(ctx, in.Date)
		}),
		GetStreak: handle(func(ctx ctxT, p prov, in streakPayload) (any, error) {
			if err := required("habit_id", in.HabitID); err != nil {
				return nil, err
			}
			return p.GetStreak(ctx, in.HabitID, in.Today)
		}),
		GetHabitStats: handle(func(ctx ctxT, p prov, in habitRangePayload) (any, error) {
			if err := required("habit_id", in.HabitID); err != nil {
				return nil, err
			}
			return p.GetHabitStats(ctx, in.HabitID, in.From, in.To)
		}),

		// Check-ins and journal
		GetCheckinTemplates: bare(func(ctx ctxT, p prov) (any, error) { return p.ListTemplates(ctx) }),
		GetCheckinTemplate:  fetch(func(p prov) func(ctxT, string) (models.CheckinTemplate, error) { return p.GetTemplate }),
		CreateCheckinTemplate: create(func(p prov) func(ctxT, models.TemplateInput) (models.CheckinTemplate, error) {
			return p.CreateTemplate
		}),
		UpdateCheckinTemplate: patch(func(p prov) func(ctxT, string, models.TemplatePatch) (models.CheckinTemplate, error) {
			return p.UpdateTemplate
		}),
		DeleteCheckinTemplate: byID("id", func(p prov) func(ctxT, string) error { return p.DeleteTemplate }),
		AddCheckinQuestion: handle(func(ctx ctxT, p prov, in addQuestionPayload) (any, error) {
			return p.AddQuestion(ctx, in.TemplateID, in.Question)
		}),
		UpdateCheckinQuestion: patch(func(p prov) func(ctxT, string, models.QuestionPatch) (models.CheckinQuestion, error) {
			return p.UpdateQuestion
		}),
		DeleteCheckinQuestion: byID("id", func(p prov) func(ctxT, string) error { return p.DeleteQuestion }),
		ReorderCheckinQuestions: handle(func(ctx ctxT, p prov, in reorderPayload) (any, error) {
			return p.ReorderQuestions(ctx, in.TemplateID, in.QuestionIDs)
		}),
		UpsertCheckinResponse: handle(func(ctx ctxT, p prov, in responsePayload) (any, error) {
			return p.UpsertResponse(ctx, in.QuestionID, in.Date, in.Value)
		}),
		GetCheckinResponses: handle(func(ctx ctxT, p prov, in responsesPayload) (any, error) {
			return p.ListResponses(ctx, in.TemplateID, in.Date)
		}),
		UpsertCheckinEntry: handle(func(ctx ctxT, p prov, in entryPayload) (any, error) {
			return p.UpsertEntry(ctx, in.Date, in.Content)
		}),
		GetCheckinEntry: handle(func(ctx ctxT, p prov, in datePayload) (any, error) {
			return p.GetEntry(ctx, in.Date)
		}),
		GetCheckinEntries: handle(func(ctx ctxT, p prov, in rangePayload) (any, error) {
			return p.ListEntries(ctx, in.From, in.To)
		}),
		DeleteCheckinEntry: handle(func(ctx ctxT, p prov, in datePayload) (any, error) {
			return nil, p.DeleteEntry(ctx, in.Date)
		}),

		// Scribbles
		GetScribbles:   bare(func(ctx ctxT, p prov) (any, error) { return p.ListScribbles(ctx) }),
		GetScribble:    fetch(func(p prov) func(ctxT, string) (models.Scribble, error) { return p.GetScribble }),
		CreateScribble: create(func(p prov) func(ctxT, models.ScribbleInput) (models.Scribble, error) { return p.CreateScribble }),
		UpdateScribble: patch(func(p prov) func(ctxT, string, models.ScribblePatch) (models.Scribble, error) {
			return p.UpdateScribble
		}),
		DeleteScribble: byID("id", func(p prov) func(ctxT, string) error { return p.DeleteScribble }),

		// Reminders
		GetReminders: handle(func(ctx ctxT, p prov, in habitPayload) (any, error) {
			return p.ListReminders(ctx, in.HabitID)
		}),
		CreateReminder: create(func(p prov) func(ctxT, models.ReminderInput) (models.Reminder, error) { return p.CreateReminder }),
		UpdateReminder: patch(func(p prov) func(ctxT, string, models.ReminderPatch) (models.Reminder, error) {
			return p.UpdateReminder
		}),
		DeleteReminder: byID("id", func(p prov) func(ctxT, string) error { return p.DeleteReminder }),
		GetCheckinReminders: handle(func(ctx ctxT, p prov, in templatePayload) (any, error) {
			return p.ListCheckinReminders(ctx, in.TemplateID)
		}),
		CreateCheckinReminder: create(func(p prov) func(ctxT, models.CheckinReminderInput) (models.CheckinReminder, error) {
			return p.CreateCheckinReminder
		}),
		UpdateCheckinReminder: patch(func(p prov) func(ctxT, string, models.ReminderPatch) (models.CheckinReminder, error) {
			return p.UpdateCheckinReminder
		}),
		DeleteCheckinReminder: byID("id", func(p prov) func(ctxT, string) error { return p.DeleteCheckinReminder }),

		// Bored
		GetBoredCategories: bare(func(ctx ctxT, p prov) (any, error) { return p.ListCategories(ctx) }),
		CreateBoredCategory: create(func(p prov) func(ctxT, models.CategoryInput) (models.BoredCategory, error) {
			return p.CreateCategory
		}),
		DeleteBoredCategory: byID("id", func(p prov) func(ctxT, string) error { return p.DeleteCategory }),
		GetBoredActivities: handle(func(ctx ctxT, p prov, in activitiesPayload) (any, error) {
			return p.ListActivities(ctx, in.CategoryID, in.IncludeArchived)
		}),
		CreateBoredActivity: create(func(p prov) func(ctxT, models.ActivityInput) (models.BoredActivity, error) {
			return p.CreateActivity
		}),
		UpdateBoredActivity: patch(func(p prov) func(ctxT, string, models.ActivityPatch) (models.BoredActivity, error) {
			return p.UpdateActivity
		}),
		MarkBoredActivityDone: fetch(func(p prov) func(ctxT, string) (models.BoredActivity, error) { return p.MarkActivityDone }),
		ArchiveBoredActivity:  byID("id", func(p prov) func(ctxT, string) error { return p.ArchiveActivity }),
		DeleteBoredActivity:   byID("id", func(p prov) func(ctxT, string) error { return p.DeleteActivity }),
		GetBoredOracle: handle(func(ctx ctxT, p prov, in models.OracleQuery) (any, error) {
			s, err := p.GetBoredOracle(ctx, in)
			if err != nil || s == nil {
				return nil, err
			}
			return s, nil
		}),

		// Todos
		GetTodos: handle(func(ctx ctxT, p prov, in todosPayload) (any, error) {
			return p.ListTodos(ctx, in.IncludeArchived)
		}),
		CreateTodo:  create(func(p prov) func(ctxT, models.TodoInput) (models.Todo, error) { return p.CreateTodo }),
		UpdateTodo:  patch(func(p prov) func(ctxT, string, models.TodoPatch) (models.Todo, error) { return p.UpdateTodo }),
		ToggleTodo:  fetch(func(p prov) func(ctxT, string) (models.Todo, error) { return p.ToggleTodo }),
		ArchiveTodo: byID("id", func(p prov) func(ctxT, string) error { return p.ArchiveTodo }),
		DeleteTodo:  byID("id", func(p prov) func(ctxT, string) error { return p.DeleteTodo }),

		// Data management
		ExportSnapshot: handle(func(ctx ctxT, p prov, sel *models.ExportSelection) (any, error) {
			if sel == nil {
				all := models.SelectAll()
				sel = &all
			}
			return p.ExportSnapshot(ctx, *sel)
		}),
		ImportSnapshot: func(ctx ctxT, p prov, payload json.RawMessage) (any, error) {
			return p.ImportSnapshotJSON(ctx, payload)
		},
		ExportBinary: bare(func(ctx ctxT, p prov) (any, error) { return p.ExportBinary(ctx) }),
		GetSchema:    bare(func(ctx ctxT, p prov) (any, error) { return p.Schema(ctx) }),
		ClearAllData: bare(func(ctx ctxT, p prov) (any, error) { return nil, p.ClearAllData(ctx) }),
		WipeStorage:  bare(func(ctx ctxT, p prov) (any, error) { return p.WipeStorage(ctx) }),
		GetAppliedDefaults: bare(func(ctx ctxT, p prov) (any, error) {
			return p.AppliedDefaults(ctx)
		}),
		ResetDefaults:  bare(func(ctx ctxT, p prov) (any, error) { return p.ResetDefaults(ctx) }),
		CheckIntegrity: bare(func(ctx ctxT, p prov) (any, error) { return p.CheckIntegrity(ctx) }),
	}
}
