// Package seed inserts default reference content exactly once per ledger
// key. The ledger lives in applied_defaults and is independent of schema
// migrations: deleting user data does not re-arm a seed, only clearing the
// ledger does.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/driver"
)

var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/julianstephens/tracklit/seeds"))

// Seed is one unit of default content guarded by a ledger key.
type Seed struct {
	Key    string
	Insert func(ctx context.Context, tx driver.Tx, now string) error
}

// Manager applies seeds against one driver
type Manager struct {
	drv   driver.Driver
	seeds []Seed
	now   func() time.Time
}

// NewManager creates a manager with the built-in seeds
func NewManager(drv driver.Driver, now func() time.Time) *Manager {
	return NewManagerWith(drv, now, Defaults())
}

// NewManagerWith creates a manager with an explicit seed list
func NewManagerWith(drv driver.Driver, now func() time.Time, seeds []Seed) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{drv: drv, seeds: seeds, now: now}
}

// Defaults returns the built-in seeds in application order
func Defaults() []Seed {
	seeds := make([]Seed, 0, len(defaultTemplates)+1)
	for _, tmpl := range defaultTemplates {
		seeds = append(seeds, Seed{Key: tmpl.key, Insert: insertTemplate(tmpl)})
	}
	seeds = append(seeds, Seed{Key: constants.SeedBoredDefaults, Insert: insertBoredDefaults})
	return seeds
}

// ApplyDefaultSeeds runs every seed whose key is absent from the ledger.
// Insertion and the ledger write share a transaction, so a failed seed
// leaves no ledger entry behind. Returns the keys that ran.
func (m *Manager) ApplyDefaultSeeds(ctx context.Context) ([]string, error) {
	var applied []string
	for _, s := range m.seeds {
		ran := false
		err := driver.InTx(ctx, m.drv, func(tx driver.Tx) error {
			var exists int
			err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM applied_defaults WHERE key = ?", s.Key).Scan(&exists)
			if err != nil {
				return fmt.Errorf("failed to read ledger: %w", err)
			}
			if exists > 0 {
				return nil
			}

			now := m.now().UTC().Format(constants.TimestampFormat)
			if err := s.Insert(ctx, tx, now); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, "INSERT INTO applied_defaults (key, applied_at) VALUES (?, ?) ON CONFLICT DO NOTHING", s.Key, now); err != nil {
				return fmt.Errorf("failed to record ledger entry: %w", err)
			}
			ran = true
			return nil
		})
		if err != nil {
			return applied, fmt.Errorf("seed %s: %w", s.Key, err)
		}
		if ran {
			logger.Info("Applied default seed", "key", s.Key)
			applied = append(applied, s.Key)
		}
	}
	return applied, nil
}

// Ledger lists the applied seed keys
func (m *Manager) Ledger(ctx context.Context) ([]models.AppliedDefault, error) {
	rows, err := m.drv.Query(ctx, "SELECT key, applied_at FROM applied_defaults ORDER BY applied_at, key")
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	defer rows.Close()

	ledger := []models.AppliedDefault{}
	for rows.Next() {
		var d models.AppliedDefault
		if err := rows.Scan(&d.Key, &d.AppliedAt); err != nil {
			return nil, err
		}
		ledger = append(ledger, d)
	}
	return ledger, rows.Err()
}

// ClearLedger removes every ledger entry, re-arming all seeds
func (m *Manager) ClearLedger(ctx context.Context) error {
	if _, err := m.drv.Exec(ctx, "DELETE FROM applied_defaults"); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	return nil
}

// Reset clears the ledger and applies every seed again
func (m *Manager) Reset(ctx context.Context) ([]string, error) {
	if err := m.ClearLedger(ctx); err != nil {
		return nil, err
	}
	return m.ApplyDefaultSeeds(ctx)
}

// seedID derives a name-based UUID from a ledger key, so every install
// seeds a template under the same ID and snapshot imports skip it.
func seedID(name string) string {
	return uuid.NewSHA1(seedNamespace, []byte(name)).String()
}

func insertTemplate(tmpl defaultTemplate) func(context.Context, driver.Tx, string) error {
	return func(ctx context.Context, tx driver.Tx, now string) error {
		templateID := seedID(tmpl.key)
		if _, err := tx.Exec(ctx,
			"INSERT INTO checkin_templates (id, name, description, created_at) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING",
			templateID, tmpl.name, tmpl.description, now); err != nil {
			return fmt.Errorf("failed to insert template %q: %w", tmpl.name, err)
		}
		for i, q := range tmpl.questions {
			if _, err := tx.Exec(ctx,
				"INSERT INTO checkin_questions (id, template_id, prompt, response_type, display_order) VALUES (?, ?, ?, ?, ?) ON CONFLICT DO NOTHING",
				seedID(fmt.Sprintf("%s/%d", tmpl.key, i)), templateID, q.prompt, q.responseType, i); err != nil {
				return fmt.Errorf("failed to insert question %q: %w", q.prompt, err)
			}
		}
		return nil
	}
}

func insertBoredDefaults(ctx context.Context, tx driver.Tx, now string) error {
	for _, c := range defaultCategories {
		if _, err := tx.Exec(ctx,
			"INSERT INTO bored_categories (id, name, icon, color, created_at) VALUES (?, ?, ?, ?, ?) ON CONFLICT DO NOTHING",
			c.id, c.name, c.icon, c.color, now); err != nil {
			return fmt.Errorf("failed to insert category %q: %w", c.name, err)
		}
		for _, a := range c.activities {
			if _, err := tx.Exec(ctx,
				"INSERT INTO bored_activities (id, category_id, title, description, estimated_minutes, created_at) VALUES (?, ?, ?, '', ?, ?) ON CONFLICT DO NOTHING",
				a.id, c.id, a.title, a.minutes, now); err != nil {
				return fmt.Errorf("failed to insert activity %q: %w", a.title, err)
			}
		}
	}
	return nil
}
