package storage

import (
	"context"
	"fmt"

	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/codec"
	"github.com/julianstephens/tracklit/internal/storage/driver"
)

func scanScribble(sc scanner) (models.Scribble, error) {
	var r codec.ScribbleRow
	if err := sc.Scan(r.Dest()...); err != nil {
		return models.Scribble{}, err
	}
	return codec.ScribbleFromRow(r), nil
}

// ListScribbles returns every scribble, most recently updated first
func (s *Store) ListScribbles(ctx context.Context) ([]models.Scribble, error) {
	return queryAll(ctx, s.drv, scanScribble,
		"SELECT "+codec.ScribbleColumns+" FROM scribbles ORDER BY updated_at DESC, id")
}

func (s *Store) GetScribble(ctx context.Context, id string) (models.Scribble, error) {
	return queryOne(ctx, s.drv, "scribble", id, scanScribble,
		"SELECT "+codec.ScribbleColumns+" FROM scribbles WHERE id = ?", id)
}

func (s *Store) CreateScribble(ctx context.Context, in models.ScribbleInput) (models.Scribble, error) {
	now := s.timestamp()
	sc := models.Scribble{
		ID:          s.newID(),
		Title:       in.Title,
		Content:     in.Content,
		Tags:        in.Tags,
		Annotations: in.Annotations,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if sc.Tags == nil {
		sc.Tags = []string{}
	}
	if sc.Annotations == nil {
		sc.Annotations = map[string]string{}
	}
	if _, err := s.drv.Exec(ctx, "INSERT INTO scribbles ("+codec.ScribbleColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		codec.ScribbleToRow(sc).Args()...); err != nil {
		return models.Scribble{}, fmt.Errorf("failed to insert scribble: %w", err)
	}
	return sc, nil
}

// UpdateScribble applies a patch and bumps updated_at
func (s *Store) UpdateScribble(ctx context.Context, id string, p models.ScribblePatch) (models.Scribble, error) {
	var out models.Scribble
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		sc, err := queryOne(ctx, tx, "scribble", id, scanScribble,
			"SELECT "+codec.ScribbleColumns+" FROM scribbles WHERE id = ?", id)
		if err != nil {
			return err
		}
		if p.Title != nil {
			sc.Title = *p.Title
		}
		if p.Content != nil {
			sc.Content = *p.Content
		}
		if p.Tags != nil {
			sc.Tags = *p.Tags
		}
		if p.Annotations != nil {
			sc.Annotations = *p.Annotations
		}
		sc.UpdatedAt = s.timestamp()

		r := codec.ScribbleToRow(sc)
		if _, err := tx.Exec(ctx, "UPDATE scribbles SET title = ?, content = ?, tags = ?, annotations = ?, updated_at = ? WHERE id = ?",
			r.Title, r.Content, r.Tags, r.Annotations, r.UpdatedAt, id); err != nil {
			return fmt.Errorf("failed to update scribble: %w", err)
		}
		out = codec.ScribbleFromRow(r)
		return nil
	})
	return out, err
}

func (s *Store) DeleteScribble(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM scribbles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete scribble: %w", err)
	}
	return affected(res, "scribble", id)
}
