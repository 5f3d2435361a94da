package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripmate/internal/models/db_models"
)

type postgresStore struct {
	db *gorm.DB
}

// NewPostgresStore keeps documents in the jsonb "documents" table.
func NewPostgresStore(db *gorm.DB) DocumentStore {
	return &postgresStore{db: db}
}

func (s *postgresStore) Backend() string { return "postgres" }

func (s *postgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *postgresStore) Get(ctx context.Context, path string, out any) (bool, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return false, err
	}

	var doc db_models.Document
	err = s.db.WithContext(ctx).Where("path = ?", p).Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, decodeDocument([]byte(doc.Value), out)
}

func (s *postgresStore) Set(ctx context.Context, path string, value any) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	doc := db_models.Document{Path: p, Parent: parentOf(p), Value: string(data)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"parent", "value", "updated_at"}),
	}).Create(&doc).Error
}

func (s *postgresStore) Update(ctx context.Context, path string, fields map[string]any) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	// jsonb || merges top-level keys in a single statement.
	res := s.db.WithContext(ctx).Exec(
		`UPDATE documents SET value = value || ?::jsonb, updated_at = ? WHERE path = ? AND jsonb_typeof(value) = 'object'`,
		string(patch), time.Now().Unix(), p,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, path string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("path = ? OR path LIKE ?", p, escapeLike(p)+"/%").
		Delete(&db_models.Document{}).Error
}

func (s *postgresStore) Children(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}

	var docs []db_models.Document
	if err := s.db.WithContext(ctx).Where("parent = ?", p).Find(&docs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(docs))
	for _, d := range docs {
		out[lastSegment(d.Path)] = json.RawMessage(d.Value)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
