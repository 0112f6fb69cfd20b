package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

// StringSlice stores a list of strings as a JSON column.
type StringSlice []string

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSON value: %v", value)
	}

	return json.Unmarshal(bytes, s)
}

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// projectRow is the ORM model for the projects table.
type projectRow struct {
	ID           int64       `gorm:"primaryKey;autoIncrement"`
	Title        string      `gorm:"type:text;not null"`
	Description  string      `gorm:"type:text;not null"`
	ImageURL     *string     `gorm:"column:image_url;type:text"`
	ProjectURL   *string     `gorm:"column:project_url;type:text"`
	GithubURL    *string     `gorm:"column:github_url;type:text"`
	Technologies StringSlice `gorm:"type:json;not null"`
	CreatedAt    time.Time   `gorm:"index"`
	UpdatedAt    time.Time
}

func (projectRow) TableName() string { return "projects" }

func (r projectRow) toDomain() *domain.Project {
	techs := []string(r.Technologies)
	if techs == nil {
		techs = []string{}
	}
	return &domain.Project{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		ProjectURL:   r.ProjectURL,
		GithubURL:    r.GithubURL,
		Technologies: techs,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func (r *projectRow) set(f domain.ProjectFields) {
	r.Title = f.Title
	r.Description = f.Description
	r.ImageURL = f.ImageURL
	r.ProjectURL = f.ProjectURL
	r.GithubURL = f.GithubURL
	r.Technologies = StringSlice(copyStrings(f.Technologies))
}

// GormRepository is the ORM-backed project store.
type GormRepository struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) a SQLite database at path and
// migrates the projects table.
func OpenSQLite(path string) (*GormRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps ":memory:" shared.
	sqlDB.SetMaxOpenConns(1)

	return NewGormRepository(db)
}

// NewGormRepository wraps an open gorm handle and migrates the schema.
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&projectRow{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) FindOne(ctx context.Context, id int64) (*domain.Project, error) {
	var row projectRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return row.toDomain(), nil
}

func (r *GormRepository) FindAll(ctx context.Context) ([]domain.Project, error) {
	var rows []projectRow
	err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	out := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.toDomain())
	}
	return out, nil
}

func (r *GormRepository) Insert(ctx context.Context, f domain.ProjectFields) (*domain.Project, error) {
	var row projectRow
	row.set(f)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return row.toDomain(), nil
}

func (r *GormRepository) Update(ctx context.Context, id int64, f domain.ProjectFields) (*domain.Project, error) {
	var row projectRow
	db := r.db.WithContext(ctx)
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}

	row.set(f)
	row.UpdatedAt = time.Now()
	if err := db.Save(&row).Error; err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return row.toDomain(), nil
}

func (r *GormRepository) Delete(ctx context.Context, id int64) (*domain.Project, error) {
	var row projectRow
	db := r.db.WithContext(ctx)
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete project: %w", err)
	}

	if err := db.Delete(&projectRow{}, id).Error; err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}
	return row.toDomain(), nil
}

func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
