package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"sitesense/contexts/site-operations/registry-service/domain/entities"
	domainerrors "sitesense/contexts/site-operations/registry-service/domain/errors"
	"sitesense/contexts/site-operations/registry-service/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models returns the row models for platform migration.
func Models() []any {
	return []any{&projectModel{}, &worksiteModel{}, &zoneModel{}}
}

func (r *Repository) GetProject(ctx context.Context, projectID string) (entities.Project, error) {
	var row projectModel
	err := r.db.WithContext(ctx).
		Where("project_id = ?", strings.TrimSpace(projectID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Project{}, domainerrors.ErrProjectNotFound
		}
		return entities.Project{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateProject(ctx context.Context, project entities.Project) error {
	row := projectModelFromEntity(project)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrProjectNameExists
		}
		return err
	}
	return nil
}

// DeleteProject removes the project and cascades to its worksites and
// zones inside one transaction.
func (r *Repository) DeleteProject(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&zoneModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&worksiteModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("project_id = ?", projectID).Delete(&projectModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrProjectNotFound
		}
		return nil
	})
}

func (r *Repository) ListProjects(ctx context.Context) ([]entities.Project, error) {
	var rows []projectModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Project, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetWorksite(ctx context.Context, worksiteID string) (entities.Worksite, error) {
	var row worksiteModel
	err := r.db.WithContext(ctx).
		Where("worksite_id = ?", strings.TrimSpace(worksiteID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Worksite{}, domainerrors.ErrWorksiteNotFound
		}
		return entities.Worksite{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateWorksite(ctx context.Context, worksite entities.Worksite) error {
	row := worksiteModelFromEntity(worksite)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrWorksiteNameExists
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateWorksite(ctx context.Context, worksiteID string, update ports.WorksiteUpdate) error {
	fields := map[string]any{}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&worksiteModel{}).
		Where("worksite_id = ?", strings.TrimSpace(worksiteID)).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrWorksiteNotFound
	}
	return nil
}

func (r *Repository) DeleteWorksite(ctx context.Context, worksiteID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worksite_id = ?", worksiteID).Delete(&zoneModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("worksite_id = ?", worksiteID).Delete(&worksiteModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrWorksiteNotFound
		}
		return nil
	})
}

func (r *Repository) ListWorksitesByProject(ctx context.Context, projectID string) ([]entities.Worksite, error) {
	var rows []worksiteModel
	err := r.db.WithContext(ctx).
		Where("project_id = ?", strings.TrimSpace(projectID)).
		Order("name ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Worksite, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetZone(ctx context.Context, zoneID string) (entities.Zone, error) {
	var row zoneModel
	err := r.db.WithContext(ctx).
		Where("zone_id = ?", strings.TrimSpace(zoneID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Zone{}, domainerrors.ErrZoneNotFound
		}
		return entities.Zone{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateZone(ctx context.Context, zone entities.Zone) error {
	row := zoneModelFromEntity(zone)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrZoneNameExists
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateZone(ctx context.Context, zoneID string, update ports.ZoneUpdate) error {
	fields := map[string]any{}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.FeedURI != nil {
		fields["feed_uri"] = *update.FeedURI
	}
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&zoneModel{}).
		Where("zone_id = ?", strings.TrimSpace(zoneID)).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrZoneNotFound
	}
	return nil
}

func (r *Repository) DeleteZone(ctx context.Context, zoneID string) error {
	result := r.db.WithContext(ctx).
		Where("zone_id = ?", strings.TrimSpace(zoneID)).
		Delete(&zoneModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrZoneNotFound
	}
	return nil
}

func (r *Repository) ListZonesByWorksite(ctx context.Context, worksiteID string) ([]entities.Zone, error) {
	var rows []zoneModel
	err := r.db.WithContext(ctx).
		Where("worksite_id = ?", strings.TrimSpace(worksiteID)).
		Order("name ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Zone, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type projectModel struct {
	ProjectID   string    `gorm:"column:project_id;primaryKey"`
	Name        string    `gorm:"column:name;size:64;uniqueIndex"`
	Description string    `gorm:"column:description;size:512"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (projectModel) TableName() string {
	return "projects"
}

func (m projectModel) toEntity() entities.Project {
	return entities.Project{
		ID:          m.ProjectID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

func projectModelFromEntity(project entities.Project) projectModel {
	return projectModel{
		ProjectID:   project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt.UTC(),
	}
}

type worksiteModel struct {
	WorksiteID  string    `gorm:"column:worksite_id;primaryKey"`
	Name        string    `gorm:"column:name;size:64;uniqueIndex:idx_worksite_project_name"`
	Description string    `gorm:"column:description;size:512"`
	ProjectID   string    `gorm:"column:project_id;index;uniqueIndex:idx_worksite_project_name"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (worksiteModel) TableName() string {
	return "worksites"
}

func (m worksiteModel) toEntity() entities.Worksite {
	return entities.Worksite{
		ID:          m.WorksiteID,
		Name:        m.Name,
		Description: m.Description,
		ProjectID:   m.ProjectID,
		CreatedAt:   m.CreatedAt,
	}
}

func worksiteModelFromEntity(worksite entities.Worksite) worksiteModel {
	return worksiteModel{
		WorksiteID:  worksite.ID,
		Name:        worksite.Name,
		Description: worksite.Description,
		ProjectID:   worksite.ProjectID,
		CreatedAt:   worksite.CreatedAt.UTC(),
	}
}

type zoneModel struct {
	ZoneID      string    `gorm:"column:zone_id;primaryKey"`
	Name        string    `gorm:"column:name;size:64;uniqueIndex:idx_zone_worksite_name"`
	Description string    `gorm:"column:description;size:512"`
	FeedURI     string    `gorm:"column:feed_uri"`
	WorksiteID  string    `gorm:"column:worksite_id;index;uniqueIndex:idx_zone_worksite_name"`
	ProjectID   string    `gorm:"column:project_id;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (zoneModel) TableName() string {
	return "zones"
}

func (m zoneModel) toEntity() entities.Zone {
	return entities.Zone{
		ID:          m.ZoneID,
		Name:        m.Name,
		Description: m.Description,
		FeedURI:     m.FeedURI,
		WorksiteID:  m.WorksiteID,
		ProjectID:   m.ProjectID,
		CreatedAt:   m.CreatedAt,
	}
}

func zoneModelFromEntity(zone entities.Zone) zoneModel {
	return zoneModel{
		ZoneID:      zone.ID,
		Name:        zone.Name,
		Description: zone.Description,
		FeedURI:     zone.FeedURI,
		WorksiteID:  zone.WorksiteID,
		ProjectID:   zone.ProjectID,
		CreatedAt:   zone.CreatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
