package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sitesense/contexts/identity-access/account-service/domain/entities"
	domainerrors "sitesense/contexts/identity-access/account-service/domain/errors"
	"sitesense/contexts/identity-access/account-service/ports"
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
	return []any{&accountModel{}, &projectGrantModel{}, &worksiteGrantModel{}}
}

func (r *Repository) Create(ctx context.Context, account entities.Account) error {
	row := accountModelFromEntity(account)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "email") {
				return domainerrors.ErrEmailExists
			}
			return domainerrors.ErrUsernameExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, accountID string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, err
	}
	return r.loadGrants(ctx, row.toEntity())
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, err
	}
	return r.loadGrants(ctx, row.toEntity())
}

func (r *Repository) List(ctx context.Context) ([]entities.Account, error) {
	var rows []accountModel
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Account, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateRole(ctx context.Context, accountID string, role string) error {
	result := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		Update("role", strings.TrimSpace(role))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) UpdateAccount(ctx context.Context, accountID string, update ports.AccountUpdate) error {
	fields := map[string]any{}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.PasswordHash != nil {
		fields["password_hash"] = *update.PasswordHash
	}
	if update.Organization != nil {
		fields["organization"] = *update.Organization
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		Updates(fields)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrEmailExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) AddGrant(ctx context.Context, accountID string, resourceType string, resourceID string) error {
	if resourceType == ports.ResourceTypeProject {
		row := projectGrantModel{AccountID: accountID, ProjectID: resourceID}
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	}
	row := worksiteGrantModel{AccountID: accountID, WorksiteID: resourceID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *Repository) RemoveGrant(ctx context.Context, accountID string, resourceType string, resourceID string) error {
	if resourceType == ports.ResourceTypeProject {
		return r.db.WithContext(ctx).
			Where("account_id = ? AND project_id = ?", accountID, resourceID).
			Delete(&projectGrantModel{}).
			Error
	}
	return r.db.WithContext(ctx).
		Where("account_id = ? AND worksite_id = ?", accountID, resourceID).
		Delete(&worksiteGrantModel{}).
		Error
}

func (r *Repository) ListGrants(ctx context.Context, username string) ([]string, []string, error) {
	account, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	return account.ProjectIDs, account.WorksiteIDs, nil
}

func (r *Repository) loadGrants(ctx context.Context, account entities.Account) (entities.Account, error) {
	var projectRows []projectGrantModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", account.ID).
		Find(&projectRows).
		Error; err != nil {
		return entities.Account{}, err
	}
	var worksiteRows []worksiteGrantModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", account.ID).
		Find(&worksiteRows).
		Error; err != nil {
		return entities.Account{}, err
	}

	account.ProjectIDs = make([]string, 0, len(projectRows))
	for _, row := range projectRows {
		account.ProjectIDs = append(account.ProjectIDs, row.ProjectID)
	}
	account.WorksiteIDs = make([]string, 0, len(worksiteRows))
	for _, row := range worksiteRows {
		account.WorksiteIDs = append(account.WorksiteIDs, row.WorksiteID)
	}
	return account, nil
}

type accountModel struct {
	AccountID    string    `gorm:"column:account_id;primaryKey"`
	Username     string    `gorm:"column:username;size:24;uniqueIndex"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;size:24"`
	Organization string    `gorm:"column:organization;size:24"`
	IsActive     bool      `gorm:"column:is_active"`
	IsSuperuser  bool      `gorm:"column:is_superuser"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (accountModel) TableName() string {
	return "accounts"
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		ID:           m.AccountID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Organization: m.Organization,
		IsActive:     m.IsActive,
		IsSuperuser:  m.IsSuperuser,
		CreatedAt:    m.CreatedAt,
	}
}

func accountModelFromEntity(account entities.Account) accountModel {
	return accountModel{
		AccountID:    account.ID,
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         account.Role,
		Organization: account.Organization,
		IsActive:     account.IsActive,
		IsSuperuser:  account.IsSuperuser,
		CreatedAt:    account.CreatedAt.UTC(),
	}
}

type projectGrantModel struct {
	AccountID string `gorm:"column:account_id;primaryKey"`
	ProjectID string `gorm:"column:project_id;primaryKey"`
}

func (projectGrantModel) TableName() string {
	return "account_project_grants"
}

type worksiteGrantModel struct {
	AccountID  string `gorm:"column:account_id;primaryKey"`
	WorksiteID string `gorm:"column:worksite_id;primaryKey"`
}

func (worksiteGrantModel) TableName() string {
	return "account_worksite_grants"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
