package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"sitesense/contexts/site-operations/attendance-service/domain/entities"
	domainerrors "sitesense/contexts/site-operations/attendance-service/domain/errors"
	"sitesense/contexts/site-operations/attendance-service/ports"
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
	return []any{&employeeModel{}}
}

func (r *Repository) Get(ctx context.Context, employeeID string) (entities.Employee, error) {
	var row employeeModel
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", strings.TrimSpace(employeeID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Employee{}, domainerrors.ErrEmployeeNotFound
		}
		return entities.Employee{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) Create(ctx context.Context, employee entities.Employee) error {
	row := employeeModelFromEntity(employee)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) Update(ctx context.Context, employeeID string, update ports.EmployeeUpdate) error {
	fields := map[string]any{}
	if update.FirstName != nil {
		fields["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		fields["last_name"] = *update.LastName
	}
	if update.Phone != nil {
		fields["phone"] = *update.Phone
	}
	if update.Role != nil {
		fields["role"] = *update.Role
	}
	if update.Organization != nil {
		fields["organization"] = *update.Organization
	}
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&employeeModel{}).
		Where("employee_id = ?", strings.TrimSpace(employeeID)).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEmployeeNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, employeeID string) error {
	result := r.db.WithContext(ctx).
		Where("employee_id = ?", strings.TrimSpace(employeeID)).
		Delete(&employeeModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEmployeeNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]entities.Employee, error) {
	var rows []employeeModel
	if err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Employee, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type employeeModel struct {
	EmployeeID   string    `gorm:"column:employee_id;primaryKey"`
	FirstName    string    `gorm:"column:first_name;size:64"`
	LastName     string    `gorm:"column:last_name;size:64"`
	Phone        int64     `gorm:"column:phone"`
	Role         string    `gorm:"column:role;size:36"`
	Organization string    `gorm:"column:organization;size:36"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (employeeModel) TableName() string {
	return "employees"
}

func (m employeeModel) toEntity() entities.Employee {
	return entities.Employee{
		ID:           m.EmployeeID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		Role:         m.Role,
		Organization: m.Organization,
		CreatedAt:    m.CreatedAt,
	}
}

func employeeModelFromEntity(employee entities.Employee) employeeModel {
	return employeeModel{
		EmployeeID:   employee.ID,
		FirstName:    employee.FirstName,
		LastName:     employee.LastName,
		Phone:        employee.Phone,
		Role:         employee.Role,
		Organization: employee.Organization,
		CreatedAt:    employee.CreatedAt.UTC(),
	}
}
