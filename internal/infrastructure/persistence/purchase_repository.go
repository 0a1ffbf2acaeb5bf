package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID loads a purchase with its items and snapshot
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id int64) (*order.Purchase, error) {
	var model models.PurchaseModel
	if err := r.preloaded(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByUserID lists a customer's purchases
func (r *GormPurchaseRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseModel{}).Where("user_id = ?", userID)
	if status, ok := filter.Filters["status"].(order.Status); ok && status != "" {
		query = query.Where("status = ?", status.String())
	}
	return r.list(query, filter)
}

// FindByStatus lists purchases in one status queue
func (r *GormPurchaseRepository) FindByStatus(ctx context.Context, status order.Status, filter shared.Filter) ([]order.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseModel{}).Where("status = ?", status.String())
	return r.list(query, filter)
}

// CountByStatus returns the number of purchases in every status
func (r *GormPurchaseRepository) CountByStatus(ctx context.Context) (map[order.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.PurchaseModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[order.Status]int64, len(order.AllStatuses))
	for _, s := range order.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		status, err := order.ParseStatus(row.Status)
		if err != nil {
			return nil, err
		}
		counts[status] = row.Count
	}
	return counts, nil
}

// Create inserts header, items and snapshot in one transaction and copies
// the generated IDs back onto the aggregate.
func (r *GormPurchaseRepository) Create(ctx context.Context, p *order.Purchase) error {
	if !p.IsNew() {
		return shared.NewDomainError(shared.CodeValidationFailed, "purchase already persisted")
	}
	model := models.PurchaseModelFromDomain(p)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}

	p.ID = model.ID
	for i := range p.Items {
		p.Items[i].ID = model.Items[i].ID
		p.Items[i].PurchaseID = model.ID
	}
	return nil
}

// CompareAndSetStatus issues UPDATE ... WHERE id = ? AND status = ?.
// Zero affected rows means another actor moved the purchase first.
func (r *GormPurchaseRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to order.Status, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.PurchaseModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Updates(map[string]any{
			"status":     to.String(),
			"updated_at": at,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, fmt.Errorf("update purchase %d status: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *GormPurchaseRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Details")
}

func (r *GormPurchaseRepository) list(query *gorm.DB, filter shared.Filter) ([]order.Purchase, int64, error) {
	filter = filter.Normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.PurchaseModel
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Details").
		Order(fmt.Sprintf("%s %s, id %s", orderBy, orderDir, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	purchases := make([]order.Purchase, 0, len(rows))
	for i := range rows {
		p, err := rows[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		purchases = append(purchases, *p)
	}
	return purchases, total, nil
}

var _ order.PurchaseRepository = (*GormPurchaseRepository)(nil)
