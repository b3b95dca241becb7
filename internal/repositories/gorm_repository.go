package repositories

import (
	"context"
	"errors"
	"fmt"

	"cafeconnect/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormRepository implements Repository[T] for a GORM-mapped table.
type gormRepository[T any, P models.Document[T]] struct {
	db     *gorm.DB
	entity string
}

// GetAll retrieves every document, newest first.
func (r *gormRepository[T, P]) GetAll(ctx context.Context) ([]T, error) {
	return r.find(ctx, "created_at DESC", nil)
}

// GetByID retrieves a single document by its ID.
func (r *gormRepository[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s with ID %s %w", r.entity, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s by ID %s: %w", r.entity, id, err)
	}
	return &doc, nil
}

// Create assigns an ID and timestamps and inserts the document.
func (r *gormRepository[T, P]) Create(ctx context.Context, doc *T) error {
	p := P(doc)
	if p.GetID() == "" {
		p.SetID(uuid.New().String())
	}
	now := models.Now()
	p.SetTimestamps(now, now)
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return r.translate("create", err)
	}
	return nil
}

// Update writes every field of an existing document.
func (r *gormRepository[T, P]) Update(ctx context.Context, doc *T) error {
	p := P(doc)
	p.SetTimestamps(p.GetCreatedAt(), models.Now())
	// Save would insert a missing row, so update explicitly and check the match count.
	res := r.db.WithContext(ctx).Model(doc).Where("id = ?", p.GetID()).Select("*").Updates(doc)
	if res.Error != nil {
		return r.translate("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s with ID %s %w", r.entity, p.GetID(), ErrNotFound)
	}
	return nil
}

// Delete removes a document by its ID and returns it.
func (r *gormRepository[T, P]) Delete(ctx context.Context, id string) (*T, error) {
	var doc T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&doc, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&doc).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s with ID %s %w", r.entity, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete %s: %w", r.entity, err)
	}
	return &doc, nil
}

// DeleteAll empties the table.
func (r *gormRepository[T, P]) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear %ss: %w", r.entity, res.Error)
	}
	return res.RowsAffected, nil
}

// Count returns the number of stored documents.
func (r *gormRepository[T, P]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %ss: %w", r.entity, err)
	}
	return n, nil
}

func (r *gormRepository[T, P]) find(ctx context.Context, order string, where map[string]any) ([]T, error) {
	docs := make([]T, 0)
	q := r.db.WithContext(ctx).Order(order)
	if len(where) > 0 {
		q = q.Where(where)
	}
	if err := q.Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to get %ss: %w", r.entity, err)
	}
	return docs, nil
}

func (r *gormRepository[T, P]) translate(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to %s %s: %w", op, r.entity, ErrDuplicate)
	}
	return fmt.Errorf("failed to %s %s: %w", op, r.entity, err)
}

// GORMCafeRepository is a GORM implementation of CafeRepository.
type GORMCafeRepository struct {
	gormRepository[models.Cafe, *models.Cafe]
}

// NewGORMCafeRepository creates a new instance of GORMCafeRepository.
func NewGORMCafeRepository(db *gorm.DB) *GORMCafeRepository {
	return &GORMCafeRepository{gormRepository[models.Cafe, *models.Cafe]{db: db, entity: "cafe"}}
}

// GORMMenuRepository is a GORM implementation of MenuRepository.
type GORMMenuRepository struct {
	gormRepository[models.Menu, *models.Menu]
}

// NewGORMMenuRepository creates a new instance of GORMMenuRepository.
func NewGORMMenuRepository(db *gorm.DB) *GORMMenuRepository {
	return &GORMMenuRepository{gormRepository[models.Menu, *models.Menu]{db: db, entity: "menu"}}
}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	gormRepository[models.User, *models.User]
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{gormRepository[models.User, *models.User]{db: db, entity: "user"}}
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", models.NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	gormRepository[models.Order, *models.Order]
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{gormRepository[models.Order, *models.Order]{db: db, entity: "order"}}
}

// GetByUserID retrieves a user's orders, most recent first.
func (r *GORMOrderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	return r.find(ctx, "order_date DESC", map[string]any{"user_id": userID})
}

// GetByCafeID retrieves a cafe's orders, optionally filtered by status.
func (r *GORMOrderRepository) GetByCafeID(ctx context.Context, cafeID string, status models.OrderStatus) ([]models.Order, error) {
	where := map[string]any{"cafe_id": cafeID}
	if status != "" {
		where["status"] = string(status)
	}
	return r.find(ctx, "created_at DESC", where)
}
