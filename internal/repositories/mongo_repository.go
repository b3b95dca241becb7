package repositories

import (
	"context"
	"errors"
	"fmt"

	"cafeconnect/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by every store driver.
const (
	CafesCollection  = "cafes"
	MenusCollection  = "menus"
	UsersCollection  = "users"
	OrdersCollection = "orders"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// mongoRepository implements Repository[T] over a MongoDB collection.
type mongoRepository[T any, P models.Document[T]] struct {
	coll   *mongo.Collection
	entity string
}

func (r *mongoRepository[T, P]) GetAll(ctx context.Context) ([]T, error) {
	return r.find(ctx, bson.D{}, newestFirst)
}

func (r *mongoRepository[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s with ID %s %w", r.entity, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s by ID %s: %w", r.entity, id, err)
	}
	return &doc, nil
}

func (r *mongoRepository[T, P]) Create(ctx context.Context, doc *T) error {
	p := P(doc)
	if p.GetID() == "" {
		p.SetID(uuid.New().String())
	}
	now := models.Now()
	p.SetTimestamps(now, now)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return r.translate("create", err)
	}
	return nil
}

func (r *mongoRepository[T, P]) Update(ctx context.Context, doc *T) error {
	p := P(doc)
	p.SetTimestamps(p.GetCreatedAt(), models.Now())
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.GetID()}, doc)
	if err != nil {
		return r.translate("update", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s with ID %s %w", r.entity, p.GetID(), ErrNotFound)
	}
	return nil
}

func (r *mongoRepository[T, P]) Delete(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s with ID %s %w", r.entity, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete %s: %w", r.entity, err)
	}
	return &doc, nil
}

func (r *mongoRepository[T, P]) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to clear %ss: %w", r.entity, err)
	}
	return res.DeletedCount, nil
}

func (r *mongoRepository[T, P]) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %ss: %w", r.entity, err)
	}
	return n, nil
}

func (r *mongoRepository[T, P]) find(ctx context.Context, filter any, sort bson.D) ([]T, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to get %ss: %w", r.entity, err)
	}
	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %ss: %w", r.entity, err)
	}
	return docs, nil
}

func (r *mongoRepository[T, P]) translate(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to %s %s: %w", op, r.entity, ErrDuplicate)
	}
	return fmt.Errorf("failed to %s %s: %w", op, r.entity, err)
}

// MongoCafeRepository is a MongoDB implementation of CafeRepository.
type MongoCafeRepository struct {
	mongoRepository[models.Cafe, *models.Cafe]
}

// NewMongoCafeRepository creates a new instance of MongoCafeRepository.
func NewMongoCafeRepository(db *mongo.Database) *MongoCafeRepository {
	return &MongoCafeRepository{mongoRepository[models.Cafe, *models.Cafe]{coll: db.Collection(CafesCollection), entity: "cafe"}}
}

// MongoMenuRepository is a MongoDB implementation of MenuRepository.
type MongoMenuRepository struct {
	mongoRepository[models.Menu, *models.Menu]
}

// NewMongoMenuRepository creates a new instance of MongoMenuRepository.
func NewMongoMenuRepository(db *mongo.Database) *MongoMenuRepository {
	return &MongoMenuRepository{mongoRepository[models.Menu, *models.Menu]{coll: db.Collection(MenusCollection), entity: "menu"}}
}

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	mongoRepository[models.User, *models.User]
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{mongoRepository[models.User, *models.User]{coll: db.Collection(UsersCollection), entity: "user"}}
}

// GetByEmail retrieves a user by email.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": models.NormalizeEmail(email)}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user with email %s %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
type MongoOrderRepository struct {
	mongoRepository[models.Order, *models.Order]
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{mongoRepository[models.Order, *models.Order]{coll: db.Collection(OrdersCollection), entity: "order"}}
}

// GetByUserID uses the (userId, orderDate desc) index.
func (r *MongoOrderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"userId": userID}, bson.D{{Key: "orderDate", Value: -1}})
}

// GetByCafeID uses the (cafeId, status) index.
func (r *MongoOrderRepository) GetByCafeID(ctx context.Context, cafeID string, status models.OrderStatus) ([]models.Order, error) {
	filter := bson.M{"cafeId": cafeID}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter, newestFirst)
}
