package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cafeconnect/internal/repositories"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// DefaultDatabase is used when the connection string names no database.
const DefaultDatabase = "cafeconnect"

const codeNamespaceNotFound = 26

// MongoStore is the primary store, backed by a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database

	cafes  *repositories.MongoCafeRepository
	menus  *repositories.MongoMenuRepository
	users  *repositories.MongoUserRepository
	orders *repositories.MongoOrderRepository
}

// OpenMongo connects to uri and verifies the connection with a ping. With
// createIndexes set, missing declared indexes are built before the store is returned,
// so the unique email index is in place before the first write.
func OpenMongo(ctx context.Context, uri string, createIndexes bool) (*MongoStore, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.WithField("database", dbName).Info("Connected to MongoDB")

	db := client.Database(dbName)
	s := &MongoStore{
		client: client,
		db:     db,
		cafes:  repositories.NewMongoCafeRepository(db),
		menus:  repositories.NewMongoMenuRepository(db),
		users:  repositories.NewMongoUserRepository(db),
		orders: repositories.NewMongoOrderRepository(db),
	}
	if createIndexes {
		report, err := s.syncIndexes(ctx, false)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		for _, r := range report {
			if len(r.Created) > 0 {
				log.WithFields(log.Fields{"collection": r.Collection, "created": r.Created}).Info("Created missing indexes")
			}
		}
	}
	return s, nil
}

func (s *MongoStore) Cafes() repositories.CafeRepository   { return s.cafes }
func (s *MongoStore) Menus() repositories.MenuRepository   { return s.menus }
func (s *MongoStore) Users() repositories.UserRepository   { return s.users }
func (s *MongoStore) Orders() repositories.OrderRepository { return s.orders }

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Collections(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// SyncIndexes drops every index that is not declared (except _id_) and creates the
// declared ones that are missing.
func (s *MongoStore) SyncIndexes(ctx context.Context) ([]IndexSync, error) {
	return s.syncIndexes(ctx, true)
}

// syncIndexes creates the missing declared indexes and, when drop is set, removes
// the undeclared ones.
func (s *MongoStore) syncIndexes(ctx context.Context, drop bool) ([]IndexSync, error) {
	report := make([]IndexSync, 0, len(declaredIndexes))
	for _, decl := range declaredIndexes {
		coll := s.db.Collection(decl.Collection)
		existing, err := s.indexNames(ctx, coll)
		if err != nil {
			return nil, err
		}

		result := IndexSync{Collection: decl.Collection, Indexes: indexNames(decl.Indexes)}
		declared := result.Indexes
		for _, name := range existing {
			if !drop || name == "_id_" || slices.Contains(declared, name) {
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, name); err != nil {
				return nil, fmt.Errorf("failed to drop index %s on %s: %w", name, decl.Collection, err)
			}
			result.Dropped = append(result.Dropped, name)
		}

		var missing []mongo.IndexModel
		for _, spec := range decl.Indexes {
			if slices.Contains(existing, spec.Name) {
				continue
			}
			opts := options.Index().SetName(spec.Name)
			if spec.Unique {
				opts.SetUnique(true)
			}
			missing = append(missing, mongo.IndexModel{Keys: spec.Keys, Options: opts})
			result.Created = append(result.Created, spec.Name)
		}
		if len(missing) > 0 {
			if _, err := coll.Indexes().CreateMany(ctx, missing); err != nil {
				return nil, fmt.Errorf("failed to create indexes on %s: %w", decl.Collection, err)
			}
		}
		report = append(report, result)
	}
	return report, nil
}

func (s *MongoStore) indexNames(ctx context.Context, coll *mongo.Collection) ([]string, error) {
	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list indexes on %s: %w", coll.Name(), err)
	}
	var specs []struct {
		Name string `bson:"name"`
	}
	if err := cursor.All(ctx, &specs); err != nil {
		return nil, fmt.Errorf("failed to decode indexes on %s: %w", coll.Name(), err)
	}
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return names, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	log.Info("MongoDB connection closed")
	return nil
}
