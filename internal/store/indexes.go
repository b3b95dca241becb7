package store

import (
	"cafeconnect/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
)

// IndexSpec declares one MongoDB index. Name follows the server's default naming so
// that indexes created outside this package are recognised.
type IndexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
}

type collectionIndexes struct {
	Collection string
	Indexes    []IndexSpec
}

// declaredIndexes is the index layout of every collection. The SQL equivalents live
// in the gorm tags of the models.
var declaredIndexes = []collectionIndexes{
	{repositories.CafesCollection, []IndexSpec{
		{Name: "name_text_location_text", Keys: bson.D{{Key: "name", Value: "text"}, {Key: "location", Value: "text"}}},
	}},
	{repositories.MenusCollection, []IndexSpec{
		{Name: "name_text_description_text", Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
		{Name: "category_1_isAvailable_1", Keys: bson.D{{Key: "category", Value: 1}, {Key: "isAvailable", Value: 1}}},
	}},
	{repositories.UsersCollection, []IndexSpec{
		{Name: "email_1", Keys: bson.D{{Key: "email", Value: 1}}, Unique: true},
	}},
	{repositories.OrdersCollection, []IndexSpec{
		{Name: "userId_1_orderDate_-1", Keys: bson.D{{Key: "userId", Value: 1}, {Key: "orderDate", Value: -1}}},
		{Name: "cafeId_1_status_1", Keys: bson.D{{Key: "cafeId", Value: 1}, {Key: "status", Value: 1}}},
	}},
}

func indexNames(specs []IndexSpec) []string {
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return names
}
