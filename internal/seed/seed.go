// Package seed holds the one-shot maintenance jobs: loading the sample catalog and
// reconciling store indexes.
package seed

import (
	"context"
	"fmt"

	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"
	"cafeconnect/internal/services"
	"cafeconnect/internal/store"

	log "github.com/sirupsen/logrus"
)

// Summary reports the document counts left by Seed.
type Summary struct {
	Menus int64 `json:"menus"`
	Users int64 `json:"users"`
}

func price(v float64) *float64 { return &v }

// Menus is the sample coffee menu.
func Menus() []models.Menu {
	return []models.Menu{
		{
			Name:            "Arabic Coffee",
			Category:        models.CategoryCoffee,
			Description:     "Traditional Middle Eastern coffee with aromatic spices including cardamom. Rich, bold flavor that awakens your senses.",
			Price:           price(35000),
			Image:           "https://images.unsplash.com/photo-1610889556528-9a770e32642f?w=400&h=300&fit=crop",
			Rating:          4.8,
			Ingredients:     []string{"Arabica Coffee", "Cardamom", "Water", "Sugar"},
			Calories:        price(5),
			PreparationTime: 5,
		},
		{
			Name:            "Luwak Coffee",
			Category:        models.CategoryCoffee,
			Description:     "Indonesia's finest and rarest coffee. Smooth, earthy flavor with hints of chocolate and caramel.",
			Price:           price(75000),
			Image:           "https://images.unsplash.com/photo-1514432324607-a09d9b4aefdd?w=400&h=300&fit=crop",
			Rating:          5.0,
			IsPremium:       true,
			Ingredients:     []string{"Premium Luwak Coffee Beans", "Hot Water"},
			Calories:        price(2),
			PreparationTime: 7,
		},
		{
			Name:            "Milk Coffee",
			Category:        models.CategoryCoffee,
			Description:     "Perfect blend of espresso and steamed milk. Smooth, creamy texture with balanced sweetness.",
			Price:           price(28000),
			Image:           "https://images.unsplash.com/photo-1461023058943-07fcbe16d735?w=400&h=300&fit=crop",
			Rating:          4.5,
			Ingredients:     []string{"Espresso", "Fresh Milk", "Sugar"},
			Calories:        price(120),
			PreparationTime: 4,
		},
		{
			Name:            "Cappuccino Latte",
			Category:        models.CategoryCoffee,
			Description:     "Rich espresso with velvety steamed milk and delicate microfoam.",
			Price:           price(32000),
			Image:           "https://images.unsplash.com/photo-1509042239860-f550ce710b93?w=400&h=300&fit=crop",
			Rating:          4.7,
			Ingredients:     []string{"Espresso", "Steamed Milk", "Milk Foam"},
			Calories:        price(150),
			PreparationTime: 5,
		},
		{
			Name:            "Espresso",
			Category:        models.CategoryCoffee,
			Description:     "Strong and bold Italian coffee shot. Pure, concentrated coffee flavor.",
			Price:           price(25000),
			Image:           "https://images.unsplash.com/photo-1510591509098-f4fdc6d0ff04?w=400&h=300&fit=crop",
			Rating:          4.6,
			Ingredients:     []string{"Premium Espresso Beans", "Hot Water"},
			Calories:        price(3),
			PreparationTime: 3,
		},
		{
			Name:            "Americano",
			Category:        models.CategoryCoffee,
			Description:     "Espresso with hot water for a smooth, rich taste.",
			Price:           price(27000),
			Image:           "https://images.unsplash.com/photo-1532004491497-ba35c367d634?w=400&h=300&fit=crop",
			Rating:          4.4,
			Ingredients:     []string{"Espresso", "Hot Water"},
			Calories:        price(5),
			PreparationTime: 4,
		},
	}
}

// Users is the sample account list. Passwords are plain text here and hashed on insert.
func Users() []models.User {
	return []models.User{
		{Name: "Admin User", Email: "admin@cafeconnect.com", Password: "admin123", Phone: "081234567890", Role: models.RoleAdmin},
		{Name: "John Doe", Email: "john@example.com", Password: "user123", Phone: "081234567891", Role: models.RoleCustomer},
		{Name: "Jane Smith", Email: "jane@example.com", Password: "user123", Phone: "081234567892", Role: models.RoleCustomer},
	}
}

// Seed deletes every menu and user document, then inserts the sample data. Existing
// menus and users are lost; cafes and orders are not touched.
func Seed(ctx context.Context, s store.Store) (*Summary, error) {
	log.Info("Clearing existing menus and users")
	if _, err := s.Menus().DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear %s: %w", repositories.MenusCollection, err)
	}
	if _, err := s.Users().DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear %s: %w", repositories.UsersCollection, err)
	}

	menus := services.NewMenuService(s.Menus())
	for _, m := range Menus() {
		menu := models.NewMenu()
		menu.Name, menu.Description, menu.Price, menu.Image = m.Name, m.Description, m.Price, m.Image
		menu.Category, menu.Rating, menu.IsPremium = m.Category, m.Rating, m.IsPremium
		menu.Ingredients, menu.Calories, menu.PreparationTime = m.Ingredients, m.Calories, m.PreparationTime
		if _, err := menus.InsertMenu(ctx, menu); err != nil {
			return nil, fmt.Errorf("failed to seed menu %q: %w", m.Name, err)
		}
	}
	log.Infof("%d menus created", len(Menus()))

	users := services.NewUserService(s.Users())
	for _, u := range Users() {
		user := models.NewUser()
		user.Name, user.Email, user.Password, user.Phone, user.Role = u.Name, u.Email, u.Password, u.Phone, u.Role
		if _, err := users.InsertUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to seed user %q: %w", u.Email, err)
		}
	}
	log.Infof("%d users created", len(Users()))

	summary := &Summary{}
	var err error
	if summary.Menus, err = s.Menus().Count(ctx); err != nil {
		return nil, err
	}
	if summary.Users, err = s.Users().Count(ctx); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"menus": summary.Menus, "users": summary.Users}).Info("Seeding completed successfully")
	return summary, nil
}

// SyncIndexes lists the live collections, reconciles their indexes with the declared
// ones and reports the document count of each collection.
func SyncIndexes(ctx context.Context, s store.Store) ([]store.IndexSync, map[string]int64, error) {
	collections, err := s.Collections(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list collections: %w", err)
	}
	log.WithField("collections", collections).Info("Existing collections")

	synced, err := s.SyncIndexes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sync indexes: %w", err)
	}
	for _, r := range synced {
		log.WithFields(log.Fields{
			"collection": r.Collection,
			"indexes":    r.Indexes,
			"created":    r.Created,
			"dropped":    r.Dropped,
		}).Info("Indexes synced")
	}

	counts, err := store.Counts(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	for name, n := range counts {
		log.WithField("collection", name).Infof("%d documents", n)
	}
	return synced, counts, nil
}
