package models

import (
	"strings"
	"time"
)

// MenuCategory groups menu items on the catalog and the cashier screen.
type MenuCategory string

const (
	CategoryCoffee    MenuCategory = "coffee"
	CategoryNonCoffee MenuCategory = "non-coffee"
	CategoryFood      MenuCategory = "food"
	CategorySnack     MenuCategory = "snack"
	CategoryDessert   MenuCategory = "dessert"
)

// DefaultPreparationTime is in minutes.
const DefaultPreparationTime = 5

// Menu is a product sold by the cafe.
type Menu struct {
	ID              string       `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name            string       `json:"name" bson:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Category        MenuCategory `json:"category" bson:"category" gorm:"type:varchar(20);not null;index:idx_menus_category_available,priority:1" validate:"required,oneof=coffee non-coffee food snack dessert"`
	Description     string       `json:"description" bson:"description" gorm:"not null" validate:"required"`
	Price           *float64     `json:"price" bson:"price" gorm:"not null" validate:"required,gte=0"`
	Image           string       `json:"image" bson:"image"`
	IsAvailable     bool         `json:"isAvailable" bson:"isAvailable" gorm:"index:idx_menus_category_available,priority:2"`
	Rating          float64      `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	Ingredients     []string     `json:"ingredients" bson:"ingredients" gorm:"serializer:json"`
	Allergens       []string     `json:"allergens" bson:"allergens" gorm:"serializer:json"`
	IsPopular       bool         `json:"isPopular" bson:"isPopular"`
	IsPremium       bool         `json:"isPremium" bson:"isPremium"`
	Calories        *float64     `json:"calories,omitempty" bson:"calories,omitempty" validate:"omitempty,gte=0"`
	PreparationTime int          `json:"preparationTime" bson:"preparationTime" validate:"gte=0"`
	CreatedAt       time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// NewMenu returns a menu item carrying the schema defaults.
func NewMenu() *Menu {
	return &Menu{
		Category:        CategoryCoffee,
		IsAvailable:     true,
		Ingredients:     []string{},
		Allergens:       []string{},
		PreparationTime: DefaultPreparationTime,
	}
}

// Normalize trims free-text fields.
func (m *Menu) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Description = strings.TrimSpace(m.Description)
	m.Ingredients = trimAll(m.Ingredients)
	m.Allergens = trimAll(m.Allergens)
}

// UnitPrice is the price, or zero while the price is unset.
func (m Menu) UnitPrice() float64 {
	if m.Price == nil {
		return 0
	}
	return *m.Price
}

func (Menu) TableName() string { return "menus" }

func (m *Menu) GetID() string { return m.ID }
func (m *Menu) SetID(id string) { m.ID = id }
func (m *Menu) GetCreatedAt() time.Time { return m.CreatedAt }
func (m *Menu) SetTimestamps(created, updated time.Time) {
	m.CreatedAt, m.UpdatedAt = created, updated
}

func (m Menu) SearchName() string { return m.Name }
func (m Menu) SearchDescription() string { return m.Description }
func (m Menu) CategoryName() string { return string(m.Category) }
