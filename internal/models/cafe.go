package models

import (
	"strings"
	"time"
)

// DefaultOpeningHours is assigned to cafes created without explicit hours.
const DefaultOpeningHours = "08:00 - 22:00"

// Cafe is a listed cafe in the catalog.
type Cafe struct {
	ID           string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" bson:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Location     string    `json:"location" bson:"location" gorm:"not null" validate:"required"`
	Address      string    `json:"address" bson:"address"`
	Rating       float64   `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	IsOpen       bool      `json:"isOpen" bson:"isOpen"`
	OpeningHours string    `json:"openingHours" bson:"openingHours"`
	Phone        string    `json:"phone" bson:"phone"`
	Description  string    `json:"description" bson:"description"`
	Image        string    `json:"image" bson:"image"`
	Facilities   []string  `json:"facilities" bson:"facilities" gorm:"serializer:json"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewCafe returns a cafe carrying the schema defaults.
func NewCafe() *Cafe {
	return &Cafe{
		IsOpen:       true,
		OpeningHours: DefaultOpeningHours,
		Facilities:   []string{},
	}
}

// Normalize trims free-text fields.
func (c *Cafe) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Location = strings.TrimSpace(c.Location)
	c.Address = strings.TrimSpace(c.Address)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Description = strings.TrimSpace(c.Description)
	c.Facilities = trimAll(c.Facilities)
}

// TableName keeps the SQL table aligned with the document collection name.
func (Cafe) TableName() string { return "cafes" }

func (c *Cafe) GetID() string { return c.ID }
func (c *Cafe) SetID(id string) { c.ID = id }
func (c *Cafe) GetCreatedAt() time.Time { return c.CreatedAt }
func (c *Cafe) SetTimestamps(created, updated time.Time) {
	c.CreatedAt, c.UpdatedAt = created, updated
}

func (c Cafe) SearchName() string { return c.Name }
func (c Cafe) SearchDescription() string { return c.Description }
