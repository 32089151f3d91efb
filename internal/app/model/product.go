package model

import (
	"time"
)

type Product struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Price        float64   `gorm:"not null" json:"price"`
	Description  string    `gorm:"type:text" json:"description"`
	PreviewImage string    `json:"preview_image"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Cart items, favorites and reviews reference the product and go away
	// with it.
	Owner     User       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CartItems []CartItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews   []Review   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
