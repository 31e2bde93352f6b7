package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description"`
	Price         float64   `json:"price" gorm:"not null"`
	Category      string    `json:"category" gorm:"index"`
	StockQuantity int       `json:"stockQuantity" gorm:"not null;default:0"`
	Sales         int       `json:"sales" gorm:"not null;default:0"`
	Rating        float64   `json:"rating" gorm:"not null;default:0"`
	Reviews       []Review  `json:"reviews" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
