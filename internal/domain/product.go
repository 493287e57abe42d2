package domain

import "time"

// Product Model
type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"_id"`                     // Primary key (UUID)
	UserID      string    `gorm:"index;size:36;not null" json:"user"`                // Owner
	Title       string    `gorm:"size:255;not null" json:"title"`                    // Product title
	Description string    `gorm:"type:text" json:"description"`                      // Optional description
	Price       float64   `gorm:"not null;default:0" json:"price"`                   // Non-negative price
	ImageURL    string    `gorm:"size:2048;not null" json:"imageUrl"`                // Product image
	ProductURL  string    `gorm:"size:2048;not null" json:"productUrl"`              // External purchase URL
	Clicks      int64     `gorm:"not null;default:0" json:"clicks"`                  // Lifetime counter
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"` // Manual sort order
	CreatedAt   time.Time `json:"createdAt"`                                         // Creation time
	UpdatedAt   time.Time `json:"updatedAt"`                                         // Last update time
}
