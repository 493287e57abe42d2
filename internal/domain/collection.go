package domain

import "time"

// Collection Model
type Collection struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`                     // Primary key (UUID)
	UserID    string    `gorm:"index;size:36;not null" json:"user"`                // Owner
	Title     string    `gorm:"size:255;not null" json:"title"`                    // Collection title
	Order     int       `gorm:"column:sort_order;not null;default:0" json:"order"` // Manual sort order
	CreatedAt time.Time `json:"createdAt"`                                         // Creation time
	UpdatedAt time.Time `json:"updatedAt"`                                         // Last update time
}
