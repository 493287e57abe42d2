package domain

import "time"

// TargetType tells which entity a click event references
type TargetType string

// Click targets
const (
	TargetLink    TargetType = "link"
	TargetProduct TargetType = "product"
)

// Click Model, an immutable append-only event
type Click struct {
	ID         string     `gorm:"primaryKey;size:36" json:"_id"`                                        // Primary key (UUID)
	TargetID   string     `gorm:"index;size:36;not null" json:"targetId"`                               // Clicked link or product
	TargetType TargetType `gorm:"size:16;not null" json:"targetType"`                                   // link or product
	UserID     string     `gorm:"index:idx_clicks_user_time,priority:1;size:36;not null" json:"userId"` // Owner of the target
	ClickedAt  time.Time  `gorm:"index:idx_clicks_user_time,priority:2;not null" json:"clickedAt"`      // UTC timestamp
}
