package domain

import "time"

// LinkType tags what a link renders as on the public page
type LinkType string

// Link types
const (
	LinkStandard LinkType = "standard"
	LinkVideo    LinkType = "video"
	LinkImage    LinkType = "image"
	LinkProduct  LinkType = "product"
)

// Valid reports whether t is a known link type
func (t LinkType) Valid() bool {
	switch t {
	case LinkStandard, LinkVideo, LinkImage, LinkProduct:
		return true
	}
	return false
}

// Link Model
type Link struct {
	ID           string    `gorm:"primaryKey;size:36" json:"_id"`                     // Primary key (UUID)
	UserID       string    `gorm:"index;size:36;not null" json:"user"`                // Owner
	Title        string    `gorm:"size:255;not null" json:"title"`                    // Display title
	URL          string    `gorm:"size:2048;not null" json:"url"`                     // Target URL
	Type         LinkType  `gorm:"size:16;not null;default:standard" json:"type"`     // Content type tag
	CollectionID *string   `gorm:"index;size:36" json:"collectionId"`                 // Optional collection, nil when uncategorised
	Clicks       int64     `gorm:"not null;default:0" json:"clicks"`                  // Lifetime counter
	Order        int       `gorm:"column:sort_order;not null;default:0" json:"order"` // Manual sort order
	CreatedAt    time.Time `json:"createdAt"`                                         // Creation time
	UpdatedAt    time.Time `json:"updatedAt"`                                         // Last update time
}
