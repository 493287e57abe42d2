package domain

import "time"

// Theme names a public profile theme
type Theme string

// Available themes; every theme except the default one is reserved to pro users
const (
	ThemeDefault  Theme = "default"  // Ocean Blue
	ThemeSunset   Theme = "sunset"   // Sunset Orange
	ThemeForest   Theme = "forest"   // Forest Green
	ThemeMidnight Theme = "midnight" // Midnight Dark
)

// proThemes lists themes that require a pro account
var proThemes = map[Theme]bool{
	ThemeSunset:   true,
	ThemeForest:   true,
	ThemeMidnight: true,
}

// Known reports whether t is one of the available themes
func (t Theme) Known() bool {
	return t == ThemeDefault || proThemes[t]
}

// RequiresPro reports whether t is reserved to pro users
func (t Theme) RequiresPro() bool {
	return proThemes[t]
}

// User Model
type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"_id"`                // Primary key (UUID)
	Username        string    `gorm:"uniqueIndex;size:64;not null" json:"username"` // Unique username
	Email           string    `gorm:"uniqueIndex;size:255;not null" json:"email"`   // Unique lowercased email
	Password        string    `gorm:"not null" json:"-"`                            // Hashed password
	Bio             string    `gorm:"type:text" json:"bio"`                         // Profile bio
	ProfilePhotoURL string    `gorm:"size:2048" json:"profilePhotoUrl"`             // Profile photo URL
	Theme           Theme     `gorm:"size:32;default:default" json:"theme"`         // Public page theme
	IsProUser       bool      `gorm:"not null;default:false" json:"isProUser"`      // Pro tier flag
	CreatedAt       time.Time `json:"createdAt"`                                    // Creation time
	UpdatedAt       time.Time `json:"updatedAt"`                                    // Last update time
}
