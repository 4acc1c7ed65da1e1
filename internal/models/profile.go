package models

import "time"

// Profile holds the editable profile fields of a user.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Stats tracks a user's activity for the gamification view.
type Stats struct {
	TransactionsCreated int `json:"transactionsCreated"`
	ReportsGenerated    int `json:"reportsGenerated"`
	SheetsManaged       int `json:"sheetsManaged"`
	DaysActive          int `json:"daysActive"`
	Level               int `json:"level"`
	XP                  int `json:"xp"`
	NextLevelXP         int `json:"nextLevelXp"`

	// FirstAccess is zero until the first recorded access.
	FirstAccess time.Time `json:"firstAccess,omitempty"`

	// LastAccess is the calendar day of the latest recorded access.
	LastAccess Date `json:"lastAccess"`
}

// Achievement is a milestone unlocked by activity.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Progress    int    `json:"progress"`
	MaxProgress int    `json:"maxProgress"`
}

// Progress is the stats plus the achievements derived from them.
type Progress struct {
	Stats        Stats         `json:"stats"`
	Achievements []Achievement `json:"achievements"`
}
