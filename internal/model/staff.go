package model

import "time"

// Staff is a registered staff member; UniqueID doubles as the login
// credential, mirrored by UniqueIDHash the same way Student.Usn is.
type Staff struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	UniqueID     string    `gorm:"size:20;not null;uniqueIndex" json:"unique_id"`
	UniqueIDHash string    `gorm:"size:255;not null" json:"-"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}
