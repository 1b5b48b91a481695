package model

import "time"

// Student is a registered student. The USN doubles as the login credential;
// the plaintext value stays queryable for duplicate checks while UsnHash is
// what login verifies against.
type Student struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Batch       string    `gorm:"size:10;not null" json:"batch"`
	Usn         string    `gorm:"size:15;not null;uniqueIndex" json:"usn"`
	UsnHash     string    `gorm:"size:255;not null" json:"-"`
	Email       string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Branch      string    `gorm:"size:50;not null" json:"branch"`
	PassOutYear string    `gorm:"size:4;not null" json:"pass_out_year"`
	CreatedAt   time.Time `json:"created_at"`
}
