package models

import "time"

// Post represents a user-authored content item with like/unlike counters
// and a derived rating.
//
// Slug is unique and never changes after creation. Rating is kept in sync
// with the counters by the repository: every counter bump recomputes it in
// the same UPDATE statement.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ImageURL    string    `json:"image,omitempty"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	LikeCount   int       `gorm:"not null;default:0" json:"like"`
	UnlikeCount int       `gorm:"not null;default:0" json:"unlike"`
	Rating      int       `gorm:"not null;default:0" json:"rating"`
	IsDisable   bool      `gorm:"not null;default:false;index" json:"-"`
	Comments    []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ComputeRating derives the rating from the current counters. The stored
// rating column is authoritative; this exists for construction and tests.
func (p *Post) ComputeRating() int {
	return p.LikeCount - p.UnlikeCount
}
