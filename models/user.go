package models

import "time"

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Role      string     `gorm:"size:20;not null;default:'user'" json:"role"` // "admin" or "user"
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	Orders    []Order    `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
