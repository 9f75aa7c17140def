package model

import "time"

type User struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Email     string
	AvatarURL *string
	ID        int64
}

type Session struct {
	ExpiresAt time.Time
	CreatedAt time.Time
	ID        int64
	UserID    int64
}
