package domain

import "time"

// RoleUser is the single authority granted to every authenticated user.
const RoleUser = "USER"

// User represents a registered account and its credential material.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSort names the columns users may be listed by.
type UserSort string

const (
	UserSortName  UserSort = "name"
	UserSortEmail UserSort = "email"
)

// ParseUserSort falls back to sorting by name for unknown values.
func ParseUserSort(s string) UserSort {
	switch UserSort(s) {
	case UserSortEmail:
		return UserSortEmail
	default:
		return UserSortName
	}
}
