package domain

import "time"

type UserRole string

const (
	RoleOwner   UserRole = "owner"
	RolePartner UserRole = "partner"
)

// User is a registered bot account. Expenses and tags are scoped per user.
type User struct {
	ID         int64
	TelegramID int64
	Name       string
	Role       UserRole
	CreatedAt  time.Time
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}
