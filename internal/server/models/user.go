package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	DisplayName  string
	CompanyName  string
	Department   string
	Role         Role
	CreatedAt    time.Time
}
