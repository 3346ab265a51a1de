package domain

import "time"

type StaffRole string

const (
	StaffRoleCoordinator StaffRole = "COORDINATOR"
	StaffRoleAdmin       StaffRole = "ADMIN"
)

type StaffUser struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	Active       bool      `json:"active"`
	CreatedOn    time.Time `json:"created_on"`
}
