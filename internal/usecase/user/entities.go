package user

import "time"

type ProfileDTO struct {
	PrincipalID string    `json:"principal_id"`
	Name        string    `json:"name"`
	Balance     uint64    `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
}
