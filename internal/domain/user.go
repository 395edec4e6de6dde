package domain

import "time"

type User struct {
	ID        string
	Username  string
	Role      Role
	CreatedAt time.Time
}
