package repository

import "time"

type Player struct {
	PlayerId     int64     `db:"player_id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type CreatePlayerParams struct {
	Username     string
	PasswordHash []byte
}
