package model

import (
	"time"
)

type AdminAccount struct {
	ID           int64     `db:"id" json:"id"`
	LoginID      string    `db:"login_id" json:"loginId"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
