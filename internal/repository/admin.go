package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/admanager/ad-server-go/internal/model"
)

// AdminAccountRepository is the read side of the admin credential store.
// Accounts are created by seeding, outside this service.
type AdminAccountRepository interface {
	FindByLoginID(ctx context.Context, loginID string) (*model.AdminAccount, error)
}

type adminAccountRepo struct {
	db *sqlx.DB
}

func NewAdminAccountRepository(db *sqlx.DB) AdminAccountRepository {
	return &adminAccountRepo{db: db}
}

func (r *adminAccountRepo) FindByLoginID(ctx context.Context, loginID string) (*model.AdminAccount, error) {
	var account model.AdminAccount
	err := r.db.GetContext(ctx, &account, `
		SELECT id, login_id, password_hash, created_at, updated_at
		FROM admin_users
		WHERE login_id = $1
	`, loginID)
	return HandleNotFound(&account, err)
}
