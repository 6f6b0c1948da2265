package dao

import (
	"context"

	"gorm.io/gorm"
)

// TxDAOs are DAOs bound to one open transaction.
type TxDAOs struct {
	Users     *UserDAO
	Teams     *TeamDAO
	Interests *InterestDAO
}

// UnitOfWork runs a function inside a database transaction. Row locks taken
// through the TxDAOs are held until the function returns; a returned error
// rolls everything back.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db: db,
	}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(tx TxDAOs) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxDAOs{
			Users:     NewUserDAO(tx),
			Teams:     NewTeamDAO(tx),
			Interests: NewInterestDAO(tx),
		})
	})
}
