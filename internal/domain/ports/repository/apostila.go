package repository

import (
	"context"

	"apostila-generator/internal/domain/model"
)

type ApostilaRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Apostila) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Apostila, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Apostila, error)
}
