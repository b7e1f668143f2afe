package domain

//go:generate mockgen -destination=../../mocks/mock_item_repository.go -package=mocks github.com/ShashkovS/ejapp/internal/item/domain ItemRepository

import "context"

type Item struct {
	ID      int64
	Title   string
	OwnerID string
}

type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	TitlesByOwner(ctx context.Context, ownerID string) ([]string, error)
}
