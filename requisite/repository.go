package requisite

import (
	"context"
	"fmt"
	"slices"

	"github.com/brequin/brequin/regplan/db"
	"github.com/samber/lo"
)

// Repository persists trees through any row store.
type Repository struct {
	Store db.RowStore
}

func NewRepository(store db.RowStore) *Repository {
	return &Repository{Store: store}
}

// SaveTree appends the rows of one tree. Saving the same owner twice leaves
// both copies in the store; use ReplaceTrees to rewrite a catalog.
func (r *Repository) SaveTree(ctx context.Context, owner string, node Node) error {
	if err := r.Store.InsertRows(ctx, Flatten(owner, node)); err != nil {
		return fmt.Errorf("failed to save prerequisites of %v: %w", owner, err)
	}
	return nil
}

// ReplaceTrees rewrites the store with trees, owners in sorted order.
func (r *Repository) ReplaceTrees(ctx context.Context, trees map[string]Node) error {
	owners := lo.Keys(trees)
	slices.Sort(owners)

	if err := r.Store.ReplaceRows(ctx, FlattenAll(owners, trees)); err != nil {
		return fmt.Errorf("failed to replace prerequisites: %w", err)
	}
	return nil
}

func (r *Repository) LoadTrees(ctx context.Context) (map[string]Node, error) {
	rows, err := r.Store.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prerequisites: %w", err)
	}
	return Reconstruct(rows)
}
