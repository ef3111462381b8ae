package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

type CategoriesStore struct {
	pool *pgxpool.Pool
}

func NewCategoriesStore(pool *pgxpool.Pool) *CategoriesStore {
	return &CategoriesStore{pool: pool}
}

const categoryColumns = `id, name, created_at, updated_at`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var (
		c      domain.Category
		idUUID pgtype.UUID
	)
	if err := row.Scan(&idUUID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Category{}, err
	}
	c.ID = uuidOrEmpty(idUUID)
	return c, nil
}

func (s *CategoriesStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	defer rows.Close()

	out := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, storeErr("scan category", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list categories", err)
	}
	return out, nil
}

func (s *CategoriesStore) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	c, err := scanCategory(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, domain.ErrNotFound
		}
		return domain.Category{}, storeErr("get category", err)
	}
	return c, nil
}

func (s *CategoriesStore) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	const q = `INSERT INTO categories (name) VALUES ($1) RETURNING ` + categoryColumns

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	c, err := scanCategory(s.pool.QueryRow(ctx, q, name))
	if err != nil {
		return domain.Category{}, mapCategoryWriteError(err)
	}
	return c, nil
}

func (s *CategoriesStore) RenameCategory(ctx context.Context, id, name string) (domain.Category, error) {
	const q = `UPDATE categories SET name = $2, updated_at = now() WHERE id = $1 RETURNING ` + categoryColumns

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	c, err := scanCategory(s.pool.QueryRow(ctx, q, id, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, domain.ErrNotFound
		}
		return domain.Category{}, mapCategoryWriteError(err)
	}
	return c, nil
}

func (s *CategoriesStore) DeleteCategory(ctx context.Context, id string) error {
	const q = `DELETE FROM categories WHERE id = $1`

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return storeErr("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapCategoryWriteError(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return domain.ErrCategoryExists
	}
	return storeErr("write category", err)
}
