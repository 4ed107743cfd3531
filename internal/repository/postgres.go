package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/query"
)

const uniqueViolation = "23505"

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	itemColumns = []string{"id", "name", "quantity", "price", "description", "category", "created_at", "updated_at"}
	userColumns = []string{"id", "username", "email", "password_hash", "role", "created_at"}
)

// PostgresStorage хранит позиции и пользователей в PostgreSQL.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (r *PostgresStorage) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresStorage) Create(ctx context.Context, in models.ItemInput) (*models.Item, error) {
	item := &models.Item{ID: uuid.NewString()}
	in.Apply(item)

	sqlStr, args, err := psql.Insert("items").
		Columns("id", "name", "quantity", "price", "description", "category").
		Values(item.ID, item.Name, item.Quantity, item.Price, item.Description, item.Category).
		Suffix("RETURNING " + strings.Join(itemColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert item: %w", err)
	}

	created, err := scanItem(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return created, nil
}

func (r *PostgresStorage) GetByID(ctx context.Context, id string) (*models.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrItemNotFound
	}

	sqlStr, args, err := psql.Select(itemColumns...).From("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item: %w", err)
	}

	item, err := scanItem(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (r *PostgresStorage) Update(ctx context.Context, id string, in models.ItemInput) (*models.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrItemNotFound
	}

	var item models.Item
	in.Apply(&item)

	sqlStr, args, err := psql.Update("items").
		SetMap(map[string]interface{}{
			"name":        item.Name,
			"quantity":    item.Quantity,
			"price":       item.Price,
			"description": item.Description,
			"category":    item.Category,
			"updated_at":  sq.Expr("GREATEST(now(), updated_at)"),
		}).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(itemColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update item: %w", err)
	}

	updated, err := scanItem(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return updated, nil
}

func (r *PostgresStorage) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return models.ErrItemNotFound
	}

	sqlStr, args, err := psql.Delete("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete item: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrItemNotFound
	}
	return nil
}

func (r *PostgresStorage) List(ctx context.Context, q query.ListQuery) ([]models.Item, int, error) {
	where := q.Filter.Sqlizer()

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("items").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count items: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	sqlStr, args, err := psql.Select(itemColumns...).From("items").
		Where(where).
		OrderBy(q.Sort.OrderBy(), "id ASC").
		Offset(uint64(q.Page.Skip)).
		Limit(uint64(q.Page.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list items: %w", err)
	}

	items, err := r.queryItems(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

func (r *PostgresStorage) All(ctx context.Context) ([]models.Item, error) {
	sqlStr, args, err := psql.Select(itemColumns...).From("items").OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build all items: %w", err)
	}
	items, err := r.queryItems(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query all items: %w", err)
	}
	return items, nil
}

func (r *PostgresStorage) LowStock(ctx context.Context, threshold int) ([]models.Item, error) {
	sqlStr, args, err := psql.Select(itemColumns...).From("items").
		Where(query.LowStock{Threshold: threshold}.Sqlizer()).
		OrderBy("quantity ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build low stock: %w", err)
	}
	items, err := r.queryItems(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query low stock: %w", err)
	}
	return items, nil
}

func (r *PostgresStorage) CreateUser(ctx context.Context, u *models.User) error {
	sqlStr, args, err := psql.Insert("users").
		Columns("id", "username", "email", "password_hash", "role").
		Values(u.ID, u.Username, u.Email, u.PasswordHash, u.Role).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user: %w", err)
	}

	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, sq.Eq{"email": models.NormalizeEmail(email)})
}

func (r *PostgresStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrUserNotFound
	}
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *PostgresStorage) getUser(ctx context.Context, where sq.Eq) (*models.User, error) {
	sqlStr, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user: %w", err)
	}

	u := &models.User{}
	err = r.pool.QueryRow(ctx, sqlStr, args...).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *PostgresStorage) queryItems(ctx context.Context, sqlStr string, args ...interface{}) ([]models.Item, error) {
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan items rows: %w", err)
	}
	return items, nil
}

func scanItem(row pgx.Row) (*models.Item, error) {
	it := &models.Item{}
	if err := row.Scan(&it.ID, &it.Name, &it.Quantity, &it.Price, &it.Description,
		&it.Category, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return it, nil
}
