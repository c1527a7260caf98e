package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/crosscast/crosscast-api/internal/models"
)

type ServiceKeyRepository interface {
	Upsert(ctx context.Context, key *models.ServiceKey) (int64, error)
	GetActive(ctx context.Context, userID int64, service string) (*models.ServiceKey, bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.ServiceKey, error)
	Remove(ctx context.Context, userID int64, service string) error
}

type serviceKeyRepository struct {
	db *sql.DB
}

func NewServiceKeyRepository(db *sql.DB) ServiceKeyRepository {
	return &serviceKeyRepository{db: db}
}

// Upsert keys on (user_id, service); saving a new key for the same
// service replaces the old one.
func (r *serviceKeyRepository) Upsert(ctx context.Context, key *models.ServiceKey) (int64, error) {
	query := `
		INSERT INTO service_keys (user_id, service, api_key, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (user_id, service) DO UPDATE
		SET api_key = EXCLUDED.api_key,
			is_active = TRUE,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, key.UserID, key.Service, key.ApiKey).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *serviceKeyRepository) GetActive(ctx context.Context, userID int64, service string) (*models.ServiceKey, bool, error) {
	query := `
		SELECT id, user_id, service, api_key, is_active, created_at, updated_at
		FROM service_keys
		WHERE user_id = $1 AND service = $2 AND is_active = TRUE
	`
	row := r.db.QueryRowContext(ctx, query, userID, service)

	var key models.ServiceKey
	err := row.Scan(&key.ID, &key.UserID, &key.Service, &key.ApiKey, &key.IsActive, &key.CreatedAt, &key.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &key, true, nil
}

func (r *serviceKeyRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ServiceKey, error) {
	query := `
		SELECT id, user_id, service, api_key, is_active, created_at, updated_at
		FROM service_keys WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var keys []*models.ServiceKey
	for rows.Next() {
		var key models.ServiceKey
		err := rows.Scan(&key.ID, &key.UserID, &key.Service, &key.ApiKey, &key.IsActive, &key.CreatedAt, &key.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		keys = append(keys, &key)
	}
	return keys, rows.Err()
}

func (r *serviceKeyRepository) Remove(ctx context.Context, userID int64, service string) error {
	query := `DELETE FROM service_keys WHERE user_id = $1 AND service = $2`
	_, err := r.db.ExecContext(ctx, query, userID, service)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
