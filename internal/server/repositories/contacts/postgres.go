package contacts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tasklane/internal/dbx"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	query :=
		`INSERT INTO contact_messages (user_id, name, email, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		msg.UserID, msg.Name, msg.Email, msg.Message, msg.CreatedAt).Scan(&msg.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}
