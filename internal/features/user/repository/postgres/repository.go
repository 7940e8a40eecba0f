package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"business-visa-backend/internal/features/user/models"
	"business-visa-backend/internal/features/user/repository"
)

const userColumns = `
	id, applicant_id, wallet_address, name, email, discord_id,
	nft_type, nft_status, nft_id, COALESCE(nft_mint_address, ''),
	nft_issued_at, nft_expires_at, created_at, updated_at`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListExpired(ctx context.Context, nftType string, now time.Time) ([]*models.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE nft_type = $1 AND nft_status = $2 AND nft_expires_at <= $3
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, nftType, models.VisaStatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// UpdateStatus is conditional on the current status so two overlapping runs
// cannot both apply the same transition.
func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, from, to models.VisaStatus) (bool, error) {
	if !to.Valid() {
		return false, fmt.Errorf("invalid visa status %q", to)
	}

	query := `
		UPDATE users
		SET nft_status = $3, updated_at = NOW()
		WHERE id = $1 AND nft_status = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to update user status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *postgresRepository) UpsertByApplicant(ctx context.Context, u *models.User) error {
	if u.ApplicantID == nil {
		return errors.New("user has no applicant id")
	}

	query := `
		INSERT INTO users (
			applicant_id, wallet_address, name, email, discord_id,
			nft_type, nft_status, nft_id, nft_mint_address, nft_issued_at, nft_expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11)
		ON CONFLICT (applicant_id) DO UPDATE SET
			wallet_address = EXCLUDED.wallet_address,
			email = EXCLUDED.email,
			nft_status = EXCLUDED.nft_status,
			nft_id = EXCLUDED.nft_id,
			nft_mint_address = EXCLUDED.nft_mint_address,
			nft_issued_at = EXCLUDED.nft_issued_at,
			nft_expires_at = EXCLUDED.nft_expires_at,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		u.ApplicantID, u.WalletAddress, u.Name, u.Email, u.DiscordID,
		u.NFTType, u.NFTStatus, u.NFTID, u.NFTMintAddress, u.NFTIssuedAt, u.NFTExpiresAt,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u           models.User
		applicantID sql.NullInt64
		nftID       sql.NullInt64
		issuedAt    sql.NullTime
		expiresAt   sql.NullTime
	)

	err := row.Scan(
		&u.ID, &applicantID, &u.WalletAddress, &u.Name, &u.Email, &u.DiscordID,
		&u.NFTType, &u.NFTStatus, &nftID, &u.NFTMintAddress,
		&issuedAt, &expiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if applicantID.Valid {
		u.ApplicantID = &applicantID.Int64
	}
	if nftID.Valid {
		u.NFTID = &nftID.Int64
	}
	if issuedAt.Valid {
		u.NFTIssuedAt = &issuedAt.Time
	}
	if expiresAt.Valid {
		u.NFTExpiresAt = &expiresAt.Time
	}

	return &u, nil
}
