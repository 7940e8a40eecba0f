package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"business-visa-backend/internal/features/applicant/models"
	"business-visa-backend/internal/features/applicant/repository"
)

const applicantColumns = `
	id, wallet_address, name, email, discord_id, country,
	nft_id, nft_issued_at, nft_expires_at, nft_claim_link, nft_mint_address,
	has_claimed, created_at, updated_at`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.ApplicantRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, a *models.AcceptedApplicant) (int64, error) {
	query := `
		INSERT INTO accepted_applicants (wallet_address, name, email, discord_id, country)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		a.WalletAddress, a.Name, a.Email, a.DiscordID, a.Country,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create applicant: %w", err)
	}

	return a.ID, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.AcceptedApplicant, error) {
	query := `SELECT` + applicantColumns + ` FROM accepted_applicants WHERE id = $1`

	a, err := scanApplicant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrApplicantNotFound
		}
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}

	return a, nil
}

// MarkMinted only touches the row when it has no NFT, so a duplicate delivery
// cannot overwrite an earlier mint.
func (r *postgresRepository) MarkMinted(ctx context.Context, id int64, rec models.MintRecord) error {
	query := `
		UPDATE accepted_applicants
		SET nft_id = $2,
			nft_issued_at = $3,
			nft_expires_at = $4,
			has_claimed = FALSE,
			nft_claim_link = $5,
			nft_mint_address = $6,
			updated_at = NOW()
		WHERE id = $1 AND nft_id IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		id, rec.NFTID, rec.IssuedAt, rec.ExpiresAt, rec.ClaimLink, rec.MintAddress)
	if err != nil {
		return fmt.Errorf("failed to mark applicant minted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repository.ErrAlreadyMinted
	}

	return nil
}

func (r *postgresRepository) ListPendingMint(ctx context.Context, olderThan time.Time) ([]*models.AcceptedApplicant, error) {
	query := `SELECT` + applicantColumns + `
		FROM accepted_applicants
		WHERE nft_id IS NULL AND created_at <= $1
		ORDER BY id`

	return r.list(ctx, query, olderThan)
}

func (r *postgresRepository) ListUnclaimed(ctx context.Context) ([]*models.AcceptedApplicant, error) {
	query := `SELECT` + applicantColumns + `
		FROM accepted_applicants
		WHERE nft_id IS NOT NULL AND has_claimed = FALSE
		ORDER BY id`

	return r.list(ctx, query)
}

func (r *postgresRepository) MarkClaimed(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE accepted_applicants
		SET has_claimed = TRUE, updated_at = NOW()
		WHERE id = $1 AND has_claimed = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark applicant claimed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.AcceptedApplicant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	defer rows.Close()

	applicants := make([]*models.AcceptedApplicant, 0)
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		applicants = append(applicants, a)
	}

	return applicants, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanApplicant(row scanner) (*models.AcceptedApplicant, error) {
	var (
		a           models.AcceptedApplicant
		nftID       sql.NullInt64
		issuedAt    sql.NullTime
		expiresAt   sql.NullTime
		claimLink   sql.NullString
		mintAddress sql.NullString
	)

	err := row.Scan(
		&a.ID, &a.WalletAddress, &a.Name, &a.Email, &a.DiscordID, &a.Country,
		&nftID, &issuedAt, &expiresAt, &claimLink, &mintAddress,
		&a.HasClaimed, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nftID.Valid {
		a.NFTID = &nftID.Int64
	}
	if issuedAt.Valid {
		a.NFTIssuedAt = &issuedAt.Time
	}
	if expiresAt.Valid {
		a.NFTExpiresAt = &expiresAt.Time
	}
	if claimLink.Valid {
		a.NFTClaimLink = &claimLink.String
	}
	if mintAddress.Valid {
		a.NFTMintAddress = &mintAddress.String
	}

	return &a, nil
}
