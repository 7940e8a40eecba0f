package repository

import (
	"context"
	"errors"
	"time"

	"business-visa-backend/internal/features/applicant/models"
)

var (
	ErrApplicantNotFound = errors.New("applicant not found")
	// ErrAlreadyMinted is returned when the row already carries an NFT.
	ErrAlreadyMinted = errors.New("applicant already has an nft")
)

type ApplicantRepository interface {
	Create(ctx context.Context, applicant *models.AcceptedApplicant) (int64, error)
	// GetByID returns ErrApplicantNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (*models.AcceptedApplicant, error)
	// MarkMinted writes the mint result onto one row that has no NFT yet.
	MarkMinted(ctx context.Context, id int64, rec models.MintRecord) error
	// ListPendingMint returns applicants without an NFT created before olderThan.
	ListPendingMint(ctx context.Context, olderThan time.Time) ([]*models.AcceptedApplicant, error)
	// ListUnclaimed returns minted applicants whose NFT is not claimed yet.
	ListUnclaimed(ctx context.Context) ([]*models.AcceptedApplicant, error)
	// MarkClaimed flips has_claimed and reports whether this call changed it.
	MarkClaimed(ctx context.Context, id int64) (bool, error)
}
