package repository

import (
	"context"
	"time"

	"business-visa-backend/internal/features/user/models"
)

type UserRepository interface {
	// ListExpired returns users of nftType still marked active whose expiry is at or before now.
	ListExpired(ctx context.Context, nftType string, now time.Time) ([]*models.User, error)
	// UpdateStatus moves a user from one status to another and reports whether
	// the row was still in the from status.
	UpdateStatus(ctx context.Context, id int64, from, to models.VisaStatus) (bool, error)
	// UpsertByApplicant creates or refreshes the user minted for an applicant.
	UpsertByApplicant(ctx context.Context, user *models.User) error
}
