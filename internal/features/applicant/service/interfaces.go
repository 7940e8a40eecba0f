package service

import (
	"context"
	"time"

	"business-visa-backend/internal/features/applicant/models"
	redisp "business-visa-backend/internal/platform/redis"
	"business-visa-backend/internal/platform/underdog"
)

// ApplicantService accepts applicants and mints their business visas.
type ApplicantService interface {
	// Accept stores the applicant and queues the mint-visa job.
	Accept(ctx context.Context, req *models.AcceptApplicantRequest) (*models.AcceptApplicantResponse, error)
	// MintVisa checks the request and mints the visa of one applicant.
	MintVisa(ctx context.Context, req *models.MintApplicantVisaRequest) (*models.MintApplicantVisaResponse, error)
	// MintForApplicant mints without the secret check, for trusted in-process callers.
	MintForApplicant(ctx context.Context, applicantID int64) (*models.MintApplicantVisaResponse, error)
}

// Minter is the part of the NFT API used for minting.
type Minter interface {
	ListNFTs(ctx context.Context, limit int) (*underdog.NFTPage, error)
	CreateNFT(ctx context.Context, meta underdog.NFTMetadata) (*underdog.MintResult, error)
}

// Publisher queues a task. Publishing the same topic and key twice yields one task.
type Publisher interface {
	PublishJSON(ctx context.Context, topic, key string, payload interface{}) (string, error)
}

type Notifier interface {
	NotifyClaimLink(ctx context.Context, to, claimLink string) error
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*redisp.Lock, error)
}
