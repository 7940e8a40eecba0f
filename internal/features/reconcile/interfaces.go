package reconcile

import (
	"context"
	"time"

	applicantmodels "business-visa-backend/internal/features/applicant/models"
	usermodels "business-visa-backend/internal/features/user/models"
	redisp "business-visa-backend/internal/platform/redis"
	"business-visa-backend/internal/platform/underdog"
)

type ExpiredUsers interface {
	ListExpired(ctx context.Context, nftType string, now time.Time) ([]*usermodels.User, error)
	UpdateStatus(ctx context.Context, id int64, from, to usermodels.VisaStatus) (bool, error)
}

type ClaimedUsers interface {
	UpsertByApplicant(ctx context.Context, user *usermodels.User) error
}

type UnclaimedApplicants interface {
	ListUnclaimed(ctx context.Context) ([]*applicantmodels.AcceptedApplicant, error)
	MarkClaimed(ctx context.Context, id int64) (bool, error)
}

type PendingApplicants interface {
	ListPendingMint(ctx context.Context, olderThan time.Time) ([]*applicantmodels.AcceptedApplicant, error)
}

type NFTUpdater interface {
	UpdateNFT(ctx context.Context, nftID int64, update underdog.NFTUpdate) (*underdog.NFTDetails, error)
}

type NFTGetter interface {
	GetNFT(ctx context.Context, nftID int64) (*underdog.NFTDetails, error)
}

type Minter interface {
	MintForApplicant(ctx context.Context, applicantID int64) (*applicantmodels.MintApplicantVisaResponse, error)
}

type ExpiredNotifier interface {
	NotifyExpired(ctx context.Context, to string) error
}

type ActivatedNotifier interface {
	NotifyActivated(ctx context.Context, to, mintAddress string) error
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*redisp.Lock, error)
}
