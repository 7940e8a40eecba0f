package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "business-visa-backend/internal/common/errors"
	"business-visa-backend/internal/common/metrics"
	applicantmodels "business-visa-backend/internal/features/applicant/models"
	usermodels "business-visa-backend/internal/features/user/models"
	"business-visa-backend/internal/platform/underdog"
)

const (
	JobExpireStatus = "expire-status"
	JobClaimStatus  = "claim-status"
	JobPendingMint  = "pending-mint"
)

var (
	// ErrNoNFT is returned for a record that should carry an NFT id but does not.
	ErrNoNFT = errors.New("record has no nft id")
	// ErrNoUsableResult is returned when the NFT API answers without data.
	ErrNoUsableResult = errors.New("nft api returned no usable result")
)

// NewExpireStatusJob expires active business visas past their expiry, on the NFT
// and locally, then emails the holder a renewal link.
func NewExpireStatusJob(users ExpiredUsers, nfts NFTUpdater, notifier ExpiredNotifier, now func() time.Time, m *metrics.Metrics) *Runner[*usermodels.User] {
	if now == nil {
		now = time.Now
	}
	scan := func(ctx context.Context) ([]*usermodels.User, error) {
		return users.ListExpired(ctx, usermodels.NFTTypeBusiness, now())
	}
	process := func(ctx context.Context, u *usermodels.User) (Outcome, error) {
		if u.NFTID == nil {
			return Unchanged, ErrNoNFT
		}

		details, err := nfts.UpdateNFT(ctx, *u.NFTID, underdog.NFTUpdate{Attributes: expiredAttributes(u)})
		if err != nil {
			return Unchanged, fmt.Errorf("update nft %d: %w", *u.NFTID, err)
		}
		if details == nil {
			return Unchanged, ErrNoUsableResult
		}

		changed, err := users.UpdateStatus(ctx, u.ID, usermodels.VisaStatusActive, usermodels.VisaStatusExpired)
		if err != nil {
			return Unchanged, fmt.Errorf("update user status: %w", err)
		}
		if !changed {
			// another run expired it first and sent the email
			return Unchanged, nil
		}

		if err := notifier.NotifyExpired(ctx, u.Email); err != nil {
			return Unchanged, err
		}
		return Updated, nil
	}
	return NewRunner(JobExpireStatus, scan, userKey, process, m)
}

// NewClaimStatusJob activates minted visas once the NFT sits in the applicant's wallet.
func NewClaimStatusJob(applicants UnclaimedApplicants, users ClaimedUsers, nfts NFTGetter, notifier ActivatedNotifier, m *metrics.Metrics) *Runner[*applicantmodels.AcceptedApplicant] {
	process := func(ctx context.Context, a *applicantmodels.AcceptedApplicant) (Outcome, error) {
		if a.NFTID == nil {
			return Unchanged, ErrNoNFT
		}

		details, err := nfts.GetNFT(ctx, *a.NFTID)
		if err != nil {
			return Unchanged, fmt.Errorf("get nft %d: %w", *a.NFTID, err)
		}
		if details == nil {
			return Unchanged, ErrNoUsableResult
		}
		if !details.HeldBy(a.WalletAddress) {
			return Unchanged, nil
		}

		// the upsert is idempotent, so it goes first and a failure leaves the applicant unclaimed for the next run
		if err := users.UpsertByApplicant(ctx, activeUser(a)); err != nil {
			return Unchanged, fmt.Errorf("upsert user: %w", err)
		}
		changed, err := applicants.MarkClaimed(ctx, a.ID)
		if err != nil {
			return Unchanged, fmt.Errorf("mark claimed: %w", err)
		}
		if !changed {
			return Unchanged, nil
		}

		mint := ""
		if a.NFTMintAddress != nil {
			mint = *a.NFTMintAddress
		}
		if err := notifier.NotifyActivated(ctx, a.Email, mint); err != nil {
			return Unchanged, err
		}
		return Updated, nil
	}
	return NewRunner(JobClaimStatus, applicants.ListUnclaimed, applicantKey, process, m)
}

// NewPendingMintJob mints visas for applicants whose queued mint never completed.
func NewPendingMintJob(applicants PendingApplicants, minter Minter, grace time.Duration, now func() time.Time, m *metrics.Metrics) *Runner[*applicantmodels.AcceptedApplicant] {
	if now == nil {
		now = time.Now
	}
	scan := func(ctx context.Context) ([]*applicantmodels.AcceptedApplicant, error) {
		return applicants.ListPendingMint(ctx, now().Add(-grace))
	}
	process := func(ctx context.Context, a *applicantmodels.AcceptedApplicant) (Outcome, error) {
		if _, err := minter.MintForApplicant(ctx, a.ID); err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeAlreadyMinted {
				return Unchanged, nil
			}
			return Unchanged, err
		}
		return Updated, nil
	}
	return NewRunner(JobPendingMint, scan, applicantKey, process, m)
}

func expiredAttributes(u *usermodels.User) map[string]string {
	attrs := map[string]string{"status": string(usermodels.VisaStatusExpired)}
	if u.NFTIssuedAt != nil {
		attrs["issuedAt"] = unixMillis(*u.NFTIssuedAt)
	}
	if u.NFTExpiresAt != nil {
		attrs["expiresAt"] = unixMillis(*u.NFTExpiresAt)
	}
	return attrs
}

func activeUser(a *applicantmodels.AcceptedApplicant) *usermodels.User {
	applicantID := a.ID
	u := &usermodels.User{
		ApplicantID:   &applicantID,
		WalletAddress: a.WalletAddress,
		Name:          a.Name,
		Email:         a.Email,
		DiscordID:     a.DiscordID,
		NFTType:       usermodels.NFTTypeBusiness,
		NFTStatus:     usermodels.VisaStatusActive,
		NFTID:         a.NFTID,
		NFTIssuedAt:   a.NFTIssuedAt,
		NFTExpiresAt:  a.NFTExpiresAt,
	}
	if a.NFTMintAddress != nil {
		u.NFTMintAddress = *a.NFTMintAddress
	}
	return u
}

func unixMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func userKey(u *usermodels.User) string {
	return "user:" + strconv.FormatInt(u.ID, 10)
}

func applicantKey(a *applicantmodels.AcceptedApplicant) string {
	return "applicant:" + strconv.FormatInt(a.ID, 10)
}
