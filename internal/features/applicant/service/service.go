package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	apperrors "business-visa-backend/internal/common/errors"
	"business-visa-backend/internal/common/logger"
	"business-visa-backend/internal/common/metrics"
	"business-visa-backend/internal/common/secret"
	"business-visa-backend/internal/common/validation"
	"business-visa-backend/internal/features/applicant/models"
	"business-visa-backend/internal/features/applicant/repository"
	"business-visa-backend/internal/platform/queue"
	redisp "business-visa-backend/internal/platform/redis"
)

const defaultLockTTL = 2 * time.Minute

// Deps are the collaborators of the applicant service. Locker and Metrics may be nil.
type Deps struct {
	Gate       *secret.Gate
	Applicants repository.ApplicantRepository
	Minter     Minter
	Publisher  Publisher
	Notifier   Notifier
	Locker     Locker
	Metrics    *metrics.Metrics
}

// Settings are the fixed parameters of a mint.
type Settings struct {
	ClaimNetwork string
	Validity     time.Duration
	LockTTL      time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type applicantService struct {
	Deps
	settings Settings
	log      zerolog.Logger
}

func NewApplicantService(deps Deps, settings Settings) ApplicantService {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.LockTTL <= 0 {
		settings.LockTTL = defaultLockTTL
	}
	return &applicantService{
		Deps:     deps,
		settings: settings,
		log:      logger.With("applicant"),
	}
}

func (s *applicantService) Accept(ctx context.Context, req *models.AcceptApplicantRequest) (*models.AcceptApplicantResponse, error) {
	if req == nil || req.Applicant == nil {
		return nil, apperrors.NewValidationError("applicant", "is required")
	}
	if err := validateApplicant(req.Applicant); err != nil {
		return nil, err
	}
	if err := s.Gate.Check(secretOf(req.Secret)); err != nil {
		return nil, apperrors.NewUnauthorizedError(err.Error())
	}

	applicant := &models.AcceptedApplicant{
		WalletAddress: req.Applicant.WalletAddress,
		Name:          req.Applicant.Name,
		Email:         req.Applicant.Email,
		DiscordID:     req.Applicant.DiscordID,
		Country:       req.Applicant.Country,
	}
	id, err := s.Applicants.Create(ctx, applicant)
	if err != nil {
		return nil, apperrors.NewDatabaseError("create applicant", err)
	}

	messageID, err := s.Publisher.PublishJSON(ctx, queue.TopicMintVisa, strconv.FormatInt(id, 10), models.MintApplicantVisaRequest{
		Secret:      req.Secret,
		ApplicantID: models.ApplicantID(id),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeQueue, "Failed to queue visa mint").
			WithDetail("applicantId", id)
	}

	s.log.Info().
		Int64("applicant_id", id).
		Str("message_id", messageID).
		Msg("Applicant accepted, mint queued")

	return &models.AcceptApplicantResponse{MessageID: messageID, ApplicantID: id}, nil
}

func (s *applicantService) MintVisa(ctx context.Context, req *models.MintApplicantVisaRequest) (*models.MintApplicantVisaResponse, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("applicantId", "is required")
	}
	if err := validation.ValidatePositiveInt(req.ApplicantID.Int64(), "applicantId"); err != nil {
		return nil, apperrors.NewValidationError("applicantId", err.Error())
	}
	if err := s.Gate.Check(secretOf(req.Secret)); err != nil {
		return nil, apperrors.NewUnauthorizedError(err.Error())
	}
	return s.MintForApplicant(ctx, req.ApplicantID.Int64())
}

func (s *applicantService) MintForApplicant(ctx context.Context, applicantID int64) (*models.MintApplicantVisaResponse, error) {
	resp, err := s.mint(ctx, applicantID)
	s.observeMint(err)
	return resp, err
}

func (s *applicantService) mint(ctx context.Context, applicantID int64) (*models.MintApplicantVisaResponse, error) {
	log := s.log.With().Int64("applicant_id", applicantID).Logger()

	if s.Locker != nil {
		lock, err := s.Locker.Acquire(ctx, "mint:"+strconv.FormatInt(applicantID, 10), s.settings.LockTTL)
		if err != nil {
			if errors.Is(err, redisp.ErrLockHeld) {
				return nil, apperrors.Wrap(ErrMintInProgress, apperrors.ErrCodeAlreadyMinted, "Visa mint already in progress")
			}
			return nil, apperrors.Wrap(err, apperrors.ErrCodeRoute, "Failed to lock applicant")
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Msg("Failed to release mint lock")
			}
		}()
	}

	applicant, err := s.Applicants.GetByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicantNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Applicant not found").
				WithDetail("applicantId", applicantID)
		}
		return nil, apperrors.NewDatabaseError("get applicant", err)
	}
	if applicant.HasNFT() {
		return nil, apperrors.Wrap(repository.ErrAlreadyMinted, apperrors.ErrCodeAlreadyMinted, "Applicant already has NFT").
			WithDetail("applicantId", applicantID)
	}

	issuedAt := s.settings.Now().UTC()
	expiresAt := issuedAt.Add(s.settings.Validity)

	page, err := s.Minter.ListNFTs(ctx, 1)
	if err != nil {
		return nil, apperrors.NewExternalAPIError("list nfts", err)
	}
	if page == nil || page.TotalPages == nil {
		return nil, apperrors.NewExternalAPIError("list nfts", ErrNoUsableResult)
	}
	sequence := *page.TotalPages + 1

	result, err := s.Minter.CreateNFT(ctx, VisaMetadata(sequence, applicant.WalletAddress, issuedAt, expiresAt))
	if err != nil {
		return nil, apperrors.NewExternalAPIError("create nft", err)
	}
	if result == nil || result.MintAddress == "" {
		return nil, apperrors.NewExternalAPIError("create nft", ErrNoUsableResult)
	}

	claimLink := ClaimLink(result.MintAddress, s.settings.ClaimNetwork)
	err = s.Applicants.MarkMinted(ctx, applicantID, models.MintRecord{
		NFTID:       result.EffectiveID(),
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
		ClaimLink:   claimLink,
		MintAddress: result.MintAddress,
	})
	if err != nil {
		// the NFT exists on chain at this point; keep its id in the log for manual repair
		log.Error().
			Err(err).
			Int64("nft_id", result.EffectiveID()).
			Str("mint_address", result.MintAddress).
			Msg("Minted NFT could not be recorded")
		if errors.Is(err, repository.ErrAlreadyMinted) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeAlreadyMinted, "Applicant already has NFT")
		}
		return nil, apperrors.NewDatabaseError("mark applicant minted", err)
	}

	log.Info().
		Int64("nft_id", result.EffectiveID()).
		Int("sequence", sequence).
		Str("mint_address", result.MintAddress).
		Msg("Visa minted")

	if err := s.Notifier.NotifyClaimLink(ctx, applicant.Email, claimLink); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeEmail, "Failed to email claim link").
			WithDetail("applicantId", applicantID)
	}

	return &models.MintApplicantVisaResponse{
		NFTClaimLink:   claimLink,
		NFTMintAddress: result.MintAddress,
	}, nil
}

func (s *applicantService) observeMint(err error) {
	if s.Metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		if appErr, ok := apperrors.AsAppError(err); ok {
			switch appErr.Code {
			case apperrors.ErrCodeAlreadyMinted:
				result = "already_minted"
			case apperrors.ErrCodeNotFound:
				result = "not_found"
			case apperrors.ErrCodeValidation, apperrors.ErrCodeUnauthorized:
				result = "rejected"
			}
		}
	}
	s.Metrics.ObserveMint(result)
}

// secretOf treats a missing secret as empty, which the gate rejects.
func secretOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func validateApplicant(in *models.ApplicantInput) error {
	checks := []struct {
		field string
		err   error
	}{
		{"walletAddress", validation.ValidateWalletAddress(in.WalletAddress)},
		{"name", validation.ValidateName(in.Name)},
		{"email", validation.ValidateEmail(in.Email)},
		{"discordId", validation.ValidateDiscordID(in.DiscordID)},
		{"country", validation.ValidateCountry(in.Country)},
	}
	for _, c := range checks {
		if c.err != nil {
			return apperrors.NewValidationError(c.field, c.err.Error())
		}
	}
	return nil
}
