// Package queue consumes the mint-visa job published on applicant acceptance.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	apperrors "business-visa-backend/internal/common/errors"
	"business-visa-backend/internal/common/logger"
	"business-visa-backend/internal/features/applicant/models"
	applicantservice "business-visa-backend/internal/features/applicant/service"
)

type MintVisaConsumer struct {
	service applicantservice.ApplicantService
}

func NewMintVisaConsumer(service applicantservice.ApplicantService) *MintVisaConsumer {
	return &MintVisaConsumer{service: service}
}

// ProcessTask runs the same checks and mint as the mint-visa route. Failures that
// a redelivery cannot fix are returned wrapped in asynq.SkipRetry.
func (c *MintVisaConsumer) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var req models.MintApplicantVisaRequest
	if err := json.Unmarshal(task.Payload(), &req); err != nil {
		return fmt.Errorf("decode mint-visa payload: %v: %w", err, asynq.SkipRetry)
	}

	resp, err := c.service.MintVisa(ctx, &req)
	if err != nil {
		if permanent(err) {
			logger.Warn().
				Err(err).
				Int64("applicant_id", req.ApplicantID.Int64()).
				Msg("Mint-visa job dropped")
			return fmt.Errorf("mint visa for applicant %d: %v: %w", req.ApplicantID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("mint visa for applicant %d: %w", req.ApplicantID, err)
	}

	logger.Info().
		Int64("applicant_id", req.ApplicantID.Int64()).
		Str("mint_address", resp.NFTMintAddress).
		Msg("Mint-visa job done")
	return nil
}

func permanent(err error) bool {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeUnauthorized,
		apperrors.ErrCodeNotFound, apperrors.ErrCodeAlreadyMinted:
		return true
	}
	return false
}
