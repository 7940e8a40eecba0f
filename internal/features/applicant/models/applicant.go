package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AcceptedApplicant is an approved applicant waiting for, or holding, a business visa NFT.
type AcceptedApplicant struct {
	ID             int64      `json:"id"`
	WalletAddress  string     `json:"walletAddress"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	DiscordID      string     `json:"discordId"`
	Country        string     `json:"country"`
	NFTID          *int64     `json:"nftId,omitempty"`
	NFTIssuedAt    *time.Time `json:"nftIssuedAt,omitempty"`
	NFTExpiresAt   *time.Time `json:"nftExpiresAt,omitempty"`
	NFTClaimLink   *string    `json:"nftClaimLink,omitempty"`
	NFTMintAddress *string    `json:"nftMintAddress,omitempty"`
	HasClaimed     bool       `json:"hasClaimed"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// HasNFT reports whether a visa was already minted for the applicant.
func (a *AcceptedApplicant) HasNFT() bool {
	return a.NFTID != nil
}

// MintRecord is what a successful mint writes back onto the applicant row.
type MintRecord struct {
	NFTID       int64
	IssuedAt    time.Time
	ExpiresAt   time.Time
	ClaimLink   string
	MintAddress string
}

// ApplicantInput is the applicant part of an accept request.
type ApplicantInput struct {
	WalletAddress string `json:"walletAddress" binding:"required" example:"9HdPsLjMBUW8fQTp314kg4LoiqGxQqvCxKk6uhHttjVp"`
	Name          string `json:"name" binding:"required" example:"Ada Lovelace"`
	Email         string `json:"email" binding:"required,email" example:"ada@example.com"`
	DiscordID     string `json:"discordId" binding:"required" example:"123456789012345678"`
	Country       string `json:"country" binding:"required" example:"Nigeria"`
}

// AcceptApplicantRequest is the body of POST /applicants/accept.
// Secret is a pointer so that an empty string passes binding and is rejected by
// the secret gate instead.
type AcceptApplicantRequest struct {
	Secret    *string         `json:"secret" binding:"required" swaggertype:"string" example:"app-secret"`
	Applicant *ApplicantInput `json:"applicant" binding:"required"`
}

// AcceptApplicantResponse is returned once the mint job is queued.
type AcceptApplicantResponse struct {
	MessageID   string `json:"messageId" example:"mint-visa:42"`
	ApplicantID int64  `json:"applicantId" example:"42"`
}

// MintApplicantVisaRequest is the body of POST /applicants/mint-visa and of the
// queued mint-visa job.
type MintApplicantVisaRequest struct {
	Secret      *string     `json:"secret" binding:"required" swaggertype:"string" example:"app-secret"`
	ApplicantID ApplicantID `json:"applicantId" binding:"required" swaggertype:"string" example:"42"`
}

// MintApplicantVisaResponse is returned once the visa is minted and emailed.
type MintApplicantVisaResponse struct {
	NFTClaimLink   string `json:"nftClaimLink" example:"https://claim.underdogprotocol.com/nfts/Gx8...?network=DEVNET"`
	NFTMintAddress string `json:"nftMintAddress" example:"Gx8b3Qx6yZ9nV7tQ2yQ8a3JYg7x4tQ3V9d6rN1e2Lk5P"`
}

// ApplicantID decodes from either a JSON number or a numeric string.
type ApplicantID int64

func (id *ApplicantID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("applicantId must be an integer: %w", err)
	}
	*id = ApplicantID(n)
	return nil
}

// MarshalJSON writes the id as a string, the form the queue consumer expects.
func (id ApplicantID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(id), 10))
}

func (id ApplicantID) Int64() int64 {
	return int64(id)
}
