package models

import "time"

// NFTTypeBusiness is the only visa type this service issues.
const NFTTypeBusiness = "business"

// VisaStatus is the lifecycle state of a user's visa NFT.
type VisaStatus string

const (
	VisaStatusPendingClaim   VisaStatus = "pending_claim"
	VisaStatusActive         VisaStatus = "active"
	VisaStatusExpired        VisaStatus = "expired"
	VisaStatusPendingRenewal VisaStatus = "pending_renewal"
)

func (s VisaStatus) Valid() bool {
	switch s {
	case VisaStatusPendingClaim, VisaStatusActive, VisaStatusExpired, VisaStatusPendingRenewal:
		return true
	}
	return false
}

// User is the post-mint record of a visa holder.
type User struct {
	ID             int64      `json:"id"`
	ApplicantID    *int64     `json:"applicantId,omitempty"`
	WalletAddress  string     `json:"walletAddress"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	DiscordID      string     `json:"discordId"`
	NFTType        string     `json:"nftType"`
	NFTStatus      VisaStatus `json:"nftStatus"`
	NFTID          *int64     `json:"nftId,omitempty"`
	NFTMintAddress string     `json:"nftMintAddress,omitempty"`
	NFTIssuedAt    *time.Time `json:"nftIssuedAt,omitempty"`
	NFTExpiresAt   *time.Time `json:"nftExpiresAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
