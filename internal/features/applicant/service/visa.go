package service

import (
	"fmt"
	"strconv"
	"time"

	"business-visa-backend/internal/platform/underdog"
)

const (
	visaNamePrefix  = "The Dean's List Business Visa #"
	visaDescription = "Keep this active to gain access to USDC earning opportunities."
	visaSymbol      = "DLBV"
	visaImage       = "https://dev.updg8.com/imgdata/9HdPsLjMBUW8fQTp314kg4LoiqGxQqvCxKk6uhHttjVp"

	claimBaseURL = "https://claim.underdogprotocol.com/nfts/"

	// VisaStatusActive is the status attribute written on a fresh visa.
	VisaStatusActive = "active"
)

// VisaName is the display name of the visa with the given issue sequence.
func VisaName(sequence int) string {
	return visaNamePrefix + strconv.Itoa(sequence)
}

// VisaMetadata builds the create-NFT body for a visa issued to wallet.
func VisaMetadata(sequence int, wallet string, issuedAt, expiresAt time.Time) underdog.NFTMetadata {
	return underdog.NFTMetadata{
		Name:            VisaName(sequence),
		Description:     visaDescription,
		Symbol:          visaSymbol,
		Image:           visaImage,
		Attributes:      VisaAttributes(VisaStatusActive, issuedAt, expiresAt),
		ReceiverAddress: wallet,
	}
}

// VisaAttributes carries timestamps as unix milliseconds.
func VisaAttributes(status string, issuedAt, expiresAt time.Time) map[string]string {
	return map[string]string{
		"status":    status,
		"issuedAt":  strconv.FormatInt(issuedAt.UnixMilli(), 10),
		"expiresAt": strconv.FormatInt(expiresAt.UnixMilli(), 10),
	}
}

// ClaimLink is the public claim page of mintAddress on claimNetwork
// (MAINNET_BETA or DEVNET).
func ClaimLink(mintAddress, claimNetwork string) string {
	return fmt.Sprintf("%s%s?network=%s", claimBaseURL, mintAddress, claimNetwork)
}
