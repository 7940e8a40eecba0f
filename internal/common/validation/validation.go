package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

const (
	MaxNameLength    = 200
	MaxEmailLength   = 254
	MaxCountryLength = 100

	MinWalletLength = 32
	MaxWalletLength = 44
)

var (
	// Solana addresses are base58 without 0, O, I and l.
	walletAddressRegex = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]+$`)
	// Discord snowflakes, or legacy "name#1234" / new-style usernames.
	discordIDRegex = regexp.MustCompile(`^([0-9]{17,20}|[a-zA-Z0-9_.]{2,32}(#[0-9]{4})?)$`)
)

// ValidateWalletAddress checks the shape of a Solana wallet address.
func ValidateWalletAddress(address string) error {
	if address == "" {
		return fmt.Errorf("wallet address cannot be empty")
	}
	if len(address) < MinWalletLength || len(address) > MaxWalletLength {
		return fmt.Errorf("wallet address must be %d-%d characters long", MinWalletLength, MaxWalletLength)
	}
	if !walletAddressRegex.MatchString(address) {
		return fmt.Errorf("wallet address must be base58 encoded")
	}
	return nil
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email cannot exceed %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

func ValidateDiscordID(id string) error {
	if id == "" {
		return fmt.Errorf("discord id cannot be empty")
	}
	if !discordIDRegex.MatchString(id) {
		return fmt.Errorf("discord id must be a snowflake or a discord username")
	}
	return nil
}

func ValidateCountry(country string) error {
	country = strings.TrimSpace(country)
	if country == "" {
		return fmt.Errorf("country cannot be empty")
	}
	if len(country) > MaxCountryLength {
		return fmt.Errorf("country cannot exceed %d characters", MaxCountryLength)
	}
	return nil
}

// ValidatePositiveInt checks that a numeric identifier is usable.
func ValidatePositiveInt(value int64, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}
