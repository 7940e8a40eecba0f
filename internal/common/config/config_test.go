package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_SECRET", "s3cret")
	t.Setenv("UNDERDOG_API_KEY", "ud-key")
	t.Setenv("RESEND_API_KEY", "re-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.AppSecret)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Visa.ValidityDays)
	assert.Equal(t, "*/15 * * * *", cfg.Jobs.ExpireStatusSpec)
	assert.Equal(t, "*/5 * * * *", cfg.Jobs.ClaimStatusSpec)
	assert.Equal(t, "*/30 * * * *", cfg.Jobs.PendingMintSpec)
	assert.Equal(t, "DEVNET", cfg.ClaimNetwork())
}

func TestLoadRequiresSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_SECRET")
}

func TestValidateRejectsBadCron(t *testing.T) {
	setRequired(t)
	t.Setenv("CRON_CLAIM_STATUS", "every five minutes")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRON_CLAIM_STATUS")
}

func TestClaimNetwork(t *testing.T) {
	cases := map[string]string{
		"mainnet-beta": "MAINNET_BETA",
		"devnet":       "DEVNET",
		"testnet":      "DEVNET",
		"":             "DEVNET",
		"MAINNET-BETA": "DEVNET",
	}
	for network, want := range cases {
		cfg := &Config{SolanaNetwork: network}
		assert.Equal(t, want, cfg.ClaimNetwork(), network)
	}
}

func TestUnderdogBaseURL(t *testing.T) {
	cfg := &Config{SolanaNetwork: "mainnet-beta"}
	assert.Equal(t, "https://api.underdogprotocol.com", cfg.UnderdogBaseURL())

	cfg.SolanaNetwork = "devnet"
	assert.Equal(t, "https://devnet.underdogprotocol.com", cfg.UnderdogBaseURL())

	cfg.Underdog.BaseURL = "http://localhost:9999/"
	assert.Equal(t, "http://localhost:9999", cfg.UnderdogBaseURL())
}
