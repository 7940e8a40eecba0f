//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	applicantmodels "business-visa-backend/internal/features/applicant/models"
	applicantpg "business-visa-backend/internal/features/applicant/repository/postgres"
	"business-visa-backend/internal/features/user/models"
	"business-visa-backend/internal/features/user/repository"
	userpg "business-visa-backend/internal/features/user/repository/postgres"
	"business-visa-backend/internal/testutil/containers"
)

type UserRepositorySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	repo     repository.UserRepository
}

func TestUserRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UserRepositorySuite))
}

func (s *UserRepositorySuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.repo = userpg.NewPostgresRepository(s.postgres.DB)
}

func (s *UserRepositorySuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "users", "accepted_applicants"))
}

// seed creates an applicant and its user row with the given status and expiry.
func (s *UserRepositorySuite) seed(nftID int64, status models.VisaStatus, expiresAt time.Time) *models.User {
	ctx := context.Background()
	applicantID, err := applicantpg.NewPostgresRepository(s.postgres.DB).Create(ctx, &applicantmodels.AcceptedApplicant{
		WalletAddress: "wallet",
		Name:          "Ada",
		Email:         "ada@example.com",
		DiscordID:     "ada",
		Country:       "NG",
	})
	s.Require().NoError(err)

	issuedAt := expiresAt.Add(-30 * 24 * time.Hour)
	u := &models.User{
		ApplicantID:    &applicantID,
		WalletAddress:  "wallet",
		Email:          "ada@example.com",
		NFTType:        models.NFTTypeBusiness,
		NFTStatus:      status,
		NFTID:          &nftID,
		NFTMintAddress: "mint",
		NFTIssuedAt:    &issuedAt,
		NFTExpiresAt:   &expiresAt,
	}
	s.Require().NoError(s.repo.UpsertByApplicant(ctx, u))
	return u
}

func (s *UserRepositorySuite) TestListExpired() {
	now := time.Now().UTC()
	expired := s.seed(1, models.VisaStatusActive, now.Add(-time.Minute))
	s.seed(2, models.VisaStatusActive, now.Add(time.Hour))
	s.seed(3, models.VisaStatusExpired, now.Add(-time.Hour))

	users, err := s.repo.ListExpired(context.Background(), models.NFTTypeBusiness, now)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal(expired.ID, users[0].ID)
	s.Equal("mint", users[0].NFTMintAddress)
}

func (s *UserRepositorySuite) TestConcurrentUpdateStatusAppliesOnce() {
	u := s.seed(1, models.VisaStatusActive, time.Now())

	var wg sync.WaitGroup
	var changed atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.repo.UpdateStatus(context.Background(), u.ID, models.VisaStatusActive, models.VisaStatusExpired)
			if err == nil && ok {
				changed.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), changed.Load())
	var status string
	err := s.postgres.DB.QueryRowContext(context.Background(),
		`SELECT nft_status FROM users WHERE id = $1`, u.ID).Scan(&status)
	s.Require().NoError(err)
	s.Equal(string(models.VisaStatusExpired), status)
}

func (s *UserRepositorySuite) TestUpsertIsIdempotent() {
	u := s.seed(1, models.VisaStatusActive, time.Now().Add(time.Hour))
	firstID := u.ID

	s.Require().NoError(s.repo.UpsertByApplicant(context.Background(), u))
	s.Equal(firstID, u.ID)
}
