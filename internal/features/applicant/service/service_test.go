package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "business-visa-backend/internal/common/errors"
	"business-visa-backend/internal/common/secret"
	"business-visa-backend/internal/features/applicant/models"
	"business-visa-backend/internal/features/applicant/repository"
	"business-visa-backend/internal/platform/queue"
	"business-visa-backend/internal/platform/underdog"
)

const (
	testSecret = "app-secret"
	testWallet = "9HdPsLjMBUW8fQTp314kg4LoiqGxQqvCxKk6uhHttjVp"
)

type memApplicants struct {
	mu     sync.Mutex
	rows   map[int64]*models.AcceptedApplicant
	nextID int64
	writes int
}

func newMemApplicants() *memApplicants {
	return &memApplicants{rows: map[int64]*models.AcceptedApplicant{}}
}

func (m *memApplicants) Create(_ context.Context, a *models.AcceptedApplicant) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.writes++
	a.ID = m.nextID
	cp := *a
	m.rows[a.ID] = &cp
	return a.ID, nil
}

func (m *memApplicants) GetByID(_ context.Context, id int64) (*models.AcceptedApplicant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrApplicantNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memApplicants) MarkMinted(_ context.Context, id int64, rec models.MintRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok || a.NFTID != nil {
		return repository.ErrAlreadyMinted
	}
	m.writes++
	a.NFTID = &rec.NFTID
	a.NFTIssuedAt = &rec.IssuedAt
	a.NFTExpiresAt = &rec.ExpiresAt
	a.NFTClaimLink = &rec.ClaimLink
	a.NFTMintAddress = &rec.MintAddress
	return nil
}

func (m *memApplicants) ListPendingMint(context.Context, time.Time) ([]*models.AcceptedApplicant, error) {
	return nil, nil
}

func (m *memApplicants) ListUnclaimed(context.Context) ([]*models.AcceptedApplicant, error) {
	return nil, nil
}

func (m *memApplicants) MarkClaimed(context.Context, int64) (bool, error) {
	return false, nil
}

type fakeMinter struct {
	totalPages int
	noTotal    bool
	created    []underdog.NFTMetadata
	createErr  error
	result     *underdog.MintResult
}

func (f *fakeMinter) ListNFTs(context.Context, int) (*underdog.NFTPage, error) {
	if f.noTotal {
		return &underdog.NFTPage{}, nil
	}
	total := f.totalPages
	return &underdog.NFTPage{TotalPages: &total}, nil
}

func (f *fakeMinter) CreateNFT(_ context.Context, meta underdog.NFTMetadata) (*underdog.MintResult, error) {
	f.created = append(f.created, meta)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &underdog.MintResult{NFTID: int64(f.totalPages + 1), MintAddress: "MintAddr1"}, nil
}

func ptr(s string) *string {
	return &s
}

type published struct {
	topic   string
	key     string
	payload interface{}
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, topic, key string, payload interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, published{topic: topic, key: key, payload: payload})
	return "msg-1", nil
}

type fakeNotifier struct {
	to, links []string
}

func (f *fakeNotifier) NotifyClaimLink(_ context.Context, to, link string) error {
	f.to = append(f.to, to)
	f.links = append(f.links, link)
	return nil
}

type fixture struct {
	repo      *memApplicants
	minter    *fakeMinter
	publisher *fakePublisher
	notifier  *fakeNotifier
	svc       ApplicantService
	now       time.Time
}

func newFixture(network string) *fixture {
	f := &fixture{
		repo:      newMemApplicants(),
		minter:    &fakeMinter{totalPages: 41},
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
		now:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewApplicantService(Deps{
		Gate:       secret.NewGate(testSecret),
		Applicants: f.repo,
		Minter:     f.minter,
		Publisher:  f.publisher,
		Notifier:   f.notifier,
	}, Settings{
		ClaimNetwork: network,
		Validity:     30 * 24 * time.Hour,
		Now:          func() time.Time { return f.now },
	})
	return f
}

func validAccept(secretValue string) *models.AcceptApplicantRequest {
	return &models.AcceptApplicantRequest{
		Secret: &secretValue,
		Applicant: &models.ApplicantInput{
			WalletAddress: testWallet,
			Name:          "Ada Lovelace",
			Email:         "ada@example.com",
			DiscordID:     "ada#0001",
			Country:       "Nigeria",
		},
	}
}

func (f *fixture) seed(t *testing.T) int64 {
	t.Helper()
	id, err := f.repo.Create(context.Background(), &models.AcceptedApplicant{
		WalletAddress: testWallet,
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		DiscordID:     "ada#0001",
		Country:       "Nigeria",
	})
	require.NoError(t, err)
	return id
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestAcceptCreatesOneRecordAndPublishesOneMessage(t *testing.T) {
	f := newFixture("DEVNET")

	resp, err := f.svc.Accept(context.Background(), validAccept(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "msg-1", resp.MessageID)
	assert.Equal(t, int64(1), resp.ApplicantID)

	assert.Len(t, f.repo.rows, 1)
	require.Len(t, f.publisher.sent, 1)
	assert.Equal(t, queue.TopicMintVisa, f.publisher.sent[0].topic)

	payload, ok := f.publisher.sent[0].payload.(models.MintApplicantVisaRequest)
	require.True(t, ok)
	assert.Equal(t, models.ApplicantID(resp.ApplicantID), payload.ApplicantID)
	require.NotNil(t, payload.Secret)
	assert.Equal(t, testSecret, *payload.Secret)
	assert.Equal(t, "1", f.publisher.sent[0].key)
}

func TestAcceptWithWrongSecretHasNoSideEffects(t *testing.T) {
	f := newFixture("DEVNET")

	_, err := f.svc.Accept(context.Background(), validAccept("wrong"))
	requireCode(t, err, apperrors.ErrCodeUnauthorized)
	assert.Equal(t, 0, f.repo.writes)
	assert.Empty(t, f.publisher.sent)
}

func TestEmptyOrMissingSecretIsUnauthorized(t *testing.T) {
	for name, secretValue := range map[string]*string{"empty": ptr(""), "missing": nil} {
		t.Run(name, func(t *testing.T) {
			f := newFixture("DEVNET")
			id := f.seed(t)

			req := validAccept("")
			req.Secret = secretValue
			_, err := f.svc.Accept(context.Background(), req)
			requireCode(t, err, apperrors.ErrCodeUnauthorized)

			_, err = f.svc.MintVisa(context.Background(), &models.MintApplicantVisaRequest{
				Secret:      secretValue,
				ApplicantID: models.ApplicantID(id),
			})
			requireCode(t, err, apperrors.ErrCodeUnauthorized)

			assert.Equal(t, 1, f.repo.writes)
			assert.Empty(t, f.publisher.sent)
			assert.Empty(t, f.minter.created)
		})
	}
}

func TestAcceptRejectsInvalidApplicant(t *testing.T) {
	f := newFixture("DEVNET")
	req := validAccept(testSecret)
	req.Applicant.Email = "not-an-email"

	_, err := f.svc.Accept(context.Background(), req)
	requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Equal(t, 0, f.repo.writes)
}

func TestAcceptPublishFailureIsRouteClass(t *testing.T) {
	f := newFixture("DEVNET")
	f.publisher.err = errors.New("redis down")

	_, err := f.svc.Accept(context.Background(), validAccept(testSecret))
	requireCode(t, err, apperrors.ErrCodeQueue)
	assert.Equal(t, 500, apperrors.FromError(err).StatusCode())
}

func TestMintVisaHappyPath(t *testing.T) {
	f := newFixture("DEVNET")
	id := f.seed(t)

	resp, err := f.svc.MintVisa(context.Background(), &models.MintApplicantVisaRequest{
		Secret:      ptr(testSecret),
		ApplicantID: models.ApplicantID(id),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://claim.underdogprotocol.com/nfts/MintAddr1?network=DEVNET", resp.NFTClaimLink)
	assert.Equal(t, "MintAddr1", resp.NFTMintAddress)

	require.Len(t, f.minter.created, 1)
	meta := f.minter.created[0]
	assert.Equal(t, "The Dean's List Business Visa #42", meta.Name)
	assert.Equal(t, testWallet, meta.ReceiverAddress)
	assert.Equal(t, "DLBV", meta.Symbol)
	assert.Equal(t, "active", meta.Attributes["status"])
	assert.Equal(t, "1714564800000", meta.Attributes["issuedAt"])
	assert.Equal(t, "1717156800000", meta.Attributes["expiresAt"])

	stored := f.repo.rows[id]
	require.NotNil(t, stored.NFTID)
	assert.Equal(t, int64(42), *stored.NFTID)
	assert.Equal(t, resp.NFTClaimLink, *stored.NFTClaimLink)
	assert.Equal(t, f.now.Add(30*24*time.Hour), *stored.NFTExpiresAt)

	assert.Equal(t, []string{"ada@example.com"}, f.notifier.to)
	assert.Equal(t, []string{resp.NFTClaimLink}, f.notifier.links)
}

func TestMintVisaOnAlreadyMintedApplicantSkipsCreate(t *testing.T) {
	f := newFixture("DEVNET")
	id := f.seed(t)
	nftID := int64(7)
	f.repo.rows[id].NFTID = &nftID

	_, err := f.svc.MintVisa(context.Background(), &models.MintApplicantVisaRequest{
		Secret:      ptr(testSecret),
		ApplicantID: models.ApplicantID(id),
	})
	requireCode(t, err, apperrors.ErrCodeAlreadyMinted)
	assert.Equal(t, 500, apperrors.FromError(err).StatusCode())
	assert.Empty(t, f.minter.created)
	assert.Empty(t, f.notifier.to)
}

func TestMintVisaUnknownApplicant(t *testing.T) {
	f := newFixture("DEVNET")

	_, err := f.svc.MintVisa(context.Background(), &models.MintApplicantVisaRequest{
		Secret:      ptr(testSecret),
		ApplicantID: 99,
	})
	requireCode(t, err, apperrors.ErrCodeNotFound)
	assert.Equal(t, 500, apperrors.FromError(err).StatusCode())
	assert.Empty(t, f.minter.created)
}

func TestMintVisaWrongSecret(t *testing.T) {
	f := newFixture("DEVNET")
	id := f.seed(t)

	_, err := f.svc.MintVisa(context.Background(), &models.MintApplicantVisaRequest{
		Secret:      ptr("nope"),
		ApplicantID: models.ApplicantID(id),
	})
	requireCode(t, err, apperrors.ErrCodeUnauthorized)
	assert.Empty(t, f.minter.created)
	assert.Nil(t, f.repo.rows[id].NFTID)
}

func TestMintVisaRejectsNonPositiveID(t *testing.T) {
	f := newFixture("DEVNET")

	_, err := f.svc.MintVisa(context.Background(), &models.MintApplicantVisaRequest{Secret: ptr(testSecret)})
	requireCode(t, err, apperrors.ErrCodeValidation)
}

func TestMintVisaWithoutNFTCountDoesNotMint(t *testing.T) {
	f := newFixture("DEVNET")
	f.minter.noTotal = true
	id := f.seed(t)

	_, err := f.svc.MintVisa(context.Background(), &models.MintApplicantVisaRequest{
		Secret:      ptr(testSecret),
		ApplicantID: models.ApplicantID(id),
	})
	requireCode(t, err, apperrors.ErrCodeExternalAPI)
	assert.ErrorIs(t, err, ErrNoUsableResult)
	assert.Empty(t, f.minter.created)
	assert.Nil(t, f.repo.rows[id].NFTID)
}

func TestMintVisaEmptyCreateResultIsFailure(t *testing.T) {
	f := newFixture("DEVNET")
	f.minter.result = &underdog.MintResult{}
	id := f.seed(t)

	_, err := f.svc.MintForApplicant(context.Background(), id)
	requireCode(t, err, apperrors.ErrCodeExternalAPI)
	assert.ErrorIs(t, err, ErrNoUsableResult)
	assert.Nil(t, f.repo.rows[id].NFTID)
}

func TestMintSequenceStartsAtOneForEmptyProject(t *testing.T) {
	f := newFixture("DEVNET")
	f.minter.totalPages = 0
	id := f.seed(t)

	_, err := f.svc.MintForApplicant(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "The Dean's List Business Visa #1", f.minter.created[0].Name)
}

func TestClaimLink(t *testing.T) {
	assert.Equal(t,
		"https://claim.underdogprotocol.com/nfts/M?network=MAINNET_BETA",
		ClaimLink("M", "MAINNET_BETA"))
	assert.Equal(t,
		"https://claim.underdogprotocol.com/nfts/M?network=DEVNET",
		ClaimLink("M", "DEVNET"))
}

func TestVisaNameEmbedsSequence(t *testing.T) {
	for _, p := range []int{0, 1, 99} {
		assert.Equal(t, "The Dean's List Business Visa #"+strconv.Itoa(p+1), VisaName(p+1))
	}
}
