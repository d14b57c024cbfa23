package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"billmunshi/internal/config"
	"billmunshi/internal/domain"
	"billmunshi/internal/service"
	"billmunshi/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-signing",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "billmunshi-test",
	}
}

func activeUser(t *testing.T, orgID uuid.UUID, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		OrgID:        orgID,
		Email:        "ops@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
}

func TestLogin_IssuesValidTokenPair(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	org := &domain.Organization{ID: uuid.New(), Slug: "demo-co", IsActive: true}
	user := activeUser(t, org.ID, "correct-horse-battery")

	orgRepo.On("GetBySlug", mock.Anything, "demo-co").Return(org, nil)
	userRepo.On("GetByEmail", mock.Anything, org.ID, "ops@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "demo-co", Email: "ops@example.com", Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, org.ID, claims.OrgID)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	org := &domain.Organization{ID: uuid.New(), Slug: "demo-co", IsActive: true}
	user := activeUser(t, org.ID, "correct-horse-battery")

	orgRepo.On("GetBySlug", mock.Anything, "demo-co").Return(org, nil)
	userRepo.On("GetByEmail", mock.Anything, org.ID, "ops@example.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "demo-co", Email: "ops@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownOrgLooksLikeBadCredentials(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	orgRepo.On("GetBySlug", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "ghost", Email: "ops@example.com", Password: "whatever1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_InactiveOrg(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	orgRepo.On("GetBySlug", mock.Anything, "demo-co").Return(&domain.Organization{
		ID: uuid.New(), Slug: "demo-co", IsActive: false,
	}, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "demo-co", Email: "ops@example.com", Password: "whatever1",
	})
	assert.ErrorIs(t, err, domain.ErrOrgInactive)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	org := &domain.Organization{ID: uuid.New(), Slug: "demo-co", IsActive: true}
	user := activeUser(t, org.ID, "correct-horse-battery")

	orgRepo.On("GetBySlug", mock.Anything, "demo-co").Return(org, nil)
	userRepo.On("GetByEmail", mock.Anything, org.ID, "ops@example.com").Return(user, nil)
	userRepo.On("GetByID", mock.Anything, org.ID, user.ID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "demo-co", Email: "ops@example.com", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	renewed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	org := &domain.Organization{ID: uuid.New(), Slug: "demo-co", IsActive: true}
	user := activeUser(t, org.ID, "correct-horse-battery")

	orgRepo.On("GetBySlug", mock.Anything, "demo-co").Return(org, nil)
	userRepo.On("GetByEmail", mock.Anything, org.ID, "ops@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "demo-co", Email: "ops@example.com", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateToken_RejectsTampering(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockUserRepo), new(mocks.MockOrgRepo), testJWTConfig())

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-different-secret-entirely"
	other := service.NewAuthService(new(mocks.MockUserRepo), new(mocks.MockOrgRepo), otherCfg)

	orgRepo := new(mocks.MockOrgRepo)
	userRepo := new(mocks.MockUserRepo)
	org := &domain.Organization{ID: uuid.New(), Slug: "demo-co", IsActive: true}
	user := activeUser(t, org.ID, "correct-horse-battery")
	orgRepo.On("GetBySlug", mock.Anything, "demo-co").Return(org, nil)
	userRepo.On("GetByEmail", mock.Anything, org.ID, "ops@example.com").Return(user, nil)

	issuer := service.NewAuthService(userRepo, orgRepo, testJWTConfig())
	pair, err := issuer.Login(context.Background(), service.LoginInput{
		OrgSlug: "demo-co", Email: "ops@example.com", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}
