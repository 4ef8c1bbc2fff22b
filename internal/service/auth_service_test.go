package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusflow/course-select-api/internal/models"
	appErrors "github.com/campusflow/course-select-api/pkg/errors"
)

type mockAccounts struct {
	byID    map[int64]*models.Student
	created *models.Student
}

func (m *mockAccounts) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccounts) FindByName(ctx context.Context, name string) (*models.Student, error) {
	for _, s := range m.byID {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccounts) Create(ctx context.Context, student *models.Student) error {
	if m.byID == nil {
		m.byID = make(map[int64]*models.Student)
	}
	m.byID[student.ID] = student
	m.created = student
	return nil
}

func newAuthFixture(t *testing.T, captchaEnabled bool) (*AuthService, *mockAccounts, *fakeCache) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	accounts := &mockAccounts{byID: map[int64]*models.Student{
		20250001: {ID: 20250001, Name: "Ada Li", College: "Science", PasswordHash: string(hash)},
	}}
	cache := newFakeCache()
	captchas := NewCaptchaService(cache, time.Minute, 4, captchaEnabled, zap.NewNop())
	svc := NewAuthService(accounts, captchas, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "course-select-api",
	})
	return svc, accounts, cache
}

func TestLoginByStudentID(t *testing.T) {
	svc, _, _ := newAuthFixture(t, false)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "20250001", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(20250001), res.Student.ID)
	assert.Equal(t, "Ada Li", res.Student.Name)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(20250001), claims.StudentID)
	assert.Equal(t, "Science", claims.College)
}

func TestLoginByName(t *testing.T) {
	svc, _, _ := newAuthFixture(t, false)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "Ada Li", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, int64(20250001), res.Student.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "20250001", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestLoginUnknownStudent(t *testing.T) {
	svc, _, _ := newAuthFixture(t, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "secret123"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestLoginRequiresValidCaptcha(t *testing.T) {
	svc, _, cache := newAuthFixture(t, true)
	require.NoError(t, cache.Set(context.Background(), "captcha:cap-1", "A7kF", 0))

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "20250001", Password: "secret123",
		CaptchaID: "cap-1", CaptchaCode: "WRONG",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCaptcha))

	// The code was consumed by the failed attempt, a retry with the right
	// code must fail too.
	_, err = svc.Login(context.Background(), models.LoginRequest{
		Username: "20250001", Password: "secret123",
		CaptchaID: "cap-1", CaptchaCode: "A7kF",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCaptcha))
}

func TestLoginWithCaptchaSucceeds(t *testing.T) {
	svc, _, cache := newAuthFixture(t, true)
	require.NoError(t, cache.Set(context.Background(), "captcha:cap-2", "A7kF", 0))

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "20250001", Password: "secret123",
		CaptchaID: "cap-2", CaptchaCode: "a7kf",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestRegisterCreatesHashedAccount(t *testing.T) {
	svc, accounts, _ := newAuthFixture(t, false)

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		StudentID: 20250002, Name: "Ben Wu", College: "Arts", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20250002), info.ID)
	require.NotNil(t, accounts.created)
	assert.NotEqual(t, "hunter22", accounts.created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(accounts.created.PasswordHash), []byte("hunter22")))
}

func TestRegisterRejectsDuplicateID(t *testing.T) {
	svc, _, _ := newAuthFixture(t, false)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		StudentID: 20250001, Name: "Imposter", College: "Science", Password: "hunter22",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t, false)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, _, _ := newAuthFixture(t, false)
	other := NewAuthService(&mockAccounts{}, NewCaptchaService(nil, 0, 0, false, nil), validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "different-secret",
		TokenExpiry: time.Hour,
	})

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "20250001", Password: "secret123"})
	require.NoError(t, err)

	_, err = other.ValidateToken(res.AccessToken)
	require.Error(t, err)
}
