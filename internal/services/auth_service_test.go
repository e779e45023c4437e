package services

import (
	"testing"

	"kiosco_pos_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerOperator(t *testing.T, svc AuthService, username, password, role string) *models.Operator {
	t.Helper()
	operator, err := svc.RegisterOperator(RegisterOperatorRequest{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return operator
}

func TestRegisterOperator_DefaultsToCashier(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil)

	operator := registerOperator(t, svc, "ana", "supersecret1", "")
	assert.Equal(t, models.RoleCashier, operator.Role)
	assert.True(t, operator.IsActive)
}

func TestRegisterOperator_RejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil)

	_, err := svc.RegisterOperator(RegisterOperatorRequest{Username: "ana", Password: "supersecret1", Role: "manager"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterOperator_DuplicateUsername(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil)

	registerOperator(t, svc, "ana", "supersecret1", "admin")
	_, err := svc.RegisterOperator(RegisterOperatorRequest{Username: "ana", Password: "othersecret1"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestLogin_Succeeds(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil)
	registerOperator(t, svc, "ana", "supersecret1", "admin")

	resp, err := svc.Login(LoginRequest{Username: "ana", Password: "supersecret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "ana", resp.Operator.Username)
	assert.Empty(t, resp.Operator.PasswordHash)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil)
	registerOperator(t, svc, "ana", "supersecret1", "admin")

	_, err := svc.Login(LoginRequest{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil)

	_, err := svc.Login(LoginRequest{Username: "nadie", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveOperatorLooksLikeBadCredentials(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, nil)
	operator := registerOperator(t, svc, "ana", "supersecret1", "cashier")

	repo.operators[operator.ID].IsActive = false

	_, err := svc.Login(LoginRequest{Username: "ana", Password: "supersecret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil)
	registerOperator(t, svc, "ana", "supersecret1", "cashier")

	login, err := svc.Login(LoginRequest{Username: "ana", Password: "supersecret1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "ana", refreshed.Operator.Username)
}

func TestRefresh_RejectsGarbageToken(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil)

	_, err := svc.Refresh(RefreshRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_DeactivatedOperator(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, nil)
	operator := registerOperator(t, svc, "ana", "supersecret1", "cashier")

	login, err := svc.Login(LoginRequest{Username: "ana", Password: "supersecret1"})
	require.NoError(t, err)

	repo.operators[operator.ID].IsActive = false

	_, err = svc.Refresh(RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
