package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-query-service/config"
	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/pkg/apperror"
)

func newTestUserService(autoVerify bool) (*UserService, *memUsers, *recordingNotifier) {
	users := newMemUsers()
	n := &recordingNotifier{}
	cfg := &config.Config{AutoVerifyUsers: autoVerify}
	return NewUserService(users, stubTokens{}, plainHasher{}, n, cfg, nil), users, n
}

func alice() RegisterInput {
	return RegisterInput{Name: "Alice", Email: "ALICE@Example.com", Password: "password123"}
}

func TestRegisterCaseFoldsEmailAndRejectsDuplicate(t *testing.T) {
	svc, _, n := newTestUserService(false)
	ctx := context.Background()

	u, err := svc.Register(ctx, alice())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.False(t, u.IsVerified)
	assert.Equal(t, "h:password123", u.PasswordHash)
	require.Len(t, n.users, 1)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "alice@example.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, 409, apperror.From(err).Status())
}

func TestRegisterMapsInsertTimeDuplicateToConflict(t *testing.T) {
	svc, users, _ := newTestUserService(false)
	ctx := context.Background()
	_, err := svc.Register(ctx, alice())
	require.NoError(t, err)

	users.skipPrecheck = true
	_, err = svc.Register(ctx, alice())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeEmailTaken, apperror.From(err).Code)
}

func TestRegisterAutoVerifySkipsNotification(t *testing.T) {
	svc, _, n := newTestUserService(true)
	u, err := svc.Register(context.Background(), alice())
	require.NoError(t, err)
	assert.True(t, u.IsVerified)
	assert.Empty(t, n.users)
}

func TestRegisterSurvivesNotifierFailure(t *testing.T) {
	svc, _, n := newTestUserService(false)
	n.err = errors.New("broker down")
	_, err := svc.Register(context.Background(), alice())
	assert.NoError(t, err)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newTestUserService(false)
	in := alice()
	in.Role = "root"
	_, err := svc.Register(context.Background(), in)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestLoginRequiresVerificationThenRecordsOneEvent(t *testing.T) {
	svc, users, _ := newTestUserService(false)
	ctx := context.Background()
	u, err := svc.Register(ctx, alice())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "password123")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotVerified))
	assert.Equal(t, 403, apperror.From(err).Status())
	assert.Zero(t, users.loginsFor(u.ID))

	_, err = svc.Verify(ctx, "Alice@Example.com")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ALICE@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "token", res.Token)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, 1, users.loginsFor(u.ID))
}

func TestLoginFailures(t *testing.T) {
	svc, users, _ := newTestUserService(true)
	ctx := context.Background()
	u, err := svc.Register(ctx, alice())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.True(t, apperror.Is(err, apperror.KindInvalidCredentials))

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.True(t, apperror.Is(err, apperror.KindInvalidCredentials))

	assert.Zero(t, users.loginsFor(u.ID))
}

func TestVerifyIsIdempotentAndReportsMissing(t *testing.T) {
	svc, _, _ := newTestUserService(false)
	ctx := context.Background()
	_, err := svc.Register(ctx, alice())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		u, err := svc.Verify(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, u.IsVerified)
	}

	_, err = svc.Verify(ctx, "ghost@example.com")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdate(t *testing.T) {
	svc, _, _ := newTestUserService(true)
	ctx := context.Background()
	a, err := svc.Register(ctx, alice())
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("own email is allowed", func(t *testing.T) {
		email := "Alice@Example.com"
		name := "Alice Smith"
		u, err := svc.Update(ctx, a.ID, UpdateInput{Name: &name, Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.Equal(t, "Alice Smith", u.Name)
	})

	t.Run("another user's email conflicts", func(t *testing.T) {
		email := "BOB@example.com"
		_, err := svc.Update(ctx, a.ID, UpdateInput{Email: &email})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})

	t.Run("missing user", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.Update(ctx, 999, UpdateInput{Name: &name})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestDeleteCascadesLogins(t *testing.T) {
	svc, users, _ := newTestUserService(true)
	ctx := context.Background()
	u, err := svc.Register(ctx, alice())
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.Zero(t, users.loginsFor(u.ID))

	_, err = svc.Get(ctx, u.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.True(t, apperror.Is(svc.Delete(ctx, u.ID), apperror.KindNotFound))
}

func TestEmailExistsFoldsCase(t *testing.T) {
	svc, _, _ := newTestUserService(false)
	ctx := context.Background()
	_, err := svc.Register(ctx, alice())
	require.NoError(t, err)

	ok, err := svc.EmailExists(ctx, " Alice@EXAMPLE.com ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.EmailExists(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
