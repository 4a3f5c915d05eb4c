package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/mock"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestAuthSvc(t *testing.T) (ClientAuthService, *mock.MockServerAdapter, *mock.MockLocalSessionRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockSessions := mock.NewMockLocalSessionRepository(ctrl)

	return NewClientAuthService(mockSessions, mockAdapter), mockAdapter, mockSessions
}

func TestClientAuthService_Register_Success(t *testing.T) {
	svc, mockAdapter, mockSessions := newTestAuthSvc(t)
	ctx := context.Background()
	user := models.User{Login: "alice", Password: "secret"}

	mockAdapter.EXPECT().Register(ctx, user).Return(models.User{Login: "alice"}, nil)
	mockAdapter.EXPECT().Token().Return("tok")
	mockSessions.EXPECT().SaveSession(ctx, models.Session{Login: "alice", Token: "tok"}).Return(nil)

	require.NoError(t, svc.Register(ctx, user))
}

func TestClientAuthService_Register_EmptyCredentials(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	err := svc.Register(context.Background(), models.User{Login: "alice"})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestClientAuthService_Register_LoginTaken(t *testing.T) {
	svc, mockAdapter, _ := newTestAuthSvc(t)
	ctx := context.Background()
	user := models.User{Login: "alice", Password: "secret"}

	mockAdapter.EXPECT().Register(ctx, user).
		Return(models.User{}, fmt.Errorf("%w: %s", adapter.ErrConflict, app.MsgLoginAlreadyExists))

	err := svc.Register(ctx, user)

	assert.ErrorIs(t, err, ErrLoginAlreadyExists)
}

func TestClientAuthService_Login_Success(t *testing.T) {
	svc, mockAdapter, mockSessions := newTestAuthSvc(t)
	ctx := context.Background()
	user := models.User{Login: "alice", Password: "secret"}

	mockAdapter.EXPECT().Login(ctx, user).Return(models.User{Login: "alice"}, nil)
	mockAdapter.EXPECT().Token().Return("tok")
	mockSessions.EXPECT().SaveSession(ctx, models.Session{Login: "alice", Token: "tok"}).Return(nil)

	require.NoError(t, svc.Login(ctx, user))
}

func TestClientAuthService_Login_WrongPassword(t *testing.T) {
	svc, mockAdapter, _ := newTestAuthSvc(t)
	ctx := context.Background()
	user := models.User{Login: "alice", Password: "nope"}

	mockAdapter.EXPECT().Login(ctx, user).
		Return(models.User{}, fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgInvalidLoginPassword))

	err := svc.Login(ctx, user)

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestClientAuthService_Login_NoTokenReturned(t *testing.T) {
	svc, mockAdapter, _ := newTestAuthSvc(t)
	ctx := context.Background()
	user := models.User{Login: "alice", Password: "secret"}

	mockAdapter.EXPECT().Login(ctx, user).Return(models.User{Login: "alice"}, nil)
	mockAdapter.EXPECT().Token().Return("")

	err := svc.Login(ctx, user)

	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestClientAuthService_Logout(t *testing.T) {
	svc, mockAdapter, mockSessions := newTestAuthSvc(t)
	ctx := context.Background()

	mockAdapter.EXPECT().SetToken("")
	mockSessions.EXPECT().ClearSession(ctx).Return(nil)

	require.NoError(t, svc.Logout(ctx))
}

func TestClientAuthService_Restore(t *testing.T) {
	t.Run("stored session", func(t *testing.T) {
		svc, mockAdapter, mockSessions := newTestAuthSvc(t)
		ctx := context.Background()

		mockSessions.EXPECT().Session(ctx).Return(models.Session{Login: "alice", Token: "tok"}, nil)
		mockAdapter.EXPECT().SetToken("tok")

		session, err := svc.Restore(ctx)

		require.NoError(t, err)
		assert.Equal(t, "alice", session.Login)
	})

	t.Run("no session", func(t *testing.T) {
		svc, _, mockSessions := newTestAuthSvc(t)
		ctx := context.Background()

		mockSessions.EXPECT().Session(ctx).Return(models.Session{}, store.ErrLocalSessionNotFound)

		_, err := svc.Restore(ctx)

		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})
}
