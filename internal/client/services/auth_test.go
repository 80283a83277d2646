package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dukaanly/possync/internal/client/repositories/settings"
	"github.com/dukaanly/possync/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupSession(t *testing.T) *session.Session {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE settings (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)

	sess, err := session.Load(context.Background(), settings.NewSQLiteRepository(db))
	require.NoError(t, err)
	return sess
}

func TestAuthService_LoginPassesCredentials(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewAuthService(gw, setupSession(t))

	require.NoError(t, svc.Login(context.Background(), "kirana", "secret"))
	assert.Equal(t, "kirana", gw.LastLoginUser)
	assert.Equal(t, "secret", gw.LastLoginPass)
}

func TestAuthService_LoginWrapsError(t *testing.T) {
	boom := errors.New("invalid credentials")
	gw := &fakeGateway{LoginErr: boom}
	svc := NewAuthService(gw, setupSession(t))

	err := svc.Login(context.Background(), "kirana", "wrong")
	require.ErrorIs(t, err, boom)
}

func TestAuthService_RegisterBuildsRequest(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewAuthService(gw, setupSession(t))

	require.NoError(t, svc.Register(context.Background(), "kirana", "secret", "Asha Stores"))
	assert.Equal(t, "kirana", gw.LastRegister.Username)
	assert.Equal(t, "secret", gw.LastRegister.Password)
	assert.Equal(t, "Asha Stores", gw.LastRegister.ShopName)
}

func TestAuthService_LogoutClearsSession(t *testing.T) {
	sess := setupSession(t)
	ctx := context.Background()
	require.NoError(t, sess.SetToken(ctx, "tok"))

	svc := NewAuthService(&fakeGateway{}, sess)
	assert.True(t, svc.Authenticated())

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, svc.Authenticated())
}
