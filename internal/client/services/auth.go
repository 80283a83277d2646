package services

import (
	"context"
	"fmt"

	"github.com/dukaanly/possync/internal/client/models"
	"github.com/dukaanly/possync/internal/client/session"
)

// AuthService defines authentication operations for the app.
type AuthService interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password, shopName string) error
	Me(ctx context.Context) (*models.UserInfo, error)
	Logout(ctx context.Context) error
	Authenticated() bool
}

type authService struct {
	gateway Gateway
	session *session.Session
}

func NewAuthService(gateway Gateway, sess *session.Session) AuthService {
	return &authService{gateway: gateway, session: sess}
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	if err := a.gateway.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return nil
}

func (a *authService) Register(ctx context.Context, username, password, shopName string) error {
	req := models.RegisterRequest{Username: username, Password: password, ShopName: shopName}
	if err := a.gateway.Register(ctx, req); err != nil {
		return fmt.Errorf("registration error: %w", err)
	}
	return nil
}

func (a *authService) Me(ctx context.Context) (*models.UserInfo, error) {
	return a.gateway.Me(ctx)
}

// Logout clears the local session. No backend call: the token is a bearer
// credential the server does not track individually.
func (a *authService) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}

func (a *authService) Authenticated() bool {
	return a.session.Authenticated()
}
