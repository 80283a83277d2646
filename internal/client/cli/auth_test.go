package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dukaanly/possync/internal/client/models"
	"github.com/dukaanly/possync/internal/common"
)

func stubInputs(t *testing.T, texts []string, password string) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(texts) {
			return "", io.EOF
		}
		s := texts[i]
		i++
		return s, nil
	}
	getPassword = func(_ io.Writer) (string, error) { return password, nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

type fakeAuth struct {
	loggedIn bool

	loginUser string
	loginPass string
	loginErr  error

	regUser string
	regPass string
	regShop string
	regErr  error

	logoutCalled bool
}

func (f *fakeAuth) Login(_ context.Context, user, pass string) error {
	f.loginUser, f.loginPass = user, pass
	if f.loginErr == nil {
		f.loggedIn = true
	}
	return f.loginErr
}
func (f *fakeAuth) Register(_ context.Context, user, pass, shop string) error {
	f.regUser, f.regPass, f.regShop = user, pass, shop
	return f.regErr
}
func (f *fakeAuth) Me(context.Context) (*models.UserInfo, error) {
	return &models.UserInfo{Username: f.loginUser}, nil
}
func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	f.loggedIn = false
	return nil
}
func (f *fakeAuth) Authenticated() bool { return f.loggedIn }

func TestRegister_Success(t *testing.T) {
	f := &fakeAuth{}
	a := &App{auth: f}

	restore := stubInputs(t, []string{"kirana", "Asha Stores"}, "secret")
	defer restore()

	if err := a.Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if f.regUser != "kirana" || f.regPass != "secret" || f.regShop != "Asha Stores" {
		t.Fatalf("unexpected register args: %+v", f)
	}
}

func TestLogin_Success(t *testing.T) {
	f := &fakeAuth{}
	a := &App{auth: f}

	restore := stubInputs(t, []string{"kirana"}, "secret")
	defer restore()

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if f.loginUser != "kirana" || f.loginPass != "secret" {
		t.Fatalf("unexpected login args: %+v", f)
	}
	if !a.isLoggedIn() {
		t.Fatal("expected logged in")
	}
}

func TestLogin_Unavailable(t *testing.T) {
	f := &fakeAuth{loginErr: common.ErrUnavailable}
	a := &App{auth: f}

	restore := stubInputs(t, []string{"kirana"}, "secret")
	defer restore()

	err := a.Login(context.Background())
	if !errors.Is(err, common.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if a.isLoggedIn() {
		t.Fatal("must not be logged in")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	f := &fakeAuth{loggedIn: true}
	a := &App{auth: f}

	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if !f.logoutCalled || a.isLoggedIn() {
		t.Fatalf("logout not applied: %+v", f)
	}
}
