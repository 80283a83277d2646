package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dukaanly/possync/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, password, and shop name and attempts to
// create a new account via the AuthService.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	shopName, err := getSimpleText(a.reader, "Enter shop name", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, username, password, shopName); err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Println("Account created, you can log in now")
	return nil
}

// Login prompts for credentials and authenticates against the backend.
// Login is an online-only operation: when the server is unreachable the
// user is told to retry later, but previously stored sessions keep working
// offline without logging in again.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, username, password); err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			fmt.Println("Server unavailable, try again later")
		} else {
			fmt.Println("Login failed:", err)
		}
		return err
	}

	fmt.Println("Logged in")
	return nil
}

// Logout drops the stored session token. Local data and any queued
// mutations stay on disk.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

// whoami shows the authenticated user as reported by the backend.
func (a *App) whoami(ctx context.Context) error {
	info, err := a.auth.Me(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", info.Username, info.ShopName)
	return nil
}
