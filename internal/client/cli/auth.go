package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/common"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getTextWithDefault = GetTextWithDefault
var getPassword = GetPassword

// Login prompts the user for an email and password and starts a session.
// Previously stored tokens are replaced only when the server accepts the
// credentials. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, string(password)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout ends the session. Local tokens are cleared even when the server
// could not be told.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints what the stored credentials allow without contacting the
// server.
func (a *App) Status(ctx context.Context) error {
	st, err := a.authService.Status(ctx)
	if err != nil {
		return err
	}

	if !st.LoggedIn {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	switch {
	case st.ExpiresAt.IsZero():
		fmt.Fprintln(a.out, "Access token: missing or unreadable")
	case st.Expired:
		fmt.Fprintf(a.out, "Access token: expired at %s\n", st.ExpiresAt.Local().Format(time.DateTime))
	default:
		fmt.Fprintf(a.out, "Access token: valid until %s\n", st.ExpiresAt.Local().Format(time.DateTime))
	}
	if st.CanRefresh {
		fmt.Fprintln(a.out, "Refresh token: present")
	} else {
		fmt.Fprintln(a.out, "Refresh token: none, log in again when the access token expires")
	}
	return nil
}
