package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/davidmr/portfoliocms/internal/client/session"
	"github.com/davidmr/portfoliocms/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a name, email and password and creates an account.
// A successful registration is also a login.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Register(ctx, name, email, string(password)); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Registered and logged in as %s", email)
	return nil
}

// Login prompts for credentials and authenticates against the server.
// Server rejections are shown verbatim.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Logged in as %s", email)
	return nil
}

// Logout drops the local session. No server round-trip is involved.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	log.Println("Logged out")
	return nil
}

// Me re-resolves and prints the authenticated account.
func (a *App) Me(ctx context.Context) error {
	account, err := a.session.Refresh(ctx)
	if err != nil {
		log.Printf("Cannot fetch account: %s", err.Error())
		return err
	}

	fmt.Printf("ID:    %s\nName:  %s\nEmail: %s\nRole:  %s\n",
		account.ID, account.Name, account.Email, account.Role)
	return nil
}

// ChangePassword prompts for the current and a new password and rotates it.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword("Current password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	newPass, err := getPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPass)

	if err := a.session.ChangePassword(ctx, string(current), string(newPass)); err != nil {
		log.Printf("Password change unsuccessful: %s", err.Error())
		return err
	}

	log.Println("Password updated")
	return nil
}

// Status prints the session state and server reachability.
func (a *App) Status(ctx context.Context) error {
	state := a.session.State()
	fmt.Printf("Session: %s\n", state)
	if state == session.StateAuthenticated {
		if acc := a.session.Account(); acc != nil {
			fmt.Printf("Account: %s (%s)\n", acc.Email, acc.Role)
		}
	}

	if err := a.session.Ping(ctx); err != nil {
		fmt.Println("Server:  unreachable")
	} else {
		fmt.Println("Server:  online")
	}
	return nil
}
