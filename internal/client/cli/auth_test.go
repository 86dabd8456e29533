package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/davidmr/portfoliocms/internal/client/api"
	"github.com/davidmr/portfoliocms/internal/client/session"
)

func stubInputs(t *testing.T, texts []string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		s := texts[i%len(texts)]
		i++
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		return append([]byte(nil), password...), nil
	}
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

type fakeSession struct {
	state   session.State
	account *api.Account

	loginEmail string
	loginPass  string
	loginErr   error

	regName  string
	regEmail string
	regErr   error

	logoutCalled bool
	logoutErr    error

	changeCur string
	changeNew string
	changeErr error

	refreshErr error
	pingErr    error
}

func (f *fakeSession) State() session.State { return f.state }

func (f *fakeSession) Account() *api.Account { return f.account }

func (f *fakeSession) Ping(context.Context) error { return f.pingErr }

func (f *fakeSession) Bootstrap(context.Context) error { return nil }

func (f *fakeSession) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPass = email, password
	if f.loginErr == nil {
		f.state = session.StateAuthenticated
	}
	return f.loginErr
}

func (f *fakeSession) Register(_ context.Context, name, email, password string) error {
	f.regName, f.regEmail = name, email
	if f.regErr == nil {
		f.state = session.StateAuthenticated
	}
	return f.regErr
}

func (f *fakeSession) Logout(context.Context) error {
	f.logoutCalled = true
	if f.logoutErr == nil {
		f.state = session.StateAnonymous
		f.account = nil
	}
	return f.logoutErr
}

func (f *fakeSession) ChangePassword(_ context.Context, cur, newPass string) error {
	f.changeCur, f.changeNew = cur, newPass
	return f.changeErr
}

func (f *fakeSession) Refresh(context.Context) (*api.Account, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.account, nil
}

func TestLogin_PassesCredentials(t *testing.T) {
	f := &fakeSession{state: session.StateAnonymous}
	a := &App{session: f}

	restore := stubInputs(t, []string{"alice@example.org"}, []byte("secret1"))
	defer restore()

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if f.loginEmail != "alice@example.org" {
		t.Fatalf("Login email mismatch: %q", f.loginEmail)
	}
	if f.loginPass != "secret1" {
		t.Fatalf("Login password mismatch: %q", f.loginPass)
	}
	if !a.isLoggedIn() {
		t.Fatalf("expected logged-in state")
	}
}

func TestLogin_ErrorPropagates(t *testing.T) {
	f := &fakeSession{state: session.StateAnonymous, loginErr: errors.New("invalid credentials")}
	a := &App{session: f}

	restore := stubInputs(t, []string{"alice@example.org"}, []byte("wrong"))
	defer restore()

	if err := a.Login(context.Background()); err == nil {
		t.Fatalf("want error from Login")
	}
	if a.isLoggedIn() {
		t.Fatalf("must stay logged out")
	}
}

func TestRegister_PassesFields(t *testing.T) {
	f := &fakeSession{state: session.StateAnonymous}
	a := &App{session: f}

	restore := stubInputs(t, []string{"Alice", "alice@example.org"}, []byte("secret1"))
	defer restore()

	if err := a.Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if f.regName != "Alice" {
		t.Fatalf("Register name mismatch: %q", f.regName)
	}
	if f.regEmail != "alice@example.org" {
		t.Fatalf("Register email mismatch: %q", f.regEmail)
	}
}

func TestLogout(t *testing.T) {
	f := &fakeSession{state: session.StateAuthenticated}
	a := &App{session: f}

	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if !f.logoutCalled {
		t.Fatalf("session Logout not called")
	}
	if a.isLoggedIn() {
		t.Fatalf("must be logged out")
	}
}

func TestLogout_ErrorPropagates(t *testing.T) {
	f := &fakeSession{state: session.StateAuthenticated, logoutErr: errors.New("clean-fail")}
	a := &App{session: f}
	if err := a.Logout(context.Background()); err == nil {
		t.Fatalf("want error from Logout")
	}
}

func TestChangePassword_PassesBothPasswords(t *testing.T) {
	f := &fakeSession{state: session.StateAuthenticated}
	a := &App{session: f}

	restore := stubInputs(t, nil, []byte("samepass"))
	defer restore()

	if err := a.ChangePassword(context.Background()); err != nil {
		t.Fatalf("ChangePassword err: %v", err)
	}
	if f.changeCur != "samepass" || f.changeNew != "samepass" {
		t.Fatalf("passwords not passed through: %q %q", f.changeCur, f.changeNew)
	}
}

func TestMe_ErrorPropagates(t *testing.T) {
	f := &fakeSession{state: session.StateAuthenticated, refreshErr: errors.New("unauthorized")}
	a := &App{session: f}
	if err := a.Me(context.Background()); err == nil {
		t.Fatalf("want error from Me")
	}
}
