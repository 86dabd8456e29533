package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if acc := a.session.Account(); acc != nil {
		s = acc.Email + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to Portfolio CMS admin console (type 'help' for commands)")

	// Restore a persisted session before the first prompt.
	log.Println("Restoring session...")
	if err := a.session.Bootstrap(ctx); err != nil {
		log.Printf("No session restored: %s", err.Error())
	} else if a.isLoggedIn() {
		log.Printf("Logged in as %s", a.session.Account().Email)
	}

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
