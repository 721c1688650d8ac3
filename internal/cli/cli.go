// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/cssocial/desk/internal/authhelp"
	"github.com/cssocial/desk/internal/config"
	"github.com/cssocial/desk/internal/localdb"
	"github.com/cssocial/desk/internal/remote"
)

// HandleLogin signs in from the terminal and saves the session token,
// so a headless box can refresh its stored credentials without the UI.
func HandleLogin(store *localdb.Store, cfg *config.AppConfig) {
	ctx := context.Background()

	var token string
	api := remote.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, func() string { return token })

	fmt.Print("Username: ")
	username, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read username: %v", err)
	}
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("\nFailed to read password: %v", err)
	}
	fmt.Println()

	result, err := api.Login(ctx, username, string(bytePassword))
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	token = result.AccessToken

	me, err := api.Me(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch profile: %v", err)
	}

	if err := authhelp.SaveSessionToken(ctx, store, me.ID, me.Username, token, cfg.TokenKey); err != nil {
		log.Fatalf("Failed to save session: %v", err)
	}

	fmt.Printf("Logged in as %s.\n", me.Username)
}

// HandleLogout drops the saved remote session so the next start goes
// back to the login page.
func HandleLogout(store *localdb.Store) {
	ctx := context.Background()

	if err := store.DeleteSession(ctx); err != nil {
		log.Fatalf("Failed to remove saved session: %v", err)
	}

	fmt.Println("Saved session removed.")
}

// HandleResetLock replaces the app-lock passphrase from the terminal.
// An empty passphrase removes the lock.
func HandleResetLock(store *localdb.Store) {
	ctx := context.Background()

	fmt.Print("Enter new app-lock passphrase (empty to remove): ")
	bytePassphrase, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("\nFailed to read passphrase: %v", err)
	}
	fmt.Println()

	passphrase := string(bytePassphrase)
	if passphrase == "" {
		if err := store.DeleteAppLock(ctx); err != nil {
			log.Fatalf("Failed to remove app lock: %v", err)
		}
		fmt.Println("App lock removed.")
		return
	}

	hash, err := authhelp.HashPassphrase(passphrase)
	if err != nil {
		log.Fatalf("Failed to hash passphrase: %v", err)
	}
	if err := store.SetAppLock(ctx, hash); err != nil {
		log.Fatalf("Failed to save app lock: %v", err)
	}

	fmt.Println("App lock updated.")
}
