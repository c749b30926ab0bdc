// Package gcal pushes plandeck calendar events to a Google calendar. The
// push is one way: Google is never read back into plandeck.
package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrNoToken is returned when no OAuth token has been saved yet
var ErrNoToken = errors.New("no Google token saved; run 'plandeck cal push --auth' first")

// Config locates the OAuth files and the target calendar
type Config struct {
	CredentialsFile string
	TokenFile       string
	CalendarID      string
}

var scopes = []string{calendar.CalendarEventsScope}

// OAuthConfig reads the client credentials downloaded from the Google console
func OAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", credentialsFile, err)
	}
	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	return cfg, nil
}

// AuthURL is the consent page the user opens to get an authorization code
func AuthURL(cfg *oauth2.Config) string {
	// Offline access so a refresh token comes back
	return cfg.AuthCodeURL("plandeck", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeCode trades an authorization code for a token and saves it
func ExchangeCode(ctx context.Context, cfg *oauth2.Config, code, tokenFile string) error {
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from Google: %w", err)
	}
	return saveToken(tokenFile, tok)
}

// NewClient returns an authenticated HTTP client. Refreshed tokens are
// written back to the token file.
func NewClient(ctx context.Context, c Config) (*http.Client, error) {
	cfg, err := OAuthConfig(c.CredentialsFile)
	if err != nil {
		return nil, err
	}
	tok, err := tokenFromFile(c.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}

	src := cfg.TokenSource(ctx, tok)
	fresh, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh Google token: %w", err)
	}
	if fresh.AccessToken != tok.AccessToken || fresh.RefreshToken != tok.RefreshToken {
		if err := saveToken(c.TokenFile, fresh); err != nil {
			return nil, err
		}
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(fresh, src)), nil
}

// NewService builds the Calendar API service
func NewService(ctx context.Context, c Config) (*calendar.Service, error) {
	client, err := NewClient(ctx, c)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}
	return srv, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
