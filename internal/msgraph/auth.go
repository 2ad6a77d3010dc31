package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/work-tracker/internal/storage"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

const tokenKey = "msgraph_tokens"

// tokenStore is where the Graph token is cached inside the data dir.
func tokenStore(home string) storage.Store {
	return storage.NewFileStore(filepath.Join(home, "auth"))
}

// TokenFilePath returns the file backing the cached token.
func TokenFilePath(home string) string {
	return filepath.Join(home, "auth", tokenKey+".json")
}

// oauth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// loadToken returns the cached token, or nil, nil when there is none.
func loadToken(ctx context.Context, store storage.Store) (*oauth2.Token, error) {
	data, err := store.Get(ctx, tokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt cached token (sign in again to replace it): %w", err)
	}
	return &tok, nil
}

func saveToken(ctx context.Context, store storage.Store, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	return store.Set(ctx, tokenKey, data)
}

// Authenticate returns a token for Microsoft Graph. It uses the cached
// token, refreshes it if needed, or runs the device code flow and prints
// the sign-in instructions to out.
func Authenticate(ctx context.Context, home, tenantID, clientID string, out io.Writer) (*oauth2.Token, *oauth2.Config, error) {
	cfg := oauth2Config(tenantID, clientID)
	store := tokenStore(home)

	tok, err := loadToken(ctx, store)
	if err != nil {
		slog.Warn("Ignoring cached token", "error", err)
		tok = nil
	}

	if tok != nil && tok.Valid() {
		return tok, cfg, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := saveToken(ctx, store, refreshed); err != nil {
				slog.Warn("Could not save refreshed token", "error", err)
			}
			return refreshed, cfg, nil
		}
		slog.Info("Token refresh failed, re-authenticating", "error", err)
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(out, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(out, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(out)

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, nil, fmt.Errorf("device authentication failed: %w", err)
	}

	if err := saveToken(ctx, store, newTok); err != nil {
		slog.Warn("Could not save token", "error", err)
	}
	return newTok, cfg, nil
}
