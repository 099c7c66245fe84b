package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/FriggD/controle-gastos-residenciais/internal/cli"
	"github.com/FriggD/controle-gastos-residenciais/internal/config"
	gsheet "github.com/FriggD/controle-gastos-residenciais/internal/sheets/google"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

func oauthInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth-init",
		Short: "Authorize Google Sheets export and save the OAuth token",
		Long: `Run the OAuth consent flow for the client in GOOGLE_OAUTH_CLIENT_JSON or
GOOGLE_OAUTH_CLIENT_FILE and write the token to GOOGLE_OAUTH_TOKEN_FILE.
The OAuth client must list http://localhost:<port>/callback as an
authorized redirect URI.`,
		Args: cobra.NoArgs,
		RunE: runOAuthInit,
	}
	cmd.Flags().Int("port", 8085, "Local port for the OAuth redirect")
	cmd.Flags().Duration("timeout", 5*time.Minute, "How long to wait for authorization")
	return cmd
}

func runOAuthInit(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	// The token does not exist yet, so the full validation would fail.
	cli.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var clientJSON []byte
	switch {
	case cfg.GoogleOAuthClientJSON != "":
		clientJSON = []byte(cfg.GoogleOAuthClientJSON)
	case cfg.GoogleOAuthClientFile != "":
		clientJSON, err = os.ReadFile(cfg.GoogleOAuthClientFile)
		if err != nil {
			return fmt.Errorf("read client file: %w", err)
		}
	default:
		return errors.New("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}

	oauthCfg, err := gsheet.OAuthConfig(clientJSON)
	if err != nil {
		return err
	}
	oauthCfg.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	code, err := awaitAuthCode(ctx, cmd, oauthCfg, port)
	if err != nil {
		return err
	}
	tok, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}

	outFile := cfg.GoogleOAuthTokenFile
	if outFile == "" {
		outFile = "token.json"
	}
	if err := writeToken(outFile, tok); err != nil {
		return err
	}
	cmd.Printf("Saved token to %s\n", outFile)
	return nil
}

// awaitAuthCode prints the consent URL and serves the redirect until a
// code arrives or ctx ends.
func awaitAuthCode(ctx context.Context, cmd *cobra.Command, oauthCfg *oauth2.Config, port int) (string, error) {
	state := fmt.Sprintf("controle-gastos-%d", time.Now().UnixNano())
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			http.Error(w, "OAuth error: "+e, http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization denied: %s", e)
			return
		}
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		select {
		case codeCh <- q.Get("code"):
		default:
		}
	})

	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return "", fmt.Errorf("listen for OAuth redirect: %w", err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	cmd.Printf("Open this URL to authorize:\n%s\n", oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("authorization not completed: %w", ctx.Err())
	}
}

func writeToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
