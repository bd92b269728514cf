package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Google runs the identity-provider handshake: consent redirect, code
// exchange, userinfo fetch, first-seen provisioning, session token issue.
type Google struct {
	OAuth  *oauth2.Config
	Pool   *pgxpool.Pool
	Secret []byte
}

// NewGoogleFromEnv builds the handshake from GOOGLE_CLIENT_ID,
// GOOGLE_CLIENT_SECRET and OAUTH_REDIRECT_URL. Returns nil when the client
// credentials are not configured, so the router can skip the routes.
func NewGoogleFromEnv(pool *pgxpool.Pool, secret []byte) *Google {
	clientID := strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID"))
	clientSecret := strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET"))
	if clientID == "" || clientSecret == "" {
		return nil
	}

	redirect := strings.TrimSpace(os.Getenv("OAUTH_REDIRECT_URL"))
	if redirect == "" {
		redirect = "http://localhost:8080/api/auth/google/callback"
	}

	return &Google{
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		Pool:   pool,
		Secret: secret,
	}
}

type googleUserinfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// Login redirects the caller to the consent screen with a random state
// bound to a short-lived cookie.
func (g *Google) Login(c *fiber.Ctx) error {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create state")
	}
	state := hex.EncodeToString(buf)

	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(g.OAuth.AuthCodeURL(state), fiber.StatusFound)
}

// Callback completes the handshake and returns the session token.
func (g *Google) Callback(c *fiber.Ctx) error {
	state := strings.TrimSpace(c.Query("state"))
	if state == "" || state != c.Cookies("oauth_state") {
		return fiber.NewError(fiber.StatusUnauthorized, "state mismatch")
	}

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing code")
	}

	ctx := c.UserContext()
	tok, err := g.OAuth.Exchange(ctx, code)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "code exchange failed")
	}

	resp, err := g.OAuth.Client(ctx, tok).Get(userinfoURL)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "userinfo fetch failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "userinfo read failed")
	}

	var info googleUserinfo
	if err := json.Unmarshal(body, &info); err != nil || info.Email == "" {
		return fiber.NewError(fiber.StatusBadGateway, "userinfo parse failed")
	}
	if !info.VerifiedEmail {
		return fiber.NewError(fiber.StatusUnauthorized, "email not verified")
	}

	userID, err := g.firstSeen(ctx, info.Email, info.Name)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not provision user")
	}

	token, err := GenerateToken(g.Secret, userID, info.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.JSON(fiber.Map{"token": token})
}

// Logout exists for symmetry with the original sign-out page; the session
// token is simply discarded client-side.
func (g *Google) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}
