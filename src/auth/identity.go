package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"git.vibecoding.academy/vca/vca/src/config"
	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the subset of the identity provider's ID token
// that we care about. Subject is the provider's stable user id.
type IdentityClaims struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarUrl string `json:"picture"`

	jwt.RegisteredClaims
}

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

// ExchangeCode trades an authorization code for the provider's ID
// token and verifies it. The returned claims are trusted.
func ExchangeCode(ctx context.Context, code string, redirectUri string) (*IdentityClaims, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", config.Config.Auth.ProviderClientID)
	form.Set("client_secret", config.Config.Auth.ProviderClientSecret)
	form.Set("redirect_uri", redirectUri)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.Config.Auth.ProviderTokenUrl, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, oops.New(err, "failed to create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to exchange authorization code")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return nil, oops.New(nil, "identity provider rejected code exchange (status %d): %s", res.StatusCode, string(body))
	}

	var payload struct {
		IDToken string `json:"id_token"`
	}
	err = json.NewDecoder(res.Body).Decode(&payload)
	if err != nil {
		return nil, oops.New(err, "failed to decode token response")
	}
	if payload.IDToken == "" {
		return nil, oops.New(nil, "token response contained no id_token")
	}

	return VerifyIDToken(payload.IDToken)
}

// VerifyIDToken validates the signature, issuer and expiry of a
// provider ID token and extracts our claims.
func VerifyIDToken(tokenString string) (*IdentityClaims, error) {
	var claims IdentityClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return []byte(config.Config.Auth.ProviderSigningKey), nil
		},
		jwt.WithIssuer(config.Config.Auth.ProviderIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, oops.New(err, "failed to verify id token")
	}
	if !token.Valid {
		return nil, oops.New(nil, "id token was not valid")
	}
	if claims.Subject == "" {
		return nil, oops.New(nil, "id token had no subject")
	}

	return &claims, nil
}

// SyncProfile maps verified provider claims onto a local profile.
// We match by the provider's user id first, then fall back to email
// for accounts that existed before the provider migration, and
// finally create a brand new member profile.
func SyncProfile(ctx context.Context, conn db.ConnOrTx, claims *IdentityClaims) (*models.Profile, error) {
	profile, err := db.QueryOne[models.Profile](ctx, conn,
		`
		---- Fetch profile by external id
		SELECT $columns FROM profile WHERE external_id = $1
		`,
		claims.Subject,
	)
	if err == nil {
		return profile, nil
	} else if !errors.Is(err, db.NotFound) {
		return nil, oops.New(err, "failed to look up profile by external id")
	}

	if claims.Email != "" {
		profile, err := db.QueryOne[models.Profile](ctx, conn,
			`
			---- Fetch profile by email
			SELECT $columns FROM profile WHERE LOWER(email) = LOWER($1)
			`,
			claims.Email,
		)
		if err == nil {
			// Adopt the account: bind the provider id so future
			// logins match directly.
			_, err = conn.Exec(ctx,
				"UPDATE profile SET external_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
				claims.Subject, profile.ID,
			)
			if err != nil {
				return nil, oops.New(err, "failed to bind external id to profile")
			}
			profile.ExternalID = claims.Subject
			return profile, nil
		} else if !errors.Is(err, db.NotFound) {
			return nil, oops.New(err, "failed to look up profile by email")
		}
	}

	name := claims.Name
	if name == "" {
		name = claims.Email
	}
	var avatar *string
	if claims.AvatarUrl != "" {
		avatar = &claims.AvatarUrl
	}
	profile, err = db.QueryOne[models.Profile](ctx, conn,
		`
		---- Create profile from provider claims
		INSERT INTO profile (external_id, name, email, role, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING $columns
		`,
		claims.Subject, name, claims.Email, models.RoleMember, avatar,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create profile")
	}

	return profile, nil
}

// FallbackProfile synthesizes a transient profile from claims alone,
// for when the profile store is unavailable but the token checked
// out. It has no database id and must never be persisted.
func FallbackProfile(claims *IdentityClaims) *models.Profile {
	name := claims.Name
	if name == "" {
		name = claims.Email
	}
	var avatar *string
	if claims.AvatarUrl != "" {
		avatar = &claims.AvatarUrl
	}
	return &models.Profile{
		ID:         -1,
		ExternalID: claims.Subject,
		Name:       name,
		Email:      claims.Email,
		Role:       models.RoleMember,
		AvatarUrl:  avatar,
	}
}
