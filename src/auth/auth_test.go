package auth

import (
	"testing"
	"time"

	"git.vibecoding.academy/vca/vca/src/config"
	"git.vibecoding.academy/vca/vca/src/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, key string, claims IdentityClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestVerifyIDToken(t *testing.T) {
	config.Config.Auth.ProviderSigningKey = "test-signing-key"
	config.Config.Auth.ProviderIssuer = "https://auth.test"

	baseClaims := func() IdentityClaims {
		return IdentityClaims{
			Name:      "Ada Lovelace",
			Email:     "ada@example.com",
			AvatarUrl: "https://cdn.test/ada.png",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "provider_user_123",
				Issuer:    "https://auth.test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
	}

	t.Run("valid token", func(t *testing.T) {
		tokenString := signTestToken(t, "test-signing-key", baseClaims())
		claims, err := VerifyIDToken(tokenString)
		require.NoError(t, err)
		assert.Equal(t, "provider_user_123", claims.Subject)
		assert.Equal(t, "Ada Lovelace", claims.Name)
		assert.Equal(t, "ada@example.com", claims.Email)
	})

	t.Run("wrong key", func(t *testing.T) {
		tokenString := signTestToken(t, "some-other-key", baseClaims())
		_, err := VerifyIDToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := baseClaims()
		claims.Issuer = "https://evil.test"
		tokenString := signTestToken(t, "test-signing-key", claims)
		_, err := VerifyIDToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := baseClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		tokenString := signTestToken(t, "test-signing-key", claims)
		_, err := VerifyIDToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("no expiry", func(t *testing.T) {
		claims := baseClaims()
		claims.ExpiresAt = nil
		tokenString := signTestToken(t, "test-signing-key", claims)
		_, err := VerifyIDToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		claims := baseClaims()
		claims.Subject = ""
		tokenString := signTestToken(t, "test-signing-key", claims)
		_, err := VerifyIDToken(tokenString)
		assert.Error(t, err)
	})
}

func TestFallbackProfile(t *testing.T) {
	claims := &IdentityClaims{
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		AvatarUrl: "https://cdn.test/ada.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "provider_user_123",
		},
	}

	profile := FallbackProfile(claims)
	assert.Equal(t, -1, profile.ID)
	assert.Equal(t, "provider_user_123", profile.ExternalID)
	assert.Equal(t, "Ada Lovelace", profile.Name)
	assert.Equal(t, models.RoleMember, profile.Role)
	require.NotNil(t, profile.AvatarUrl)
	assert.Equal(t, "https://cdn.test/ada.png", *profile.AvatarUrl)

	t.Run("name falls back to email", func(t *testing.T) {
		noName := *claims
		noName.Name = ""
		profile := FallbackProfile(&noName)
		assert.Equal(t, "ada@example.com", profile.Name)
	})
}

func TestSessionContext(t *testing.T) {
	admin := &models.Profile{ID: 1, Role: models.RoleAdmin}
	member := &models.Profile{ID: 2, Role: models.RoleMember}

	assert.False(t, Anonymous().SignedIn())
	assert.True(t, Authenticated(member).SignedIn())
	assert.True(t, Degraded(FallbackProfile(&IdentityClaims{}), "store down").SignedIn())

	assert.True(t, Authenticated(admin).CanAdmin())
	assert.False(t, Authenticated(member).CanAdmin())

	// A degraded session never gets privileged powers.
	degradedAdmin := Degraded(admin, "store down")
	assert.False(t, degradedAdmin.CanAdmin())
	assert.False(t, degradedAdmin.CanFacilitate())
}
