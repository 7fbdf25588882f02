package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hypeshelf/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyID = "test-key-1"

// newIssuerServer stands up a mock OIDC issuer serving a discovery
// document and a JWKS for the given RSA key.
func newIssuerServer(t *testing.T, publicKey *rsa.PublicKey) *httptest.Server {
	t.Helper()

	var serverURL string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/.well-known/openid-configuration"):
			w.Header().Set("Content-Type", "application/json")
			response := `{
				"issuer": "` + serverURL + `",
				"authorization_endpoint": "` + serverURL + `/oauth/authorize",
				"token_endpoint": "` + serverURL + `/oauth/token",
				"jwks_uri": "` + serverURL + `/.well-known/jwks.json"
			}`
			_, _ = w.Write([]byte(response))

		case strings.HasSuffix(r.URL.Path, "/.well-known/jwks.json"):
			n := base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes())
			e := base64.RawURLEncoding.EncodeToString(
				big.NewInt(int64(publicKey.E)).Bytes(),
			)
			w.Header().Set("Content-Type", "application/json")
			response := `{
				"keys": [{
					"kid": "` + testKeyID + `",
					"kty": "RSA",
					"use": "sig",
					"alg": "RS256",
					"n": "` + n + `",
					"e": "` + e + `"
				}]
			}`
			_, _ = w.Write([]byte(response))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	server := httptest.NewServer(handler)
	serverURL = server.URL
	return server
}

func signTestToken(
	t *testing.T,
	privateKey *rsa.PrivateKey,
	issuer string,
	claims jwt.MapClaims,
) string {
	t.Helper()

	if _, ok := claims["iss"]; !ok {
		claims["iss"] = issuer
	}
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID

	signed, err := token.SignedString(privateKey)
	require.NoError(t, err)
	return signed
}

func TestNewClerkService_RequiresIssuer(t *testing.T) {
	_, err := NewClerkService(config.Config{})
	require.Error(t, err)
}

func TestClerkService_ResolveIdentity(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server := newIssuerServer(t, &privateKey.PublicKey)
	defer server.Close()

	cfg := config.Config{
		ClerkIssuerURL: server.URL,
		ClerkClientID:  "test-client",
	}

	service, err := NewClerkService(cfg)
	require.NoError(t, err)
	require.True(t, service.IsConfigured())

	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		token := signTestToken(t, privateKey, server.URL, jwt.MapClaims{
			"sub":   "user_abc123",
			"aud":   "test-client",
			"email": "ada@example.com",
			"name":  "Ada Lovelace",
		})

		identity, err := service.ResolveIdentity(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user_abc123", identity.Subject)
		assert.Equal(t, "Ada Lovelace", identity.Name)
		assert.Equal(t, "ada@example.com", identity.Email)
	})

	t.Run("name built from given and family names", func(t *testing.T) {
		token := signTestToken(t, privateKey, server.URL, jwt.MapClaims{
			"sub":         "user_def456",
			"aud":         "test-client",
			"given_name":  "Grace",
			"family_name": "Hopper",
		})

		identity, err := service.ResolveIdentity(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "Grace Hopper", identity.Name)
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		token := signTestToken(t, privateKey, server.URL, jwt.MapClaims{
			"sub": "user_abc123",
			"aud": "test-client",
			"iss": "https://evil.example.com",
		})

		_, err := service.ResolveIdentity(ctx, token)
		require.Error(t, err)
	})

	t.Run("wrong audience rejected", func(t *testing.T) {
		token := signTestToken(t, privateKey, server.URL, jwt.MapClaims{
			"sub": "user_abc123",
			"aud": "other-client",
		})

		_, err := service.ResolveIdentity(ctx, token)
		require.Error(t, err)
	})

	t.Run("missing subject rejected", func(t *testing.T) {
		token := signTestToken(t, privateKey, server.URL, jwt.MapClaims{
			"aud": "test-client",
		})

		_, err := service.ResolveIdentity(ctx, token)
		require.Error(t, err)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token := signTestToken(t, privateKey, server.URL, jwt.MapClaims{
			"sub": "user_abc123",
			"aud": "test-client",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		_, err := service.ResolveIdentity(ctx, token)
		require.Error(t, err)
	})

	t.Run("token signed by unknown key rejected", func(t *testing.T) {
		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		token := signTestToken(t, otherKey, server.URL, jwt.MapClaims{
			"sub": "user_abc123",
			"aud": "test-client",
		})

		_, err = service.ResolveIdentity(ctx, token)
		require.Error(t, err)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := service.ResolveIdentity(ctx, "not.a.jwt")
		require.Error(t, err)
	})
}
