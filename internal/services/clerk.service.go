package services

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"hypeshelf/config"
	"hypeshelf/internal/logger"
	"hypeshelf/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// OIDCDiscovery represents OIDC discovery document
type OIDCDiscovery struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKS_URI              string `json:"jwks_uri"`
}

// JWK represents a JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSet represents a set of JSON Web Keys
type JWKSet struct {
	Keys []JWK `json:"keys"`
}

// ClerkService resolves verified identities from Clerk-issued OIDC ID
// tokens. It is the only place token validation happens; everything past
// it works with the fixed-shape models.Identity value.
type ClerkService struct {
	config     config.Config
	log        logger.Logger
	httpClient *http.Client
	issuer     string
	clientID   string

	// OIDC discovery and JWK caching
	discovery     *OIDCDiscovery
	jwks          *JWKSet
	discoveryMux  sync.RWMutex
	jwksMux       sync.RWMutex
	discoveryTime time.Time
	jwksTime      time.Time
	cacheTTL      time.Duration
}

func NewClerkService(cfg config.Config) (*ClerkService, error) {
	log := logger.New("ClerkService")

	if cfg.ClerkIssuerURL == "" {
		return nil, log.ErrMsg(
			"Clerk configuration required but not provided: missing ClerkIssuerURL",
		)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: false},
		},
	}

	service := &ClerkService{
		config:     cfg,
		log:        log,
		httpClient: httpClient,
		issuer:     cfg.ClerkIssuerURL,
		clientID:   cfg.ClerkClientID,
		cacheTTL:   15 * time.Minute, // Cache OIDC discovery and JWKS for 15 minutes
	}

	log.Info("Clerk service initialized successfully", "issuer", cfg.ClerkIssuerURL)
	return service, nil
}

// ResolveIdentity validates an OIDC ID token with signature verification and
// returns the verified identity it carries.
func (cs *ClerkService) ResolveIdentity(
	ctx context.Context,
	idToken string,
) (*models.Identity, error) {
	log := cs.log.TraceFromContext(ctx).Function("ResolveIdentity")

	var claims struct {
		jwt.RegisteredClaims
		Email     string `json:"email"`
		Name      string `json:"name"`
		GivenName string `json:"given_name"`
		LastName  string `json:"family_name"`
	}

	token, err := jwt.ParseWithClaims(
		idToken,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, log.ErrMsg(
					"unexpected signing method: " + fmt.Sprintf("%v", token.Header["alg"]),
				)
			}

			kidHeader, ok := token.Header["kid"].(string)
			if !ok {
				return nil, log.ErrMsg("missing or invalid 'kid' in JWT header")
			}

			publicKey, err := cs.getPublicKeyForToken(ctx, kidHeader)
			if err != nil {
				return nil, log.Err("failed to get public key", err)
			}

			return publicKey, nil
		},
	)
	if err != nil {
		return nil, log.Err("JWT signature verification failed", err)
	}

	if !token.Valid {
		return nil, log.ErrMsg("JWT token is invalid")
	}

	// Verify issuer
	expectedIssuer := strings.TrimSuffix(cs.issuer, "/")
	if claims.Issuer != expectedIssuer {
		return nil, log.ErrMsg(
			"invalid issuer: expected " + expectedIssuer + ", got " + claims.Issuer,
		)
	}

	// Verify audience when a client ID is configured
	if cs.clientID != "" && !slices.Contains(claims.Audience, cs.clientID) {
		return nil, log.ErrMsg(
			"invalid audience: expected client ID " + cs.clientID + " not found in audience " +
				fmt.Sprintf("%v", claims.Audience),
		)
	}

	if claims.Subject == "" {
		return nil, log.ErrMsg("token missing subject claim")
	}

	// Build display name if 'name' is missing but we have given/family names
	displayName := claims.Name
	if displayName == "" && (claims.GivenName != "" || claims.LastName != "") {
		displayName = strings.TrimSpace(claims.GivenName + " " + claims.LastName)
	}

	log.Info("ID token validation successful",
		"sub", claims.Subject,
		"email", claims.Email,
		"iss", claims.Issuer)

	return &models.Identity{
		Subject: claims.Subject,
		Name:    displayName,
		Email:   claims.Email,
	}, nil
}

// getOIDCDiscovery fetches and caches the OIDC discovery document
func (cs *ClerkService) getOIDCDiscovery(ctx context.Context) (*OIDCDiscovery, error) {
	log := cs.log.TraceFromContext(ctx).Function("getOIDCDiscovery")

	// Check cache first
	cs.discoveryMux.RLock()
	if cs.discovery != nil && time.Since(cs.discoveryTime) < cs.cacheTTL {
		discovery := cs.discovery
		cs.discoveryMux.RUnlock()
		return discovery, nil
	}
	cs.discoveryMux.RUnlock()

	discoveryURL := strings.TrimSuffix(cs.issuer, "/") + "/.well-known/openid-configuration"

	req, err := http.NewRequestWithContext(ctx, "GET", discoveryURL, nil)
	if err != nil {
		return nil, log.Err("failed to create discovery request", err)
	}

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch OIDC discovery", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close discovery response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("OIDC discovery request failed",
			"statusCode", resp.StatusCode)
	}

	var discovery OIDCDiscovery
	if err := json.NewDecoder(resp.Body).Decode(&discovery); err != nil {
		return nil, log.Err("failed to decode OIDC discovery", err)
	}

	if discovery.Issuer != strings.TrimSuffix(cs.issuer, "/") {
		return nil, log.ErrMsg(
			"invalid issuer in discovery document: expected " + cs.issuer + ", got " + discovery.Issuer,
		)
	}

	if discovery.JWKS_URI == "" {
		return nil, log.ErrMsg("missing JWKS URI in discovery document")
	}

	cs.discoveryMux.Lock()
	cs.discovery = &discovery
	cs.discoveryTime = time.Now()
	cs.discoveryMux.Unlock()

	log.Info("OIDC discovery fetched successfully", "jwks_uri", discovery.JWKS_URI)
	return &discovery, nil
}

// getJWKS fetches and caches the JSON Web Key Set
func (cs *ClerkService) getJWKS(ctx context.Context) (*JWKSet, error) {
	log := cs.log.TraceFromContext(ctx).Function("getJWKS")

	// Check cache first
	cs.jwksMux.RLock()
	if cs.jwks != nil && time.Since(cs.jwksTime) < cs.cacheTTL {
		jwks := cs.jwks
		cs.jwksMux.RUnlock()
		return jwks, nil
	}
	cs.jwksMux.RUnlock()

	discovery, err := cs.getOIDCDiscovery(ctx)
	if err != nil {
		return nil, log.Err("failed to get OIDC discovery for JWKS", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", discovery.JWKS_URI, nil)
	if err != nil {
		return nil, log.Err("failed to create JWKS request", err)
	}

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch JWKS", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close JWKS response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("JWKS request failed",
			"statusCode", resp.StatusCode)
	}

	var jwks JWKSet
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, log.Err("failed to decode JWKS", err)
	}

	if len(jwks.Keys) == 0 {
		return nil, log.ErrMsg("JWKS contains no keys")
	}

	cs.jwksMux.Lock()
	cs.jwks = &jwks
	cs.jwksTime = time.Now()
	cs.jwksMux.Unlock()

	log.Info("JWKS fetched successfully", "keys_count", len(jwks.Keys))
	return &jwks, nil
}

// getPublicKeyForToken retrieves the public key for JWT verification based on kid header
func (cs *ClerkService) getPublicKeyForToken(
	ctx context.Context,
	kidHeader string,
) (*rsa.PublicKey, error) {
	log := cs.log.TraceFromContext(ctx).Function("getPublicKeyForToken")

	jwks, err := cs.getJWKS(ctx)
	if err != nil {
		return nil, log.Err("failed to get JWKS", err)
	}

	var targetJWK *JWK
	for _, jwk := range jwks.Keys {
		if jwk.Kid == kidHeader {
			targetJWK = &jwk
			break
		}
	}

	if targetJWK == nil {
		return nil, log.ErrMsg("no matching key found: kid " + kidHeader + " not found in JWKS")
	}

	if targetJWK.Kty != "RSA" {
		return nil, log.ErrMsg("unsupported key type: expected RSA, got " + targetJWK.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(targetJWK.N)
	if err != nil {
		return nil, log.Err("failed to decode RSA modulus (n)", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(targetJWK.E)
	if err != nil {
		return nil, log.Err("failed to decode RSA exponent (e)", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	// Validate RSA exponent fits in int (prevent overflow on 32-bit systems)
	if !e.IsInt64() || e.Int64() > int64(^uint(0)>>1) {
		return nil, log.ErrMsg("RSA exponent too large: " + e.String())
	}

	publicKey := &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}

	log.Debug("public key retrieved successfully", "kid", kidHeader, "keyType", targetJWK.Kty)
	return publicKey, nil
}

// IsConfigured reports whether the service has an issuer to validate against.
func (cs *ClerkService) IsConfigured() bool {
	return cs.issuer != ""
}

// Close cleans up the Clerk service resources
func (cs *ClerkService) Close() error {
	// No resources to clean up for HTTP client
	return nil
}
