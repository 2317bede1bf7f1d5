// Package test holds shared fixtures for unit and end-to-end tests.
package test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TokenPath  = "/connect/token"
	LookupPath = "/api/Lookup/Debtor"

	FakeClientID     = "cbo-smoke"
	FakeClientSecret = "cbo-smoke-secret"
	FakeScope        = "cbo_web_api"
)

// FakeCBO is an in-process stand-in for the CBO identity server and the
// debtor lookup API. Tokens are RS256 JWTs signed with a key generated at
// startup, and the lookup endpoint only accepts tokens it issued.
type FakeCBO struct {
	server     *http.Server
	listener   net.Listener
	privateKey *rsa.PrivateKey
	kid        string
	baseURL    string

	mu             sync.Mutex
	tokenFailures  int
	tokenType      string
	expiresIn      int
	lookupStatus   int
	lookupBody     string
	tokenRequests  int
	lookupRequests []json.RawMessage
}

// NewFakeCBO starts the fake on addr (use "127.0.0.1:0" for a free port).
func NewFakeCBO(addr string) (*FakeCBO, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("generating RSA key: %w", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	f := &FakeCBO{
		listener:     listener,
		privateKey:   privateKey,
		kid:          uuid.NewString(),
		baseURL:      fmt.Sprintf("http://%s", listener.Addr().String()),
		tokenType:    "Bearer",
		expiresIn:    3600,
		lookupStatus: http.StatusOK,
		lookupBody:   `{"cboFound":true,"cboTypes":["2under30"]}`,
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST(TokenPath, f.handleToken)
	router.POST(LookupPath, f.handleLookup)
	f.server = &http.Server{Handler: router}

	go func() {
		zap.S().Named("fake_cbo").Infof("fake CBO server started on %s", f.baseURL)
		if err := f.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			zap.S().Named("fake_cbo").Errorf("fake CBO server error: %v", err)
		}
	}()

	return f, nil
}

// Stop gracefully shuts down the server.
func (f *FakeCBO) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return f.server.Shutdown(ctx)
}

func (f *FakeCBO) BaseURL() string   { return f.baseURL }
func (f *FakeCBO) TokenURL() string  { return f.baseURL + TokenPath }
func (f *FakeCBO) LookupURL() string { return f.baseURL + LookupPath }

// FailTokenRequests makes the next n token requests answer 503.
func (f *FakeCBO) FailTokenRequests(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenFailures = n
}

// SetTokenResponse overrides the token_type and expires_in of issued tokens.
func (f *FakeCBO) SetTokenResponse(tokenType string, expiresIn int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenType = tokenType
	f.expiresIn = expiresIn
}

// SetLookupResponse overrides the status and body of the lookup endpoint.
func (f *FakeCBO) SetLookupResponse(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupStatus = status
	f.lookupBody = body
}

func (f *FakeCBO) TokenRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenRequests
}

// LookupRequests returns the JSON bodies received by the lookup endpoint.
func (f *FakeCBO) LookupRequests() []json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]json.RawMessage, len(f.lookupRequests))
	copy(out, f.lookupRequests)
	return out
}

// GenerateToken creates a signed RS256 JWT for the client.
func (f *FakeCBO) GenerateToken(clientID, scope string) (string, error) {
	type tokenClaims struct {
		ClientID string `json:"client_id"`
		Scope    string `json:"scope"`
		jwt.RegisteredClaims
	}

	claims := tokenClaims{
		ClientID: clientID,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    f.baseURL,
			Subject:   clientID,
			ID:        uuid.NewString(),
			Audience:  jwt.ClaimStrings{"cbo_web_api"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = f.kid

	signed, err := token.SignedString(f.privateKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (f *FakeCBO) handleToken(c *gin.Context) {
	f.mu.Lock()
	f.tokenRequests++
	fail := f.tokenFailures > 0
	if fail {
		f.tokenFailures--
	}
	tokenType, expiresIn := f.tokenType, f.expiresIn
	f.mu.Unlock()

	if fail {
		c.String(http.StatusServiceUnavailable, "identity server unavailable")
		return
	}

	if c.PostForm("grant_type") != "client_credentials" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_grant_type"})
		return
	}
	if c.PostForm("client_id") != FakeClientID || c.PostForm("client_secret") != FakeClientSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_client"})
		return
	}

	scope := c.PostForm("scope")
	signed, err := f.GenerateToken(c.PostForm("client_id"), scope)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	resp := gin.H{
		"access_token": signed,
		"token_type":   tokenType,
		"scope":        scope,
	}
	if expiresIn != 0 {
		resp["expires_in"] = expiresIn
	}
	c.JSON(http.StatusOK, resp)
}

func (f *FakeCBO) handleLookup(c *gin.Context) {
	raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return &f.privateKey.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	f.mu.Lock()
	f.lookupRequests = append(f.lookupRequests, json.RawMessage(body))
	status, respBody := f.lookupStatus, f.lookupBody
	f.mu.Unlock()

	c.Data(status, "application/json", []byte(respBody))
}
