package cbo_test

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cbo-qa/cbo-smoke/internal/config"
	"github.com/cbo-qa/cbo-smoke/pkg/cbo"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
	"github.com/cbo-qa/cbo-smoke/test"
)

var _ = Describe("TokenSource", func() {
	var (
		ctx  context.Context
		fake *test.FakeCBO
		auth config.Auth
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		fake, err = test.NewFakeCBO("127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		auth = config.Auth{
			TokenURL:     fake.TokenURL(),
			ClientID:     test.FakeClientID,
			ClientSecret: test.FakeClientSecret,
			Scope:        test.FakeScope,
			MaxElapsed:   5 * time.Second,
		}
	})

	AfterEach(func() {
		Expect(fake.Stop()).To(Succeed())
	})

	// Given valid client credentials
	// When a token is requested
	// Then a bearer token with a future expiry is returned
	It("should fetch a bearer token", func() {
		tok, err := cbo.NewTokenSource(auth).Fetch(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(tok.AccessToken).NotTo(BeEmpty())
		Expect(tok.TokenType).To(Equal("Bearer"))
		Expect(tok.Expiry).To(BeTemporally(">", time.Now()))
		Expect(tok.Scope).To(Equal(test.FakeScope))

		claims := jwt.MapClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(tok.AccessToken, claims)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims["client_id"]).To(Equal(test.FakeClientID))
	})

	It("should fail with a configuration error before any request", func() {
		auth.ClientSecret = ""
		_, err := cbo.NewTokenSource(auth).Fetch(ctx)
		Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())
		Expect(fake.TokenRequests()).To(Equal(0))
	})

	It("should not retry rejected credentials", func() {
		auth.ClientSecret = "wrong"
		_, err := cbo.NewTokenSource(auth).Fetch(ctx)
		Expect(srvErrors.IsTokenError(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("401"))
		Expect(fake.TokenRequests()).To(Equal(1))
	})

	It("should retry while the identity server is unavailable", func() {
		fake.FailTokenRequests(2)
		tok, err := cbo.NewTokenSource(auth).Fetch(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(tok.AccessToken).NotTo(BeEmpty())
		Expect(fake.TokenRequests()).To(Equal(3))
	})

	It("should give up once the retry budget is spent", func() {
		fake.FailTokenRequests(1000)
		_, err := cbo.NewTokenSource(auth, cbo.WithMaxElapsed(300*time.Millisecond)).Fetch(ctx)
		Expect(srvErrors.IsTokenError(err)).To(BeTrue())
	})

	It("should reject a token type other than Bearer", func() {
		fake.SetTokenResponse("mac", 3600)
		_, err := cbo.NewTokenSource(auth).Fetch(ctx)
		Expect(srvErrors.IsTokenError(err)).To(BeTrue())
	})

	It("should reject a token without expiry", func() {
		fake.SetTokenResponse("Bearer", 0)
		_, err := cbo.NewTokenSource(auth).Fetch(ctx)
		Expect(srvErrors.IsTokenError(err)).To(BeTrue())
	})
})
