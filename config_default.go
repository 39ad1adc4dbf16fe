package clientauth

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oidauth/clientauth/i18n"
)

// Config is the simple default implementation of Configurator. The zero value
// is usable for everything except JWT-based authentication methods, which
// additionally require TokenURL to be set so the 'aud' claim can be
// validated.
type Config struct {
	// TokenURL is the URL of the authorization server's token endpoint. It is
	// required to validate the RFC7523 audience claim of client assertions.
	TokenURL string

	// ClockSkew is the maximum acceptable clock skew when validating the
	// 'exp' and 'iat' claims of client assertions. Defaults to zero.
	ClockSkew time.Duration

	// AllowClientAssertionWithoutJTI permits client assertions without a
	// 'jti' claim. When false, which is the default, the claim is required
	// and enforced as single use through the store.
	AllowClientAssertionWithoutJTI bool

	// JWKSFetcherStrategy resolves remote JSON Web Key Sets. Defaults to a
	// caching fetcher backed by a retrying HTTP client.
	JWKSFetcherStrategy JWKSFetcherStrategy

	// ClientAuthenticationStrategy replaces the default authentication
	// pipeline when set.
	ClientAuthenticationStrategy ClientAuthenticationStrategy

	// Clock provides the time used when validating time claims. Defaults to
	// the real clock.
	Clock ClockProvider

	// Logger receives structured diagnostics about authentication verdicts.
	// Defaults to the logrus standard logger.
	Logger logrus.FieldLogger

	// MessageCatalog localizes error descriptions. Optional.
	MessageCatalog i18n.MessageCatalog
}

func (c *Config) GetTokenURL(_ context.Context) string {
	return c.TokenURL
}

func (c *Config) GetClockSkew(_ context.Context) time.Duration {
	return c.ClockSkew
}

func (c *Config) GetAllowClientAssertionWithoutJTI(_ context.Context) bool {
	return c.AllowClientAssertionWithoutJTI
}

// GetJWKSFetcherStrategy returns the JWKSFetcherStrategy.
func (c *Config) GetJWKSFetcherStrategy(_ context.Context) JWKSFetcherStrategy {
	if c.JWKSFetcherStrategy == nil {
		c.JWKSFetcherStrategy = NewDefaultJWKSFetcherStrategy()
	}

	return c.JWKSFetcherStrategy
}

// GetClientAuthenticationStrategy returns the configured client authentication strategy.
func (c *Config) GetClientAuthenticationStrategy(_ context.Context) ClientAuthenticationStrategy {
	return c.ClientAuthenticationStrategy
}

func (c *Config) GetClock(_ context.Context) ClockProvider {
	if c.Clock == nil {
		c.Clock = NewRealClock()
	}

	return c.Clock
}

func (c *Config) GetLogger(_ context.Context) logrus.FieldLogger {
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}

	return c.Logger
}

func (c *Config) GetMessageCatalog(_ context.Context) i18n.MessageCatalog {
	return c.MessageCatalog
}

var _ Configurator = (*Config)(nil)
