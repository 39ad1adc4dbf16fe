package clientauth

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oidauth/clientauth/i18n"
)

// TokenURLProvider returns the provider for configuring the token endpoint URL.
type TokenURLProvider interface {
	// GetTokenURL returns the token URL.
	GetTokenURL(ctx context.Context) (tokenURL string)
}

// JWKSFetcherStrategyProvider returns the provider for configuring the JWKS fetcher strategy.
type JWKSFetcherStrategyProvider interface {
	// GetJWKSFetcherStrategy returns the JWKS fetcher strategy.
	GetJWKSFetcherStrategy(ctx context.Context) (strategy JWKSFetcherStrategy)
}

// ClientAuthenticationStrategyProvider returns the provider for configuring the client authentication strategy.
type ClientAuthenticationStrategyProvider interface {
	// GetClientAuthenticationStrategy returns the client authentication strategy.
	GetClientAuthenticationStrategy(ctx context.Context) (strategy ClientAuthenticationStrategy)
}

// ClockSkewProvider returns the provider for configuring the acceptable clock
// skew when validating time claims of client assertions.
type ClockSkewProvider interface {
	// GetClockSkew returns the maximum acceptable clock skew.
	GetClockSkew(ctx context.Context) (skew time.Duration)
}

// ClockSourceProvider returns the provider for configuring the clock used
// when validating time claims of client assertions.
type ClockSourceProvider interface {
	// GetClock returns the clock.
	GetClock(ctx context.Context) (clock ClockProvider)
}

// ClientAssertionJTIPolicyProvider returns the provider for configuring
// whether a client assertion may omit the 'jti' claim.
type ClientAssertionJTIPolicyProvider interface {
	// GetAllowClientAssertionWithoutJTI returns true when a client assertion
	// without a 'jti' claim is acceptable. When false the claim is required
	// and enforced as single use.
	GetAllowClientAssertionWithoutJTI(ctx context.Context) (allow bool)
}

// LoggerProvider returns the provider for configuring the diagnostics logger.
type LoggerProvider interface {
	// GetLogger returns the logger rejected and accepted authentication
	// attempts are reported to.
	GetLogger(ctx context.Context) (logger logrus.FieldLogger)
}

// MessageCatalogProvider returns the provider for configuring the message catalog.
type MessageCatalogProvider interface {
	// GetMessageCatalog returns the message catalog.
	GetMessageCatalog(ctx context.Context) (catalog i18n.MessageCatalog)
}

// Configurator is the combined configuration surface the client
// authentication pipeline consumes.
type Configurator interface {
	TokenURLProvider
	JWKSFetcherStrategyProvider
	ClientAuthenticationStrategyProvider
	ClockSkewProvider
	ClockSourceProvider
	ClientAssertionJTIPolicyProvider
	LoggerProvider
	MessageCatalogProvider
}
