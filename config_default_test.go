package clientauth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/oidauth/clientauth"
)

func TestConfigDefaults(t *testing.T) {
	ctx := context.Background()

	config := &Config{}

	assert.Equal(t, "", config.GetTokenURL(ctx))
	assert.Equal(t, time.Duration(0), config.GetClockSkew(ctx))
	assert.False(t, config.GetAllowClientAssertionWithoutJTI(ctx))
	assert.Nil(t, config.GetClientAuthenticationStrategy(ctx))
	assert.Nil(t, config.GetMessageCatalog(ctx))
	require.NotNil(t, config.GetLogger(ctx))

	clock := config.GetClock(ctx)
	require.NotNil(t, clock)
	assert.WithinDuration(t, time.Now(), clock.Now(), time.Second)

	strategy := config.GetJWKSFetcherStrategy(ctx)
	require.NotNil(t, strategy)
	assert.Same(t, strategy, config.GetJWKSFetcherStrategy(ctx))
}

func TestFixedClock(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	clock := NewFixedClock(now)

	assert.Equal(t, now, clock.Now())

	clock.Set(now.Add(time.Minute))
	assert.Equal(t, now.Add(time.Minute), clock.Now())
}
