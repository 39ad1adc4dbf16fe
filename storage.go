package clientauth

import (
	"context"
	"time"
)

// ClientManager loads registered clients and tracks client assertion JTI
// values so an assertion can only be used once.
type ClientManager interface {
	// GetClient loads the client by its ID or returns an error if the client
	// does not exist.
	GetClient(ctx context.Context, id string) (Client, error)

	// ClientAssertionJWTValid returns an error if the JTI is known or the DB
	// check failed and nil if the JTI is not known.
	ClientAssertionJWTValid(ctx context.Context, jti string) (err error)

	// SetClientAssertionJWT marks a JTI as known for the given expiry time.
	// Before inserting the new JTI, it will clean up any existing JTIs that
	// have expired as those tokens can not be replayed due to the expiry.
	SetClientAssertionJWT(ctx context.Context, jti string, exp time.Time) (err error)
}
