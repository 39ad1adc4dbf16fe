package clientauth

import (
	"github.com/go-jose/go-jose/v4"

	"github.com/oidauth/clientauth/internal/consts"
)

// Client represents a registered OAuth 2.0 client or app.
type Client interface {
	// GetID returns the client ID.
	GetID() (id string)

	// GetClientSecret returns the registered client secret, or nil when the
	// client was registered without one.
	GetClientSecret() (secret ClientSecret)

	// IsPublic returns true, if this client is marked as public.
	IsPublic() (public bool)
}

// RotatedClientSecretsClient extends Client interface by a method providing a slice of rotated secrets.
type RotatedClientSecretsClient interface {
	GetRotatedClientSecrets() (secrets []ClientSecret)

	Client
}

// JSONWebKeysClient is a client base which includes a JSON Web Key Set registration.
type JSONWebKeysClient interface {
	// GetJSONWebKeys returns the JSON Web Key Set containing the public key used by the client to authenticate.
	GetJSONWebKeys() (jwks *jose.JSONWebKeySet)

	// GetJSONWebKeysURI returns the URL for lookup of JSON Web Key Set containing the
	// public key used by the client to authenticate.
	GetJSONWebKeysURI() (uri string)

	Client
}

// AuthenticationMethodClient represents a client which has specific authentication methods.
type AuthenticationMethodClient interface {
	// GetTokenEndpointAuthMethod is equivalent to the 'token_endpoint_auth_method' client metadata value which
	// determines the requested Client Authentication method for the Token Endpoint. The options are client_secret_post,
	// client_secret_basic, client_secret_jwt, private_key_jwt, and none.
	GetTokenEndpointAuthMethod() (method string)

	// GetTokenEndpointAuthSigningAlg is equivalent to the 'token_endpoint_auth_signing_alg' client metadata value which
	// determines the JWS [JWS] alg algorithm [JWA] that MUST be used for signing the JWT [JWT] used to authenticate the
	// Client at the Token Endpoint for the private_key_jwt and client_secret_jwt authentication methods.
	GetTokenEndpointAuthSigningAlg() (alg string)

	JSONWebKeysClient
}

// DefaultClient is a simple default implementation of the Client interface.
type DefaultClient struct {
	ID                   string         `json:"id"`
	ClientSecret         ClientSecret   `json:"-"`
	RotatedClientSecrets []ClientSecret `json:"-"`
	Public               bool           `json:"public"`
}

// DefaultOpenIDClient extends DefaultClient with the OpenID Connect Dynamic
// Client Registration metadata which governs token endpoint authentication.
type DefaultOpenIDClient struct {
	*DefaultClient

	JSONWebKeysURI              string              `json:"jwks_uri"`
	JSONWebKeys                 *jose.JSONWebKeySet `json:"jwks"`
	TokenEndpointAuthMethod     string              `json:"token_endpoint_auth_method"`
	TokenEndpointAuthSigningAlg string              `json:"token_endpoint_auth_signing_alg"`
}

func (c *DefaultClient) GetID() string {
	return c.ID
}

func (c *DefaultClient) IsPublic() bool {
	return c.Public
}

func (c *DefaultClient) GetClientSecret() (secret ClientSecret) {
	return c.ClientSecret
}

func (c *DefaultClient) GetRotatedClientSecrets() (secrets []ClientSecret) {
	return c.RotatedClientSecrets
}

func (c *DefaultOpenIDClient) GetJSONWebKeysURI() string {
	return c.JSONWebKeysURI
}

func (c *DefaultOpenIDClient) GetJSONWebKeys() *jose.JSONWebKeySet {
	return c.JSONWebKeys
}

// GetTokenEndpointAuthMethod returns the registered method, defaulting to
// 'client_secret_basic' when registration omitted it.
//
// See: https://openid.net/specs/openid-connect-registration-1_0.html#ClientMetadata.
func (c *DefaultOpenIDClient) GetTokenEndpointAuthMethod() string {
	if c.TokenEndpointAuthMethod == "" {
		return consts.ClientAuthMethodClientSecretBasic
	}

	return c.TokenEndpointAuthMethod
}

func (c *DefaultOpenIDClient) GetTokenEndpointAuthSigningAlg() string {
	return c.TokenEndpointAuthSigningAlg
}

var (
	_ Client                     = (*DefaultClient)(nil)
	_ RotatedClientSecretsClient = (*DefaultClient)(nil)
	_ AuthenticationMethodClient = (*DefaultOpenIDClient)(nil)
)
