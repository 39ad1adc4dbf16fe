package clientauth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-jose/go-jose/v4"

	"github.com/oidauth/clientauth/internal/consts"
	"github.com/oidauth/clientauth/x/errorsx"
)

// ClientAuthenticationStrategy describes a client authentication strategy implementation.
type ClientAuthenticationStrategy interface {
	AuthenticateClient(ctx context.Context, r *http.Request, form url.Values) (client Client, method string, err error)
}

// PrivateKey properly describes crypto.PrivateKey.
type PrivateKey interface {
	Public() crypto.PublicKey
	Equal(x crypto.PrivateKey) bool
}

var (
	ErrClientSecretNotRegistered = errors.New("error occurred checking the client secret: the client is not registered with a secret")
)

// CompareClientSecret compares a raw secret input from a client to the registered client secret. If the secret is valid
// it returns nil, otherwise it returns an error. The ErrClientSecretNotRegistered error indicates the ClientSecret
// is nil, all other errors are returned directly from the ClientSecret.Compare function. Rotated secrets are compared
// when the registered secret does not match and the client implements RotatedClientSecretsClient.
func CompareClientSecret(ctx context.Context, client Client, rawSecret []byte) (err error) {
	secret := client.GetClientSecret()

	if secret == nil || !secret.Valid() {
		return ErrClientSecretNotRegistered
	}

	if err = secret.Compare(ctx, rawSecret); err == nil {
		return nil
	}

	var (
		rotated RotatedClientSecretsClient
		ok      bool
	)

	if rotated, ok = client.(RotatedClientSecretsClient); !ok {
		return err
	}

	for _, secret = range rotated.GetRotatedClientSecrets() {
		if secret == nil {
			continue
		}

		if secret.Compare(ctx, rawSecret) == nil {
			return nil
		}
	}

	return err
}

// FindClientPublicJWK takes a JSONWebKeysClient and a kid, alg, and use to resolve a public JWK for the client. The
// registered key set takes precedence over the registered URI. When resolving by URI a lookup miss against the cached
// set triggers exactly one forced refresh before giving up.
func FindClientPublicJWK(ctx context.Context, provider JWKSFetcherStrategyProvider, client JSONWebKeysClient, kid, alg, use string) (key any, err error) {
	if set := client.GetJSONWebKeys(); set != nil {
		return findPublicKeyByKID(kid, alg, use, set)
	}

	strategy := provider.GetJWKSFetcherStrategy(ctx)

	var keys *jose.JSONWebKeySet

	if location := client.GetJSONWebKeysURI(); len(location) > 0 {
		if keys, err = strategy.Resolve(ctx, location, false); err != nil {
			return nil, err
		}

		if key, err = findPublicKeyByKID(kid, alg, use, keys); err == nil {
			return key, nil
		}

		if keys, err = strategy.Resolve(ctx, location, true); err != nil {
			return nil, err
		}

		return findPublicKeyByKID(kid, alg, use, keys)
	}

	return nil, errorsx.WithStack(ErrSignatureInvalid.WithHint("The OAuth 2.0 Client has no JSON Web Keys set registered, but they are needed to complete the request."))
}

func getClientCredentialsSecretBasic(r *http.Request) (id, secret string, ok bool, err error) {
	auth := r.Header.Get(consts.HeaderAuthorization)

	if auth == "" {
		return "", "", false, nil
	}

	scheme, value, ok := strings.Cut(auth, " ")

	if !ok {
		return "", "", false, errorsx.WithStack(ErrMalformedRequest.WithHint("The client credentials from the HTTP authorization header could not be parsed.").WithDebug("The header value is either missing a scheme, value, or the separator between them."))
	}

	if !strings.EqualFold(scheme, "Basic") {
		return "", "", false, errorsx.WithStack(ErrMalformedRequest.WithHint("The client credentials from the HTTP authorization header had an unknown scheme.").WithDebugf("The scheme '%s' is not known for client authentication.", scheme))
	}

	c, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", false, errorsx.WithStack(ErrMalformedRequest.WithHint("The client credentials from the HTTP authorization header could not be parsed.").WithWrap(err).WithDebugf("Error occurred performing a base64 decode: %+v.", err))
	}

	cs := string(c)

	id, secret, ok = strings.Cut(cs, ":")
	if !ok {
		return "", "", false, errorsx.WithStack(ErrMalformedRequest.WithHint("The client credentials from the HTTP authorization header could not be parsed.").WithDebug("The basic scheme value was not separated by a colon."))
	}

	if id, err = url.QueryUnescape(id); err != nil {
		return "", "", false, errorsx.WithStack(ErrMalformedRequest.WithHint("The client id in the HTTP authorization header could not be decoded from 'application/x-www-form-urlencoded'.").WithWrap(err).WithDebugError(err))
	}

	if secret, err = url.QueryUnescape(secret); err != nil {
		return "", "", false, errorsx.WithStack(ErrMalformedRequest.WithHint("The client secret in the HTTP authorization header could not be decoded from 'application/x-www-form-urlencoded'.").WithWrap(err).WithDebugError(err))
	}

	if len(id) != 0 && !RegexSpecificationVSCHAR.MatchString(id) {
		return "", "", false, errorsx.WithStack(ErrMalformedRequest.WithHint("The client id in the HTTP request had an invalid character."))
	}

	if len(secret) != 0 && !RegexSpecificationVSCHAR.MatchString(secret) {
		return "", "", false, errorsx.WithStack(ErrMalformedRequest.WithHint("The client secret in the HTTP request had an invalid character."))
	}

	return id, secret, secret != "", nil
}

func getClientCredentialsClientAssertion(form url.Values) (assertion, assertionType string, hasAssertion bool) {
	assertionType, assertion = form.Get(consts.FormParameterClientAssertionType), form.Get(consts.FormParameterClientAssertion)

	return assertion, assertionType, len(assertion) != 0 || len(assertionType) != 0
}

func getClientCredentialsClientIDValid(post, header string, assertion *ClientAssertion) (id string, err error) {
	if len(post) != 0 && len(header) != 0 && post != header {
		return "", errorsx.WithStack(ErrMalformedRequest.WithHint("The request used different client ids in the HTTP authorization header and the form body."))
	}

	if len(post) != 0 {
		id = post
	} else if len(header) != 0 {
		id = header
	}

	if len(id) == 0 {
		if assertion != nil {
			return assertion.ID, nil
		}

		return id, errorsx.WithStack(ErrMalformedRequest.WithHint("Client Credentials missing or malformed.").WithDebug("The Client ID was missing from the request but it is required when there is no client assertion."))
	}

	if !RegexSpecificationVSCHAR.MatchString(id) {
		return id, errorsx.WithStack(ErrMalformedRequest.WithHint("The client id in the request had an invalid character."))
	}

	if assertion != nil && len(assertion.ID) != 0 && assertion.ID != id {
		return id, errorsx.WithStack(ErrMalformedRequest.WithHint("The client id in the request must match the 'sub' claim of the 'client_assertion'."))
	}

	return id, nil
}

func getJWTHeaderKIDAlg(header map[string]any) (kid, alg string) {
	kid, _ = header[consts.JSONWebTokenHeaderKeyIdentifier].(string)
	alg, _ = header[consts.JSONWebTokenHeaderAlgorithm].(string)

	return kid, alg
}

type partial struct {
	points int
	jwk    jose.JSONWebKey
}

func findPublicKeyByKID(kid, alg, use string, set *jose.JSONWebKeySet) (key any, err error) {
	if len(set.Keys) == 0 {
		return nil, errorsx.WithStack(ErrSignatureInvalid.WithHint("The retrieved JSON Web Key Set does not contain any JSON Web Keys."))
	}

	partials := []partial{}

	for _, jwk := range set.Keys {
		if jwk.Use == use && jwk.Algorithm == alg && jwk.KeyID == kid {
			return publicJWKKey(jwk, alg)
		}

		p := partial{}

		// A key keeps its eligibility when the assertion header carries no
		// kid at all; the mismatch only lowers its ranking.
		if jwk.KeyID != kid {
			if jwk.KeyID == "" || kid == "" {
				p.points -= 3
			} else {
				continue
			}
		}

		if jwk.Use != use {
			if jwk.Use == "" {
				p.points -= 2
			} else {
				continue
			}
		}

		if jwk.Algorithm != alg {
			if jwk.Algorithm == "" {
				p.points -= 1
			} else {
				continue
			}
		}

		p.jwk = jwk

		partials = append(partials, p)
	}

	if len(partials) != 0 {
		sort.Slice(partials, func(i, j int) bool {
			return partials[i].points > partials[j].points
		})

		return publicJWKKey(partials[0].jwk, alg)
	}

	return nil, errorsx.WithStack(ErrSignatureInvalid.WithHintf("Unable to find JWK with kid value '%s', alg value '%s', and use value '%s' in the JSON Web Key Set.", kid, alg, use))
}

// publicJWKKey returns the public portion of the key and ensures its type can
// verify signatures made with alg.
func publicJWKKey(jwk jose.JSONWebKey, alg string) (key any, err error) {
	switch k := jwk.Key.(type) {
	case PrivateKey:
		key = k.Public()
	default:
		key = k
	}

	switch {
	case strings.HasPrefix(alg, "RS"), strings.HasPrefix(alg, "PS"):
		if _, ok := key.(*rsa.PublicKey); ok {
			return key, nil
		}
	case strings.HasPrefix(alg, "ES"):
		if _, ok := key.(*ecdsa.PublicKey); ok {
			return key, nil
		}
	}

	return nil, errorsx.WithStack(ErrSignatureInvalid.WithHintf("The JSON Web Key with kid value '%s' can't be used to verify a signature made with the '%s' algorithm.", jwk.KeyID, alg))
}
