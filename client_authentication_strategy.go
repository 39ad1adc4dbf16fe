package clientauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	xjwt "github.com/golang-jwt/jwt/v5"

	"github.com/oidauth/clientauth/internal/consts"
	"github.com/oidauth/clientauth/x/errorsx"
)

// DefaultClientAuthenticationStrategy implements the token endpoint client
// authentication pipeline. It extracts the presented credentials, matches
// them against the client's registered 'token_endpoint_auth_method', and
// verifies the credential material.
type DefaultClientAuthenticationStrategy struct {
	Store interface {
		ClientManager
	}
	Config interface {
		JWKSFetcherStrategyProvider
		TokenURLProvider
		ClockSkewProvider
		ClockSourceProvider
		ClientAssertionJTIPolicyProvider
	}
}

func (s *DefaultClientAuthenticationStrategy) AuthenticateClient(ctx context.Context, r *http.Request, form url.Values) (client Client, method string, err error) {
	var (
		id, secret string

		idBasic, secretBasic string

		assertionValue, assertionType string

		hasPost, hasBasic, hasAssertion bool
	)

	if idBasic, secretBasic, hasBasic, err = getClientCredentialsSecretBasic(r); err != nil {
		return nil, "", err
	}

	id, secret, hasPost = s.getClientCredentialsSecretPost(form)
	assertionValue, assertionType, hasAssertion = getClientCredentialsClientAssertion(form)

	var assertion *ClientAssertion

	if hasAssertion {
		if assertion, err = NewClientAssertion(assertionValue, assertionType); err != nil {
			return nil, "", err
		}
	}

	if id, err = getClientCredentialsClientIDValid(id, idBasic, assertion); err != nil {
		return nil, "", err
	}

	// Allow simplification of client authentication.
	if !hasPost && hasBasic {
		secret = secretBasic
	}

	hasNone := !hasPost && !hasBasic && assertion == nil && len(id) != 0

	return s.authenticate(ctx, id, secret, assertion, hasBasic, hasPost, hasNone)
}

func (s *DefaultClientAuthenticationStrategy) authenticate(ctx context.Context, id, secret string, assertion *ClientAssertion, hasBasic, hasPost, hasNone bool) (client Client, method string, err error) {
	var methods []string

	if hasBasic {
		methods = append(methods, consts.ClientAuthMethodClientSecretBasic)
	}

	if hasPost {
		methods = append(methods, consts.ClientAuthMethodClientSecretPost)
	}

	if hasNone {
		methods = append(methods, consts.ClientAuthMethodNone)
	}

	if assertion != nil {
		methods = append(methods, fmt.Sprintf("%s (i.e. %s or %s)", consts.ClientAssertionTypeJWTBearer, consts.ClientAuthMethodPrivateKeyJWT, consts.ClientAuthMethodClientSecretJWT))
	}

	switch len(methods) {
	case 0:
		// The 0 case means no authentication information at all exists even if the client is a public client. This
		// likely only occurs on requests where the client_id is not known.
		return nil, "", errorsx.WithStack(ErrMalformedRequest.WithHint("Client Authentication failed with no known authentication method."))
	case 1:
		break
	default:
		// Clients MUST NOT use more than one authentication mechanism per request.
		// See: https://datatracker.ietf.org/doc/html/rfc6749#section-2.3.
		return nil, "", errorsx.WithStack(ErrMalformedRequest.
			WithHint("Client Authentication failed with more than one known authentication method included in the request which is not permitted.").
			WithDebugf("The request for client with id '%s' included credentials for the 'token_endpoint_auth_method' methods '%s'.", id, strings.Join(methods, "', '")))
	}

	if client, err = s.Store.GetClient(ctx, id); err != nil {
		return nil, "", errorsx.WithStack(ErrUnknownClient.WithWrap(err).WithDebugError(err))
	}

	switch {
	case assertion != nil:
		method, err = s.doAuthenticateAssertionJWTBearer(ctx, client, assertion)
	case hasBasic, hasPost:
		method, err = s.doAuthenticateClientSecret(ctx, client, secret, hasBasic, hasPost)
	default:
		method, err = s.doAuthenticateNone(ctx, client)
	}

	if err != nil {
		return nil, "", err
	}

	return client, method, nil
}

// NewClientAssertion parses the raw assertion value without verifying it so
// the claimed client id and the JOSE header can drive the rest of the
// pipeline. Verification happens later against the registered client.
func NewClientAssertion(raw, assertionType string) (assertion *ClientAssertion, err error) {
	switch assertionType {
	case consts.ClientAssertionTypeJWTBearer:
		if len(raw) == 0 {
			return nil, errorsx.WithStack(ErrMalformedRequest.WithHintf("The request parameter 'client_assertion' must be set when using 'client_assertion_type' of '%s'.", consts.ClientAssertionTypeJWTBearer))
		}
	case "":
		return nil, errorsx.WithStack(ErrMalformedRequest.WithHintf("The request parameter 'client_assertion_type' must be set when using 'client_assertion'."))
	default:
		return nil, errorsx.WithStack(ErrMalformedRequest.WithHintf("Unknown client_assertion_type '%s'.", assertionType))
	}

	var token *xjwt.Token

	if token, _, err = xjwt.NewParser(xjwt.WithoutClaimsValidation()).ParseUnverified(raw, &xjwt.MapClaims{}); err != nil {
		return nil, resolveJWTErrorToRFCError(err)
	}

	assertion = &ClientAssertion{Raw: raw, Type: assertionType, Parsed: true}

	assertion.KeyID, assertion.Algorithm = getJWTHeaderKIDAlg(token.Header)

	if assertion.ID, err = token.Claims.GetSubject(); err != nil || assertion.ID == "" {
		assertion.ID, _ = token.Claims.GetIssuer()
	}

	return assertion, nil
}

// ClientAssertion is the unverified parsed form of a 'client_assertion'
// request parameter.
type ClientAssertion struct {
	Raw, Type            string
	Parsed               bool
	ID, KeyID, Algorithm string
}

func (s *DefaultClientAuthenticationStrategy) doAuthenticateNone(_ context.Context, client Client) (method string, err error) {
	if method = getRegisteredAuthMethod(client); method != consts.ClientAuthMethodNone {
		return "", errorsx.WithStack(
			ErrMethodMismatch.
				WithHintf("The request was determined to be using 'token_endpoint_auth_method' method '%s', however the OAuth 2.0 client registration does not allow this method.", consts.ClientAuthMethodNone).
				WithDebugf("The registered client with id '%s' is configured to only support 'token_endpoint_auth_method' method '%s'.", client.GetID(), method))
	}

	if !client.IsPublic() {
		return "", errorsx.WithStack(
			ErrMethodMismatch.
				WithHintf("The request was determined to be using 'token_endpoint_auth_method' method '%s', however the OAuth 2.0 client registration does not allow this method.", consts.ClientAuthMethodNone).
				WithDebugf("The registered client with id '%s' is configured with a confidential client type but only client registrations with a public client type can use this 'token_endpoint_auth_method'.", client.GetID()))
	}

	return consts.ClientAuthMethodNone, nil
}

func (s *DefaultClientAuthenticationStrategy) doAuthenticateClientSecret(ctx context.Context, client Client, rawSecret string, hasBasic, hasPost bool) (method string, err error) {
	method = consts.ClientAuthMethodClientSecretBasic

	if !hasBasic && hasPost {
		method = consts.ClientAuthMethodClientSecretPost
	}

	if cmethod := getRegisteredAuthMethod(client); cmethod != method {
		return "", errorsx.WithStack(
			ErrMethodMismatch.
				WithHintf("The request was determined to be using 'token_endpoint_auth_method' method '%s', however the OAuth 2.0 client registration does not allow this method.", method).
				WithDebugf("The registered client with id '%s' is configured to only support 'token_endpoint_auth_method' method '%s'. Either the Authorization Server client registration will need to have the 'token_endpoint_auth_method' updated to '%s' or the Relying Party will need to be configured to use '%s'.", client.GetID(), cmethod, method, cmethod))
	}

	switch err = CompareClientSecret(ctx, client, []byte(rawSecret)); {
	case err == nil:
		return method, nil
	case errors.Is(err, ErrClientSecretNotRegistered):
		return "", errorsx.WithStack(
			ErrMethodMismatch.
				WithHintf("The request was determined to be using 'token_endpoint_auth_method' method '%s', however the OAuth 2.0 client registration does not allow this method.", method).
				WithDebugf("The registered client with id '%s' has no 'client_secret' however this is required to process the particular request.", client.GetID()),
		)
	default:
		return "", errorsx.WithStack(ErrInvalidSecret.WithHint("The provided client secret did not match the registered client secret.").WithWrap(err).WithDebugError(err))
	}
}

func (s *DefaultClientAuthenticationStrategy) doAuthenticateAssertionJWTBearer(ctx context.Context, client Client, assertion *ClientAssertion) (method string, err error) {
	var (
		token  *xjwt.Token
		claims *xjwt.RegisteredClaims
	)

	if method, token, claims, err = s.doAuthenticateAssertionParseAssertionJWTBearer(ctx, client, assertion); err != nil {
		return "", err
	}

	if token == nil {
		return "", errorsx.WithStack(ErrSignatureInvalid.WithHint("Unable to verify the integrity of the 'client_assertion' value."))
	}

	clientID := []byte(client.GetID())

	switch {
	case subtle.ConstantTimeCompare([]byte(claims.Issuer), clientID) == 0:
		return "", errorsx.WithStack(ErrClaimInvalid.WithHint("Claim 'iss' from 'client_assertion' must match the 'client_id' of the OAuth 2.0 Client."))
	case subtle.ConstantTimeCompare([]byte(claims.Subject), clientID) == 0:
		return "", errorsx.WithStack(ErrClaimInvalid.WithHint("Claim 'sub' from 'client_assertion' must match the 'client_id' of the OAuth 2.0 Client."))
	case claims.ID == "":
		if s.Config.GetAllowClientAssertionWithoutJTI(ctx) {
			return method, nil
		}

		return "", errorsx.WithStack(ErrClaimInvalid.WithHint("Claim 'jti' from 'client_assertion' must be set but is not."))
	default:
		if err = s.Store.ClientAssertionJWTValid(ctx, claims.ID); err != nil {
			return "", errorsx.WithStack(ErrJTIReused.WithDebugError(err))
		}

		if err = s.Store.SetClientAssertionJWT(ctx, claims.ID, time.Unix(claims.ExpiresAt.Unix(), 0)); err != nil {
			return "", err
		}

		return method, nil
	}
}

func (s *DefaultClientAuthenticationStrategy) doAuthenticateAssertionParseAssertionJWTBearer(ctx context.Context, client Client, assertion *ClientAssertion) (method string, token *xjwt.Token, claims *xjwt.RegisteredClaims, err error) {
	var tokenURI string

	if tokenURI = s.Config.GetTokenURL(ctx); tokenURI == "" {
		return "", nil, nil, errorsx.WithStack(ErrMisconfiguration.WithHint("The authorization server does not support OAuth 2.0 JWT Profile Client Authentication RFC7523 or OpenID Connect 1.0 specific authentication methods.").WithDebug("The authorization server Token URL was empty but it's required to validate the RFC7523 audience claim."))
	}

	clock := s.Config.GetClock(ctx)

	opts := []xjwt.ParserOption{
		xjwt.WithStrictDecoding(),
		xjwt.WithAudience(tokenURI),   // Satisfies RFC7523 Section 3 Point 3.
		xjwt.WithExpirationRequired(), // Satisfies RFC7523 Section 3 Point 4.
		xjwt.WithIssuedAt(),           // Satisfies RFC7523 Section 3 Point 6.
		xjwt.WithLeeway(s.Config.GetClockSkew(ctx)),
		xjwt.WithTimeFunc(clock.Now),
	}

	// Automatically satisfies RFC7523 Section 3 Point 5, 8, 9, and 10.
	parser := xjwt.NewParser(opts...)

	claims = &xjwt.RegisteredClaims{}

	if token, err = parser.ParseWithClaims(assertion.Raw, claims, func(token *xjwt.Token) (key any, err error) {
		if claims.Subject == "" && claims.Issuer == "" {
			// The following check satisfies RFC7523 Section 3 Point 2.
			// See: https://datatracker.ietf.org/doc/html/rfc7523#section-3.
			return nil, errorsx.WithStack(ErrClaimInvalid.WithHint("The claim 'sub' from the 'client_assertion' isn't defined."))
		}

		var (
			c  AuthenticationMethodClient
			ok bool
		)

		if c, ok = client.(AuthenticationMethodClient); !ok {
			return nil, errorsx.WithStack(ErrMethodMismatch.WithHint("The registered client does not support OAuth 2.0 JWT Profile Client Authentication RFC7523 or OpenID Connect 1.0 specific authentication methods."))
		}

		method, key, err = s.doAuthenticateAssertionFindKey(ctx, token.Header, c)

		return key, err
	}); err != nil {
		return "", nil, nil, resolveJWTErrorToRFCError(err)
	}

	return method, token, claims, nil
}

// doAuthenticateAssertionFindKey gates the JOSE header algorithm against the
// client registration before resolving any key material. An exact registered
// 'token_endpoint_auth_signing_alg' pins the algorithm; otherwise the
// algorithm family of the registered method decides.
func (s *DefaultClientAuthenticationStrategy) doAuthenticateAssertionFindKey(ctx context.Context, header map[string]any, client AuthenticationMethodClient) (method string, key any, err error) {
	var kid, alg string

	kid, alg = getJWTHeaderKIDAlg(header)

	if _, ok := SignatureAlgorithms[alg]; !ok {
		return "", nil, errorsx.WithStack(ErrAlgorithmNotAllowed.WithHintf("The 'client_assertion' uses the unsupported signing algorithm '%s'.", alg))
	}

	if calg := client.GetTokenEndpointAuthSigningAlg(); calg != alg && calg != "" {
		return "", nil, errorsx.WithStack(ErrAlgorithmNotAllowed.WithHintf("The requested OAuth 2.0 client does not support the 'token_endpoint_auth_signing_alg' value '%s'.", alg).WithDebugf("The registered OAuth 2.0 client with id '%s' only supports the '%s' algorithm.", client.GetID(), calg))
	}

	switch method = client.GetTokenEndpointAuthMethod(); method {
	case consts.ClientAuthMethodClientSecretJWT:
		key, err = s.doAuthenticateAssertionFindKeyClientSecretJWT(ctx, kid, alg, client)
	case consts.ClientAuthMethodPrivateKeyJWT:
		key, err = s.doAuthenticateAssertionFindKeyPrivateKeyJWT(ctx, kid, alg, client)
	case consts.ClientAuthMethodNone:
		return "", nil, errorsx.WithStack(ErrMethodMismatch.WithHint("This requested OAuth 2.0 client does not support client authentication, however 'client_assertion' was provided in the request."))
	default:
		return "", nil, errorsx.WithStack(ErrMethodMismatch.WithHintf("This requested OAuth 2.0 client only supports client authentication method '%s', however 'client_assertion' was provided in the request.", method))
	}

	if err != nil {
		return "", nil, err
	}

	return method, key, nil
}

func (s *DefaultClientAuthenticationStrategy) doAuthenticateAssertionFindKeyClientSecretJWT(_ context.Context, _, alg string, client AuthenticationMethodClient) (key any, err error) {
	if !IsSymmetricAlgorithm(alg) {
		return nil, errorsx.WithStack(ErrAlgorithmNotAllowed.WithHintf("The 'client_assertion' uses the asymmetric signing algorithm '%s' but the client is registered with the 'token_endpoint_auth_method' method 'client_secret_jwt' which requires a symmetric algorithm.", alg))
	}

	secret := client.GetClientSecret()

	if secret == nil || !secret.Valid() || !secret.IsPlainText() {
		return nil, errorsx.WithStack(ErrSignatureInvalid.WithHint("The requested OAuth 2.0 client does not support the client authentication method 'client_secret_jwt' as it has no plaintext client secret to derive the key from."))
	}

	if key, err = secret.GetPlainTextValue(); err != nil {
		return nil, errorsx.WithStack(ErrSignatureInvalid.WithHint("The requested OAuth 2.0 client does not support the client authentication method 'client_secret_jwt' as it has no plaintext client secret to derive the key from.").WithWrap(err).WithDebugError(err))
	}

	return key, nil
}

func (s *DefaultClientAuthenticationStrategy) doAuthenticateAssertionFindKeyPrivateKeyJWT(ctx context.Context, kid, alg string, client AuthenticationMethodClient) (key any, err error) {
	if !IsAsymmetricAlgorithm(alg) {
		return nil, errorsx.WithStack(ErrAlgorithmNotAllowed.WithHintf("The 'client_assertion' uses the symmetric signing algorithm '%s' but the client is registered with the 'token_endpoint_auth_method' method 'private_key_jwt' which requires an asymmetric algorithm.", alg))
	}

	if key, err = FindClientPublicJWK(ctx, s.Config, client, kid, alg, consts.JSONWebTokenUseSignature); err != nil {
		return nil, err
	}

	return key, nil
}

func (s *DefaultClientAuthenticationStrategy) getClientCredentialsSecretPost(form url.Values) (id, secret string, ok bool) {
	id, secret = form.Get(consts.FormParameterClientID), form.Get(consts.FormParameterClientSecret)

	return id, secret, len(id) != 0 && len(secret) != 0
}

// getRegisteredAuthMethod resolves the registered 'token_endpoint_auth_method'
// for the client, defaulting to 'client_secret_basic' for clients without
// registration metadata.
func getRegisteredAuthMethod(client Client) (method string) {
	if c, ok := client.(AuthenticationMethodClient); ok {
		return c.GetTokenEndpointAuthMethod()
	}

	return consts.ClientAuthMethodClientSecretBasic
}

func resolveJWTErrorToRFCError(err error) (rfc error) {
	var e *RFC6749Error

	switch {
	case errors.As(err, &e):
		return errorsx.WithStack(e)
	case errors.Is(err, xjwt.ErrTokenMalformed):
		return errorsx.WithStack(ErrMalformedRequest.WithHint("Unable to decode the 'client_assertion' value as it is malformed or incomplete.").WithWrap(err).WithDebugError(err))
	case errors.Is(err, xjwt.ErrTokenExpired):
		return errorsx.WithStack(ErrAssertionExpired.WithHint("Claim 'exp' from 'client_assertion' is in the past.").WithWrap(err).WithDebugError(err))
	case errors.Is(err, xjwt.ErrTokenInvalidAudience):
		return errorsx.WithStack(ErrClaimInvalid.WithHint("Claim 'aud' from 'client_assertion' must match the authorization server token endpoint.").WithWrap(err).WithDebugError(err))
	case errors.Is(err, xjwt.ErrTokenUsedBeforeIssued), errors.Is(err, xjwt.ErrTokenNotValidYet):
		return errorsx.WithStack(ErrClaimInvalid.WithHint("The 'client_assertion' was used before it was issued or before it's allowed to be used.").WithWrap(err).WithDebugError(err))
	case errors.Is(err, xjwt.ErrTokenRequiredClaimMissing):
		return errorsx.WithStack(ErrClaimInvalid.WithHint("Claim 'exp' from 'client_assertion' must be set but is not.").WithWrap(err).WithDebugError(err))
	case errors.Is(err, xjwt.ErrTokenSignatureInvalid):
		return errorsx.WithStack(ErrSignatureInvalid.WithHint("Unable to verify the integrity of the 'client_assertion' value as the signature does not match the resolved key.").WithWrap(err).WithDebugError(err))
	case errors.Is(err, xjwt.ErrTokenUnverifiable):
		return errorsx.WithStack(ErrSignatureInvalid.WithHint("Unable to decode the 'client_assertion' value as it is missing the information required to validate it.").WithWrap(err).WithDebugError(err))
	default:
		return errorsx.WithStack(ErrInvalidClient.WithHint("Unable to decode 'client_assertion' value for an unknown reason.").WithWrap(err).WithDebugError(err))
	}
}
