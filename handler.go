package clientauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/oidauth/clientauth/internal/consts"
	"github.com/oidauth/clientauth/x/errorsx"
)

// AccessResponse is the payload of a successful access token response.
//
// See: https://datatracker.ietf.org/doc/html/rfc6749#section-5.1.
type AccessResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// TokenIssuer mints the access token for a client which passed
// authentication. The form is the parsed token request body.
type TokenIssuer func(ctx context.Context, client Client, form url.Values) (*AccessResponse, error)

// DefaultTokenIssuer issues an opaque random access token valid for an hour.
// It stands in for a grant-aware issuer which a full authorization server
// would plug in here.
func DefaultTokenIssuer(_ context.Context, _ Client, _ url.Values) (*AccessResponse, error) {
	return &AccessResponse{
		AccessToken: uuid.NewString(),
		TokenType:   "bearer",
		ExpiresIn:   3600,
	}, nil
}

// TokenEndpointHandler serves the token endpoint. It decides client
// authentication for every request and delegates minting to the Issuer only
// after the client authenticated.
type TokenEndpointHandler struct {
	Verifier *Verifier
	Issuer   TokenIssuer
}

// NewTokenEndpointHandler returns a TokenEndpointHandler using the given
// verifier and the DefaultTokenIssuer.
func NewTokenEndpointHandler(verifier *Verifier) *TokenEndpointHandler {
	return &TokenEndpointHandler{
		Verifier: verifier,
		Issuer:   DefaultTokenIssuer,
	}
}

func (h *TokenEndpointHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		h.Verifier.WriteAuthenticationError(ctx, w, r, errorsx.WithStack(ErrInvalidRequest.WithHintf("HTTP method is '%s', expected 'POST'.", r.Method)))

		return
	}

	verdict := h.Verifier.DecideClientAuthentication(ctx, r)

	if !verdict.Authenticated() {
		h.Verifier.WriteAuthenticationError(ctx, w, r, verdict.Error)

		return
	}

	if r.PostForm.Get(consts.FormParameterGrantType) == "" {
		h.Verifier.WriteAuthenticationError(ctx, w, r, errorsx.WithStack(ErrInvalidRequest.WithHint("The request is missing the 'grant_type' parameter.")))

		return
	}

	issuer := h.Issuer
	if issuer == nil {
		issuer = DefaultTokenIssuer
	}

	response, err := issuer(ctx, verdict.Client, r.PostForm)
	if err != nil {
		h.Verifier.WriteAuthenticationError(ctx, w, r, err)

		return
	}

	w.Header().Set(consts.HeaderContentType, consts.ContentTypeApplicationJSON)
	w.Header().Set(consts.HeaderCacheControl, consts.CacheControlNoStore)
	w.Header().Set(consts.HeaderPragma, consts.PragmaNoCache)
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(response)
}
