package clientauth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/oidauth/clientauth/i18n"
	"github.com/oidauth/clientauth/internal/consts"
	"github.com/oidauth/clientauth/x/errorsx"
)

// Verifier is the entry point for token endpoint client authentication. It
// binds the client store and configuration to the authentication strategy and
// turns the outcome into a Verdict.
type Verifier struct {
	Store  ClientManager
	Config Configurator
}

// NewVerifier returns a Verifier using the given store and configuration.
func NewVerifier(store ClientManager, config Configurator) *Verifier {
	return &Verifier{
		Store:  store,
		Config: config,
	}
}

// AuthenticateClient authenticates client requests using the configured strategy returned by the Configurator
// function GetClientAuthenticationStrategy, if nil it uses the DefaultClientAuthenticationStrategy.
func (v *Verifier) AuthenticateClient(ctx context.Context, r *http.Request, form url.Values) (client Client, method string, err error) {
	var strategy ClientAuthenticationStrategy

	if strategy = v.Config.GetClientAuthenticationStrategy(ctx); strategy == nil {
		strategy = &DefaultClientAuthenticationStrategy{Store: v.Store, Config: v.Config}
	}

	return strategy.AuthenticateClient(ctx, r, form)
}

// Verdict is the outcome of deciding a token request's client authentication.
type Verdict struct {
	// Client is the authenticated client. Nil unless Authenticated returns true.
	Client Client

	// ClientID is the client id the request claimed, as far as it could be
	// determined. Set even for rejected attempts so diagnostics can name the
	// client.
	ClientID string

	// Method is the authentication method which succeeded.
	Method string

	// Error carries the rejection. Nil for accepted attempts.
	Error *RFC6749Error
}

// Authenticated returns true when the attempt was accepted.
func (v Verdict) Authenticated() bool {
	return v.Error == nil && v.Client != nil
}

// Kind returns the rejection kind, or RejectionNone for accepted attempts.
func (v Verdict) Kind() RejectionKind {
	if v.Error == nil {
		return RejectionNone
	}

	return v.Error.Kind()
}

// DecideClientAuthentication runs the full authentication pipeline for the
// request and reports the verdict to the configured logger. The request form
// is parsed if it hasn't been already.
func (v *Verifier) DecideClientAuthentication(ctx context.Context, r *http.Request) (verdict Verdict) {
	log := v.Config.GetLogger(ctx)

	if err := r.ParseForm(); err != nil {
		verdict.Error = ErrorToRFC6749Error(errorsx.WithStack(ErrMalformedRequest.WithHint("The POST body can not be parsed.").WithWrap(err).WithDebugError(err)))

		log.WithFields(logrus.Fields{"kind": verdict.Kind()}).Debug("Client authentication rejected")

		return verdict
	}

	verdict.ClientID = r.PostForm.Get(consts.FormParameterClientID)

	client, method, err := v.AuthenticateClient(ctx, r, r.PostForm)
	if err != nil {
		verdict.Error = ErrorToRFC6749Error(err)

		log.WithFields(logrus.Fields{
			"client_id": verdict.ClientID,
			"kind":      verdict.Kind(),
		}).Debug("Client authentication rejected")

		return verdict
	}

	verdict.Client = client
	verdict.ClientID = client.GetID()
	verdict.Method = method

	log.WithFields(logrus.Fields{
		"client_id": verdict.ClientID,
		"method":    verdict.Method,
	}).Debug("Client authentication accepted")

	return verdict
}

// WriteAuthenticationError sanitizes and writes the rejection to w in the
// RFC6749 Section 5.2 error shape.
func (v *Verifier) WriteAuthenticationError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	rfc := ErrorToRFC6749Error(err)

	catalog := v.Config.GetMessageCatalog(ctx)
	rfc = rfc.WithLocalizer(catalog, i18n.GetLangFromRequest(catalog, r))

	if rfc.CodeField == http.StatusUnauthorized && r.Header.Get(consts.HeaderAuthorization) != "" {
		w.Header().Set(consts.HeaderWWWAuthenticate, `Basic realm="`+v.Config.GetTokenURL(ctx)+`"`)
	}

	errorsx.WriteJSONError(w, r, rfc)
}
