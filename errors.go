package clientauth

import (
	"encoding/json"
	stderr "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/oidauth/clientauth/i18n"
	"github.com/oidauth/clientauth/x/errorsx"
)

// RejectionKind classifies why a client authentication attempt was rejected.
// The kind never reaches the wire; it exists so operators can tell a method
// mismatch from a bad signature while callers uniformly see 'invalid_client'.
type RejectionKind string

const (
	RejectionNone                RejectionKind = ""
	RejectionMalformedRequest    RejectionKind = "malformed_request"
	RejectionUnknownClient       RejectionKind = "unknown_client"
	RejectionMethodMismatch      RejectionKind = "method_mismatch"
	RejectionAlgorithmNotAllowed RejectionKind = "algorithm_not_allowed"
	RejectionSignatureInvalid    RejectionKind = "signature_invalid"
	RejectionClaimInvalid        RejectionKind = "claim_invalid"
	RejectionExpired             RejectionKind = "assertion_expired"
	RejectionInvalidSecret       RejectionKind = "invalid_secret"
)

var (
	// ErrInvalidRequest represents the 'invalid_request' error from RFC6749.
	//
	// See: https://datatracker.ietf.org/doc/html/rfc6749#section-5.2.
	ErrInvalidRequest = &RFC6749Error{
		ErrorField:       errInvalidRequestName,
		DescriptionField: "The request is missing a required parameter, includes an invalid parameter value, includes a parameter more than once, or is otherwise malformed.",
		CodeField:        http.StatusBadRequest,
	}

	// ErrInvalidClient represents the 'invalid_client' error from RFC6749 for the Access Token Exchange.
	//
	// See:
	//	- https://datatracker.ietf.org/doc/html/rfc6749#section-5.2.
	//	- https://datatracker.ietf.org/doc/html/rfc7521#section-4.2.1
	ErrInvalidClient = &RFC6749Error{
		ErrorField:       errInvalidClientName,
		DescriptionField: "Client authentication failed (e.g., unknown client, no client authentication included, or unsupported authentication method).",
		CodeField:        http.StatusUnauthorized,
	}

	// ErrMalformedRequest is the rejection for requests whose credential shape
	// could not be parsed or which present more than one authentication
	// mechanism at once.
	//
	// See: https://datatracker.ietf.org/doc/html/rfc6749#section-2.3.
	ErrMalformedRequest = &RFC6749Error{
		ErrorField:       errInvalidRequestName,
		DescriptionField: "The request is missing a required parameter, includes an invalid parameter value, includes a parameter more than once, or is otherwise malformed.",
		KindField:        RejectionMalformedRequest,
		CodeField:        http.StatusBadRequest,
	}

	// ErrUnknownClient is the rejection for a claimed client id which is not registered.
	ErrUnknownClient = &RFC6749Error{
		ErrorField:       errInvalidClientName,
		DescriptionField: "Client authentication failed (e.g., unknown client, no client authentication included, or unsupported authentication method).",
		KindField:        RejectionUnknownClient,
		CodeField:        http.StatusUnauthorized,
	}

	// ErrMethodMismatch is the rejection for an authentication mechanism which
	// does not equal the client's registered 'token_endpoint_auth_method'.
	ErrMethodMismatch = &RFC6749Error{
		ErrorField:       errInvalidClientName,
		DescriptionField: "Client authentication failed (e.g., unknown client, no client authentication included, or unsupported authentication method).",
		KindField:        RejectionMethodMismatch,
		CodeField:        http.StatusUnauthorized,
	}

	// ErrAlgorithmNotAllowed is the rejection for a client assertion whose
	// declared JWS algorithm violates the client's registered
	// 'token_endpoint_auth_signing_alg' or the algorithm family of its
	// registered method.
	ErrAlgorithmNotAllowed = &RFC6749Error{
		ErrorField:       errInvalidClientName,
		DescriptionField: "Client authentication failed (e.g., unknown client, no client authentication included, or unsupported authentication method).",
		KindField:        RejectionAlgorithmNotAllowed,
		CodeField:        http.StatusUnauthorized,
	}

	// ErrSignatureInvalid is the rejection for a client assertion whose
	// signature did not verify or for which no verification key resolved.
	ErrSignatureInvalid = &RFC6749Error{
		ErrorField:       errInvalidClientName,
		DescriptionField: "Client authentication failed (e.g., unknown client, no client authentication included, or unsupported authentication method).",
		KindField:        RejectionSignatureInvalid,
		CodeField:        http.StatusUnauthorized,
	}

	// ErrClaimInvalid is the rejection for a client assertion with a missing or
	// semantically wrong claim.
	ErrClaimInvalid = &RFC6749Error{
		ErrorField:       errInvalidClientName,
		DescriptionField: "Client authentication failed (e.g., unknown client, no client authentication included, or unsupported authentication method).",
		KindField:        RejectionClaimInvalid,
		CodeField:        http.StatusUnauthorized,
	}

	// ErrAssertionExpired is the rejection for a client assertion whose 'exp'
	// claim lies in the past.
	ErrAssertionExpired = &RFC6749Error{
		ErrorField:       errInvalidClientName,
		DescriptionField: "Client authentication failed (e.g., unknown client, no client authentication included, or unsupported authentication method).",
		KindField:        RejectionExpired,
		CodeField:        http.StatusUnauthorized,
	}

	// ErrInvalidSecret is the rejection for a client secret which did not
	// compare equal to the registered secret or any rotated secret.
	ErrInvalidSecret = &RFC6749Error{
		ErrorField:       errInvalidClientName,
		DescriptionField: "Client authentication failed (e.g., unknown client, no client authentication included, or unsupported authentication method).",
		KindField:        RejectionInvalidSecret,
		CodeField:        http.StatusUnauthorized,
	}

	// ErrJTIReused is the rejection for a client assertion replaying an
	// already seen 'jti' value.
	ErrJTIReused = &RFC6749Error{
		ErrorField:       errInvalidClientName,
		DescriptionField: "Client authentication failed (e.g., unknown client, no client authentication included, or unsupported authentication method).",
		HintField:        "Claim 'jti' from 'client_assertion' MUST only be used once.",
		KindField:        RejectionClaimInvalid,
		CodeField:        http.StatusUnauthorized,
	}

	// ErrServerError represents the 'server_error' error from RFC6749.
	ErrServerError = &RFC6749Error{
		ErrorField:       errServerErrorName,
		DescriptionField: "The authorization server encountered an unexpected condition that prevented it from fulfilling the request.",
		CodeField:        http.StatusInternalServerError,
	}

	// ErrMisconfiguration indicates the authorization server itself is missing
	// configuration required to process the request.
	ErrMisconfiguration = &RFC6749Error{
		ErrorField:       errMisconfigurationName,
		DescriptionField: "The request failed because of an internal error that is probably caused by misconfiguration.",
		CodeField:        http.StatusInternalServerError,
	}

	// ErrNotFound indicates a requested resource does not exist.
	ErrNotFound = &RFC6749Error{
		ErrorField:       errNotFoundName,
		DescriptionField: "Could not find the requested resource(s).",
		CodeField:        http.StatusNotFound,
	}
)

const (
	errInvalidRequestName   = "invalid_request"
	errInvalidClientName    = "invalid_client"
	errServerErrorName      = "server_error"
	errMisconfigurationName = "misconfiguration"
	errNotFoundName         = "not_found"
	errUnknownErrorName     = "error"
)

// RFC6749Error is an error value which can be surfaced on the wire in the
// shape RFC6749 Section 5.2 requires, while internally carrying the rejection
// kind, a hint, and debug information for diagnostics.
type RFC6749Error struct {
	ErrorField       string
	DescriptionField string
	HintField        string
	CodeField        int
	DebugField       string
	KindField        RejectionKind
	cause            error
	exposeDebug      bool

	// Fields for globalization.
	hintIDField string
	hintArgs    []any
	catalog     i18n.MessageCatalog
	lang        language.Tag
}

var (
	_ errorsx.DebugCarrier      = new(RFC6749Error)
	_ errorsx.ReasonCarrier     = new(RFC6749Error)
	_ errorsx.StatusCarrier     = new(RFC6749Error)
	_ errorsx.StatusCodeCarrier = new(RFC6749Error)
)

// ErrorToRFC6749Error converts any error into a *RFC6749Error, falling back
// to a generic internal error representation.
func ErrorToRFC6749Error(err error) *RFC6749Error {
	var e *RFC6749Error

	if errors.As(err, &e) {
		return e
	}

	return &RFC6749Error{
		ErrorField:       errUnknownErrorName,
		DescriptionField: "The error is unrecognizable.",
		DebugField:       err.Error(),
		CodeField:        http.StatusInternalServerError,
		cause:            err,
	}
}

// StackTrace returns the error's stack trace.
func (e *RFC6749Error) StackTrace() (trace errors.StackTrace) {
	if e.cause == e || e.cause == nil {
		return
	}

	if st := errorsx.StackTracer(nil); stderr.As(e.cause, &st) {
		trace = st.StackTrace()
	}

	return
}

func (e RFC6749Error) Unwrap() error {
	return e.cause
}

func (e *RFC6749Error) Wrap(err error) {
	e.cause = err
}

func (e RFC6749Error) WithWrap(cause error) *RFC6749Error {
	e.cause = cause

	return &e
}

// Is matches another RFC6749Error by wire error name, status code, and, when
// the target specifies one, the rejection kind. This makes
// errors.Is(err, ErrInvalidClient) hold for every 'invalid_client' rejection
// while errors.Is(err, ErrMethodMismatch) stays specific.
func (e RFC6749Error) Is(err error) bool {
	var t *RFC6749Error

	switch te := err.(type) {
	case RFC6749Error:
		t = &te
	case *RFC6749Error:
		t = te
	default:
		return false
	}

	if e.ErrorField != t.ErrorField || e.CodeField != t.CodeField {
		return false
	}

	return t.KindField == RejectionNone || e.KindField == t.KindField
}

func (e *RFC6749Error) Status() string {
	return http.StatusText(e.CodeField)
}

func (e RFC6749Error) Error() string {
	return e.ErrorField
}

// Kind returns the rejection kind for diagnostics.
func (e *RFC6749Error) Kind() RejectionKind {
	return e.KindField
}

func (e *RFC6749Error) Reason() string {
	return e.HintField
}

func (e *RFC6749Error) StatusCode() int {
	return e.CodeField
}

func (e *RFC6749Error) Cause() error {
	return e.cause
}

func (e *RFC6749Error) WithHintf(hint string, args ...any) *RFC6749Error {
	err := *e
	if err.hintIDField == "" {
		err.hintIDField = hint
	}

	err.hintArgs = args
	err.HintField = fmt.Sprintf(hint, args...)

	return &err
}

func (e *RFC6749Error) WithHint(hint string) *RFC6749Error {
	err := *e
	if err.hintIDField == "" {
		err.hintIDField = hint
	}

	err.HintField = hint

	return &err
}

func (e *RFC6749Error) Debug() string {
	return e.DebugField
}

func (e *RFC6749Error) WithDebug(debug string) *RFC6749Error {
	err := *e
	err.DebugField = debug

	return &err
}

func (e *RFC6749Error) WithDebugError(debug error) *RFC6749Error {
	return e.WithDebug(ErrorToDebugRFC6749Error(debug).Error())
}

func (e *RFC6749Error) WithDebugf(debug string, args ...any) *RFC6749Error {
	return e.WithDebug(fmt.Sprintf(debug, args...))
}

func (e *RFC6749Error) WithDescription(description string) *RFC6749Error {
	err := *e
	err.DescriptionField = description

	return &err
}

func (e *RFC6749Error) WithLocalizer(catalog i18n.MessageCatalog, lang language.Tag) *RFC6749Error {
	err := *e
	err.catalog = catalog
	err.lang = lang

	return &err
}

// WithExposeDebug if set to true exposes debug messages.
func (e *RFC6749Error) WithExposeDebug(exposeDebug bool) *RFC6749Error {
	err := *e
	err.exposeDebug = exposeDebug

	return &err
}

// GetDescription returns a more descriptive description, combined with hint and debug (when available).
func (e *RFC6749Error) GetDescription() string {
	description := i18n.GetMessageOrDefault(e.catalog, e.ErrorField, e.lang, e.DescriptionField)
	e.computeHintField()

	if e.HintField != "" {
		description += " " + e.HintField
	}

	if e.exposeDebug && e.DebugField != "" {
		description += " " + e.DebugField
	}

	return strings.ReplaceAll(description, `"`, "'")
}

// RFC6749ErrorJson is a helper struct for JSON encoding/decoding of RFC6749Error.
type RFC6749ErrorJson struct {
	Name        string `json:"error"`
	Description string `json:"error_description"`
}

func (e RFC6749Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(&RFC6749ErrorJson{
		Name:        e.ErrorField,
		Description: e.GetDescription(),
	})
}

func (e *RFC6749Error) UnmarshalJSON(b []byte) error {
	var data RFC6749ErrorJson

	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}

	e.ErrorField = data.Name
	e.DescriptionField = data.Description

	return nil
}

func (e *RFC6749Error) computeHintField() {
	if e.hintIDField == "" {
		return
	}

	e.HintField = i18n.GetMessageOrDefault(e.catalog, e.hintIDField, e.lang, e.HintField, e.hintArgs...)
}

// ErrorToDebugRFC6749Error converts the provided error to a *DebugRFC6749Error
// provided it is not nil and can be cast as a *RFC6749Error.
func ErrorToDebugRFC6749Error(err error) (rfc error) {
	if err == nil {
		return nil
	}

	var e *RFC6749Error

	if errors.As(err, &e) {
		return &DebugRFC6749Error{e}
	}

	return err
}

// DebugRFC6749Error is a decorator type which makes the underlying
// *RFC6749Error expose debug information and show the full error description.
type DebugRFC6749Error struct {
	*RFC6749Error
}

// Error implements the builtin error interface and shows the error with its
// debug info and description.
func (err *DebugRFC6749Error) Error() string {
	return err.WithExposeDebug(true).GetDescription()
}
