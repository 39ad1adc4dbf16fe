package errorsx

import (
	"context"
	"encoding/json"
	stderr "errors"
	"net/http"

	"github.com/pkg/errors"

	"github.com/oidauth/clientauth/internal/consts"
)

// WriteJSONError writes err to w as a JSON body using the status code carried
// by the error, or 500 when the error doesn't carry one. Taken from
// github.com/ory/herodot.
func WriteJSONError(w http.ResponseWriter, r *http.Request, err error) {
	if c := StatusCodeCarrier(nil); stderr.As(err, &c) {
		WriteJSONErrorCode(w, r, c.StatusCode(), err)
	} else {
		WriteJSONErrorCode(w, r, http.StatusInternalServerError, err)
	}
}

// WriteJSONErrorCode writes err to w as a JSON body with the given status
// code.
func WriteJSONErrorCode(w http.ResponseWriter, r *http.Request, code int, err error) {
	if code == 0 {
		code = http.StatusInternalServerError
	}

	if errors.Is(r.Context().Err(), context.Canceled) {
		code = 499
	}

	w.Header().Set(consts.HeaderContentType, consts.ContentTypeApplicationJSON)
	w.Header().Set(consts.HeaderCacheControl, consts.CacheControlNoStore)
	w.Header().Set(consts.HeaderPragma, consts.PragmaNoCache)
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(err)
}
