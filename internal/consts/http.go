package consts

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderPragma          = "Pragma"
	HeaderAuthorization   = "Authorization"
	HeaderWWWAuthenticate = "WWW-Authenticate"
)

const (
	ContentTypeApplicationURLEncodedForm = "application/x-www-form-urlencoded"
	ContentTypeApplicationJSON           = "application/json; charset=utf-8"
)

const (
	PragmaNoCache       = "no-cache"
	CacheControlNoStore = "no-store"
)
