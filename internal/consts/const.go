package consts

const (
	valueClientID    = "client_id"
	valueNone        = "none"
	valueAccessToken = "access_token"
	valueExpiresIn   = "expires_in"
	valueIss         = "iss"
)
