package consts

const (
	AccessResponseAccessToken = valueAccessToken
	AccessResponseExpiresIn   = valueExpiresIn
	AccessResponseTokenType   = "token_type"
)
