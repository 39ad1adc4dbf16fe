package consts

// Registered Claim strings. See https://www.iana.org/assignments/jwt/jwt.xhtml.
const (
	ClaimJWTID            = "jti"
	ClaimIssuedAt         = "iat"
	ClaimExpirationTime   = "exp"
	ClaimIssuer           = valueIss
	ClaimSubject          = "sub"
	ClaimAudience         = "aud"
	ClaimClientIdentifier = valueClientID
)
