package consts

const (
	JSONWebTokenHeaderKeyIdentifier = "kid"
	JSONWebTokenHeaderAlgorithm     = "alg"
)

const (
	JSONWebTokenUseSignature = "sig"
)
