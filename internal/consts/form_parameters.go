package consts

const (
	FormParameterClientID            = valueClientID
	FormParameterClientSecret        = "client_secret"
	FormParameterClientAssertionType = "client_assertion_type"
	FormParameterClientAssertion     = "client_assertion"
	FormParameterGrantType           = "grant_type"
)
