package clientauth

// AlgorithmFamily distinguishes JWS algorithms by the kind of key material
// they verify with.
type AlgorithmFamily int

const (
	AlgorithmFamilyUnknown AlgorithmFamily = iota

	// AlgorithmFamilySymmetric covers the HMAC algorithms which verify with
	// the client secret.
	AlgorithmFamilySymmetric

	// AlgorithmFamilyAsymmetric covers the RSA, RSA-PSS, and ECDSA algorithms
	// which verify with a public key from the client's JSON Web Key Set.
	AlgorithmFamilyAsymmetric
)

// SignatureAlgorithms is the closed set of JWS 'alg' values permitted for the
// 'client_secret_jwt' and 'private_key_jwt' client authentication methods,
// keyed by their exact case-sensitive identifier.
var SignatureAlgorithms = map[string]AlgorithmFamily{
	"HS256": AlgorithmFamilySymmetric,
	"HS384": AlgorithmFamilySymmetric,
	"HS512": AlgorithmFamilySymmetric,
	"RS256": AlgorithmFamilyAsymmetric,
	"RS384": AlgorithmFamilyAsymmetric,
	"RS512": AlgorithmFamilyAsymmetric,
	"ES256": AlgorithmFamilyAsymmetric,
	"ES384": AlgorithmFamilyAsymmetric,
	"ES512": AlgorithmFamilyAsymmetric,
	"PS256": AlgorithmFamilyAsymmetric,
	"PS384": AlgorithmFamilyAsymmetric,
	"PS512": AlgorithmFamilyAsymmetric,
}

// AlgorithmFamilyOf returns the family of the given JWS 'alg' identifier, or
// AlgorithmFamilyUnknown when the identifier is not part of the permitted set.
// Identifiers are matched exactly; there is no case folding.
func AlgorithmFamilyOf(alg string) AlgorithmFamily {
	return SignatureAlgorithms[alg]
}

// IsSymmetricAlgorithm returns true for the HS256, HS384, and HS512 identifiers.
func IsSymmetricAlgorithm(alg string) bool {
	return AlgorithmFamilyOf(alg) == AlgorithmFamilySymmetric
}

// IsAsymmetricAlgorithm returns true for the RS*, ES*, and PS* identifiers.
func IsAsymmetricAlgorithm(alg string) bool {
	return AlgorithmFamilyOf(alg) == AlgorithmFamilyAsymmetric
}
