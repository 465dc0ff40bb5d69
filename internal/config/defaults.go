package config

// Environment variables providing defaults for the general options.
const (
	EnvHost      = "ZHMC_HOST"
	EnvUserid    = "ZHMC_USERID"
	EnvPassword  = "ZHMC_PASSWORD"
	EnvSessionID = "ZHMC_SESSION_ID"
	EnvNoVerify  = "ZHMC_NO_VERIFY"
	EnvCACerts   = "ZHMC_CA_CERTS"
)

// Trust-bundle fallbacks consulted when ZHMC_CA_CERTS is not set, in
// this order.
var caBundleFallbacks = []string{
	"REQUESTS_CA_BUNDLE",
	"CURL_CA_BUNDLE",
}
