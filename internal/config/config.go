package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LogonData holds the resolved HMC logon settings. Each field comes from
// a command line flag or, when the flag is absent, from its environment
// variable; the flag always wins.
type LogonData struct {
	Host      string
	Userid    string
	Password  string
	SessionID string
	NoVerify  bool
	CACerts   string
}

// Flags carries the general-option values as parsed from the command
// line. NoVerifySet distinguishes an unspecified --no-verify from an
// explicit false so the environment variable is only consulted when the
// flag was absent.
type Flags struct {
	Host        string
	Userid      string
	Password    string
	NoVerify    bool
	NoVerifySet bool
	CACerts     string
}

// Resolve merges command line flags over the ZHMC_* environment
// variables into the effective logon data. The session-id has no flag;
// it is taken from ZHMC_SESSION_ID only.
func Resolve(flags Flags) (*LogonData, error) {
	v := viper.New()
	v.SetEnvPrefix("ZHMC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	envBindings := map[string]string{
		"host":       EnvHost,
		"userid":     EnvUserid,
		"password":   EnvPassword,
		"session_id": EnvSessionID,
		"no_verify":  EnvNoVerify,
		"ca_certs":   EnvCACerts,
	}
	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", envVar, err)
		}
	}

	data := &LogonData{
		Host:      firstOf(flags.Host, v.GetString("host")),
		Userid:    firstOf(flags.Userid, v.GetString("userid")),
		Password:  firstOf(flags.Password, v.GetString("password")),
		SessionID: v.GetString("session_id"),
		CACerts:   firstOf(flags.CACerts, v.GetString("ca_certs")),
	}

	if flags.NoVerifySet {
		data.NoVerify = flags.NoVerify
	} else if raw := v.GetString("no_verify"); raw != "" {
		noVerify, err := parseBool(EnvNoVerify, raw)
		if err != nil {
			return nil, err
		}
		data.NoVerify = noVerify
	}

	if data.CACerts == "" {
		args := append([]string{"ca_bundle"}, caBundleFallbacks...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind trust-bundle fallbacks: %w", err)
		}
		data.CACerts = v.GetString("ca_bundle")
	}

	return data, nil
}

// HasCredentials reports whether the logon data can authenticate: either
// an existing session-id or a userid/password pair.
func (d *LogonData) HasCredentials() bool {
	if d.SessionID != "" {
		return true
	}
	return d.Userid != "" && d.Password != ""
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseBool accepts the boolean spellings the documentation lists for
// ZHMC_NO_VERIFY.
func parseBool(name, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "0", "no", "false":
		return false, nil
	case "1", "yes", "true":
		return true, nil
	}
	return false, fmt.Errorf(
		"invalid value for %s environment variable: %q is not a valid boolean",
		name, value)
}
