package tplink

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// PasswordManager resolves credentials for a switch
type PasswordManager interface {
	GetPassword(address string) (string, bool)
	GetSwitchConfig(address string) (*SwitchConfig, bool)
}

// SwitchConfig represents per-switch credentials from the environment
type SwitchConfig struct {
	Host     string
	Username string // optional
	Password string
}

// EnvironmentPasswordManager handles credential lookup from environment
// variables:
//
//	TPLINK_PASSWORD_<HOST>=password   (optionally TPLINK_USERNAME_<HOST>=user)
//	TPLINK_SWITCHES="host1=password1[,user1];host2=password2"
//
// <HOST> is the address upper-cased with dots, colons and dashes replaced
// by underscores.
type EnvironmentPasswordManager struct {
	log logrus.FieldLogger
}

// NewEnvironmentPasswordManager creates a new environment-based password manager
func NewEnvironmentPasswordManager(log logrus.FieldLogger) *EnvironmentPasswordManager {
	if log == nil {
		log = discardLogger()
	}
	return &EnvironmentPasswordManager{log: log}
}

// GetPassword retrieves the password for address
func (e *EnvironmentPasswordManager) GetPassword(address string) (string, bool) {
	config, found := e.GetSwitchConfig(address)
	if found {
		return config.Password, true
	}
	return "", false
}

// GetSwitchConfig retrieves the credentials for address
func (e *EnvironmentPasswordManager) GetSwitchConfig(address string) (*SwitchConfig, bool) {
	host := hostOf(address)

	// Host-specific variables take priority
	normalizedHost := normalizeHost(host)
	envVar := "TPLINK_PASSWORD_" + normalizedHost
	if password := os.Getenv(envVar); password != "" {
		e.log.Debugf("found host-specific password for %s via %s", host, envVar)
		return &SwitchConfig{
			Host:     host,
			Username: os.Getenv("TPLINK_USERNAME_" + normalizedHost),
			Password: password,
		}, true
	}

	if config, found := parseMultiSwitchConfig(os.Getenv("TPLINK_SWITCHES"), host); found {
		e.log.Debugf("found switch config for %s in TPLINK_SWITCHES", host)
		return config, true
	}

	e.log.Debugf("no password found for %s in environment", host)
	return nil, false
}

// parseMultiSwitchConfig finds targetHost in a "host=password[,user];..." list
func parseMultiSwitchConfig(switchesVar, targetHost string) (*SwitchConfig, bool) {
	if switchesVar == "" {
		return nil, false
	}

	for _, entry := range strings.Split(switchesVar, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}

		host := strings.TrimSpace(parts[0])
		if host != targetHost {
			continue
		}

		config := &SwitchConfig{Host: host}
		passwordAndUser := strings.TrimSpace(parts[1])
		if password, user, ok := strings.Cut(passwordAndUser, ","); ok {
			config.Password = strings.TrimSpace(password)
			config.Username = strings.TrimSpace(user)
		} else {
			config.Password = passwordAndUser
		}

		return config, true
	}

	return nil, false
}

// hostOf strips a scheme and trailing slash so "http://10.0.0.2/" and
// "10.0.0.2" resolve to the same variables
func hostOf(address string) string {
	address = strings.TrimPrefix(address, "http://")
	address = strings.TrimPrefix(address, "https://")
	return strings.TrimRight(address, "/")
}

// normalizeHost converts host to environment variable format
func normalizeHost(host string) string {
	normalized := strings.NewReplacer(".", "_", ":", "_", "-", "_").Replace(host)
	return strings.ToUpper(normalized)
}
