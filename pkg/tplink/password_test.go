package tplink

import (
	"testing"

	"github.com/corbym/gocrest/is"
	"github.com/corbym/gocrest/then"
)

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		host     string
		expected string
	}{
		{"192.168.0.1", "192_168_0_1"},
		{"switch.local:8080", "SWITCH_LOCAL_8080"},
		{"core-sw1", "CORE_SW1"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			then.AssertThat(t, normalizeHost(tt.host), is.EqualTo(tt.expected))
		})
	}
}

func TestGetSwitchConfigHostSpecific(t *testing.T) {
	t.Setenv("TPLINK_PASSWORD_192_168_0_1", "host-secret")
	t.Setenv("TPLINK_USERNAME_192_168_0_1", "operator")
	t.Setenv("TPLINK_SWITCHES", "192.168.0.1=list-secret")

	config, found := NewEnvironmentPasswordManager(nil).GetSwitchConfig("http://192.168.0.1/")

	then.AssertThat(t, found, is.True())
	then.AssertThat(t, config.Host, is.EqualTo("192.168.0.1"))
	then.AssertThat(t, config.Password, is.EqualTo("host-secret"))
	then.AssertThat(t, config.Username, is.EqualTo("operator"))
}

func TestGetSwitchConfigFromList(t *testing.T) {
	t.Setenv("TPLINK_SWITCHES", "10.0.0.1=first; 10.0.0.2 = second,monitor ;broken")

	manager := NewEnvironmentPasswordManager(nil)

	config, found := manager.GetSwitchConfig("10.0.0.2")
	then.AssertThat(t, found, is.True())
	then.AssertThat(t, config.Password, is.EqualTo("second"))
	then.AssertThat(t, config.Username, is.EqualTo("monitor"))

	password, found := manager.GetPassword("10.0.0.1")
	then.AssertThat(t, found, is.True())
	then.AssertThat(t, password, is.EqualTo("first"))

	_, found = manager.GetPassword("10.0.0.3")
	then.AssertThat(t, found, is.False())
}

func TestGetSwitchConfigNotFound(t *testing.T) {
	t.Setenv("TPLINK_SWITCHES", "")

	config, found := NewEnvironmentPasswordManager(nil).GetSwitchConfig("198.51.100.7")

	then.AssertThat(t, found, is.False())
	then.AssertThat(t, config == nil, is.True())
}
