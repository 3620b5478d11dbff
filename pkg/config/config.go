// Package config loads and validates the proxy's static configuration.
// It is an external collaborator to the protocol core: the core only ever
// sees the plain ProxyConfig record produced here.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config is the root of the on-disk/env configuration surface.
type Config struct {
	Debug bool `mapstructure:"debug"`

	Listen  Endpoint `mapstructure:"listen"`
	Backend Endpoint `mapstructure:"backend"`

	// BackendWakeID is an opaque identifier (e.g. a MAC address) handed to
	// the wake capability; the core never interprets it.
	BackendWakeID string `mapstructure:"backend_wake_id"`

	// WakeBroadcastAddr is the UDP broadcast address (host:port, typically
	// the subnet broadcast on port 9) the default Wake-on-LAN sender
	// targets with the magic packet.
	WakeBroadcastAddr string `mapstructure:"wake_broadcast_addr"`

	IconPath      string `mapstructure:"icon_path"`
	WhitelistPath string `mapstructure:"whitelist_path"`

	Motd Motd `mapstructure:"motd"`

	WakingMessage         string `mapstructure:"waking_message"`
	NotWhitelistedMessage string `mapstructure:"not_whitelisted_message"`

	// VersionName and MaxPlayers fill the version.name/players.max fields
	// of a templated StatusView when the backend can't be asked directly.
	VersionName string `mapstructure:"version_name"`
	MaxPlayers  int    `mapstructure:"max_players"`

	// HealthAddr, if non-empty, serves GET /healthz on this address.
	HealthAddr string `mapstructure:"health_addr"`
}

// Endpoint is a host/port pair.
type Endpoint struct {
	Host string `mapstructure:"host"`
	Port uint16 `mapstructure:"port"`
}

// String renders the endpoint as host:port.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// Motd holds the two message-of-the-day templates the status phase merges
// into its reply, per spec §4.5.
type Motd struct {
	Offline string `mapstructure:"offline"`
	Online  string `mapstructure:"online"`
}

// Defaults returns a Config pre-populated with the values the original
// deployment shipped with, so a fresh install works without edits beyond
// pointing Backend at the real server.
func Defaults() Config {
	return Config{
		Listen:        Endpoint{Host: "0.0.0.0", Port: 25565},
		Backend:       Endpoint{Host: "127.0.0.1", Port: 25566},
		IconPath:      "server-icon.png",
		WhitelistPath: "whitelist.json",
		Motd: Motd{
			Offline: "§cSuspendido. §7Conectate para encender el servidor! ",
			Online:  "§aActivo. §7Ingresa para jugar!",
		},
		WakingMessage:         "Despertando el servidor! Espera unos 30 segundos y vuelve a recargar la lista de servidores.",
		NotWhitelistedMessage: "No estas en la whitelist de este servidor.",
		VersionName:           "1.21.4",
		MaxPlayers:            20,
		WakeBroadcastAddr:     "255.255.255.255:9",
	}
}

// Load reads configuration from path (if it exists) via viper, applying
// Defaults() first and environment overrides (WAKEPROXY_*) last.
func Load(path string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("WAKEPROXY")
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshalling: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("listen.host", cfg.Listen.Host)
	v.SetDefault("listen.port", cfg.Listen.Port)
	v.SetDefault("backend.host", cfg.Backend.Host)
	v.SetDefault("backend.port", cfg.Backend.Port)
	v.SetDefault("backend_wake_id", cfg.BackendWakeID)
	v.SetDefault("wake_broadcast_addr", cfg.WakeBroadcastAddr)
	v.SetDefault("icon_path", cfg.IconPath)
	v.SetDefault("whitelist_path", cfg.WhitelistPath)
	v.SetDefault("motd.offline", cfg.Motd.Offline)
	v.SetDefault("motd.online", cfg.Motd.Online)
	v.SetDefault("waking_message", cfg.WakingMessage)
	v.SetDefault("not_whitelisted_message", cfg.NotWhitelistedMessage)
	v.SetDefault("version_name", cfg.VersionName)
	v.SetDefault("max_players", cfg.MaxPlayers)
	v.SetDefault("health_addr", cfg.HealthAddr)
}

// Validate rejects configurations that can't possibly bind or proxy. Any
// error here is fatal at startup per spec §7 (ConfigInvalid).
func Validate(cfg *Config) error {
	if cfg.Listen.Port == 0 {
		return fmt.Errorf("config: listen.port must be set")
	}
	if cfg.Backend.Host == "" || cfg.Backend.Port == 0 {
		return fmt.Errorf("config: backend.host and backend.port must be set")
	}
	if _, err := net.ResolveTCPAddr("tcp", cfg.Listen.String()); err != nil {
		return fmt.Errorf("config: invalid listen address %q: %w", cfg.Listen.String(), err)
	}
	return nil
}
