package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagServer = flag.String("server", "", "Room server address")
	flagName   = flag.String("name", "", "Display name")
	flagColor  = flag.String("color", "", "Die color (hex, e.g. #cc2222)")
	flagRoom   = flag.String("room", "", "Room code to join")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagServer != "" {
		cfg.Network.Server = *flagServer
	}
	if *flagName != "" {
		cfg.User.Name = *flagName
	}
	if *flagColor != "" {
		cfg.User.Color = *flagColor
	}
	if *flagRoom != "" {
		cfg.User.RoomCode = *flagRoom
	}
}
