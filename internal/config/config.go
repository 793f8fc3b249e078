// Package config handles tray configuration loading and management.
package config

import "time"

// Config holds all tray settings.
type Config struct {
	User    UserConfig    `yaml:"user"`
	Arena   ArenaConfig   `yaml:"arena"`
	Physics PhysicsConfig `yaml:"physics"`
	Settle  SettleConfig  `yaml:"settle"`
	Network NetworkConfig `yaml:"network"`
	Logging LoggingConfig `yaml:"logging"`
}

// UserConfig holds the player's persisted preferences. Only the die color
// is consumed by the tray itself; name and room code belong to the room
// layer.
type UserConfig struct {
	Name     string `yaml:"name" env:"ARENA_NAME"`
	Color    string `yaml:"color" env:"ARENA_COLOR"`
	RoomCode string `yaml:"room_code" env:"ARENA_ROOM"`
}

// ArenaConfig holds the dimensions of the simulated tray box.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds rigid-body stepper settings.
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
	Restitution    float64 `yaml:"restitution"`
	Friction       float64 `yaml:"friction"`
	StepHz         int     `yaml:"step_hz"`
}

// SettleConfig holds result-detection tuning. These are behavioral
// constants of the detector; tests inject their own values.
type SettleConfig struct {
	SpeedThreshold float64       `yaml:"speed_threshold"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	StableReads    int           `yaml:"stable_reads"`
}

// NetworkConfig holds room server connection settings.
type NetworkConfig struct {
	Server         string        `yaml:"server" env:"ARENA_SERVER"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" env:"ARENA_LOG_LEVEL"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		User: UserConfig{
			Name:  "Player",
			Color: "#cc2222",
		},
		Arena: ArenaConfig{
			Width:  24,
			Depth:  16,
			Height: 10,
		},
		Physics: PhysicsConfig{
			Gravity:        9.8,
			LinearDamping:  0.12,
			AngularDamping: 0.18,
			Restitution:    0.45,
			Friction:       0.35,
			StepHz:         120,
		},
		Settle: SettleConfig{
			SpeedThreshold: 0.12,
			PollInterval:   120 * time.Millisecond,
			StableReads:    3,
		},
		Network: NetworkConfig{
			Server:         "127.0.0.1:7420",
			ConnectTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
