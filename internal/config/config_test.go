package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.User.Name != "Player" {
		t.Errorf("expected default name 'Player', got %s", cfg.User.Name)
	}
	if cfg.User.Color != "#cc2222" {
		t.Errorf("expected default color #cc2222, got %s", cfg.User.Color)
	}
	if cfg.User.RoomCode != "" {
		t.Errorf("expected empty room code, got %s", cfg.User.RoomCode)
	}

	if cfg.Settle.SpeedThreshold != 0.12 {
		t.Errorf("expected speed threshold 0.12, got %f", cfg.Settle.SpeedThreshold)
	}
	if cfg.Settle.PollInterval != 120*time.Millisecond {
		t.Errorf("expected poll interval 120ms, got %v", cfg.Settle.PollInterval)
	}
	if cfg.Settle.StableReads != 3 {
		t.Errorf("expected 3 stable reads, got %d", cfg.Settle.StableReads)
	}

	if cfg.Physics.Gravity != 9.8 {
		t.Errorf("expected gravity 9.8, got %f", cfg.Physics.Gravity)
	}
	if cfg.Network.ConnectTimeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Network.ConnectTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
user:
  name: "Velda"
  color: "#22aa66"
  room_code: "moss-hollow"

settle:
  speed_threshold: 0.2
  poll_interval: 50ms
  stable_reads: 5

network:
  server: "dice.example.com:7420"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.User.Name != "Velda" {
		t.Errorf("expected name 'Velda', got %s", cfg.User.Name)
	}
	if cfg.User.RoomCode != "moss-hollow" {
		t.Errorf("expected room code 'moss-hollow', got %s", cfg.User.RoomCode)
	}
	if cfg.Settle.PollInterval != 50*time.Millisecond {
		t.Errorf("expected poll interval 50ms, got %v", cfg.Settle.PollInterval)
	}
	if cfg.Settle.StableReads != 5 {
		t.Errorf("expected 5 stable reads, got %d", cfg.Settle.StableReads)
	}
	// Untouched sections keep their defaults.
	if cfg.Physics.Gravity != 9.8 {
		t.Errorf("expected default gravity 9.8, got %f", cfg.Physics.Gravity)
	}
	if cfg.Network.Server != "dice.example.com:7420" {
		t.Errorf("expected overridden server, got %s", cfg.Network.Server)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.User.Name = "Orin"
	cfg.User.Color = "#004488"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.User.Name != "Orin" || loaded.User.Color != "#004488" {
		t.Errorf("round trip lost user settings: %+v", loaded.User)
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name      string
		user      UserConfig
		wantField string
	}{
		{"valid", UserConfig{Name: "Velda", Color: "#22aa66", RoomCode: "moss-hollow"}, ""},
		{"valid no room", UserConfig{Name: "Velda", Color: "#22aa66"}, ""},
		{"empty name", UserConfig{Name: "  ", Color: "#22aa66"}, "name"},
		{"bad color", UserConfig{Name: "Velda", Color: "teal"}, "color"},
		{"short color", UserConfig{Name: "Velda", Color: "#abc"}, "color"},
		{"bad room", UserConfig{Name: "Velda", Color: "#22aa66", RoomCode: "x"}, "room_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.user.Validate()
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %v", errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("expected error on %s, got %s", tt.wantField, errs[0].Field)
			}
		})
	}
}
