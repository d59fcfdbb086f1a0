package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	dir, err := ioutil.TempDir("", "regtool")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "regtool.toml")
	if err := ioutil.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("", false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transport != TransportI2CDev || cfg.Device != "/dev/i2c-1" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.HalfPeriod != 5*time.Microsecond {
		t.Errorf("half period %v", cfg.HalfPeriod)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/regtool.toml", false); err != nil {
		t.Errorf("optional config: %v", err)
	}
	if _, err := Load("/nonexistent/regtool.toml", true); err == nil {
		t.Error("required config: expected error")
	}
}

func TestFile(t *testing.T) {
	path := writeConfig(t, `
transport = "bridge"

[device]
address = 34

[bridge]
port = "/dev/ttyS1"
baud = 115200

[log]
trace = true
`)
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transport != TransportBridge || cfg.Address != 0x22 {
		t.Errorf("transport %s address 0x%02X", cfg.Transport, cfg.Address)
	}
	if cfg.BridgePort != "/dev/ttyS1" || cfg.BridgeBaud != 115200 {
		t.Errorf("bridge %s %d", cfg.BridgePort, cfg.BridgeBaud)
	}
	if !cfg.Trace {
		t.Error("trace not set")
	}
}

func TestInvalid(t *testing.T) {
	tables := map[string]string{
		"transport": `transport = "carrier-pigeon"`,
		"address":   "[device]\naddress = 300",
		"wide":      "[device]\naddress = 128",
	}
	for name, body := range tables {
		if _, err := Load(writeConfig(t, body), true); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("REGTOOL_TRANSPORT", "emulator")

	cfg, err := Load("", false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transport != TransportEmulator {
		t.Errorf("transport %s", cfg.Transport)
	}
}
