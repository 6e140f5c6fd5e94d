package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func resetRuntime(t *testing.T) {
	t.Helper()
	ListenAddr = ServerListenAddr
	RedisAddr = DefaultRedisAddr
	RedisPassword = ""
	AuthToken = ""
	NoAuthBypass = false
	AnswerDelayMin = DefaultAnswerDelayMin
	AnswerDelayMax = DefaultAnswerDelayMax
	MaxUploadBytes = DefaultMaxUploadBytes
	t.Cleanup(func() {
		ListenAddr = ServerListenAddr
		RedisAddr = DefaultRedisAddr
		AuthToken = ""
		NoAuthBypass = false
		AnswerDelayMin = DefaultAnswerDelayMin
		AnswerDelayMax = DefaultAnswerDelayMax
		MaxUploadBytes = DefaultMaxUploadBytes
	})
}

func TestLoad_FileThenEnv(t *testing.T) {
	resetRuntime(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "docchat.toml")
	content := `
[server]
listen_addr = ":4000"

[auth]
token = "file-token"

[redis]
addr = "redis:6379"

[answer]
delay_min_ms = 10
delay_max_ms = 20
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("AUTH_TOKEN", "env-token")

	if err := Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if ListenAddr != ":4000" {
		t.Errorf("ListenAddr = %q, want :4000", ListenAddr)
	}
	if AuthToken != "env-token" {
		t.Errorf("AuthToken = %q, want env override", AuthToken)
	}
	if RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %q", RedisAddr)
	}
	if AnswerDelayMin != 10*time.Millisecond || AnswerDelayMax != 20*time.Millisecond {
		t.Errorf("delay bounds = %v..%v", AnswerDelayMin, AnswerDelayMax)
	}
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	resetRuntime(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))

	if err := Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ListenAddr != ServerListenAddr {
		t.Errorf("ListenAddr = %q, want default", ListenAddr)
	}
	if AnswerDelayMin != DefaultAnswerDelayMin {
		t.Errorf("AnswerDelayMin = %v, want default", AnswerDelayMin)
	}
}

func TestLoad_RejectsInvertedDelay(t *testing.T) {
	resetRuntime(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("ANSWER_DELAY_MIN_MS", "500")
	t.Setenv("ANSWER_DELAY_MAX_MS", "100")

	if err := Load(); err == nil {
		t.Error("expected error for max below min")
	}
}
