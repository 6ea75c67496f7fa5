package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Oracle.Provider != "ollama" {
		t.Errorf("default provider = %q", cfg.Oracle.Provider)
	}
	if cfg.Oracle.Model != "llama3.2:3b" {
		t.Errorf("default model = %q", cfg.Oracle.Model)
	}
	if cfg.Analysis.MaxChunkChars != 30000 {
		t.Errorf("default max chunk chars = %d", cfg.Analysis.MaxChunkChars)
	}
	if cfg.Citation.Threshold != 0.7 {
		t.Errorf("default citation threshold = %v", cfg.Citation.Threshold)
	}
	if cfg.Oracle.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected API key placeholder")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ResolveAPIKey(t *testing.T) {
	os.Setenv("TEST_ORACLE_KEY", "key-123")
	defer os.Unsetenv("TEST_ORACLE_KEY")

	cfg := DefaultConfig()
	cfg.Oracle.APIKey = "${TEST_ORACLE_KEY}"

	if got := cfg.ResolveAPIKey(); got != "key-123" {
		t.Errorf("expected key-123, got %s", got)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
oracle:
  provider: openai
  model: gpt-4o-mini
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Oracle.Provider != "openai" {
			t.Errorf("provider = %q, want openai", cfg.Oracle.Provider)
		}
		if cfg.Oracle.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", cfg.Oracle.Model)
		}
		// Untouched sections keep defaults.
		if cfg.Analysis.MaxRetries != 2 {
			t.Errorf("max retries = %d, want default 2", cfg.Analysis.MaxRetries)
		}
	})

	t.Run("independent managers do not share state", func(t *testing.T) {
		tmpDir := t.TempDir()
		fileA := filepath.Join(tmpDir, "a.yaml")
		fileB := filepath.Join(tmpDir, "b.yaml")

		if err := os.WriteFile(fileA, []byte("oracle:\n  model: model-a\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fileB, []byte("oracle:\n  model: model-b\n"), 0644); err != nil {
			t.Fatal(err)
		}

		a, err := NewManager(fileA)
		if err != nil {
			t.Fatal(err)
		}
		b, err := NewManager(fileB)
		if err != nil {
			t.Fatal(err)
		}

		if a.Get().Oracle.Model != "model-a" || b.Get().Oracle.Model != "model-b" {
			t.Errorf("models = %q / %q", a.Get().Oracle.Model, b.Get().Oracle.Model)
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("logging:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("logging:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Logging.Level
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("oracle:\n  model: initial-model\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if got := mgr.Get().Oracle.Model; got != "initial-model" {
		t.Errorf("initial model = %q", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Oracle.Model)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("oracle:\n  model: updated-model\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// Wait for the watcher to detect the change (fsnotify is async)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}

	if got := mgr.Get().Oracle.Model; got != "updated-model" {
		t.Errorf("config not updated: got %q", got)
	}
	if v := lastValue.Load(); v != "updated-model" {
		t.Errorf("callback received wrong value: %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written default does not load: %v", err)
	}
	if mgr.Get().Oracle.Provider != "ollama" {
		t.Errorf("provider = %q", mgr.Get().Oracle.Provider)
	}
}
