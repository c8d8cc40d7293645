package config

import "testing"

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(nil)}

	cfg, err := loader.Load(Config{LibraryPath: "/tmp/experiences.json"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("api url = %q", cfg.APIURL)
	}
	if cfg.WhisperPort != DefaultWhisperPort {
		t.Errorf("whisper port = %d", cfg.WhisperPort)
	}
	if cfg.WhisperHost != DefaultWhisperHost {
		t.Errorf("whisper host = %q", cfg.WhisperHost)
	}
}

func TestLoadOverrides(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(map[string]string{
		"MERIDIAN_API_URL":      "http://10.0.0.5:9100",
		"MERIDIAN_LIBRARY_PATH": "/data/lib.json",
		"MERIDIAN_WHISPER_PORT": "8100",
		"MERIDIAN_WHISPER_HOST": "127.0.0.1",
	})}

	cfg, err := loader.Load(Config{LibraryPath: "/tmp/experiences.json"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIURL != "http://10.0.0.5:9100" {
		t.Errorf("api url = %q", cfg.APIURL)
	}
	if cfg.LibraryPath != "/data/lib.json" {
		t.Errorf("library path = %q", cfg.LibraryPath)
	}
	if cfg.WhisperPort != 8100 {
		t.Errorf("whisper port = %d", cfg.WhisperPort)
	}
	if cfg.WhisperHost != "127.0.0.1" {
		t.Errorf("whisper host = %q", cfg.WhisperHost)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(map[string]string{"MERIDIAN_WHISPER_PORT": "not-a-port"})}
	if _, err := loader.Load(Config{LibraryPath: "/tmp/l.json"}); err == nil {
		t.Error("expected error for non-integer port")
	}

	loader = Loader{Lookup: lookupFrom(map[string]string{"MERIDIAN_WHISPER_PORT": "70000"})}
	if _, err := loader.Load(Config{LibraryPath: "/tmp/l.json"}); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestLoadRequiresLibraryPath(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(nil)}
	if _, err := loader.Load(Config{}); err == nil {
		t.Error("expected error for missing library path")
	}
}
