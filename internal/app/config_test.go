package app

import (
	"os"
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		defValue string
		want     string
	}{
		{
			name:     "env set",
			envKey:   "TEST_ENV_VAR",
			envValue: "custom_value",
			defValue: "default",
			want:     "custom_value",
		},
		{
			name:     "env not set",
			envKey:   "TEST_ENV_VAR_NOTSET",
			envValue: "",
			defValue: "default",
			want:     "default",
		},
		{
			name:     "empty default",
			envKey:   "TEST_ENV_VAR_EMPTY",
			envValue: "",
			defValue: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.envKey, tt.envValue)
				defer os.Unsetenv(tt.envKey)
			}

			got := getenv(tt.envKey, tt.defValue)
			if got != tt.want {
				t.Errorf("getenv(%q, %q) = %q, want %q", tt.envKey, tt.defValue, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "both secrets present",
			cfg:     Config{TelegramToken: "tg", GroqAPIKey: "groq"},
			wantErr: false,
		},
		{
			name:    "missing telegram token",
			cfg:     Config{GroqAPIKey: "groq"},
			wantErr: true,
		},
		{
			name:    "missing groq key",
			cfg:     Config{TelegramToken: "tg"},
			wantErr: true,
		},
		{
			name:    "missing both",
			cfg:     Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("GROQ_API_KEY", "groq")

	cfg := LoadConfigFromEnv()

	if cfg.GroqModel != "llama-3.3-70b-versatile" {
		t.Errorf("GroqModel = %q", cfg.GroqModel)
	}
	if cfg.WhisperModel != "whisper-large-v3" {
		t.Errorf("WhisperModel = %q", cfg.WhisperModel)
	}
	if cfg.TTSVoice != "pt-BR-AntonioNeural" {
		t.Errorf("TTSVoice = %q", cfg.TTSVoice)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.PollTimeout != 30*time.Second {
		t.Errorf("PollTimeout = %v", cfg.PollTimeout)
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := LoadConfigFromEnv()
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want the 30m fallback", cfg.SessionTTL)
	}
}
