// internal/app/system/timeouts/timeouts_test.go

package timeouts

import (
	"testing"
	"time"
)

func TestDefaultsAndEnvOverride(t *testing.T) {
	if got := Ping(); got != DefaultPing {
		t.Errorf("Ping() = %v, want %v", got, DefaultPing)
	}
	if got := Medium(); got != DefaultMedium {
		t.Errorf("Medium() = %v, want %v", got, DefaultMedium)
	}

	t.Setenv("TIMEOUT_SHORT", "7s")
	t.Setenv("TIMEOUT_LONG", "not-a-duration")

	if n := ConfigureFromEnv(); n != 1 {
		t.Errorf("ConfigureFromEnv() = %d, want 1", n)
	}
	if got := Short(); got != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", got)
	}
	if got := Long(); got != DefaultLong {
		t.Errorf("Long() = %v after invalid override, want %v", got, DefaultLong)
	}

	t.Setenv("TIMEOUT_SHORT", DefaultShort.String())
	ConfigureFromEnv()
}

func TestEnvOverrideRejectsNonPositive(t *testing.T) {
	t.Setenv("TIMEOUT_MEDIUM", "-3s")
	if n := ConfigureFromEnv(); n != 0 {
		t.Errorf("ConfigureFromEnv() = %d, want 0", n)
	}
	if got := Medium(); got != DefaultMedium {
		t.Errorf("Medium() = %v, want %v", got, DefaultMedium)
	}
}
