package instance

import "testing"

func TestGetIDPrefersEnv(t *testing.T) {
	t.Setenv(EnvInstanceID, "api-7")
	if got := GetID("api-0"); got != "api-7" {
		t.Fatalf("expected api-7 got %s", got)
	}
}

func TestGetIDFallsBack(t *testing.T) {
	t.Setenv(EnvInstanceID, "  ")
	if got := GetID("api-0"); got == "" {
		t.Fatalf("expected a non-empty id")
	}
}
