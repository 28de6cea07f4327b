package infra

import "testing"

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		logger, err := NewLogger(env)
		if err != nil {
			t.Fatalf("NewLogger(%q) error = %v", env, err)
		}
		logger.Info("ok")
	}
}
