package infra

import "testing"

func TestCallerFromClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
		want   Caller
	}{
		{"no claims", nil, Caller{UID: "u1", Role: "customer"}},
		{"email and role", map[string]interface{}{"email": "a@b.ph", "role": "rider"}, Caller{UID: "u1", Email: "a@b.ph", Role: "rider"}},
		{"empty role ignored", map[string]interface{}{"role": ""}, Caller{UID: "u1", Role: "customer"}},
		{"wrong type ignored", map[string]interface{}{"role": 3}, Caller{UID: "u1", Role: "customer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callerFromClaims("u1", tt.claims); *got != tt.want {
				t.Errorf("callerFromClaims() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}
