package types

import "testing"

func TestMoney_String(t *testing.T) {
	tests := []struct {
		name string
		m    Money
		want string
	}{
		{name: "peso", m: Money{Amount: 150, Currency: CurrencyPHP}, want: "₱150.00"},
		{name: "no currency", m: Money{Amount: 97.5}, want: "₱97.50"},
		{name: "other currency", m: Money{Amount: 1.234, Currency: "USD"}, want: "1.23 USD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPoint_Valid(t *testing.T) {
	if !(Point{Lat: 15.3062, Lng: 120.8573}).Valid() {
		t.Error("expected valid point")
	}
	if (Point{Lat: 91, Lng: 0}).Valid() {
		t.Error("expected latitude out of range to be invalid")
	}
	if (Point{Lat: 0, Lng: -181}).Valid() {
		t.Error("expected longitude out of range to be invalid")
	}
}
