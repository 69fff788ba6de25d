package leadchat

import "testing"

func TestIsContact(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"email", "escribime a juan@gmail.com", true},
		{"bare at sign", "@", true},
		{"phone 8 digits", "55512345", true},
		{"phone 11 digits", "55512345678", true},
		{"phone with country code glued", "mi cel es 59899123456", true},
		{"digits split by spaces", "555 123 45", false},
		{"seven digits only", "1234567", false},
		{"plain question", "¿Tiene piscina la casa?", false},
		{"empty", "", false},
		{"budget text with k", "unos 300k", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContact(tt.text); got != tt.want {
				t.Errorf("IsContact(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
