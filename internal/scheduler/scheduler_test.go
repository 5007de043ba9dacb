package scheduler

import "testing"

func TestCronSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:00", "0 9 * * *", false},
		{"18:30", "30 18 * * *", false},
		{"0:05", "5 0 * * *", false},
		{"24:00", "", true},
		{"09:60", "", true},
		{"morning", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := cronSpec(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("cronSpec(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("cronSpec(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("cronSpec(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
