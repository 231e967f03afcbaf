package main

import "testing"

func TestEnvFileArg(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ".env"},
		{[]string{"-listen", ":1"}, ".env"},
		{[]string{"-env", "prod.env"}, "prod.env"},
		{[]string{"-listen", ":1", "--env=dev.env"}, "dev.env"},
		{[]string{"-environment", "x"}, ".env"},
	}
	for _, tt := range tests {
		if got := envFileArg(tt.args); got != tt.want {
			t.Errorf("envFileArg(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
