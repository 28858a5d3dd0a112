package k8s

import "testing"

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "echo_hello_world", want: "echo-hello-world"},
		{in: "/home/dev/example.py-12", want: "home-dev-example-py-12"},
		{in: `C:\src\task.go-7`, want: "C:-src-task-go-7"},
		{in: "__private__", want: "private"},
		{in: "already-safe", want: "already-safe"},
		{in: "", want: ""},
		{in: "-._/", want: ""},
	}
	for _, tt := range tests {
		got := SafeName(tt.in)
		if got != tt.want {
			t.Fatalf("SafeName(%q)=%q, want %q", tt.in, got, tt.want)
		}
		if again := SafeName(got); again != got {
			t.Fatalf("SafeName not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}
