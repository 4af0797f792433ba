package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tt.input), &out, "Remove?")
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "[y/N]") {
				t.Errorf("prompt missing [y/N]: %q", out.String())
			}
		})
	}
}

func TestConfirmRemoval_QuotesName(t *testing.T) {
	var out bytes.Buffer
	ConfirmRemoval(strings.NewReader("n\n"), &out, "Desk Lamp")
	if !strings.Contains(out.String(), `"Desk Lamp"`) {
		t.Errorf("prompt = %q, want quoted device name", out.String())
	}
}

func TestResult_Render(t *testing.T) {
	r := NewSuccessResult("Device toggled",
		Detail{Key: "Device", Value: "Lamp"},
		Detail{Key: "Status", Value: "ON"},
	).SetWidth(80)

	out := r.Render()
	for _, want := range []string{"SUCCESS", "Device toggled", "Lamp", "ON"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
	if strings.Index(out, "Lamp") > strings.Index(out, "ON") {
		t.Error("details rendered out of order")
	}
}

func TestResult_RenderFailure(t *testing.T) {
	r := NewFailureResult("Toggle failed", errors.New("boom"), []string{"Check the server"}).SetWidth(80)

	out := r.String()
	for _, want := range []string{"FAILED", "Toggle failed", "boom", "Troubleshooting:", "Check the server"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}

func TestPrinter_PrintHeader(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintHeader("Toggle Device", "homedash toggle 3", Detail{Key: "Server", Value: "http://localhost:8080"})

	out := buf.String()
	for _, want := range []string{"TOGGLE DEVICE", "homedash toggle 3", "http://localhost:8080"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintHeader() missing %q", want)
		}
	}
}
