package dashboard

import "testing"

func opts(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name         string
		initial      []string
		selected     string
		next         []string
		wantRebuilt  bool
		wantSelected string
	}{
		{"identical keeps everything", []string{"a", "b"}, "b", []string{"a", "b"}, false, "b"},
		{"added option keeps selection", []string{"a", "b"}, "b", []string{"a", "b", "c"}, true, "b"},
		{"removed selection resets", []string{"a", "b"}, "b", []string{"a", "c"}, true, ""},
		{"reordered rebuilds", []string{"a", "b"}, "a", []string{"b", "a"}, true, "a"},
		{"placeholder stays placeholder", []string{"a"}, "", []string{"a", "b"}, true, ""},
		{"empty to empty", nil, "", nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelect("Pick...", opts(tt.initial...)...)
			s.Value = tt.selected

			got := Reconcile(s, opts(tt.next...))
			if got != tt.wantRebuilt {
				t.Errorf("Reconcile() = %v, want %v", got, tt.wantRebuilt)
			}
			wantRebuilds := 0
			if tt.wantRebuilt {
				wantRebuilds = 1
			}
			if s.Rebuilds != wantRebuilds {
				t.Errorf("Rebuilds = %d, want %d", s.Rebuilds, wantRebuilds)
			}
			if s.Value != tt.wantSelected {
				t.Errorf("Value = %q, want %q", s.Value, tt.wantSelected)
			}
		})
	}
}

func TestReconcileIgnoresLabels(t *testing.T) {
	s := NewSelect("Pick...", Option{Value: "L1", Label: "Lamp (Hall)"})
	if Reconcile(s, []Option{{Value: "L1", Label: "Lamp (Kitchen)"}}) {
		t.Error("label-only change should not rebuild")
	}
	if s.Options[0].Label != "Lamp (Hall)" {
		t.Errorf("label = %q, want the label from the first list", s.Options[0].Label)
	}
}

func TestReconcileCopiesOptions(t *testing.T) {
	next := opts("a", "b")
	s := NewSelect("Pick...")
	Reconcile(s, next)
	next[0].Value = "mutated"
	if s.Options[0].Value != "a" {
		t.Error("Reconcile must not alias the caller's slice")
	}
}

func TestSelectStep(t *testing.T) {
	s := NewSelect("Pick...", opts("a", "b")...)

	s.Step(1)
	if s.Value != "a" {
		t.Errorf("after Step(1) Value = %q, want a", s.Value)
	}
	s.Step(2)
	if s.Value != "" {
		t.Errorf("Step should wrap to the placeholder, got %q", s.Value)
	}
	s.Step(-1)
	if s.Value != "b" {
		t.Errorf("Step(-1) from placeholder = %q, want b", s.Value)
	}
}

func TestSelectChooseAndSelected(t *testing.T) {
	s := NewSelect("Pick...", opts("a")...)

	if s.Choose("zzz") {
		t.Error("Choose should reject unknown values")
	}
	if _, ok := s.Selected(); ok {
		t.Error("placeholder should report no selection")
	}
	if !s.Choose("a") {
		t.Fatal("Choose(a) = false")
	}
	if o, ok := s.Selected(); !ok || o.Value != "a" {
		t.Errorf("Selected() = %+v, %v", o, ok)
	}
	s.Reset()
	if s.Value != "" {
		t.Errorf("Reset left %q", s.Value)
	}
}
