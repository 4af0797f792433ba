package dashboard

// Option is one entry of a selector. Value is the selection key.
type Option struct {
	Value string
	Label string
}

// Select is a dropdown. An empty Value means the placeholder is selected.
type Select struct {
	Placeholder string
	Options     []Option
	Value       string

	// Rebuilds counts how many times Reconcile replaced the option list.
	Rebuilds int
}

// NewSelect returns a selector with static options.
func NewSelect(placeholder string, options ...Option) *Select {
	return &Select{Placeholder: placeholder, Options: options}
}

// Values returns the option values in order, placeholder excluded.
func (s *Select) Values() []string {
	out := make([]string, len(s.Options))
	for i, o := range s.Options {
		out[i] = o.Value
	}
	return out
}

// Selected returns the selected option, or false when the placeholder is shown.
func (s *Select) Selected() (Option, bool) {
	if s.Value == "" {
		return Option{}, false
	}
	for _, o := range s.Options {
		if o.Value == s.Value {
			return o, true
		}
	}
	return Option{}, false
}

// Choose selects value if it is one of the options.
func (s *Select) Choose(value string) bool {
	if value == "" {
		s.Value = ""
		return true
	}
	for _, o := range s.Options {
		if o.Value == value {
			s.Value = value
			return true
		}
	}
	return false
}

// Step moves the selection by delta positions. Position zero is the
// placeholder; stepping wraps around.
func (s *Select) Step(delta int) {
	n := len(s.Options) + 1
	pos := 0
	for i, o := range s.Options {
		if o.Value == s.Value {
			pos = i + 1
			break
		}
	}
	pos = ((pos+delta)%n + n) % n
	if pos == 0 {
		s.Value = ""
		return
	}
	s.Value = s.Options[pos-1].Value
}

// Reset selects the placeholder.
func (s *Select) Reset() {
	s.Value = ""
}

// Reconcile updates s to offer next. When the ordered values are unchanged
// nothing happens and false is returned, so an open selector is not
// disturbed mid-interaction. Otherwise the list is rebuilt once and the
// previous selection is kept if it is still offered.
//
// Labels are not compared: a rename alone does not rebuild.
func Reconcile(s *Select, next []Option) bool {
	if sameValues(s.Options, next) {
		return false
	}

	prev := s.Value
	s.Options = append([]Option(nil), next...)
	s.Value = ""
	s.Rebuilds++
	if prev != "" {
		s.Choose(prev)
	}
	return true
}

func sameValues(a, b []Option) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Value != b[i].Value {
			return false
		}
	}
	return true
}
