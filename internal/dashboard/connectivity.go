package dashboard

// Connectivity is the connection indicator state.
type Connectivity int

const (
	// Unknown is shown until the first fetch completes.
	Unknown Connectivity = iota
	Connected
	Disconnected
)

func (c Connectivity) String() string {
	switch c {
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// Label is the indicator text.
func (c Connectivity) Label() string {
	switch c {
	case Connected:
		return "Live Connected"
	case Disconnected:
		return "Disconnected"
	default:
		return "Connecting..."
	}
}

// Sequencer numbers requests and keeps the highest number applied, so a
// response that arrives after a newer one has been applied is discarded.
type Sequencer struct {
	issued  uint64
	applied uint64
}

// Next returns the number for a new request.
func (s *Sequencer) Next() uint64 {
	s.issued++
	return s.issued
}

// Accept records seq as applied and reports true if it is newer than every
// response applied so far.
func (s *Sequencer) Accept(seq uint64) bool {
	if seq <= s.applied {
		return false
	}
	s.applied = seq
	return true
}

// Invalidate marks every request issued so far as superseded.
func (s *Sequencer) Invalidate() {
	s.applied = s.issued
}

// Issued returns the most recent number handed out.
func (s *Sequencer) Issued() uint64 { return s.issued }

// Applied returns the highest number accepted.
func (s *Sequencer) Applied() uint64 { return s.applied }
