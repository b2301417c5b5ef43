package session

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// State identifies which field the session is currently collecting.
type State string

const (
	StateTopology    State = "awaiting_topology"
	StateSignal      State = "awaiting_signal"
	StatePolarity    State = "awaiting_polarity"
	StateLocation    State = "awaiting_location"
	StateDescription State = "awaiting_description"
	StateTerminated  State = "terminated"
)

// Fields holds the values collected so far. A field is only ever set by the
// handler of its own state; transitions are strictly forward.
type Fields struct {
	Topology        string
	SignalMagnitude float64 // magnitude as typed, before polarity confirmation
	Signal          string  // finalized signed value, e.g. "-28.0 dBm"
	Location        string
	Description     string
	UsedVoice       bool
}

// Session is the per-chat diagnostic conversation. Callers hold the embedded
// mutex for the whole handler chain of one inbound event, so a chat never
// processes two events at once.
type Session struct {
	sync.Mutex

	ChatID int64
	State  State
	Fields Fields
}

// New creates a fresh session at the first collection step.
func New(chatID int64) *Session {
	return &Session{
		ChatID: chatID,
		State:  StateTopology,
	}
}

// Reply is the outcome of feeding one input to the session.
type Reply struct {
	Text    string
	Menu    []string // reply-keyboard options for the next step, if any
	Invalid bool     // input rejected, state and fields unchanged
	Done    bool     // description stored, session ready for diagnosis
}

// Submit feeds one text input to the current state and advances the machine.
// Only the signal step validates; everywhere else any non-empty text is
// accepted verbatim.
func (s *Session) Submit(input string) Reply {
	input = strings.TrimSpace(input)

	switch s.State {
	case StateTopology:
		if input == "" {
			return Reply{Text: promptTopology, Menu: MenuTopology, Invalid: true}
		}
		s.Fields.Topology = input
		s.State = StateSignal
		return Reply{Text: promptSignal}

	case StateSignal:
		v, err := parseSignal(input)
		if err != nil {
			return Reply{Text: msgInvalidSignal, Invalid: true}
		}
		s.Fields.SignalMagnitude = v
		s.State = StatePolarity
		return Reply{Text: promptPolarity, Menu: MenuPolarity}

	case StatePolarity:
		if input == "" {
			return Reply{Text: promptPolarity, Menu: MenuPolarity, Invalid: true}
		}
		// The chosen polarity forces the sign, regardless of any sign the
		// technician typed with the number.
		magnitude := math.Abs(s.Fields.SignalMagnitude)
		if isNegativeChoice(input) {
			magnitude = -magnitude
		}
		s.Fields.Signal = fmt.Sprintf("%.1f dBm", magnitude)
		s.State = StateLocation
		return Reply{Text: promptLocation, Menu: MenuLocation}

	case StateLocation:
		if input == "" {
			return Reply{Text: promptLocation, Menu: MenuLocation, Invalid: true}
		}
		s.Fields.Location = input
		s.State = StateDescription
		return Reply{Text: promptDescription}

	case StateDescription:
		if input == "" {
			return Reply{Text: promptDescription, Invalid: true}
		}
		s.Fields.Description = input
		s.State = StateTerminated
		return Reply{Done: true}
	}

	return Reply{Text: MsgNoActiveSession, Invalid: true}
}

// SubmitVoice feeds a transcribed voice description. Voice input is only
// meaningful at the description step; anywhere else it re-prompts the
// current state.
func (s *Session) SubmitVoice(text string) Reply {
	if s.State != StateDescription {
		r := s.Submit("")
		r.Text = msgVoiceNotExpected + "\n\n" + r.Text
		return r
	}
	s.Fields.UsedVoice = true
	return s.Submit(text)
}

// Cancel clears every collected field and terminates the session. No adapter
// is contacted on this path.
func (s *Session) Cancel() {
	s.Fields = Fields{}
	s.State = StateTerminated
}

// Clear drops the collected fields once the closing response has been sent.
func (s *Session) Clear() {
	s.Fields = Fields{}
}

// Dossier assembles the single user message for the completion adapter from
// all collected fields, each value verbatim.
func (s *Session) Dossier() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topologia da rede: %s\n", s.Fields.Topology)
	fmt.Fprintf(&b, "Potência medida: %s\n", s.Fields.Signal)
	fmt.Fprintf(&b, "Local da medição: %s\n", s.Fields.Location)
	fmt.Fprintf(&b, "Relato do técnico: %s", s.Fields.Description)
	return b.String()
}

// parseSignal accepts a decimal number after normalizing a comma decimal
// separator to a period.
func parseSignal(input string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	return strconv.ParseFloat(normalized, 64)
}

// isNegativeChoice reports whether a free-text polarity choice carries the
// negative marker.
func isNegativeChoice(input string) bool {
	lower := strings.ToLower(input)
	return strings.Contains(lower, "-") || strings.Contains(lower, "negativ")
}
