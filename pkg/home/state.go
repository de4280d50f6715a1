package home

import (
	"fmt"
	"slices"

	"github.com/carlos-arino/mcp-home-simulator/pkg/config"
)

// Presence is the presence detector record.
// Present always equals len(KnownPeople) > 0 after any mutation.
type Presence struct {
	Present     bool     `json:"present"`
	KnownPeople []string `json:"known_people"`
}

// Clone returns a copy of the record that shares no storage with p.
func (p Presence) Clone() Presence {
	return Presence{
		Present:     p.Present,
		KnownPeople: append([]string{}, p.KnownPeople...),
	}
}

// Snapshot is a fully materialized copy of the whole home.
type Snapshot struct {
	Lights   map[string]bool `json:"lights"`
	Alarm    bool            `json:"alarm"`
	Presence Presence        `json:"presence"`
}

// State is the in-memory home. Light membership is fixed at construction.
type State struct {
	// order keeps the configured light order for listings.
	order      []string
	lights     map[string]bool
	alarmArmed bool
	presence   Presence
}

// New builds a State from cfg: every light off, alarm and presence at their
// configured defaults. Present is derived from the configured people so the
// presence invariant holds from the start.
func New(cfg *config.Config) *State {
	s := &State{
		order:      append([]string{}, cfg.Lights...),
		lights:     make(map[string]bool, len(cfg.Lights)),
		alarmArmed: cfg.AlarmDefault,
	}
	for _, name := range cfg.Lights {
		s.lights[name] = false
	}
	s.setPeople(cfg.PresenceDefault.KnownPeople)
	return s
}

// --- Lights ---

// LightState reports whether the named light is on. ok is false when the
// name is not a configured light.
func (s *State) LightState(name string) (on bool, ok bool) {
	on, ok = s.lights[name]
	return on, ok
}

// SetLightState switches a light. It returns false, without mutating
// anything, when the name is not configured.
func (s *State) SetLightState(name string, on bool) bool {
	if _, ok := s.lights[name]; !ok {
		return false
	}
	s.lights[name] = on
	return true
}

// RequireLight returns ErrUnknownLight when name is not configured.
func (s *State) RequireLight(name string) error {
	if _, ok := s.lights[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLight, name)
	}
	return nil
}

// LightsOn lists the lights that are on, in configuration order.
func (s *State) LightsOn() []string {
	on := []string{}
	for _, name := range s.order {
		if s.lights[name] {
			on = append(on, name)
		}
	}
	return on
}

// LightNames lists every configured light in configuration order.
func (s *State) LightNames() []string {
	return append([]string{}, s.order...)
}

// Lights returns a snapshot of every light.
func (s *State) Lights() map[string]bool {
	out := make(map[string]bool, len(s.lights))
	for name, on := range s.lights {
		out[name] = on
	}
	return out
}

// --- Alarm ---

// AlarmStatus reports whether the alarm is armed.
func (s *State) AlarmStatus() bool {
	return s.alarmArmed
}

// SetAlarmState arms or disarms the alarm. It always succeeds.
func (s *State) SetAlarmState(armed bool) bool {
	s.alarmArmed = armed
	return true
}

// --- Presence ---

// Presence returns a copy of the presence record.
func (s *State) Presence() Presence {
	return s.presence.Clone()
}

// SetPresence replaces the known people wholesale. Duplicates in names are
// kept as given, unlike AddPerson. It always succeeds.
func (s *State) SetPresence(names []string) bool {
	s.setPeople(names)
	return true
}

// AddPerson appends name unless it is already known and marks the home as
// occupied. It always succeeds.
func (s *State) AddPerson(name string) bool {
	if !slices.Contains(s.presence.KnownPeople, name) {
		s.presence.KnownPeople = append(s.presence.KnownPeople, name)
	}
	s.presence.Present = true
	return true
}

// RemovePerson removes the first occurrence of name. It returns false, without
// mutating anything, when name is not known.
func (s *State) RemovePerson(name string) bool {
	i := slices.Index(s.presence.KnownPeople, name)
	if i < 0 {
		return false
	}
	s.setPeople(slices.Delete(s.presence.KnownPeople, i, i+1))
	return true
}

// ClearPresence forgets everybody. It always succeeds.
func (s *State) ClearPresence() bool {
	s.setPeople(nil)
	return true
}

func (s *State) setPeople(names []string) {
	s.presence.KnownPeople = append([]string{}, names...)
	s.presence.Present = len(s.presence.KnownPeople) > 0
}

// --- Whole home ---

// AllStates returns a snapshot combining lights, alarm and presence.
func (s *State) AllStates() Snapshot {
	return Snapshot{
		Lights:   s.Lights(),
		Alarm:    s.alarmArmed,
		Presence: s.Presence(),
	}
}
