// Package app provides application state, render modes, events and file
// watching. It has no UI dependencies so headless tools can share it.
package app

import (
	"fmt"
	"sync"

	"weave-studio/internal/config"
	"weave-studio/internal/params"
)

// Mode selects which renderer draws the canvas.
type Mode int

const (
	ModeLines Mode = iota
	ModeRibbons
	ModeScene
)

// Modes lists the render modes in menu order.
func Modes() []Mode {
	return []Mode{ModeLines, ModeRibbons, ModeScene}
}

func (m Mode) String() string {
	switch m {
	case ModeLines:
		return "lines"
	case ModeRibbons:
		return "ribbons"
	case ModeScene:
		return "scene"
	default:
		return "unknown"
	}
}

// Label is the menu text for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeRibbons:
		return "Ribbons"
	case ModeScene:
		return "3D Scene"
	default:
		return "Lines"
	}
}

// ParseMode parses a mode name; the empty string means ModeLines.
func ParseMode(s string) (Mode, error) {
	name, err := config.NormalizeMode(s)
	if err != nil {
		return ModeLines, err
	}
	switch name {
	case "ribbons":
		return ModeRibbons, nil
	case "scene":
		return ModeScene, nil
	default:
		return ModeLines, nil
	}
}

// State holds the current render parameters, the render mode and the loaded
// configuration. The config watcher updates it from its own goroutine.
type State struct {
	mu sync.RWMutex

	params params.Params
	mode   Mode
	config *config.Config

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventParamsChanged EventType = iota
	EventModeChanged
	EventConfigChanged
	EventViewReset
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates the application state from cfg. A nil cfg uses the
// built-in configuration.
func NewState(cfg *config.Config) *State {
	if cfg == nil {
		cfg = config.Default()
	}
	mode, _ := ParseMode(cfg.Defaults.Mode)
	return &State{
		params:    cfg.Params(),
		mode:      mode,
		config:    cfg,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Params returns a copy of the current parameters.
func (s *State) Params() params.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// SetParams clamps p and stores it. EventParamsChanged is emitted with the
// stored value only when it differs from the previous one.
func (s *State) SetParams(p params.Params) bool {
	return s.Update(func(params.Params) params.Params { return p })
}

// Update applies fn to the current parameters and stores the clamped result
// in one step, so concurrent updates are never lost. fn runs under the state
// lock and must not call back into State.
func (s *State) Update(fn func(params.Params) params.Params) bool {
	s.mu.Lock()
	p := fn(s.params).Clamp()
	if p == s.params {
		s.mu.Unlock()
		return false
	}
	s.params = p
	s.mu.Unlock()

	s.Emit(EventParamsChanged, p)
	return true
}

// Mode returns the current render mode.
func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode switches the render mode and emits EventModeChanged on change.
func (s *State) SetMode(m Mode) {
	s.mu.Lock()
	if m == s.mode {
		s.mu.Unlock()
		return
	}
	s.mode = m
	s.mu.Unlock()

	s.Emit(EventModeChanged, m)
}

// ResetView restores the default zoom and clears the pan offset.
func (s *State) ResetView() {
	s.mu.RLock()
	zoom := s.config.Params().Zoom
	s.mu.RUnlock()

	s.Update(func(p params.Params) params.Params {
		return p.WithZoom(zoom).WithPan(0, 0)
	})
	s.Emit(EventViewReset, nil)
}

// Config returns the loaded configuration.
func (s *State) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// SetConfig installs a reloaded configuration. The interlacing rules take
// effect immediately and are stored together with the config; the other
// defaults only apply at startup.
func (s *State) SetConfig(cfg *config.Config) {
	s.mu.Lock()
	s.config = cfg
	p := s.params.WithRules(cfg.Rules.Weave()).Clamp()
	changed := p != s.params
	s.params = p
	s.mu.Unlock()

	s.Emit(EventConfigChanged, cfg)
	if changed {
		s.Emit(EventParamsChanged, p)
	}
}

// ApplyPreset sets the weft and warp colors from the named preset.
func (s *State) ApplyPreset(name string) error {
	preset, ok := s.Config().Preset(name)
	if !ok {
		return fmt.Errorf("unknown color preset %q", name)
	}
	weft, warp, err := preset.Colors()
	if err != nil {
		return err
	}
	s.Update(func(p params.Params) params.Params {
		return p.WithColors(weft, warp)
	})
	return nil
}
