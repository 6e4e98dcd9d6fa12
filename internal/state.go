package internal

import (
	"fmt"

	"github.com/dmitrymomot/consent/pkg/record"
)

// Phase is the decision state of the controller.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhasePrompting
	PhaseDecided
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhasePrompting:
		return "prompting"
	case PhaseDecided:
		return "decided"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is the in-memory consent state. It is a value: every transition
// produces a new State and never mutates the previous one.
type State struct {
	// Categories are the current flags, including uncommitted toggles.
	Categories record.Categories
	// Committed are the flags of the last decision, or defaults when undecided.
	Committed record.Categories

	Phase               Phase
	ShowBanner          bool
	SettingsOpen        bool
	ConsentGiven        bool
	NonEssentialAllowed bool
}

// ActionKind identifies a transition.
type ActionKind int

const (
	ActionInitialize ActionKind = iota + 1
	ActionAcceptAll
	ActionRejectAll
	ActionOpenSettings
	ActionCloseSettings
	ActionToggleCategory
	ActionSaveSettings
	ActionReset
)

func (k ActionKind) String() string {
	switch k {
	case ActionInitialize:
		return "initialize"
	case ActionAcceptAll:
		return "accept_all"
	case ActionRejectAll:
		return "reject_all"
	case ActionOpenSettings:
		return "open_settings"
	case ActionCloseSettings:
		return "close_settings"
	case ActionToggleCategory:
		return "toggle_category"
	case ActionSaveSettings:
		return "save_settings"
	case ActionReset:
		return "reset"
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Action is an input of the reducer.
type Action struct {
	// Record is the stored decision for ActionInitialize, nil if none.
	Record *record.Record
	// Category is the target of ActionToggleCategory.
	Category record.Category
	Kind     ActionKind
}

// Reduce applies action a to state s. It has no side effects; on error the
// returned state equals s.
func Reduce(s State, a Action) (State, error) {
	// Essential is never togglable, in any state.
	if a.Kind == ActionToggleCategory && a.Category == record.Essential {
		return s, nil
	}

	if a.Kind == ActionInitialize {
		if s.Phase != PhaseUninitialized {
			return s, ErrAlreadyAttached
		}
		return initialize(s, a.Record), nil
	}

	if s.Phase == PhaseUninitialized {
		return s, ErrNotAttached
	}

	switch a.Kind {
	case ActionAcceptAll:
		if s.Phase != PhasePrompting {
			return s, invalid(s, a)
		}
		return decide(s, record.AllGranted()), nil

	case ActionRejectAll:
		if s.Phase != PhasePrompting {
			return s, invalid(s, a)
		}
		return decide(s, record.Defaults()), nil

	case ActionOpenSettings:
		s.SettingsOpen = true
		return s, nil

	case ActionCloseSettings:
		if !s.SettingsOpen {
			return s, invalid(s, a)
		}
		s.SettingsOpen = false
		s.Categories = s.Committed
		return s, nil

	case ActionToggleCategory:
		if !a.Category.IsValid() {
			return s, fmt.Errorf("%w: %q", ErrUnknownCategory, a.Category)
		}
		if !s.SettingsOpen {
			return s, invalid(s, a)
		}
		s.Categories = s.Categories.With(a.Category, !s.Categories.Enabled(a.Category))
		return s, nil

	case ActionSaveSettings:
		if !s.SettingsOpen {
			return s, invalid(s, a)
		}
		return decide(s, s.Categories), nil

	case ActionReset:
		return prompting(s), nil
	}

	return s, invalid(s, a)
}

func initialize(s State, rec *record.Record) State {
	if rec == nil {
		return prompting(s)
	}
	c := rec.EffectiveCategories()
	s.Phase = PhaseDecided
	s.Categories = c
	s.Committed = c
	s.ShowBanner = false
	s.SettingsOpen = false
	s.ConsentGiven = true
	s.NonEssentialAllowed = rec.Accepted
	return s
}

func prompting(s State) State {
	s.Phase = PhasePrompting
	s.Categories = record.Defaults()
	s.Committed = record.Defaults()
	s.ShowBanner = true
	s.SettingsOpen = false
	s.ConsentGiven = false
	s.NonEssentialAllowed = false
	return s
}

// decide commits c as the visitor's decision and closes every prompt.
func decide(s State, c record.Categories) State {
	c.Essential = true
	s.Phase = PhaseDecided
	s.Categories = c
	s.Committed = c
	s.ShowBanner = false
	s.SettingsOpen = false
	s.ConsentGiven = true
	s.NonEssentialAllowed = c.AnyOptional()
	return s
}

func invalid(s State, a Action) error {
	return fmt.Errorf("%w: %s in %s (settings open: %t)", ErrInvalidTransition, a.Kind, s.Phase, s.SettingsOpen)
}
