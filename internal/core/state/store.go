// Package state holds the client-side state tree: the last opened meeting and
// the current feature config. Each slice is a reducer that only reacts to its
// own action kind.
package state

import (
	"sync"

	"github.com/Wyydra/meet/internal/core/domain"
)

const actionPrefix = "gmeet"

type ActionKind string

const (
	ActionOpenMeeting    ActionKind = actionPrefix + "_open_meeting"
	ActionConfigReceived ActionKind = actionPrefix + "_config_received"
)

type Action struct {
	Kind ActionKind
	Data any
}

func OpenMeeting(msg *domain.Message) Action {
	return Action{Kind: ActionOpenMeeting, Data: msg}
}

func ConfigReceived(cfg domain.FeatureConfig) Action {
	return Action{Kind: ActionConfigReceived, Data: cfg}
}

type State struct {
	OpenMeeting *domain.Message
	Config      domain.FeatureConfig
}

func initialState() State {
	return State{Config: domain.FeatureConfig{}}
}

func reduceOpenMeeting(state *domain.Message, action Action) *domain.Message {
	switch action.Kind {
	case ActionOpenMeeting:
		msg, _ := action.Data.(*domain.Message)
		return msg
	default:
		return state
	}
}

func reduceConfig(state domain.FeatureConfig, action Action) domain.FeatureConfig {
	switch action.Kind {
	case ActionConfigReceived:
		cfg, _ := action.Data.(domain.FeatureConfig)
		return cfg.Clone()
	default:
		return state
	}
}

// Reduce applies action to every slice independently.
func Reduce(s State, action Action) State {
	return State{
		OpenMeeting: reduceOpenMeeting(s.OpenMeeting, action),
		Config:      reduceConfig(s.Config, action),
	}
}

// Store serialises dispatches so slices are never written concurrently.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners []func(State)
}

func NewStore() *Store {
	return &Store{state: initialState()}
}

func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := State{OpenMeeting: s.state.OpenMeeting, Config: s.state.Config.Clone()}
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	if action.Kind != ActionOpenMeeting && action.Kind != ActionConfigReceived {
		return
	}
	for _, l := range listeners {
		l(next)
	}
}

// Subscribe registers l to run after every recognised action.
func (s *Store) Subscribe(l func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{OpenMeeting: s.state.OpenMeeting, Config: s.state.Config.Clone()}
}

func (s *Store) OpenMeeting() *domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.OpenMeeting
}

func (s *Store) Config() domain.FeatureConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Config.Clone()
}
