package service

import (
	"context"
	"sync"

	"github.com/Wyydra/meet/internal/core/domain"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	calls []domain.Message
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, msg domain.Message) (domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msg)
	if f.err != nil {
		return domain.Message{}, f.err
	}
	msg.ID = domain.NewMessageID()
	return msg, nil
}

type fakeConfigSource struct {
	mu      sync.Mutex
	results []configResult
	calls   int
}

type configResult struct {
	cfg domain.FeatureConfig
	err error
}

func (f *fakeConfigSource) FetchConfig(context.Context) (domain.FeatureConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.results) == 0 {
		return domain.FeatureConfig{}, nil
	}
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r.cfg, r.err
}

func (f *fakeConfigSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRepo struct {
	mu       sync.Mutex
	messages []domain.Message
	configs  map[domain.UserID]domain.UserConfig
	saveErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{configs: map[domain.UserID]domain.UserConfig{}}
}

func (r *fakeRepo) Save(_ context.Context, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id domain.MessageID) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Message{}, domain.ErrNotFound
}

func (r *fakeRepo) ListByChannel(_ context.Context, channelID domain.ChannelID, limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeRepo) GetUserConfig(_ context.Context, userID domain.UserID) (domain.UserConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[userID]
	if !ok {
		return domain.UserConfig{}, domain.ErrNotFound
	}
	return cfg, nil
}

func (r *fakeRepo) SaveUserConfig(_ context.Context, userID domain.UserID, cfg domain.UserConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.configs[userID] = cfg
	return nil
}

type fakeGateway struct {
	mu        sync.Mutex
	broadcast []domain.Message
	events    []domain.Event
	err       error
}

func (g *fakeGateway) BroadcastMessage(_ context.Context, msg domain.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcast = append(g.broadcast, msg)
	return g.err
}

func (g *fakeGateway) PublishEvent(_ context.Context, event domain.Event) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event)
	return g.err
}
