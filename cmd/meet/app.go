package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Wyydra/meet/internal/adapter/driven/api"
	"github.com/Wyydra/meet/internal/adapter/driving/terminal"
	"github.com/Wyydra/meet/internal/config"
	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/core/port"
	"github.com/Wyydra/meet/internal/core/service"
	"github.com/Wyydra/meet/internal/core/state"
	"github.com/Wyydra/meet/internal/i18n"
	"github.com/Wyydra/meet/internal/render"
	"github.com/rs/zerolog/log"
)

const feedLimit = 50

var errUnknownCommand = errors.New("unknown command")

// app is the client host: it owns the store, registers the meeting renderer
// and wires the core services to the server API.
type app struct {
	cfg       config.Client
	out       io.Writer
	api       *api.Client
	events    func(channelID domain.ChannelID) port.EventSource
	store     *state.Store
	localizer *i18n.Localizer
	registry  *render.Registry
	view      *terminal.View
}

func newApp(cfg config.Client, out io.Writer) *app {
	userID := domain.UserID(cfg.UserID)

	localizer := i18n.MustLoadEmbedded().Localizer(cfg.Locale)
	registry := render.NewRegistry()
	registry.Register(domain.PostTypeMeeting, render.NewRenderer(localizer))

	return &app{
		cfg: cfg,
		out: out,
		api: api.NewClient(cfg.ServerURL, userID),
		events: func(channelID domain.ChannelID) port.EventSource {
			return api.NewEventStream(cfg.ServerURL, userID, channelID)
		},
		store:     state.NewStore(),
		localizer: localizer,
		registry:  registry,
		view:      terminal.NewView(out),
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	var err error
	switch cmd {
	case "start":
		err = a.start(ctx, args)
	case "watch":
		err = a.watch(ctx, args)
	case "config":
		err = a.config(ctx, args)
	case "open":
		err = a.open(ctx, args)
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, cmd)
	}
	if api.IsUnauthorized(err) {
		return fmt.Errorf("%w (set MEET_USER_ID to your user id)", err)
	}
	return err
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *app) start(ctx context.Context, args []string) error {
	fs := a.flagSet("start")
	channelID := fs.String("channel-id", "", "channel to post the meeting in")
	channelName := fs.String("channel", "", "channel name used to derive the meeting name")
	channelType := fs.String("channel-type", "", "channel type: O, P, D (direct) or G (group)")
	teamName := fs.String("team", "", "team name used to derive the meeting name")
	onServer := fs.Bool("server", false, "let the server name the meeting with your naming scheme")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s\n\nusage: meet start [flags]\n", a.localizer.T(i18n.KeyHeaderLabel))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	channel := domain.Channel{
		ID:   domain.ChannelID(*channelID),
		Name: *channelName,
		Type: domain.ChannelType(*channelType),
	}
	team := domain.Team{Name: *teamName}

	var (
		post domain.Message
		err  error
	)
	if *onServer {
		_, post, err = a.api.StartMeeting(ctx, channel, team, a.cfg.Username)
	} else {
		calls := service.NewCallService(a.api, a.cfg.ProviderURL)
		post, err = calls.StartCall(ctx, service.StartCallRequest{
			Channel:  channel,
			Team:     team,
			UserID:   domain.UserID(a.cfg.UserID),
			Username: a.cfg.Username,
		})
	}
	if err != nil {
		return err
	}

	a.printPost(post)
	return nil
}

func (a *app) watch(ctx context.Context, args []string) error {
	fs := a.flagSet("watch")
	channelID := fs.String("channel-id", "", "channel whose meetings to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *channelID == "" {
		return fmt.Errorf("%w: -channel-id is required", domain.ErrInvalidContext)
	}

	a.store.Subscribe(func(s state.State) {
		a.view.PrintConfig(s.Config)
	})

	syncer := service.NewConfigSyncService(a.api, a.store)
	if err := syncer.Sync(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial config sync failed")
	}

	events, err := a.events(domain.ChannelID(*channelID)).Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	configEvents := make(chan domain.Event, 1)
	syncDone := make(chan error, 1)
	go func() {
		syncDone <- syncer.Watch(ctx, configEvents)
	}()

	for ev := range events {
		if ev.Name == domain.ConfigChangeEvent {
			select {
			case configEvents <- ev:
			default:
				// A sync is already queued and will read the latest config.
			}
			continue
		}
		if post, ok := domain.PostFromEvent(ev); ok {
			a.printPost(post)
		}
	}
	close(configEvents)

	if err := <-syncDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("Event stream closed")
	return nil
}

func (a *app) config(ctx context.Context, args []string) error {
	fs := a.flagSet("config")
	set := fs.String("set", "", "naming scheme to store (channel, uuid, words or mattermost)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *set != "" {
		cfg := domain.UserConfig{NamingScheme: domain.NamingScheme(*set)}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := a.api.UpdateConfig(ctx, cfg); err != nil {
			return err
		}
	}

	if err := service.NewConfigSyncService(a.api, a.store).Sync(ctx); err != nil {
		return err
	}
	a.view.PrintConfig(a.store.Config())
	return nil
}

func (a *app) open(ctx context.Context, args []string) error {
	fs := a.flagSet("open")
	channelID := fs.String("channel-id", "", "channel to look for meetings in")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *channelID == "" {
		return fmt.Errorf("%w: -channel-id is required", domain.ErrInvalidContext)
	}

	feed, err := a.api.ListPosts(ctx, domain.ChannelID(*channelID), feedLimit)
	if err != nil {
		return err
	}
	latest, ok := service.LatestMeeting(feed)
	if !ok {
		return fmt.Errorf("no meeting in channel %s: %w", *channelID, domain.ErrNotFound)
	}

	link, ok := service.NewMeetingService(a.store).Open(latest)
	if !ok {
		return fmt.Errorf("meeting post has no link: %w", domain.ErrInvalidMessage)
	}
	a.view.PrintLink(link)
	return nil
}

func (a *app) printPost(post domain.Message) {
	if card, ok := a.registry.RenderPost(&post); ok {
		a.view.PrintCard(card)
		return
	}
	a.view.PrintPost(post)
}
