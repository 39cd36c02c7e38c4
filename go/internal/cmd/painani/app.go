package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/painani/go/clients/quizapi"
	"github.com/mcdev12/painani/go/internal/config"
	"github.com/mcdev12/painani/go/internal/quiz/controller"
	"github.com/mcdev12/painani/go/internal/quiz/events"
	"github.com/mcdev12/painani/go/internal/quiz/gateway"
	"github.com/mcdev12/painani/go/internal/quiz/input"
	"github.com/mcdev12/painani/go/internal/quiz/journal"
	"github.com/mcdev12/painani/go/internal/quiz/overlay"
	"github.com/mcdev12/painani/go/internal/quiz/view"
)

type app struct {
	cfg       config.Config
	api       *quizapi.QuizApiClient
	transport gateway.Transport
	ctrl      *controller.Controller
	hub       *overlay.Hub
	overlay   *http.Server
	journal   *journal.Journal
	store     *journal.Store
	in        io.Reader
	out       io.Writer
}

func newApp(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) (*app, error) {
	a := &app{
		cfg: cfg,
		api: quizapi.NewQuizApiClient(cfg.Server.BaseURL),
		in:  in,
		out: out,
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	a.transport = transport

	tag := view.ParseLanguage(cfg.Language)
	views := view.Multi{view.NewConsole(out, tag)}
	var ov *overlay.View
	if cfg.Overlay.Enabled {
		hubCfg := overlay.DefaultConnectionConfig()
		hubCfg.CheckOrigin = overlay.CheckOrigins(cfg.Overlay.AllowedOrigins)
		a.hub = overlay.NewHub(hubCfg)
		ov = overlay.NewView(a.hub, tag)
		views = append(views, ov)
	}

	var jr controller.Journal
	if cfg.Journal.Driver != "" {
		store, err := journal.Open(ctx, cfg.Journal.Driver, cfg.Journal.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		a.store = store
		a.journal = journal.New(store, journal.DefaultConfig())
		jr = a.journal
	}

	a.ctrl = controller.New(controller.Options{
		Emitter:          transport,
		View:             views,
		Journal:          jr,
		SentinelPrefix:   cfg.SentinelPrefix,
		MosaicImage:      cfg.MosaicImage,
		OnQuestionClosed: func() { go a.refreshBoard(ctx) },
	})

	if ov != nil {
		srv := overlay.NewServer(ov, a.hub, buzzerCommands{ctrl: a.ctrl})
		a.overlay = srv.HTTPServer(overlay.Config{Addr: cfg.Overlay.Addr, AllowedOrigins: cfg.Overlay.AllowedOrigins})
	}
	return a, nil
}

func newTransport(cfg config.Config) (gateway.Transport, error) {
	switch cfg.Transport {
	case config.TransportNATS:
		nc := gateway.DefaultNATSConfig()
		nc.URL = cfg.NATS.URL
		nc.StreamName = cfg.NATS.Stream
		nc.SubjectFilter = cfg.NATS.SubjectFilter
		nc.IntentPrefix = cfg.NATS.IntentPrefix
		t, err := gateway.NewNATSTransport(nc)
		if err != nil {
			return nil, fmt.Errorf("failed to create nats transport: %w", err)
		}
		return t, nil
	default:
		return gateway.NewWebsocketTransport(gateway.DefaultWebsocketConfig(cfg.WebsocketURL())), nil
	}
}

func (a *app) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The mosaic is cosmetic; a missing image only disables it.
	if a.cfg.MosaicImage != "" {
		if err := a.api.ProbeImage(ctx, a.cfg.MosaicImage); err != nil {
			log.Warn().Err(err).Msg("mosaic image unavailable")
			a.ctrl.DisableMosaic()
		}
	}

	var wg sync.WaitGroup
	goRun := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Str("component", name).Msg("component stopped")
			}
			cancel()
		}()
	}

	goRun("controller", a.ctrl.Run)
	goRun("transport", func(ctx context.Context) error {
		return a.transport.Run(ctx, func(ev events.Event) { a.ctrl.Dispatch(ev) })
	})
	if a.journal != nil {
		goRun("journal", a.journal.Run)
	}
	if a.hub != nil {
		goRun("overlay hub", func(ctx context.Context) error {
			a.hub.Start(ctx)
			return nil
		})
		goRun("overlay server", a.serveOverlay)
	}

	a.bootstrap(ctx)
	go a.readInput(ctx, cancel)

	<-ctx.Done()
	if err := a.transport.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close transport")
	}
	wg.Wait()
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close journal")
	}
	return nil
}

// bootstrap seeds the board from the REST API so it shows before the event
// stream delivers its own snapshot.
func (a *app) bootstrap(ctx context.Context) {
	board, err := a.api.GetBoard(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("board bootstrap failed, waiting for server snapshot")
		return
	}
	game, err := a.api.GetGameState(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("game state bootstrap failed")
	}
	a.ctrl.Dispatch(&events.Connected{Board: board, GameState: game})
}

func (a *app) refreshBoard(ctx context.Context) {
	board, err := a.api.GetBoard(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh board")
		return
	}
	a.ctrl.Do(func() { a.ctrl.ReloadBoard(board) })
}

func (a *app) serveOverlay(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.overlay.Addr).Msg("overlay listening")
		errCh <- a.overlay.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.overlay.Shutdown(shutdownCtx)
	}
}

func (a *app) readInput(ctx context.Context, quit context.CancelFunc) {
	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		cmd, err := input.Parse(scanner.Text())
		if err != nil {
			fmt.Fprintf(a.out, "%v (type ? for help)\n", err)
			continue
		}
		if cmd.Kind == input.KindQuit {
			quit()
			return
		}
		if err := a.execute(ctx, cmd); err != nil {
			log.Debug().Err(err).Str("command", string(cmd.Kind)).Msg("command failed")
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("failed to read input")
	}
}

func (a *app) execute(ctx context.Context, cmd input.Command) error {
	switch cmd.Kind {
	case input.KindHelp:
		fmt.Fprintln(a.out, input.Help)
		return nil
	case input.KindReset:
		return a.api.Reset(ctx)
	case input.KindLoad:
		msg, err := a.api.LoadData(ctx, cmd.Path)
		if err != nil {
			fmt.Fprintln(a.out, err)
			return err
		}
		fmt.Fprintln(a.out, msg)
		board, err := a.api.GetBoard(ctx)
		if err != nil {
			return err
		}
		return a.ctrl.Call(ctx, func() error {
			a.ctrl.ImportBoard(board)
			return nil
		})
	}

	return a.ctrl.Call(ctx, func() error {
		c := a.ctrl
		switch cmd.Kind {
		case input.KindBuzz:
			return c.PressBuzzer(cmd.Player)
		case input.KindSelect:
			return c.SelectAnswer(cmd.Choice)
		case input.KindSubmit:
			return c.Submit()
		case input.KindCancel:
			return c.CancelQuestion()
		case input.KindOpen:
			return c.OpenQuestion(cmd.Cat, cmd.Row)
		case input.KindCorrect:
			return c.ModeratorCorrect()
		case input.KindIncorrect:
			return c.ModeratorIncorrect()
		case input.KindHide:
			return c.SetHideAnswers(cmd.On)
		case input.KindAdjust:
			return c.AdjustScore(cmd.Player, cmd.Value)
		case input.KindAward:
			return c.AdjustByQuestionValue(cmd.Player, cmd.Value)
		case input.KindSetScore:
			return c.SetScore(cmd.Player, cmd.Value)
		case input.KindTeams:
			return c.SetTeamCount(cmd.Value)
		}
		return fmt.Errorf("unhandled command %s", cmd.Kind)
	})
}

// buzzerCommands lets overlay buttons buzz through the controller loop.
type buzzerCommands struct {
	ctrl *controller.Controller
}

func (b buzzerCommands) PressBuzzer(ctx context.Context, player int) error {
	return b.ctrl.Call(ctx, func() error { return b.ctrl.PressBuzzer(player) })
}
