package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/location"
	"github.com/aretw0/lectern/pkg/navigation"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/render"
)

// Status is the lifecycle state of a Controller.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
)

// Config holds the collaborators of a Controller. Every field is optional.
type Config struct {
	// SessionID tags emitted events.
	SessionID string

	// Initial is used when Enter receives no location.
	Initial domain.Position

	// Surface receives every rendered frame.
	Surface ports.Surface

	// Publisher receives the location string whenever it changes.
	Publisher ports.LocationPublisher

	Hooks  domain.LifecycleHooks
	Logger *slog.Logger
}

// Controller drives one presentation session: it routes intents through the
// navigator, renders the result and publishes the encoded location.
//
// A Controller is single-threaded. Callers serialize access (see Manager).
type Controller struct {
	cfg      Config
	source   ports.SlideSource
	nav      *navigation.Navigator
	renderer *render.Renderer

	status    Status
	frame     domain.Frame
	published string
}

// NewController creates an idle controller over the given slide source.
func NewController(source ports.SlideSource, cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &Controller{
		cfg:      cfg,
		source:   source,
		renderer: render.New(source),
		status:   StatusIdle,
	}
}

// Status returns the lifecycle state.
func (c *Controller) Status() Status {
	return c.status
}

// Frame returns the last rendered frame.
func (c *Controller) Frame() domain.Frame {
	return c.frame
}

// Location returns the last published location string.
func (c *Controller) Location() string {
	return c.published
}

// Position returns the current grid position, or the origin while idle.
func (c *Controller) Position() domain.Position {
	if c.nav == nil {
		return domain.Origin
	}
	return c.nav.Position()
}

// Enter activates the session at loc, or at the configured initial position
// when loc is empty. Entering an active session only applies loc, if any.
func (c *Controller) Enter(ctx context.Context, loc string) (domain.Frame, error) {
	if c.status == StatusActive {
		if loc == "" {
			return c.frame, nil
		}
		return c.ObserveLocation(ctx, loc)
	}

	c.status = StatusActive
	c.nav = navigation.New(c.source, navigation.WithLogger(c.cfg.Logger))

	target := c.cfg.Initial
	if loc != "" {
		target = location.Decode(loc)
	}
	c.published = loc
	c.nav.Sync(target)

	c.cfg.Logger.Debug("session entered", "session_id", c.cfg.SessionID, "position", c.nav.Position().String())
	c.emitSlide(ctx, c.cfg.Hooks.OnSlideEnter, domain.EventSlideEnter, c.nav.Position(), "")
	return c.commit(ctx)
}

// Exit returns the session to idle. Later intents are no-ops.
func (c *Controller) Exit(ctx context.Context) {
	if c.status != StatusActive {
		return
	}
	c.emitSlide(ctx, c.cfg.Hooks.OnSlideLeave, domain.EventSlideLeave, c.nav.Position(), "")
	c.status = StatusIdle
	c.cfg.Logger.Debug("session exited", "session_id", c.cfg.SessionID, "location", c.published)
}

func (c *Controller) Left(ctx context.Context) (domain.Frame, error) {
	return c.Dispatch(ctx, domain.Command{Intent: domain.IntentLeft})
}

func (c *Controller) Right(ctx context.Context) (domain.Frame, error) {
	return c.Dispatch(ctx, domain.Command{Intent: domain.IntentRight})
}

func (c *Controller) Up(ctx context.Context) (domain.Frame, error) {
	return c.Dispatch(ctx, domain.Command{Intent: domain.IntentUp})
}

func (c *Controller) Down(ctx context.Context) (domain.Frame, error) {
	return c.Dispatch(ctx, domain.Command{Intent: domain.IntentDown})
}

// GoTo moves directly to (row, column). A nil coordinate keeps its current value.
func (c *Controller) GoTo(ctx context.Context, row, column *int) (domain.Frame, error) {
	return c.Dispatch(ctx, domain.GoTo(row, column))
}

// ObserveLocation applies a location changed outside the session, such as a
// pasted link. A location equal to the last published one is the session's
// own echo and is ignored. Fragments always reset.
func (c *Controller) ObserveLocation(ctx context.Context, loc string) (domain.Frame, error) {
	return c.Dispatch(ctx, domain.Command{Intent: domain.IntentLocation, Location: loc})
}

// Refresh re-clamps the position after the slide source changed.
func (c *Controller) Refresh(ctx context.Context) (domain.Frame, error) {
	if c.status != StatusActive {
		return c.frame, nil
	}
	step := c.nav.Refresh()
	c.emitStep(ctx, step, "")
	return c.commit(ctx)
}

// Dispatch applies a command. While idle every command is a no-op that
// returns the last frame.
func (c *Controller) Dispatch(ctx context.Context, cmd domain.Command) (domain.Frame, error) {
	if c.status != StatusActive {
		return c.frame, nil
	}

	var step navigation.Step
	switch cmd.Intent {
	case domain.IntentLeft:
		step = c.nav.MoveLeft()
	case domain.IntentRight:
		step = c.nav.MoveRight()
	case domain.IntentUp:
		step = c.nav.MoveUp()
	case domain.IntentDown:
		step = c.nav.MoveDown()
	case domain.IntentGoTo:
		step = c.nav.MoveTo(cmd.Row, cmd.Column)
	case domain.IntentLocation:
		if cmd.Location == c.published {
			return c.frame, nil
		}
		c.published = cmd.Location
		step = c.nav.Sync(location.Decode(cmd.Location))
	default:
		return c.frame, fmt.Errorf("%w: %q", domain.ErrUnknownIntent, cmd.Intent)
	}

	c.emitStep(ctx, step, cmd.Intent)
	return c.commit(ctx)
}

// commit renders the current state, applies it to the surface and publishes
// the location when it changed.
func (c *Controller) commit(ctx context.Context) (domain.Frame, error) {
	frame := c.renderer.Render(render.Input{
		Position:  c.nav.Position(),
		Routes:    c.nav.Routes(),
		Fragments: c.nav.Fragments().Visibility(),
	})
	frame.Location = location.Encode(frame.Position)
	c.frame = frame

	var errs []error
	if c.cfg.Surface != nil {
		if err := c.cfg.Surface.Apply(ctx, frame); err != nil {
			errs = append(errs, fmt.Errorf("failed to apply frame: %w", err))
		}
	}

	if frame.Location != c.published {
		c.published = frame.Location
		if c.cfg.Publisher != nil {
			if err := c.cfg.Publisher.PublishLocation(ctx, frame.Location); err != nil {
				errs = append(errs, fmt.Errorf("failed to publish location: %w", err))
			}
		}
		if h := c.cfg.Hooks.OnLocationPublished; h != nil {
			h(ctx, &domain.LocationEvent{EventBase: c.base(domain.EventLocationPublished), Location: frame.Location})
		}
	}

	return frame, errors.Join(errs...)
}

func (c *Controller) emitStep(ctx context.Context, step navigation.Step, intent domain.Intent) {
	switch step.Kind {
	case navigation.StepSlide:
		c.emitSlide(ctx, c.cfg.Hooks.OnSlideLeave, domain.EventSlideLeave, step.From, intent)
		c.emitSlide(ctx, c.cfg.Hooks.OnSlideEnter, domain.EventSlideEnter, step.To, intent)
	case navigation.StepFragmentShown:
		c.emitFragment(ctx, c.cfg.Hooks.OnFragmentShown, domain.EventFragmentShown, step)
	case navigation.StepFragmentHidden:
		c.emitFragment(ctx, c.cfg.Hooks.OnFragmentHidden, domain.EventFragmentHidden, step)
	}
}

func (c *Controller) emitSlide(ctx context.Context, hook func(context.Context, *domain.SlideEvent), t domain.EventType, pos domain.Position, intent domain.Intent) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.SlideEvent{EventBase: c.base(t), Position: pos, Intent: intent})
}

func (c *Controller) emitFragment(ctx context.Context, hook func(context.Context, *domain.FragmentEvent), t domain.EventType, step navigation.Step) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.FragmentEvent{
		EventBase: c.base(t),
		Position:  step.To,
		Handle:    c.nav.Fragments().Handle(step.Fragment),
		Index:     step.Fragment,
	})
}

func (c *Controller) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: c.cfg.SessionID}
}
