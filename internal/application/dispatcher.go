package application

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
	"go.uber.org/zap"
)

const (
	LoginPath            = "/login"
	DefaultRedirectDelay = 1500 * time.Millisecond
)

// Dispatcher runs AI features for a single view. At most one feature is in
// flight at a time; a second invocation is rejected rather than queued.
//
// Callers must set the resolved identity before invoking. A nil identity is
// treated as anonymous and short-circuits into a delayed login redirect.
type Dispatcher struct {
	gateway       ports.Gateway
	navigator     ports.Navigator
	scheduler     ports.Scheduler
	logger        *zap.Logger
	redirectDelay time.Duration

	mu             sync.Mutex
	identity       *domain.Identity
	inFlight       domain.Feature
	results        domain.ResultAggregate
	message        string
	cancelRedirect func() bool
	redirectSeq    uint64
	released       bool
}

type DispatcherOption func(*Dispatcher)

func WithScheduler(scheduler ports.Scheduler) DispatcherOption {
	return func(d *Dispatcher) {
		if scheduler != nil {
			d.scheduler = scheduler
		}
	}
}

func WithRedirectDelay(delay time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if delay >= 0 {
			d.redirectDelay = delay
		}
	}
}

func WithDispatcherLogger(logger *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func NewDispatcher(gateway ports.Gateway, navigator ports.Navigator, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		gateway:       gateway,
		navigator:     navigator,
		scheduler:     ports.SystemClock{},
		logger:        zap.NewNop(),
		redirectDelay: DefaultRedirectDelay,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Dispatcher) SetIdentity(identity *domain.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.identity = identity
}

// Invoke sends req to its feature endpoint and folds the decoded result into
// the aggregate. Generated content is returned but never merged.
func (d *Dispatcher) Invoke(ctx context.Context, req domain.FeatureRequest) (domain.FeatureResult, error) {
	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		return nil, domain.ErrViewReleased
	}
	if d.identity == nil {
		d.message = LoginRequiredMessage
		d.scheduleRedirectLocked()
		d.mu.Unlock()
		return nil, domain.ErrUnauthenticated
	}
	if d.inFlight != "" {
		current := d.inFlight
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: %s in progress", domain.ErrFeatureBusy, current)
	}
	if err := req.Validate(); err != nil {
		d.message = UserMessage(err, "")
		d.mu.Unlock()
		return nil, err
	}
	d.inFlight = req.Feature
	d.message = ""
	d.mu.Unlock()

	d.logger.Debug("ai_feature_dispatch", zap.String("feature", string(req.Feature)), zap.String("path", req.Path()))
	raw, err := d.gateway.Do(ctx, http.MethodPost, req.Path(), req.Payload())

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight = ""

	if d.released {
		return nil, domain.ErrViewReleased
	}
	if err != nil {
		d.message = UserMessage(err, failureMessage(req.Feature))
		return nil, err
	}

	result, err := decodeResult(req.Feature, raw)
	if err != nil {
		d.message = ServerErrorMessage
		return nil, err
	}
	if result == nil {
		d.logger.Debug("ai_feature_unknown", zap.String("feature", string(req.Feature)))
		return nil, nil
	}

	d.results.Apply(result)
	return result, nil
}

func failureMessage(feature domain.Feature) string {
	if feature == domain.FeatureGenerate {
		return GenerateFailedMessage
	}
	return ServerErrorMessage
}

func (d *Dispatcher) scheduleRedirectLocked() {
	if d.cancelRedirect != nil {
		d.cancelRedirect()
	}
	d.redirectSeq++
	seq := d.redirectSeq
	d.cancelRedirect = d.scheduler.AfterFunc(d.redirectDelay, func() {
		d.mu.Lock()
		current := seq == d.redirectSeq
		if current {
			d.cancelRedirect = nil
		}
		released := d.released
		d.mu.Unlock()
		if !current || released || d.navigator == nil {
			return
		}
		d.navigator.Navigate(LoginPath)
	})
}

func (d *Dispatcher) InFlight() domain.Feature {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.inFlight
}

// Busy reports whether the control for feature should be disabled.
func (d *Dispatcher) Busy(feature domain.Feature) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.inFlight != "" && d.inFlight == feature
}

func (d *Dispatcher) Results() domain.ResultAggregate {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.results.Clone()
}

func (d *Dispatcher) Message() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.message
}

// SetMessage replaces the view message, e.g. after a failed article load.
func (d *Dispatcher) SetMessage(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.message = message
}

// Release detaches the dispatcher from its view. Late results are dropped and
// a pending login redirect is cancelled.
func (d *Dispatcher) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.released = true
	if d.cancelRedirect != nil {
		d.cancelRedirect()
		d.cancelRedirect = nil
	}
}
