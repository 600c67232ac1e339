// Package agent orchestrates one command at a time: ask the active provider
// for a plan, drive the browsing device through it, and fold everything the
// run produced into a TaskResult.
package agent

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"browseragent/internal/config"
	"browseragent/internal/device"
	"browseragent/internal/plan"
	"browseragent/internal/provider"
	"browseragent/internal/trace"
)

// ErrProviderUnavailable is returned by SwitchProvider when the requested
// backend has no credential or is unknown to this build.
var ErrProviderUnavailable = errors.New("provider unavailable")

// Agent owns the browsing device and the active provider, and executes
// commands strictly one at a time.
type Agent struct {
	cfg      *config.Config
	logger   *zap.Logger
	device   device.Device
	registry *provider.Registry

	// runMu serializes ProcessCommand; the device holds a single tab.
	runMu sync.Mutex

	provMu sync.RWMutex
	prov   provider.Provider
}

// New creates an agent with no active provider. Call InitProvider or
// SwitchProvider to activate one; until then every command reports that no
// provider is available.
func New(cfg *config.Config, logger *zap.Logger, dev device.Device, registry *provider.Registry) *Agent {
	return &Agent{
		cfg:      cfg,
		logger:   logger,
		device:   dev,
		registry: registry,
	}
}

// InitProvider activates the named provider. Failure leaves the agent
// without one, which is a degraded state, not a fatal one.
func (a *Agent) InitProvider(name string) error {
	p, err := a.registry.Create(name)
	if err != nil {
		return err
	}
	a.provMu.Lock()
	a.prov = p
	a.provMu.Unlock()
	return nil
}

func (a *Agent) activeProvider() provider.Provider {
	a.provMu.RLock()
	defer a.provMu.RUnlock()
	return a.prov
}

// CurrentProvider returns the active provider's name, or "" when none is
// active.
func (a *Agent) CurrentProvider() string {
	if p := a.activeProvider(); p != nil {
		return p.Name()
	}
	return ""
}

// AvailableProviders returns the sorted names of backends that could be
// switched to right now.
func (a *Agent) AvailableProviders() []string {
	return a.registry.Available()
}

// SwitchProvider activates the named provider, reporting whether a switch
// actually happened. Switching to the already-active provider is a no-op.
// On construction failure the previous provider stays active.
func (a *Agent) SwitchProvider(name string) (bool, error) {
	if name == a.CurrentProvider() {
		return false, nil
	}

	available := false
	for _, n := range a.registry.Available() {
		if n == name {
			available = true
			break
		}
	}
	if !available {
		return false, fmt.Errorf("%w: %q", ErrProviderUnavailable, name)
	}

	p, err := a.registry.Create(name)
	if err != nil {
		return false, fmt.Errorf("failed to initialize provider %q: %w", name, err)
	}

	a.provMu.Lock()
	a.prov = p
	a.provMu.Unlock()
	a.logger.Info("Switched AI provider", zap.String("provider", name))
	return true, nil
}

// run accumulates the mutable state of a single command execution.
type run struct {
	rec          *trace.Recorder
	finalResult  string
	processedURL *string
	screenshot   *string
}

// result folds the run state into the caller-facing TaskResult. An empty
// final result means every action completed without producing one.
func (r *run) result() *TaskResult {
	final := r.finalResult
	if final == "" {
		final = resultDefault
	}
	return &TaskResult{
		FinalResult:  final,
		Logs:         r.rec.Entries(),
		ProcessedURL: r.processedURL,
		Screenshot:   r.screenshot,
	}
}

// ProcessCommand executes one user command end to end. It always returns a
// TaskResult; every failure mode is folded into the result rather than
// surfaced as an error.
func (a *Agent) ProcessCommand(ctx context.Context, command string) *TaskResult {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	runID := uuid.New().String()
	logger := a.logger.With(zap.String("run_id", runID))
	logger.Info("Processing command", zap.String("command", command))

	r := &run{rec: trace.NewRecorder(logger)}

	prov := a.activeProvider()
	if prov == nil {
		r.rec.Error("No AI provider is active.")
		r.finalResult = resultNoProvider
		return r.result()
	}

	a.execute(ctx, prov, command, r)
	return r.result()
}

// execute runs the plan for a command. The deferred recover is the outermost
// safety net: a panic anywhere below becomes an internal-error result.
func (a *Agent) execute(ctx context.Context, prov provider.Provider, command string, r *run) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("Recovered from panic during command execution", zap.Any("panic", rec))
			r.rec.Error(fmt.Sprintf("Internal error: %v", rec))
			r.finalResult = resultInternalError
		}
	}()

	p, err := prov.Plan(ctx, command, r.rec)
	if err != nil {
		r.rec.Error(fmt.Sprintf("Failed to create a plan: %v", err))
		r.finalResult = resultNoPlan
		return
	}

	for _, action := range p.Actions {
		a.executeStep(ctx, prov, command, action, r)
	}
}

// executeStep runs one action. Missing arguments and device failures are
// recorded and skipped; the plan always runs to the end.
func (a *Agent) executeStep(ctx context.Context, prov provider.Provider, command string, action plan.Action, r *run) {
	switch action.Type {
	case plan.KindAnswerDirectly:
		question := action.Question
		if question == "" {
			question = command
		}
		r.finalResult = prov.Answer(ctx, question, r.rec)

	case plan.KindBrowse:
		if action.URL == "" {
			r.rec.Error("Browse action is missing a URL; skipping.")
			return
		}
		if err := a.device.Navigate(ctx, action.URL); err != nil {
			r.rec.Error(fmt.Sprintf("Failed to browse to %s: %v", action.URL, err))
			return
		}
		url := a.device.CurrentURL()
		r.processedURL = &url
		r.rec.BrowserURL("Navigated to page.", url)
		a.captureScreenshot(ctx, r)

	case plan.KindExtractContent:
		if action.ProcessingGoal == "" {
			r.rec.Error("Extract action is missing a processing goal; skipping.")
			return
		}
		content, err := a.device.Content(ctx)
		if err != nil {
			r.rec.Error(fmt.Sprintf("Failed to read page content: %v", err))
			r.finalResult = resultNoContent
			return
		}
		if content == "" {
			r.rec.Error("The page has no visible content.")
			r.finalResult = resultNoContent
			return
		}
		r.rec.Browser(fmt.Sprintf("Extracted %d characters of page content.", len(content)))
		r.finalResult = prov.Process(ctx, command, action.ProcessingGoal, content, r.rec)

	case plan.KindClick:
		if action.Selector == "" {
			r.rec.Error("Click action is missing a selector; skipping.")
			return
		}
		if err := a.device.Click(ctx, action.Selector); err != nil {
			if errors.Is(err, device.ErrNotSupported) {
				r.rec.Error("Clicking is not supported by the current browsing device.")
			} else {
				r.rec.Error(fmt.Sprintf("Failed to click %q: %v", action.Selector, err))
			}
			return
		}
		r.rec.Browser(fmt.Sprintf("Clicked element %q.", action.Selector))
		a.captureScreenshot(ctx, r)

	case plan.KindType:
		if action.Selector == "" {
			r.rec.Error("Type action is missing a selector; skipping.")
			return
		}
		// An empty text would clear the field, so it skips like a missing selector.
		if action.Text == "" {
			r.rec.Error("Type action is missing text; skipping.")
			return
		}
		if err := a.device.Type(ctx, action.Selector, action.Text); err != nil {
			if errors.Is(err, device.ErrNotSupported) {
				r.rec.Error("Typing is not supported by the current browsing device.")
			} else {
				r.rec.Error(fmt.Sprintf("Failed to type into %q: %v", action.Selector, err))
			}
			return
		}
		r.rec.Browser(fmt.Sprintf("Typed into element %q.", action.Selector))
		a.captureScreenshot(ctx, r)

	case plan.KindClarify:
		message := action.Message
		if message == "" {
			message = "Could you clarify what you would like me to do?"
		}
		r.rec.Info("Asking the user for clarification.")
		r.finalResult = message

	default:
		r.rec.Error(fmt.Sprintf("Unknown action type %q; skipping.", action.Type))
	}
}

// captureScreenshot records the page after a successful interaction. The
// file lands in the configured screenshot directory; the result keeps the
// path relative to the static dir, where that directory lives by default.
// Within a run the last capture wins, and failure to capture never fails
// the action that triggered it.
func (a *Agent) captureScreenshot(ctx context.Context, r *run) {
	if !a.device.Interactive() {
		return
	}

	name := "screenshot_" + time.Now().Format("20060102_150405") + ".png"
	rel := "screenshots/" + name
	full := filepath.Join(a.cfg.Browser.ScreenshotDir, name)

	if err := a.device.Screenshot(ctx, full); err != nil {
		r.rec.Error(fmt.Sprintf("Failed to capture screenshot: %v", err))
		return
	}
	r.screenshot = &rel
	r.rec.Browser("Screenshot captured.")
}
