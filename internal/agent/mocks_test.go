package agent

import (
	"context"
	"fmt"

	"browseragent/internal/device"
	"browseragent/internal/plan"
	"browseragent/internal/trace"
)

// fakeDevice scripts device behavior and records what the agent asked of it.
type fakeDevice struct {
	interactive bool

	navErr        error
	content       string
	contentErr    error
	clickErr      error
	typeErr       error
	screenshotErr error

	currentURL  string
	navigations []string
	clicks      []string
	typed       []string
	screenshots []string
}

var _ device.Device = (*fakeDevice)(nil)

func (d *fakeDevice) Navigate(ctx context.Context, url string) error {
	if d.navErr != nil {
		return d.navErr
	}
	d.currentURL = device.NormalizeURL(url)
	d.navigations = append(d.navigations, d.currentURL)
	return nil
}

func (d *fakeDevice) Content(ctx context.Context) (string, error) {
	return d.content, d.contentErr
}

func (d *fakeDevice) Click(ctx context.Context, selector string) error {
	if !d.interactive {
		return fmt.Errorf("click: %w", device.ErrNotSupported)
	}
	if d.clickErr != nil {
		return d.clickErr
	}
	d.clicks = append(d.clicks, selector)
	return nil
}

func (d *fakeDevice) Type(ctx context.Context, selector, text string) error {
	if !d.interactive {
		return fmt.Errorf("type: %w", device.ErrNotSupported)
	}
	if d.typeErr != nil {
		return d.typeErr
	}
	d.typed = append(d.typed, selector+"="+text)
	return nil
}

func (d *fakeDevice) Screenshot(ctx context.Context, path string) error {
	if !d.interactive {
		return fmt.Errorf("screenshot: %w", device.ErrNotSupported)
	}
	if d.screenshotErr != nil {
		return d.screenshotErr
	}
	d.screenshots = append(d.screenshots, path)
	return nil
}

func (d *fakeDevice) Interactive() bool  { return d.interactive }
func (d *fakeDevice) CurrentURL() string { return d.currentURL }
func (d *fakeDevice) Close() error       { return nil }

// fakeProvider scripts the planning and processing layer.
type fakeProvider struct {
	name string

	plan    *plan.Plan
	planErr error

	answer  string
	process string

	panicInPlan bool

	answered         []string
	processed        []string
	processedCommand string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Plan(ctx context.Context, userInput string, rec *trace.Recorder) (*plan.Plan, error) {
	if p.panicInPlan {
		panic("scripted panic")
	}
	if p.planErr != nil {
		return nil, p.planErr
	}
	return p.plan, nil
}

func (p *fakeProvider) Answer(ctx context.Context, question string, rec *trace.Recorder) string {
	p.answered = append(p.answered, question)
	return p.answer
}

func (p *fakeProvider) Process(ctx context.Context, command, goal, content string, rec *trace.Recorder) string {
	p.processed = append(p.processed, goal)
	p.processedCommand = command
	return p.process
}
