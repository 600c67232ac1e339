// Package provider wraps language-model backends behind a single interface
// the agent plans and processes with. Every backend exposes two model roles:
// a fast planner and a stronger processor.
package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"browseragent/internal/config"
	"browseragent/internal/plan"
	"browseragent/internal/trace"
)

// Tier selects which of a backend's model roles handles a request.
type Tier string

const (
	// TierPlanner is the fast model used to turn a command into a plan.
	TierPlanner Tier = "planner"
	// TierProcessor is the stronger model used to answer and summarize.
	TierProcessor Tier = "processor"
)

// maxContentChars caps how much page content is sent to a processor model.
const maxContentChars = 15000

// Provider is a configured language-model backend. Answer and Process never
// return an error; failures degrade to an apology string so a single bad
// model call cannot abort a command.
type Provider interface {
	// Name returns the registry name of the backend, e.g. "gemini".
	Name() string
	// Plan asks the planner model for an action plan. A response that is not
	// a valid plan degrades to the answer-directly fallback; only a failed
	// model call is an error.
	Plan(ctx context.Context, userInput string, rec *trace.Recorder) (*plan.Plan, error)
	// Answer asks the processor model to answer a question directly.
	Answer(ctx context.Context, question string, rec *trace.Recorder) string
	// Process asks the processor model to work page content toward a goal,
	// keeping the original user command as context. Content beyond the size
	// cap is truncated first.
	Process(ctx context.Context, command, goal, content string, rec *trace.Recorder) string
}

// generator is the one method each backend implements: send a prompt to the
// model of the given tier and return its text.
type generator interface {
	generate(ctx context.Context, tier Tier, prompt string) (string, error)
}

// client lifts a backend's generate method into the full Provider contract.
type client struct {
	name   string
	cfg    config.ProviderConfig
	logger *zap.Logger
	gen    generator
}

var _ Provider = (*client)(nil)

func newClient(name string, cfg config.ProviderConfig, logger *zap.Logger, gen generator) *client {
	return &client{
		name:   name,
		cfg:    cfg,
		logger: logger.With(zap.String("provider", name)),
		gen:    gen,
	}
}

func (c *client) Name() string { return c.name }

func (c *client) Plan(ctx context.Context, userInput string, rec *trace.Recorder) (*plan.Plan, error) {
	rec.AI(fmt.Sprintf("Creating a plan with %s...", c.name))

	raw, err := c.gen.generate(ctx, TierPlanner, planPrompt(userInput))
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	p, err := plan.Parse(raw)
	if err != nil {
		c.logger.Warn("Model response was not a valid plan, falling back to a direct answer",
			zap.Error(err))
		rec.AI("The plan could not be parsed; answering the question directly instead.")
		return plan.Fallback(userInput), nil
	}

	rec.AI(fmt.Sprintf("Plan created with %d action(s).", len(p.Actions)))
	return p, nil
}

func (c *client) Answer(ctx context.Context, question string, rec *trace.Recorder) string {
	rec.AI("Generating a direct answer...")

	answer, err := c.gen.generate(ctx, TierProcessor, question)
	if err != nil {
		c.logger.Error("Direct answer generation failed", zap.Error(err))
		rec.Error(fmt.Sprintf("Answer generation failed: %v", err))
		return fmt.Sprintf("I was unable to generate a response due to an error: %v", err)
	}
	return answer
}

func (c *client) Process(ctx context.Context, command, goal, content string, rec *trace.Recorder) string {
	if len(content) > maxContentChars {
		rec.Info(fmt.Sprintf("Content truncated from %d to %d characters before processing.",
			len(content), maxContentChars))
		content = content[:maxContentChars]
	}
	rec.AI(fmt.Sprintf("Processing content with %s...", c.name))

	result, err := c.gen.generate(ctx, TierProcessor, processPrompt(command, goal, content))
	if err != nil {
		c.logger.Error("Content processing failed", zap.Error(err))
		rec.Error(fmt.Sprintf("Content processing failed: %v", err))
		return fmt.Sprintf("I was unable to process the content due to an error: %v", err)
	}
	return result
}
