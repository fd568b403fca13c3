package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"query-gateway/internal/agent/tools"
	"query-gateway/internal/correction"
	"query-gateway/internal/model"
	"query-gateway/internal/status"
)

const msgInitializing = "Processing your question"

// Ask implements Gateway. The work runs on its own goroutine; the caller must
// drain the returned stream.
func (g *implGateway) Ask(ctx context.Context, sessionID, question string) *status.Stream {
	s := status.New()
	go g.resolve(ctx, s, sessionID, question)
	return s
}

func (g *implGateway) resolve(ctx context.Context, s *status.Stream, sessionID, question string) {
	defer func() {
		if r := recover(); r != nil {
			g.l.Errorf(ctx, "%s: panic: %v", logPrefixAsk, r)
			_ = s.Fail(fmt.Errorf("internal error: %v", r))
		}
	}()

	_ = s.Emit(model.StepInitializing, msgInitializing)

	question = strings.TrimSpace(question)
	if question == "" {
		_ = s.Fail(correction.ErrEmptyQuestion)
		return
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	session, err := g.sessions.Session(sessionID)
	if err != nil {
		_ = s.Fail(err)
		return
	}

	exemplars, err := g.retriever.Select(ctx, question, g.opt.K)
	if err != nil {
		g.l.Errorf(ctx, "%s: select exemplars: %v", logPrefixAsk, err)
		_ = s.Fail(g.failure(ctx, fmt.Errorf("%w: example index: %v", correction.ErrCollaboratorUnavailable, err)))
		return
	}

	out, err := g.machine.Run(ctx, correction.Input{
		Question:  question,
		Exemplars: exemplars,
		Session:   session,
		Tools:     tools.NewRegistry(g.store, g.searcher, session),
	}, s)
	if err != nil {
		g.l.Warnf(ctx, "%s: session=%s: %v", logPrefixAsk, sessionID, err)
		_ = s.Fail(g.failure(ctx, err))
		return
	}
	_ = s.Finish(out.Answer)
}

// failure names cancellation explicitly so the Error event says why the
// request stopped.
func (g *implGateway) failure(ctx context.Context, err error) error {
	if ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		return fmt.Errorf("request cancelled: %w", ctx.Err())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request cancelled: %w", err)
	}
	return err
}
