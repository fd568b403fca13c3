package correction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"query-gateway/internal/backend"
	"query-gateway/internal/model"
	"query-gateway/internal/querycache"
	"query-gateway/pkg/llmprovider"
	"query-gateway/pkg/sqlguard"
)

// state is what one Run carries between cycles.
type state struct {
	in          Input
	context     model.ConversationContext
	tools       []llmprovider.Tool
	priorErrors []string
	// queries holds every candidate seen, so none of them leaks into the answer.
	queries []string
	cycles  int
}

func (s *state) addQuery(q string) {
	s.queries = append(s.queries, q)
}

func (s *state) addFeedback(feedback string) {
	s.priorErrors = append(s.priorErrors, feedback)
	if over := len(s.priorErrors) - maxPriorErrors; over > 0 {
		s.priorErrors = s.priorErrors[over:]
	}
}

// Run resolves in.Question.
func (m *implMachine) Run(ctx context.Context, in Input, ev Emitter) (Outcome, error) {
	in.Question = strings.TrimSpace(in.Question)
	if in.Question == "" {
		return Outcome{}, ErrEmptyQuestion
	}

	st := &state{in: in}
	if in.Session != nil {
		st.context = in.Session.GetContext()
	}
	if in.Tools != nil {
		st.tools = in.Tools.ToFunctionDefinitions()
	}

	decision, answer, err := m.decide(ctx, st, ev)
	if err != nil {
		return Outcome{}, err
	}
	if decision == DecisionResolved {
		if err := emit(ev, model.StepIntermediateStep, msgResolvedFromContext); err != nil {
			return Outcome{}, err
		}
		return m.finalize(ctx, st, ev, Outcome{Answer: answer, Decision: DecisionResolved})
	}

	for {
		out, err := m.cycle(ctx, st, ev)
		if err == nil {
			out.Cycles = st.cycles
			return m.finalize(ctx, st, ev, out)
		}

		var re *RetryError
		if !errors.As(err, &re) {
			m.l.Warnf(ctx, "%s: cycle %d: %v", logPrefixRun, st.cycles, err)
			return Outcome{}, err
		}

		st.cycles++
		m.l.Infof(ctx, "%s: cycle %d: %v", logPrefixRun, st.cycles, err)
		if st.cycles > m.opt.MaxCycles {
			return Outcome{}, fmt.Errorf("%w after %d corrective cycles: %v", ErrBudgetExhausted, m.opt.MaxCycles, re.Kind)
		}
		st.addFeedback(re.Feedback)
		if err := emit(ev, model.StepIntermediateStep, map[string]any{
			"cycle":  st.cycles,
			"reason": re.Kind.Error(),
		}); err != nil {
			return Outcome{}, err
		}
	}
}

// decide classifies the question as a follow-up answerable from context or a
// fresh query. An empty context always means generate.
func (m *implMachine) decide(ctx context.Context, st *state, ev Emitter) (Decision, string, error) {
	if st.context.IsEmpty() {
		return DecisionGenerate, "", nil
	}

	raw, err := json.Marshal(st.context)
	if err != nil {
		return DecisionGenerate, "", nil
	}
	digest := sha256.Sum256(raw)
	sig := querycache.SignatureOf(st.in.Question, hex.EncodeToString(digest[:]))

	if entry, found, err := m.cache.Get(ctx, sig); err == nil && found {
		var rec decisionRecord
		if err := json.Unmarshal([]byte(entry.Result), &rec); err == nil {
			m.l.Debugf(ctx, "%s: cached decision %s", logPrefixDecide, rec.Decision)
			return rec.decision(), rec.Answer, nil
		}
	}

	if err := emit(ev, model.StepProcessing, msgDeciding); err != nil {
		return DecisionGenerate, "", err
	}
	resp, err := m.call(ctx, backend.Request{
		Task:     backend.TaskDecide,
		Question: st.in.Question,
		Context:  st.context,
	})
	if err != nil {
		return DecisionGenerate, "", err
	}

	rec := decisionRecord{Decision: DecisionGenerate.String()}
	if resp.Kind == backend.KindToolCall && resp.ToolName == backend.ToolAnswerFromContext {
		if answer := strings.TrimSpace(resp.Arg("answer")); answer != "" {
			rec = decisionRecord{Decision: DecisionResolved.String(), Answer: answer}
		}
	}

	if encoded, err := json.Marshal(rec); err == nil {
		if err := m.cache.Put(context.WithoutCancel(ctx), sig, st.in.Question, string(encoded)); err != nil {
			m.l.Warnf(ctx, "%s: cache decision: %v", logPrefixDecide, err)
		}
	}
	return rec.decision(), rec.Answer, nil
}

type decisionRecord struct {
	Decision string `json:"decision"`
	Answer   string `json:"answer,omitempty"`
}

func (r decisionRecord) decision() Decision {
	if r.Decision == DecisionResolved.String() && r.Answer != "" {
		return DecisionResolved
	}
	return DecisionGenerate
}

// cycle is one Generate, Verify, Execute and Answer attempt.
func (m *implMachine) cycle(ctx context.Context, st *state, ev Emitter) (Outcome, error) {
	if err := emit(ev, model.StepProcessing, fmt.Sprintf(msgGenerating, st.cycles+1)); err != nil {
		return Outcome{}, err
	}
	candidate, direct, err := m.generate(ctx, st, ev)
	if err != nil {
		return Outcome{}, err
	}
	if candidate == "" {
		return Outcome{Answer: direct}, nil
	}
	if err := guard(candidate); err != nil {
		return Outcome{}, err
	}

	if err := emit(ev, model.StepProcessing, msgVerifying); err != nil {
		return Outcome{}, err
	}
	query, err := m.verify(ctx, st, candidate)
	if err != nil {
		return Outcome{}, err
	}

	if err := emit(ev, model.StepExecuting, msgExecuting); err != nil {
		return Outcome{}, err
	}
	result, hit, err := m.execute(ctx, query)
	if err != nil {
		return Outcome{}, err
	}
	if hit {
		if err := emit(ev, model.StepIntermediateStep, msgCacheHit); err != nil {
			return Outcome{}, err
		}
	}
	if err := emit(ev, model.StepIntermediateStep, preview(result)); err != nil {
		return Outcome{}, err
	}

	if err := emit(ev, model.StepProcessing, msgAnswering); err != nil {
		return Outcome{}, err
	}
	answer, err := m.answer(ctx, st, query, result)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Answer: answer, CacheHit: hit}, nil
}

// generate asks for a candidate, running exploration tools on the way. A
// plain reply means the backend answered without SQL; it is returned as direct.
func (m *implMachine) generate(ctx context.Context, st *state, ev Emitter) (candidate, direct string, err error) {
	var transcript []backend.Step
	for {
		resp, err := m.call(ctx, backend.Request{
			Task:        backend.TaskGenerate,
			Question:    st.in.Question,
			Exemplars:   st.in.Exemplars,
			Context:     st.context,
			PriorErrors: st.priorErrors,
			Transcript:  transcript,
			Tools:       st.tools,
		})
		if err != nil {
			return "", "", err
		}

		if resp.Kind == backend.KindFinalMessage {
			if resp.Text == "" {
				return "", "", retry(ErrMalformedTurn, feedbackEmptyReply)
			}
			return "", resp.Text, nil
		}

		if resp.ToolName == backend.ToolSubmitQuery {
			q := sqlguard.Normalize(resp.Arg("query"))
			if q == "" {
				return "", "", retry(ErrMalformedTurn, feedbackMissingQuery)
			}
			st.addQuery(q)
			return q, "", nil
		}

		if st.in.Tools == nil {
			return "", "", retry(ErrMalformedTurn, fmt.Sprintf(feedbackWrongTool, resp.ToolName))
		}
		tool, ok := st.in.Tools.Get(resp.ToolName)
		if !ok {
			return "", "", retry(ErrMalformedTurn, fmt.Sprintf(feedbackWrongTool, resp.ToolName))
		}
		if len(transcript) >= m.opt.MaxToolSteps {
			return "", "", retry(ErrMalformedTurn, feedbackTooManySteps)
		}

		if err := emit(ev, model.StepIntermediateStep, map[string]any{"tool": resp.ToolName}); err != nil {
			return "", "", err
		}
		observation, err := tool.Execute(ctx, resp.Args)
		if err != nil {
			if ctx.Err() != nil {
				return "", "", ctx.Err()
			}
			observation = fmt.Sprintf(feedbackTools, resp.ToolName, err)
		}
		transcript = append(transcript, backend.Step{ToolName: resp.ToolName, Args: resp.Args, Observation: observation})
	}
}

// verify has the backend review candidate. An approval may carry a rewritten
// query, which is guarded again.
func (m *implMachine) verify(ctx context.Context, st *state, candidate string) (string, error) {
	resp, err := m.call(ctx, backend.Request{
		Task:      backend.TaskVerify,
		Question:  st.in.Question,
		Context:   st.context,
		Candidate: candidate,
	})
	if err != nil {
		return "", err
	}

	if resp.Kind == backend.KindFinalMessage {
		return "", retry(ErrVerificationFailure, fmt.Sprintf(feedbackRejected, resp.Text))
	}
	switch resp.ToolName {
	case backend.ToolSubmitQuery:
		q := sqlguard.Normalize(resp.Arg("query"))
		if q == "" || q == candidate {
			return candidate, nil
		}
		st.addQuery(q)
		if err := guard(q); err != nil {
			return "", err
		}
		return q, nil
	case backend.ToolRejectQuery:
		return "", retry(ErrVerificationFailure, fmt.Sprintf(feedbackRejected, resp.Arg("reason")))
	default:
		return "", retry(ErrMalformedTurn, fmt.Sprintf(feedbackWrongTool, resp.ToolName))
	}
}

// answer turns the rows into the user-facing reply.
func (m *implMachine) answer(ctx context.Context, st *state, query, result string) (string, error) {
	resp, err := m.call(ctx, backend.Request{
		Task:      backend.TaskExecute,
		Question:  st.in.Question,
		Context:   st.context,
		Candidate: query,
		Result:    result,
	})
	if err != nil {
		return "", err
	}

	var text string
	switch {
	case resp.Kind == backend.KindFinalMessage:
		text = resp.Text
	case resp.ToolName == backend.ToolSubmitAnswer:
		text = strings.TrimSpace(resp.Arg("final_answer"))
	default:
		return "", retry(ErrMalformedTurn, fmt.Sprintf(feedbackWrongTool, resp.ToolName))
	}
	if text == "" {
		return "", retry(ErrMalformedTurn, feedbackEmptyAnswer)
	}
	return text, nil
}

// finalize strips query text from the answer and records the turn.
func (m *implMachine) finalize(ctx context.Context, st *state, ev Emitter, out Outcome) (Outcome, error) {
	out.Answer = Redact(out.Answer, st.queries)
	if out.Answer == "" {
		out.Answer = msgFallbackAnswer
	}
	if err := emit(ev, model.StepFinalizing, msgFinalizing); err != nil {
		return Outcome{}, err
	}
	if st.in.Session != nil {
		st.in.Session.AppendTurn(st.in.Question, out.Answer)
	}
	m.l.Infof(ctx, "%s: resolved decision=%s cycles=%d cache_hit=%t", logPrefixRun, out.Decision, out.Cycles, out.CacheHit)
	return out, nil
}

// call waits for the rate limiter and invokes the backend.
func (m *implMachine) call(ctx context.Context, req backend.Request) (backend.Response, error) {
	if err := m.limiter.Acquire(ctx); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return backend.Response{}, err
		}
		return backend.Response{}, fmt.Errorf("%w: rate limiter: %v", ErrCollaboratorUnavailable, err)
	}
	resp, err := m.backend.Invoke(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return backend.Response{}, ctx.Err()
		}
		return backend.Response{}, fmt.Errorf("%w: backend: %v", ErrCollaboratorUnavailable, err)
	}
	return resp, nil
}

// guard rejects anything but one read-only statement. Mutating or stacked
// statements are fatal; text that is not a statement at all is retried.
func guard(query string) error {
	err := sqlguard.Check(query)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sqlguard.ErrMutatingStatement), errors.Is(err, sqlguard.ErrMultipleStatements):
		return fmt.Errorf("%w: %v", ErrPolicyViolation, err)
	default:
		return retry(ErrMalformedTurn, fmt.Sprintf(feedbackNotAQuery, err))
	}
}

func emit(ev Emitter, step model.Step, message any) error {
	if ev == nil {
		return nil
	}
	return ev.Emit(step, message)
}
