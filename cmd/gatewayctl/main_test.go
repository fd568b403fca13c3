package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/config"
	"query-gateway/internal/app"
	"query-gateway/internal/model"
	"query-gateway/internal/querycache"
	"query-gateway/internal/status"
	"query-gateway/pkg/log"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `cache:
  path: ` + filepath.Join(dir, "cache.db") + `
llm:
  providers:
    - name: anthropic
      enabled: true
      priority: 1
      api_key: test
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSignatureCmd(t *testing.T) {
	out, err := run(t, "signature", "SELECT", "1")
	require.NoError(t, err)
	assert.Equal(t, querycache.Signature("SELECT 1")+"\n", out)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestFeedbackCmd(t *testing.T) {
	path := writeConfig(t)
	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	ctx := context.Background()
	store, closeFn, err := app.OpenCache(ctx, cfg, log.NewNop())
	require.NoError(t, err)
	q := "SELECT COUNT(*) FROM customers"
	sig := querycache.Signature(q)
	require.NoError(t, store.RecordSuccess(ctx, sig, q))
	require.NoError(t, store.RecordSuccess(ctx, sig, q))
	require.NoError(t, store.RecordFailure(ctx, sig, q))
	require.NoError(t, closeFn())

	out, err := run(t, "--config", path, "feedback", q)
	require.NoError(t, err)
	var rec model.FeedbackRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, int64(2), rec.SuccessCount)
	assert.Equal(t, int64(1), rec.FailureCount)
	assert.Equal(t, q, rec.Query)

	out, err = run(t, "--config", path, "feedback", "--signature", sig)
	require.NoError(t, err)
	assert.Contains(t, out, `"success_count": 2`)

	_, err = run(t, "--config", path, "feedback", "SELECT 2")
	assert.ErrorContains(t, err, "no feedback recorded")
}

func TestFeedbackCmd_MissingConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "feedback", "SELECT 1")
	assert.ErrorContains(t, err, "failed to load config")
}

type scriptedGateway struct {
	events []model.StatusEvent
}

func (g scriptedGateway) Ask(_ context.Context, _, _ string) *status.Stream {
	s := status.New()
	go func() {
		for _, ev := range g.events {
			if ev.Step == model.StepError {
				_ = s.Fail(errors.New(ev.Message.(string)))
				return
			}
			if ev.Step == model.StepFinalAnswer {
				_ = s.Finish(ev.Message)
				return
			}
			_ = s.Emit(ev.Step, ev.Message)
		}
	}()
	return s
}

// trackingGateway closes finished once every scripted event was accepted.
type trackingGateway struct {
	scriptedGateway
	finished chan struct{}
}

func (g *trackingGateway) Ask(_ context.Context, _, _ string) *status.Stream {
	s := status.New()
	go func() {
		defer close(g.finished)
		for _, ev := range g.events {
			if ev.Step == model.StepFinalAnswer {
				_ = s.Finish(ev.Message)
				return
			}
			_ = s.Emit(ev.Step, ev.Message)
		}
	}()
	return s
}

func TestStreamAnswer_PrintsJSONLines(t *testing.T) {
	gw := scriptedGateway{events: []model.StatusEvent{
		{Step: model.StepInitializing, Message: "Initializing"},
		{Step: model.StepProcessing, Message: "Generating query (attempt 1)"},
		{Step: model.StepFinalAnswer, Message: "42"},
	}}
	var out bytes.Buffer
	cmd := newAskCmd()
	cmd.SetOut(&out)

	require.NoError(t, streamAnswer(context.Background(), cmd, gw, "default", "how many?"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var last model.StatusEvent
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, model.StepFinalAnswer, last.Step)
	assert.Equal(t, "42", last.Message)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestStreamAnswer_DrainsAfterWriteError(t *testing.T) {
	var events []model.StatusEvent
	for i := 0; i < 40; i++ {
		events = append(events, model.StatusEvent{Step: model.StepProcessing, Message: fmt.Sprintf("step %d", i)})
	}
	events = append(events, model.StatusEvent{Step: model.StepFinalAnswer, Message: "done"})
	gw := &trackingGateway{scriptedGateway: scriptedGateway{events: events}, finished: make(chan struct{})}

	cmd := newAskCmd()
	cmd.SetOut(failingWriter{})

	err := streamAnswer(context.Background(), cmd, gw, "default", "q")
	assert.ErrorContains(t, err, "broken pipe")

	select {
	case <-gw.finished:
	case <-time.After(2 * time.Second):
		t.Fatal("producer blocked after the write error")
	}
}

func TestStreamAnswer_ErrorTerminal(t *testing.T) {
	gw := scriptedGateway{events: []model.StatusEvent{
		{Step: model.StepInitializing, Message: "Initializing"},
		{Step: model.StepError, Message: "empty question"},
	}}
	var out bytes.Buffer
	cmd := newAskCmd()
	cmd.SetOut(&out)

	err := streamAnswer(context.Background(), cmd, gw, "default", "")
	assert.ErrorContains(t, err, "empty question")
	assert.Contains(t, out.String(), status.MsgNoProgress)
	assert.Equal(t, 3, strings.Count(out.String(), "\n"))
}
