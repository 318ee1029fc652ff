package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randalmurphal/promptfield/management"
	"github.com/randalmurphal/promptfield/provider"
)

// Stage names how far a generation run got.
type Stage string

// Run stages, in order. A failed run reports the stage that failed.
const (
	StageConfigure Stage = "configure"
	StageGenerate  Stage = "generate"
	StageDecode    Stage = "decode"
	StageSession   Stage = "session"
	StageUpsert    Stage = "upsert"
	StageDone      Stage = "done"
)

// Result is the outcome of one generation run.
type Result struct {
	Prompt   string
	Text     string
	Target   Target
	Stage    Stage
	Err      error
	Duration time.Duration
}

// OK reports whether the generated text was saved.
func (r Result) OK() bool {
	return r.Err == nil && r.Stage == StageDone
}

var (
	errNotInitialized = errors.New("widget is not initialized")
	errNoTarget       = errors.New("no item or language to write to")
)

// Generate sends the current value as a prompt and returns immediately.
// Calls before initialization are ignored.
func (w *Widget) Generate() {
	w.mu.Lock()
	value := w.state.Value
	w.mu.Unlock()

	if value == nil {
		w.logger.Debug("generation ignored before initialization")
		return
	}
	w.generate(*value)
}

// Wait blocks until every started generation run has finished.
func (w *Widget) Wait() {
	w.runs.Wait()
}

func (w *Widget) generate(prompt string) {
	w.mu.Lock()
	snap := w.state
	if w.overlap == OverlapCancelPrevious && w.cancelRun != nil {
		w.cancelRun()
	}
	runCtx, cancel := context.WithCancel(w.ctx)
	if w.overlap == OverlapCancelPrevious {
		w.cancelRun = cancel
	}
	w.runs.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.runs.Done()
		defer cancel()
		w.handleResult(w.run(runCtx, prompt, snap))
	}()
}

// run performs one generation and upsert. It never touches widget state.
func (w *Widget) run(ctx context.Context, prompt string, snap State) Result {
	start := time.Now()
	res := Result{Prompt: prompt}
	fail := func(stage Stage, err error) Result {
		res.Stage = stage
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	creds, target, err := w.resolve(snap)
	if err != nil {
		return fail(StageConfigure, err)
	}
	res.Target = target

	gen, err := w.newGenerator(w.providerCfg.WithAPIKey(creds.GenerationAPIKey))
	if err != nil {
		return fail(StageGenerate, err)
	}
	defer gen.Close()

	resp, err := gen.Generate(ctx, provider.Request{Prompt: prompt})
	if err != nil {
		if errors.Is(err, provider.ErrMalformedResponse) {
			return fail(StageDecode, err)
		}
		return fail(StageGenerate, err)
	}
	res.Text = resp.Content

	session, err := w.newSession(creds.ProjectID, creds.ManagementAPIKey)
	if err != nil {
		return fail(StageSession, err)
	}

	_, err = session.UpsertLanguageVariant(ctx, management.UpsertRequest{
		ItemCodename:     target.ItemCodename,
		LanguageCodename: target.LanguageCodename,
		Elements:         []management.ElementValue{management.TextElement(w.companion, resp.Content)},
	})
	if err != nil {
		return fail(StageUpsert, err)
	}

	res.Stage = StageDone
	res.Duration = time.Since(start)
	return res
}

// resolve picks credentials and the upsert target for the variant.
func (w *Widget) resolve(snap State) (Credentials, Target, error) {
	if w.variant == VariantEnvironment {
		return w.env, w.target, nil
	}

	if snap.Config == nil {
		return Credentials{}, Target{}, errNotInitialized
	}
	target := Target{
		ItemCodename:     deref(snap.ItemCodename),
		LanguageCodename: deref(snap.VariantCodename),
	}
	if target.ItemCodename == "" || target.LanguageCodename == "" {
		return Credentials{}, Target{}, errNoTarget
	}
	return Credentials{
		ProjectID:        deref(snap.ProjectID),
		ManagementAPIKey: snap.Config.ManagementAPIKey,
		GenerationAPIKey: snap.Config.APIToken,
	}, target, nil
}

// handleResult is the single sink for run outcomes: failures are logged and
// dropped.
func (w *Widget) handleResult(res Result) {
	if res.Err != nil {
		w.logger.Error("content generation failed",
			slog.String("stage", string(res.Stage)),
			slog.String("item", res.Target.ItemCodename),
			slog.String("language", res.Target.LanguageCodename),
			slog.Bool("retryable", provider.IsRetryable(res.Err)),
			slog.Any("error", res.Err))
	} else {
		w.logger.Info("generated content saved",
			slog.String("item", res.Target.ItemCodename),
			slog.String("language", res.Target.LanguageCodename),
			slog.String("element", w.companion),
			slog.Int("chars", len(res.Text)),
			slog.Duration("duration", res.Duration))
	}

	if w.onResult != nil {
		w.onResult(res)
	}
}

// String formats the result for terminal output.
func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s failed: %v", r.Stage, r.Err)
	}
	return r.Text
}
