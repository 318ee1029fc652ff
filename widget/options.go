package widget

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/promptfield/management"
	"github.com/randalmurphal/promptfield/provider"
)

// Defaults for the companion element, the environment variant target and
// the reported height.
const (
	DefaultCompanionElement = "content"
	DefaultTargetItem       = "_ai_content___chatgtp"
	DefaultTargetLanguage   = "default"
	DefaultFixedHeight      = 500
	MinHeight               = 50
)

// OverlapPolicy decides what happens when generation is triggered while a
// previous run is still in flight.
type OverlapPolicy int

const (
	// OverlapConcurrent lets runs race; the upsert that lands last wins.
	OverlapConcurrent OverlapPolicy = iota

	// OverlapCancelPrevious cancels the in-flight run when a new one starts.
	OverlapCancelPrevious
)

// Credentials are the secrets and project a generation run uses.
type Credentials struct {
	ProjectID        string
	ManagementAPIKey string
	GenerationAPIKey string
}

// Target addresses the language variant receiving generated text.
type Target struct {
	ItemCodename     string
	LanguageCodename string
}

// Saver persists generated text; *management.Client implements it.
type Saver interface {
	UpsertLanguageVariant(ctx context.Context, req management.UpsertRequest) (*management.LanguageVariant, error)
}

// SessionFactory opens a management session for a project.
type SessionFactory func(projectID, apiKey string) (Saver, error)

// GeneratorFactory builds the generation client for a run.
type GeneratorFactory func(cfg provider.Config) (provider.Client, error)

func defaultSessionFactory(projectID, apiKey string) (Saver, error) {
	client, err := management.New(projectID, apiKey)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Option configures a Widget.
type Option func(*Widget)

// WithVariant selects the widget variant. Default VariantInstance.
func WithVariant(v Variant) Option {
	return func(w *Widget) { w.variant = v }
}

// WithEnvironment supplies the process-wide credentials used by
// VariantEnvironment.
func WithEnvironment(creds Credentials) Option {
	return func(w *Widget) { w.env = creds }
}

// WithTarget sets the fixed upsert target used by VariantEnvironment.
func WithTarget(itemCodename, languageCodename string) Option {
	return func(w *Widget) {
		w.target = Target{ItemCodename: itemCodename, LanguageCodename: languageCodename}
	}
}

// WithCompanionElement changes the codename of the element receiving
// generated text.
func WithCompanionElement(codename string) Option {
	return func(w *Widget) { w.companion = codename }
}

// WithProvider sets the base provider configuration. The API key is
// replaced per run with the resolved credential.
func WithProvider(cfg provider.Config) Option {
	return func(w *Widget) { w.providerCfg = cfg }
}

// WithGeneratorFactory replaces the provider registry lookup.
func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(w *Widget) { w.newGenerator = f }
}

// WithSessionFactory replaces management.New.
func WithSessionFactory(f SessionFactory) Option {
	return func(w *Widget) { w.newSession = f }
}

// WithLogger sets the logger for failed and completed runs.
func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithOverlap sets the overlap policy. Default OverlapConcurrent.
func WithOverlap(p OverlapPolicy) Option {
	return func(w *Widget) { w.overlap = p }
}

// WithFixedHeight reports px at initialization instead of measuring.
func WithFixedHeight(px int) Option {
	return func(w *Widget) { w.fixedHeight = px }
}

// WithMeasure supplies the rendered document height for measured sizing.
func WithMeasure(fn func() float64) Option {
	return func(w *Widget) { w.measure = fn }
}

// WithOnChange registers a callback run after every state change, outside
// the widget lock. Renderers use it to redraw from View.
func WithOnChange(fn func()) Option {
	return func(w *Widget) { w.onChange = fn }
}

// WithResultHook registers a callback receiving every run's Result after it
// has been logged.
func WithResultHook(fn func(Result)) Option {
	return func(w *Widget) { w.onResult = fn }
}

// WithContext sets the parent context of generation runs.
func WithContext(ctx context.Context) Option {
	return func(w *Widget) { w.ctx = ctx }
}
