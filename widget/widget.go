// Package widget implements the prompt editing element.
//
// The widget lives in a CMS item form. The editor types a prompt into the
// hosted element; triggering generation sends the prompt to a generation
// provider and writes the answer into the companion element ("content") of
// a content item through the Management API.
//
//	w := widget.New(bridge,
//	    widget.WithVariant(widget.VariantInstance),
//	    widget.WithOnChange(render),
//	)
//	w.Mount()
//	defer w.Unmount()
//
// Generation runs are fire-and-forget. A failed run is logged and otherwise
// ignored: it never changes the hosted element's value or disabled flag.
//
// The default generator factory resolves providers through the registry, so
// binaries import github.com/randalmurphal/promptfield/providers.
package widget

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/randalmurphal/promptfield/host"
	"github.com/randalmurphal/promptfield/provider"
)

// Widget is one mounted editing element. All methods are safe for
// concurrent use; bridge callbacks and generation runs may arrive on any
// goroutine.
type Widget struct {
	bridge  host.Bridge
	variant Variant
	env     Credentials
	target  Target

	companion    string
	providerCfg  provider.Config
	newGenerator GeneratorFactory
	newSession   SessionFactory
	logger       *slog.Logger
	overlap      OverlapPolicy
	fixedHeight  int
	measure      func() float64
	onChange     func()
	onResult     func(Result)
	ctx          context.Context

	mu            sync.Mutex
	state         State
	mounted       bool
	disposers     []host.Disposer
	watchedSource string
	stopWatch     host.Disposer
	cancelRun     context.CancelFunc
	runs          sync.WaitGroup
}

// New creates an unmounted widget on bridge.
func New(bridge host.Bridge, opts ...Option) *Widget {
	w := &Widget{
		bridge:       bridge,
		variant:      VariantInstance,
		target:       Target{ItemCodename: DefaultTargetItem, LanguageCodename: DefaultTargetLanguage},
		companion:    DefaultCompanionElement,
		providerCfg:  provider.DefaultConfig(),
		newGenerator: provider.NewFromConfig,
		newSession:   defaultSessionFactory,
		logger:       slog.Default(),
		fixedHeight:  -1,
		ctx:          context.Background(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.fixedHeight < 0 {
		w.fixedHeight = 0
		if w.variant == VariantEnvironment {
			w.fixedHeight = DefaultFixedHeight
		}
	}
	return w
}

// Variant returns the configured variant.
func (w *Widget) Variant() Variant {
	return w.variant
}

// Mount registers the init callback and the host observers.
// Mounting twice is a no-op.
func (w *Widget) Mount() {
	w.mu.Lock()
	if w.mounted {
		w.mu.Unlock()
		return
	}
	w.mounted = true
	w.mu.Unlock()

	w.bridge.Init(w.handleInit)
	disabled := w.bridge.OnDisabledChanged(w.setDisabled)
	items := w.bridge.ObserveItemChanges(func(item host.Item) {
		w.setItemName(item.Name)
	})

	w.mu.Lock()
	w.disposers = append(w.disposers, disabled, items)
	w.mu.Unlock()
}

// Unmount disposes every subscription. In-flight generation runs are not
// cancelled; their results are still logged.
func (w *Widget) Unmount() {
	w.mu.Lock()
	disposers := w.disposers
	if w.stopWatch != nil {
		disposers = append(disposers, w.stopWatch)
	}
	w.disposers = nil
	w.stopWatch = nil
	w.watchedSource = ""
	w.mounted = false
	w.mu.Unlock()

	for _, dispose := range disposers {
		dispose()
	}
}

// handleInit is the bridge init callback.
func (w *Widget) handleInit(element host.Element, hctx host.Context) error {
	res := ParseConfig(element.Config, w.variant)
	if !res.OK() {
		return res.Err()
	}
	cfg := res.Config()

	value := ""
	if element.Value != nil {
		value = *element.Value
	}

	w.mu.Lock()
	if !w.mounted {
		w.mu.Unlock()
		return nil
	}
	w.state.Config = &cfg
	w.state.ProjectID = ptr(hctx.ProjectID)
	w.state.Disabled = element.Disabled
	w.state.ItemName = ptr(hctx.Item.Name)
	w.state.ItemCodename = ptr(hctx.Item.Codename)
	w.state.VariantCodename = ptr(hctx.Variant.Codename)
	w.state.Value = ptr(value)
	w.mu.Unlock()

	w.watch(cfg.SourceElement)
	w.bridge.SetHeight(w.initialHeight())
	w.changed()
	return nil
}

// watch reads the source element and keeps it mirrored. Watching a new
// codename disposes the previous subscription.
func (w *Widget) watch(codename string) {
	w.mu.Lock()
	if w.stopWatch != nil && w.watchedSource == codename {
		w.mu.Unlock()
		w.refreshWatched(codename)
		return
	}
	previous := w.stopWatch
	w.stopWatch = nil
	w.watchedSource = codename
	w.mu.Unlock()

	if previous != nil {
		previous()
	}

	w.refreshWatched(codename)
	stop := w.bridge.ObserveElementChanges([]string{codename}, func() {
		w.refreshWatched(codename)
	})

	w.mu.Lock()
	if w.watchedSource == codename && w.mounted {
		w.stopWatch = stop
		stop = nil
	}
	w.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// refreshWatched stores the source element's value when it is a string.
func (w *Widget) refreshWatched(codename string) {
	w.bridge.GetValue(codename, func(v any) {
		s, ok := v.(string)
		if !ok {
			return
		}
		w.mu.Lock()
		if w.watchedSource != codename {
			w.mu.Unlock()
			return
		}
		w.state.WatchedValue = ptr(s)
		w.mu.Unlock()
		w.changed()
	})
}

func (w *Widget) setDisabled(disabled bool) {
	w.mu.Lock()
	w.state.Disabled = disabled
	w.mu.Unlock()
	w.changed()
}

func (w *Widget) setItemName(name string) {
	w.mu.Lock()
	w.state.ItemName = ptr(name)
	w.mu.Unlock()
	w.changed()
}

func (w *Widget) initialHeight() int {
	if w.fixedHeight > 0 {
		return w.fixedHeight
	}
	measured := 0.0
	if w.measure != nil {
		measured = w.measure()
	}
	return int(math.Ceil(math.Max(measured, MinHeight)))
}

// Edit stores value in the host and reflects it locally without waiting for
// any confirmation.
func (w *Widget) Edit(value string) {
	w.bridge.SetValue(value)

	w.mu.Lock()
	w.state.Value = ptr(value)
	w.mu.Unlock()
	w.changed()
}

// KeyDown handles a key press in the text area holding value. In
// VariantInstance, Enter stores value and triggers generation with it; the
// return value reports whether the key was consumed.
func (w *Widget) KeyDown(key, value string) bool {
	if w.variant != VariantInstance || key != "Enter" {
		return false
	}
	w.Edit(value)
	w.generate(value)
	return true
}

// View returns what to render and whether the widget is ready. Until the
// configuration, project id, value, watched value and item name are all
// known, it returns false and nothing should be drawn.
func (w *Widget) View() (View, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.state.ready() {
		return View{}, false
	}
	return View{
		Value:        *w.state.Value,
		Disabled:     w.state.Disabled,
		WatchedValue: *w.state.WatchedValue,
		ItemName:     *w.state.ItemName,
		EnterSubmits: w.variant == VariantInstance,
	}, true
}

// Snapshot returns a copy of the current state.
func (w *Widget) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) changed() {
	if w.onChange != nil {
		w.onChange()
	}
}
