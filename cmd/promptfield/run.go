package main

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/randalmurphal/promptfield/host"
	"github.com/randalmurphal/promptfield/settings"
	"github.com/randalmurphal/promptfield/widget"
)

// runRequest is one generation outside the browser. Empty Item and Language
// fall back to the settings target.
type runRequest struct {
	Prompt   string `json:"prompt"`
	Item     string `json:"item,omitempty"`
	Language string `json:"language,omitempty"`
}

// runOnce mounts a widget on an in-memory bridge, initializes it the way
// the CMS would for req, triggers generation and waits for the result.
func runOnce(ctx context.Context, s settings.Settings, req runRequest, logger *slog.Logger, observe func(widget.Variant, widget.Result)) (widget.Result, error) {
	item := firstNonEmpty(req.Item, s.TargetItem)
	language := firstNonEmpty(req.Language, s.TargetLanguage)
	variant := s.WidgetVariant()

	raw, err := elementConfig(s, variant)
	if err != nil {
		return widget.Result{}, err
	}

	var res widget.Result
	opts := append(s.WidgetOptions(),
		widget.WithTarget(item, language),
		widget.WithLogger(logger),
		widget.WithContext(ctx),
		widget.WithResultHook(func(r widget.Result) {
			res = r
			if observe != nil {
				observe(variant, r)
			}
		}),
	)

	bridge := host.NewMemoryBridge(nil)
	w := widget.New(bridge, opts...)
	w.Mount()
	defer w.Unmount()

	prompt := req.Prompt
	err = bridge.Start(host.Element{Config: raw, Value: &prompt}, host.Context{
		ProjectID: s.ProjectID,
		Item:      host.Item{Codename: item, Name: item},
		Variant:   host.Variant{Codename: language},
	})
	if err != nil {
		return widget.Result{}, err
	}

	w.Generate()
	w.Wait()
	return res, res.Err
}

// elementConfig returns the element configuration from the settings, or
// one assembled from the settings credentials when none is configured.
func elementConfig(s settings.Settings, v widget.Variant) (json.RawMessage, error) {
	if s.ElementConfig != nil {
		return s.ElementConfigJSON()
	}
	cfg := map[string]string{"textElementCodename": ""}
	if v == widget.VariantInstance {
		cfg["managementApiKey"] = s.ManagementAPIKey
		cfg["apiToken"] = s.ProviderConfig().APIKey
	}
	return json.Marshal(cfg)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
