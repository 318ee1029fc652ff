package widget

// State is the widget's view of the hosted element. Pointer fields are nil
// until the host has supplied them.
type State struct {
	Config          *Config
	ProjectID       *string
	Disabled        bool
	ItemName        *string
	ItemCodename    *string
	VariantCodename *string

	// WatchedValue mirrors the source element for display only.
	WatchedValue *string

	// Value is the authoritative value of the hosted element.
	Value *string
}

// ready reports whether enough state is known to render.
func (s State) ready() bool {
	return s.Config != nil &&
		s.ProjectID != nil && *s.ProjectID != "" &&
		s.Value != nil &&
		s.WatchedValue != nil &&
		s.ItemName != nil
}

// View is what a renderer draws: a text area holding Value, disabled when
// Disabled, and a trigger control.
type View struct {
	Value        string
	Disabled     bool
	WatchedValue string
	ItemName     string

	// EnterSubmits is set when pressing Enter in the text area triggers
	// generation.
	EnterSubmits bool
}

func ptr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
