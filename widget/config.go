package widget

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Variant selects where credentials come from and how the widget behaves.
type Variant int

const (
	// VariantInstance reads credentials from the element configuration,
	// writes to the item being edited, sizes itself from the document and
	// submits on Enter.
	VariantInstance Variant = iota

	// VariantEnvironment reads credentials from process-wide defaults,
	// writes to a fixed target item and uses a fixed height.
	VariantEnvironment
)

func (v Variant) String() string {
	switch v {
	case VariantInstance:
		return "instance"
	case VariantEnvironment:
		return "environment"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant maps "instance" and "environment" to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "instance":
		return VariantInstance, nil
	case "environment", "env":
		return VariantEnvironment, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", s)
	}
}

// JSON property names of the element configuration.
const (
	fieldSourceElement    = "textElementCodename"
	fieldManagementAPIKey = "managementApiKey"
	fieldAPIToken         = "apiToken"
)

func (v Variant) requiredFields() []string {
	if v == VariantEnvironment {
		return []string{fieldSourceElement}
	}
	return []string{fieldSourceElement, fieldManagementAPIKey, fieldAPIToken}
}

// Config is the validated element configuration.
type Config struct {
	// SourceElement is the codename of the element mirrored into the widget.
	SourceElement string `json:"textElementCodename"`

	// ManagementAPIKey authenticates upserts (VariantInstance only).
	ManagementAPIKey string `json:"managementApiKey,omitempty"`

	// APIToken authenticates generation calls (VariantInstance only).
	APIToken string `json:"apiToken,omitempty"`
}

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid custom element configuration")

// InvalidConfigMessage is what editors see when the element configuration
// is rejected.
const InvalidConfigMessage = "Invalid configuration of the custom element. Please check the documentation."

// ConfigError lists what is wrong with an element configuration.
type ConfigError struct {
	Variant  Variant
	Problems []string
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidConfig.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig.Error(), strings.Join(e.Problems, "; "))
}

// Message returns the editor-facing text for the error.
func (e *ConfigError) Message() string {
	if len(e.Problems) == 0 {
		return InvalidConfigMessage
	}
	return fmt.Sprintf("%s (%s)", InvalidConfigMessage, strings.Join(e.Problems, "; "))
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// ConfigResult is the outcome of ParseConfig: either a Config or a
// *ConfigError, never both.
type ConfigResult struct {
	config Config
	err    *ConfigError
}

// OK reports whether the configuration was valid.
func (r ConfigResult) OK() bool {
	return r.err == nil
}

// Config returns the parsed configuration. Zero when !OK().
func (r ConfigResult) Config() Config {
	return r.config
}

// Err returns the validation failure, or nil.
func (r ConfigResult) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// ParseConfig checks that raw is a JSON object holding a string for every
// property the variant requires. Extra properties are ignored and values
// are not checked beyond their type.
func ParseConfig(raw json.RawMessage, v Variant) ConfigResult {
	fail := func(problems ...string) ConfigResult {
		return ConfigResult{err: &ConfigError{Variant: v, Problems: problems}}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return fail("configuration is not a JSON object")
	}

	values := make(map[string]string, 3)
	var problems []string
	for _, name := range v.requiredFields() {
		value, ok := fields[name]
		if !ok {
			problems = append(problems, name+": missing")
			continue
		}
		s, ok := jsonString(value)
		if !ok {
			problems = append(problems, name+": not a string")
			continue
		}
		values[name] = s
	}
	if len(problems) > 0 {
		return fail(problems...)
	}

	return ConfigResult{config: Config{
		SourceElement:    values[fieldSourceElement],
		ManagementAPIKey: values[fieldManagementAPIKey],
		APIToken:         values[fieldAPIToken],
	}}
}

// jsonString decodes raw only when it is a JSON string literal; null and
// other types are rejected.
func jsonString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

type instanceConfigDoc struct {
	TextElementCodename string `json:"textElementCodename" jsonschema:"title=Watched element,description=Codename of the element whose value is shown next to the prompt"`
	ManagementAPIKey    string `json:"managementApiKey" jsonschema:"title=Management API key,description=Key used to write generated text into the item"`
	APIToken            string `json:"apiToken" jsonschema:"title=Chatsonic API key,description=Sent as X-API-KEY to the generation service"`
}

type environmentConfigDoc struct {
	TextElementCodename string `json:"textElementCodename" jsonschema:"title=Watched element,description=Codename of the element whose value is shown next to the prompt"`
}

// ConfigSchema returns the JSON Schema of the element configuration the
// variant accepts, for the CMS element settings documentation.
func ConfigSchema(v Variant) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}

	var s *jsonschema.Schema
	if v == VariantEnvironment {
		s = r.Reflect(&environmentConfigDoc{})
	} else {
		s = r.Reflect(&instanceConfigDoc{})
	}
	s.Title = "promptfield element configuration (" + v.String() + ")"
	return s
}
