package management

import "time"

// Reference addresses a project entity by id or codename.
type Reference struct {
	ID       string `json:"id,omitempty"`
	Codename string `json:"codename,omitempty"`
}

// ElementValue is one element entry of a language variant.
type ElementValue struct {
	Element Reference `json:"element"`
	Value   any       `json:"value"`
}

// TextElement builds the value of a text element addressed by codename.
func TextElement(codename, value string) ElementValue {
	return ElementValue{
		Element: Reference{Codename: codename},
		Value:   value,
	}
}

// UpsertRequest targets a language variant by item and language codenames.
type UpsertRequest struct {
	ItemCodename     string
	LanguageCodename string
	Elements         []ElementValue
}

type upsertBody struct {
	Elements []ElementValue `json:"elements"`
}

// LanguageVariant is the variant returned by the API after an upsert.
type LanguageVariant struct {
	Item         Reference      `json:"item"`
	Language     Reference      `json:"language"`
	Elements     []ElementValue `json:"elements"`
	WorkflowStep Reference      `json:"workflow_step"`
	LastModified time.Time      `json:"last_modified"`
}

// Element returns the element with the given id or codename, if present.
func (v *LanguageVariant) Element(ref string) (ElementValue, bool) {
	for _, e := range v.Elements {
		if e.Element.Codename == ref || e.Element.ID == ref {
			return e, true
		}
	}
	return ElementValue{}, false
}
