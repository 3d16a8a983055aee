// Package intake normalizes form-builder webhook payloads into submissions.
package intake

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/proposal-cli/internal/model"
)

// SourceTally is the metadata source tag for Tally submissions.
const SourceTally = "Tally"

// Webhook is a Tally form-response webhook.
type Webhook struct {
	EventID   string   `json:"eventId"`
	EventType string   `json:"eventType"`
	CreatedAt string   `json:"createdAt"`
	Data      FormData `json:"data"`
}

// FormData is the response payload of a Tally webhook.
type FormData struct {
	ResponseID   string  `json:"responseId"`
	SubmissionID string  `json:"submissionId"`
	RespondentID string  `json:"respondentId"`
	FormID       string  `json:"formId"`
	FormName     string  `json:"formName"`
	CreatedAt    string  `json:"createdAt"`
	Fields       []Field `json:"fields"`
}

// Field is one answered question. Value is a scalar for inputs and a list of
// option ids for choice questions.
type Field struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Value   any      `json:"value"`
	Options []Option `json:"options,omitempty"`
}

// Option is a selectable answer of a choice question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// FieldMap renames form question keys to canonical submission field names.
// Lookups ignore case.
type FieldMap map[string]string

// DefaultFieldMap maps the question keys of the security services intake form.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		"question_J6lyW7": model.FieldFirstName,
		"question_g0qBkK": model.FieldLastName,
		"question_7WKG1A": model.FieldClientEmail,
		"question_y64OdW": model.FieldCompanyName,
		"question_487god": model.FieldWebsite,
		"question_XDoj2V": model.FieldIndustry,
		"question_8KL9Mo": model.FieldCompanySize,
		"question_0x84aQ": model.FieldServicesRequested,
		"question_zqMVLE": model.FieldDeploymentModel,
		"question_5z9NMb": model.FieldRequiresIntegrations,
		"question_d607vN": model.FieldComplianceSupport,
		"question_YQG2k0": model.FieldNumberOfEndpoints,
		"question_DNpLMp": model.FieldSupportLevel,
	}
}

// Merge returns a copy of m with overrides applied on top.
func (m FieldMap) Merge(overrides map[string]string) FieldMap {
	out := make(FieldMap, len(m)+len(overrides))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	for k, v := range overrides {
		out[strings.ToLower(k)] = v
	}
	return out
}

func (m FieldMap) resolve(key string) string {
	if name, ok := m[key]; ok {
		return name
	}
	if name, ok := m[strings.ToLower(key)]; ok {
		return name
	}
	for k, name := range m {
		if strings.EqualFold(k, key) {
			return name
		}
	}
	return key
}

// Normalizer flattens Tally webhooks into submissions.
type Normalizer struct {
	fields FieldMap
}

// NewNormalizer creates a Normalizer using fields to rename question keys.
func NewNormalizer(fields FieldMap) *Normalizer {
	return &Normalizer{fields: fields}
}

// Flatten maps every answered field to its canonical name. Choice questions
// resolve option ids to option texts in option order; a single selection
// collapses to a string. A question without key falls back to its label, and
// a key missing from the field map is kept as-is.
func (n *Normalizer) Flatten(w Webhook) map[string]any {
	out := make(map[string]any, len(w.Data.Fields)+1)
	for _, f := range w.Data.Fields {
		key := f.Key
		if key == "" {
			key = f.Label
		}
		out[n.fields.resolve(key)] = fieldValue(f)
	}

	out[model.FieldMetadata] = model.Metadata{
		Source:       SourceTally,
		FormID:       w.Data.FormID,
		FormName:     w.Data.FormName,
		SubmittedAt:  w.Data.CreatedAt,
		SubmissionID: w.Data.SubmissionID,
		RespondentID: w.Data.RespondentID,
	}
	return out
}

// Normalize flattens w into a Submission.
func (n *Normalizer) Normalize(w Webhook) *model.Submission {
	return model.SubmissionFromMap(n.Flatten(w))
}

// DecodeWebhook parses a Tally webhook body.
func DecodeWebhook(data []byte) (Webhook, error) {
	var w Webhook
	if err := json.Unmarshal(data, &w); err != nil {
		return Webhook{}, eris.Wrap(err, "intake: decode webhook")
	}
	return w, nil
}

func fieldValue(f Field) any {
	selected, isChoice := f.Value.([]any)
	if !isChoice || f.Options == nil {
		return f.Value
	}

	texts := make([]string, 0, len(selected))
	for _, o := range f.Options {
		if slices.Contains(selected, any(o.ID)) {
			texts = append(texts, o.Text)
		}
	}
	if len(texts) == 1 {
		return texts[0]
	}
	return texts
}
