package model

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
)

// Canonical submission field names.
const (
	FieldFirstName            = "firstName"
	FieldLastName             = "lastName"
	FieldCompanyName          = "companyName"
	FieldClientEmail          = "clientEmail"
	FieldWebsite              = "website"
	FieldIndustry             = "industry"
	FieldCompanySize          = "companySize"
	FieldServicesRequested    = "servicesRequested"
	FieldDeploymentModel      = "deploymentModel"
	FieldSupportLevel         = "supportLevel"
	FieldRequiresIntegrations = "requiresIntegrations"
	FieldNumberOfEndpoints    = "numberOfEndpoints"
	FieldComplianceSupport    = "complianceSupport"
	FieldMetadata             = "metadata"
)

// Submission is a normalized intake form submission. Every field is optional;
// nil means the form did not carry it.
type Submission struct {
	FirstName            *string   `json:"firstName,omitempty"`
	LastName             *string   `json:"lastName,omitempty"`
	CompanyName          *string   `json:"companyName,omitempty"`
	ClientEmail          *string   `json:"clientEmail,omitempty"`
	Website              *string   `json:"website,omitempty"`
	Industry             *string   `json:"industry,omitempty"`
	CompanySize          *string   `json:"companySize,omitempty"`
	ServicesRequested    []string  `json:"servicesRequested,omitempty"`
	DeploymentModel      *string   `json:"deploymentModel,omitempty"`
	SupportLevel         *string   `json:"supportLevel,omitempty"`
	RequiresIntegrations *string   `json:"requiresIntegrations,omitempty"`
	NumberOfEndpoints    *string   `json:"numberOfEndpoints,omitempty"`
	ComplianceSupport    *string   `json:"complianceSupport,omitempty"`
	Metadata             *Metadata `json:"metadata,omitempty"`
}

// Metadata describes where a submission came from.
type Metadata struct {
	Source       string `json:"source"`
	FormID       string `json:"formId,omitempty"`
	FormName     string `json:"formName,omitempty"`
	SubmittedAt  string `json:"submittedAt,omitempty"`
	SubmissionID string `json:"submissionId,omitempty"`
	RespondentID string `json:"respondentId,omitempty"`
}

// Text returns *p, or "" when p is nil.
func Text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// SubmissionFromMap converts a flat field mapping into a Submission. Scalar
// fields accept strings, numbers and booleans; a list in a scalar field
// contributes its first element. servicesRequested accepts a single string or
// a list. Unknown keys are ignored.
func SubmissionFromMap(m map[string]any) *Submission {
	s := &Submission{
		FirstName:            textValue(m[FieldFirstName]),
		LastName:             textValue(m[FieldLastName]),
		CompanyName:          textValue(m[FieldCompanyName]),
		ClientEmail:          textValue(m[FieldClientEmail]),
		Website:              textValue(m[FieldWebsite]),
		Industry:             textValue(m[FieldIndustry]),
		CompanySize:          textValue(m[FieldCompanySize]),
		ServicesRequested:    listValue(m[FieldServicesRequested]),
		DeploymentModel:      textValue(m[FieldDeploymentModel]),
		SupportLevel:         textValue(m[FieldSupportLevel]),
		RequiresIntegrations: textValue(m[FieldRequiresIntegrations]),
		NumberOfEndpoints:    textValue(m[FieldNumberOfEndpoints]),
		ComplianceSupport:    textValue(m[FieldComplianceSupport]),
	}

	switch md := m[FieldMetadata].(type) {
	case Metadata:
		s.Metadata = &md
	case *Metadata:
		s.Metadata = md
	case map[string]any:
		s.Metadata = &Metadata{
			Source:       Text(textValue(md["source"])),
			FormID:       Text(textValue(md["formId"])),
			FormName:     Text(textValue(md["formName"])),
			SubmittedAt:  Text(textValue(md["submittedAt"])),
			SubmissionID: Text(textValue(md["submissionId"])),
			RespondentID: Text(textValue(md["respondentId"])),
		}
	}
	return s
}

// DecodeSubmission parses a normalized submission from JSON. A JSON null
// yields a nil Submission.
func DecodeSubmission(data []byte) (*Submission, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, eris.Wrap(err, "model: decode submission")
	}
	if m == nil {
		return nil, nil
	}
	return SubmissionFromMap(m), nil
}

func textValue(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case bool:
		s = strconv.FormatBool(t)
	case []string:
		if len(t) == 0 {
			return nil
		}
		s = t[0]
	case []any:
		if len(t) == 0 {
			return nil
		}
		return textValue(t[0])
	default:
		return nil
	}
	return &s
}

func listValue(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := textValue(item); s != nil {
				out = append(out, *s)
			}
		}
		return out
	default:
		if s := textValue(v); s != nil {
			return []string{*s}
		}
		return nil
	}
}
