package crud

import (
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var typeRules = map[FieldType]struct {
	tag     string
	message string
}{
	FieldEmail:  {tag: "email", message: "%s must be a valid email address."},
	FieldURL:    {tag: "url", message: "%s must be a valid URL."},
	FieldNumber: {tag: "numeric", message: "%s must be a number."},
}

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldNumber   FieldType = "number"
	FieldURL      FieldType = "url"
)

// Field describes one input of the add/edit panel.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// Values are form values keyed by field name.
type Values map[string]string

func (v Values) Get(name string) string {
	return v[name]
}

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, value := range v {
		out[k] = value
	}
	return out
}

// Validate keeps only declared fields and checks required and typed inputs.
// Failures carry a field -> message map as details.
func Validate(fields []Field, input Values) (Values, error) {
	out := make(Values, len(fields))
	problems := map[string]string{}
	for _, f := range fields {
		value := strings.TrimSpace(input[f.Name])
		out[f.Name] = value
		if value == "" {
			if f.Required {
				problems[f.Name] = fmt.Sprintf("%s is required.", f.Label)
			}
			continue
		}
		if rule, ok := typeRules[f.Type]; ok {
			if err := validate.Var(value, rule.tag); err != nil {
				problems[f.Name] = fmt.Sprintf(rule.message, f.Label)
			}
		}
	}
	if len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "please fill in the required fields").WithDetails(problems)
	}
	return out, nil
}
