package technique

import (
	"encoding/json"

	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

// FieldKind enumerates the closed set of input kinds an evaluation form may
// use. Anything outside this set fails validation rather than being carried
// through as opaque dynamic typing.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldNumber   FieldKind = "number"
	FieldTextarea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
)

// Field describes one input of a technique's dynamic evaluation form.
type Field struct {
	Label   string    `json:"label"`
	Kind    FieldKind `json:"type"`
	Options []string  `json:"options,omitempty"`
	Min     *float64  `json:"min,omitempty"`
	Max     *float64  `json:"max,omitempty"`
	Step    *float64  `json:"step,omitempty"`
}

// Schema maps field keys to their definitions.
type Schema map[string]Field

// Validate checks that every field uses a known kind and carries the
// constraints its kind requires.
func (s Schema) Validate() error {
	for key, f := range s {
		switch f.Kind {
		case FieldText, FieldTextarea, FieldNumber:
		case FieldSelect:
			if len(f.Options) == 0 {
				return fault.Validationf("campo %q: select sem opções", key)
			}
		default:
			return fault.Validationf("campo %q: tipo de campo desconhecido %q", key, f.Kind)
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return fault.Validationf("campo %q: min maior que max", key)
		}
	}
	return nil
}

// ValidateData checks a submitted evaluation_data payload against the schema.
// Keys outside the schema are rejected; values must match their field kind.
func (s Schema) ValidateData(data map[string]interface{}) error {
	for key, value := range data {
		f, ok := s[key]
		if !ok {
			return fault.Validationf("campo %q não existe no formulário de avaliação", key)
		}
		if err := f.validateValue(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (f Field) validateValue(key string, value interface{}) error {
	switch f.Kind {
	case FieldText, FieldTextarea:
		if _, ok := value.(string); !ok {
			return fault.Validationf("campo %q: esperado texto, recebido %T", key, value)
		}
	case FieldNumber:
		n, ok := toFloat(value)
		if !ok {
			return fault.Validationf("campo %q: esperado número, recebido %T", key, value)
		}
		if f.Min != nil && n < *f.Min {
			return fault.Validationf("campo %q: valor %v abaixo do mínimo %v", key, n, *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return fault.Validationf("campo %q: valor %v acima do máximo %v", key, n, *f.Max)
		}
	case FieldSelect:
		sv, ok := value.(string)
		if !ok {
			return fault.Validationf("campo %q: esperado opção, recebido %T", key, value)
		}
		for _, opt := range f.Options {
			if opt == sv {
				return nil
			}
		}
		return fault.Validationf("campo %q: opção %q não está entre as permitidas", key, sv)
	default:
		return fault.Validationf("campo %q: tipo de campo desconhecido %q", key, f.Kind)
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
