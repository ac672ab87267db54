package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"
	"github.com/spf13/cast"

	"github.com/aretw0/animio/pkg/core"
)

// decodeDocument converts a payload that already passed validateStructure
// into a typed document. Numbers may arrive as json.Number or, in lenient
// mode, as numeric strings; both become float64.
func decodeDocument(payload any) (*core.ActionDocument, []core.Problem) {
	root := payload.(map[string]any)
	d := &decoder{}

	doc := &core.ActionDocument{
		Version: core.SchemaVersion,
		Name:    cast.ToString(root["name"]),
	}
	if v, ok := root["version"]; ok {
		doc.Version = d.integer("version", v)
	}

	raw, _ := root["keyframes"].([]any)
	doc.Keyframes = make([]core.KeyframeRecord, 0, len(raw))
	for i, item := range raw {
		m := item.(map[string]any)
		at := func(field string) string { return fmt.Sprintf("keyframes.%d.%s", i, field) }
		doc.Keyframes = append(doc.Keyframes, core.KeyframeRecord{
			DataPath:        cast.ToString(m["data_path"]),
			Group:           cast.ToString(m["group"]),
			ArrayIndex:      d.integer(at("array_index"), m["array_index"]),
			Co:              d.vec2(at("co"), m["co"]),
			HandleLeft:      d.vec2(at("handle_left"), m["handle_left"]),
			HandleLeftType:  core.HandleType(cast.ToString(m["handle_left_type"])),
			HandleRight:     d.vec2(at("handle_right"), m["handle_right"]),
			HandleRightType: core.HandleType(cast.ToString(m["handle_right_type"])),
			Interpolation:   core.Interpolation(cast.ToString(m["interpolation"])),
			Easing:          core.Easing(cast.ToString(m["easing"])),
			Amplitude:       d.float(at("amplitude"), m["amplitude"]),
			Back:            d.float(at("back"), m["back"]),
			Period:          d.float(at("period"), m["period"]),
			Type:            core.KeyframeType(cast.ToString(m["type"])),
		})
	}
	return doc, d.problems
}

type decoder struct {
	problems []core.Problem
}

func (d *decoder) float(location string, v any) float64 {
	switch n := v.(type) {
	case json.Number:
		v = n.String()
	case string:
		v = strings.TrimSpace(n)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		d.problems = append(d.problems, core.Problem{
			Location: location,
			Message:  fmt.Sprintf("%v is not a finite number", v),
		})
		return 0
	}
	return f
}

func (d *decoder) integer(location string, v any) int {
	before := len(d.problems)
	f := d.float(location, v)
	if len(d.problems) > before {
		return 0
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		d.problems = append(d.problems, core.Problem{
			Location: location,
			Message:  fmt.Sprintf("%v is not an integer", v),
		})
		return 0
	}
	return int(f)
}

func (d *decoder) vec2(location string, v any) core.Vec2 {
	items, _ := v.([]any)
	var out core.Vec2
	for i := 0; i < len(items) && i < len(out); i++ {
		out[i] = d.float(fmt.Sprintf("%s.%d", location, i), items[i])
	}
	return out
}

// recordValidator checks the enumerations and ranges of decoded records.
type recordValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRecordValidator() *recordValidator {
	validate := validator.New()

	enLocale := en.New()
	translator, found := ut.New(enLocale, enLocale).GetTranslator("en")
	if !found {
		panic(fmt.Errorf("en translator was not found"))
	}
	if err := enTranslation.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(fmt.Errorf("translator was not registered: %w", err))
	}

	// Use JSON field names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	return &recordValidator{validate: validate, translator: translator}
}

func (v *recordValidator) problems(doc *core.ActionDocument) []core.Problem {
	var problems []core.Problem
	for i := range doc.Keyframes {
		err := v.validate.Struct(doc.Keyframes[i])
		if err == nil {
			continue
		}
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			problems = append(problems, core.Problem{Location: fmt.Sprintf("keyframes.%d", i), Message: err.Error()})
			continue
		}
		for _, e := range validationErrs {
			problems = append(problems, core.Problem{
				Location: fmt.Sprintf("keyframes.%d.%s", i, e.Field()),
				Message:  e.Translate(v.translator),
			})
		}
	}
	return problems
}
