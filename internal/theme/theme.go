// Package theme loads and validates theme manifests.
//
// A theme manifest is a CUE file tuning the animation layer of a generated
// site: page speed, disabled effects, per-effect parameter overrides. Unlike
// authored data-* attributes - which fail silently to defaults because
// generated markup cannot be trusted - manifests are hand-written
// configuration, so validation is strict and errors carry positions.
package theme

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource string

// Theme is a validated manifest.
type Theme struct {
	Name string
	// Speed is the page multiplier; 0 means "not set, keep the page's own".
	Speed    float64
	Disabled []string
	// Overrides maps effect id -> param -> value.
	Overrides map[string]map[string]string
}

// ManifestError is a validation error with CUE position info when available.
type ManifestError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ManifestError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Load reads and validates a manifest file.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Message: fmt.Sprintf("reading manifest: %v", err)}
	}
	return Parse(string(data), path)
}

// Parse validates manifest source against the embedded schema and decodes it.
func Parse(src, filename string) (*Theme, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &ManifestError{Message: fmt.Sprintf("internal schema error: %v", err)}
	}

	val := ctx.CompileString(src, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return nil, &ManifestError{Message: fmt.Sprintf("parsing manifest: %v", err), Pos: val.Pos()}
	}

	unified := schema.LookupPath(cue.ParsePath("#Theme")).Unify(val)
	if err := unified.Validate(); err != nil {
		return nil, &ManifestError{Message: fmt.Sprintf("manifest does not match schema: %v", err), Pos: val.Pos()}
	}

	return decode(unified)
}

func decode(v cue.Value) (*Theme, error) {
	t := &Theme{}

	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, &ManifestError{Field: "name", Message: err.Error(), Pos: nameVal.Pos()}
		}
		t.Name = name
	}

	if speedVal := v.LookupPath(cue.ParsePath("speed")); speedVal.Exists() {
		speed, err := speedVal.Float64()
		if err != nil {
			return nil, &ManifestError{Field: "speed", Message: err.Error(), Pos: speedVal.Pos()}
		}
		t.Speed = speed
	}

	if disVal := v.LookupPath(cue.ParsePath("disabled")); disVal.Exists() {
		iter, err := disVal.List()
		if err != nil {
			return nil, &ManifestError{Field: "disabled", Message: err.Error(), Pos: disVal.Pos()}
		}
		for iter.Next() {
			id, err := iter.Value().String()
			if err != nil {
				return nil, &ManifestError{Field: "disabled", Message: err.Error(), Pos: iter.Value().Pos()}
			}
			t.Disabled = append(t.Disabled, id)
		}
	}

	if fxVal := v.LookupPath(cue.ParsePath("effects")); fxVal.Exists() {
		iter, err := fxVal.Fields()
		if err != nil {
			return nil, &ManifestError{Field: "effects", Message: err.Error(), Pos: fxVal.Pos()}
		}
		t.Overrides = make(map[string]map[string]string)
		for iter.Next() {
			effectID := iter.Selector().Unquoted()
			params, err := decodeParams(iter.Value())
			if err != nil {
				return nil, &ManifestError{
					Field:   "effects." + effectID,
					Message: err.Error(),
					Pos:     iter.Value().Pos(),
				}
			}
			t.Overrides[effectID] = params
		}
	}

	return t, nil
}

// decodeParams coerces one effect's override block to strings. The config
// resolver re-parses them exactly like authored attribute values, so the
// two override sources share one set of parsing rules.
func decodeParams(v cue.Value) (map[string]string, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, err
	}
	params := make(map[string]string)
	for iter.Next() {
		name := iter.Selector().Unquoted()
		pv := iter.Value()
		switch pv.Kind() {
		case cue.StringKind:
			s, err := pv.String()
			if err != nil {
				return nil, err
			}
			params[name] = s
		case cue.BoolKind:
			b, err := pv.Bool()
			if err != nil {
				return nil, err
			}
			params[name] = fmt.Sprintf("%t", b)
		case cue.IntKind:
			n, err := pv.Int64()
			if err != nil {
				return nil, err
			}
			params[name] = fmt.Sprintf("%d", n)
		case cue.FloatKind, cue.NumberKind:
			f, err := pv.Float64()
			if err != nil {
				return nil, err
			}
			params[name] = fmt.Sprintf("%g", f)
		default:
			return nil, fmt.Errorf("parameter %q has unsupported kind %v", name, pv.Kind())
		}
	}
	return params, nil
}
