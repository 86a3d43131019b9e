package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/calvinalkan/nestkit/internal/nesting"
	"github.com/calvinalkan/nestkit/internal/template"
	"github.com/tailscale/hujson"
)

// parseLayer decodes a JSONC settings document. Keys may be written dotted
// ("explorer.fileNesting.patterns") or nested ({"explorer": {...}}).
// Object members are walked in document order so pattern order survives.
// Unknown keys are ignored.
func parseLayer(data []byte) (layer, error) {
	v, err := hujson.Parse(data)
	if err != nil {
		return layer{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	v.Standardize()

	obj, ok := v.Value.(*hujson.Object)
	if !ok {
		return layer{}, fmt.Errorf("top level %w", ErrNotAnObject)
	}

	var l layer

	if err := l.decodeObject("", obj); err != nil {
		return layer{}, err
	}

	return l, nil
}

func (l *layer) decodeObject(prefix string, obj *hujson.Object) error {
	for i := range obj.Members {
		m := &obj.Members[i]

		name, err := decodeString(&m.Name)
		if err != nil {
			return fmt.Errorf("invalid key: %w", err)
		}

		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		handled, err := l.decodeKey(key, &m.Value)
		if err != nil {
			return err
		}

		if handled || !isKeyPrefix(key) {
			continue
		}

		if child, ok := m.Value.Value.(*hujson.Object); ok {
			if err := l.decodeObject(key, child); err != nil {
				return err
			}
		}
	}

	return nil
}

func (l *layer) decodeKey(key string, v *hujson.Value) (bool, error) {
	var err error

	switch key {
	case KeyPatterns:
		var pairs []pair

		pairs, err = decodeStringMap(key, v)
		for _, p := range pairs {
			l.patterns = mergeRules(l.patterns, nesting.Rules{{Parent: p.key, Children: p.value}})
		}
	case KeyTemplates:
		var pairs []pair

		pairs, err = decodeStringMap(key, v)
		for _, p := range pairs {
			l.templates = l.templates.Merge(template.Set{{Pattern: p.key, Body: p.value}})
		}
	case KeySyncRenames:
		l.syncRenames, err = decodeBool(key, v)
	case KeyShowChildrenBadge:
		l.showChildrenBadge, err = decodeBool(key, v)
	case KeyEnableParentRefs:
		l.enableParentRefs, err = decodeBool(key, v)
	case KeyEditor:
		var s string

		s, err = decodeString(v)
		if err != nil {
			err = fmt.Errorf("%s %w", key, ErrNotAString)
		}

		l.editor = &s
	default:
		return false, nil
	}

	return true, err
}

// isKeyPrefix reports whether key is a proper dotted prefix of a known key.
func isKeyPrefix(key string) bool {
	for _, k := range knownKeys {
		if strings.HasPrefix(k, key+".") {
			return true
		}
	}

	return false
}

type pair struct {
	key   string
	value string
}

// decodeStringMap decodes an object of string values in member order.
func decodeStringMap(key string, v *hujson.Value) ([]pair, error) {
	obj, ok := v.Value.(*hujson.Object)
	if !ok {
		return nil, fmt.Errorf("%s %w", key, ErrNotAnObject)
	}

	pairs := make([]pair, 0, len(obj.Members))

	for i := range obj.Members {
		m := &obj.Members[i]

		name, err := decodeString(&m.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid key: %w", key, err)
		}

		value, err := decodeString(&m.Value)
		if err != nil {
			return nil, fmt.Errorf("%s[%q] %w", key, name, ErrNotAString)
		}

		pairs = append(pairs, pair{key: name, value: value})
	}

	return pairs, nil
}

func decodeString(v *hujson.Value) (string, error) {
	var s string

	err := json.Unmarshal(v.Pack(), &s)

	return s, err
}

func decodeBool(key string, v *hujson.Value) (*bool, error) {
	var b bool

	if err := json.Unmarshal(v.Pack(), &b); err != nil {
		return nil, fmt.Errorf("%s %w", key, ErrNotABool)
	}

	return &b, nil
}
