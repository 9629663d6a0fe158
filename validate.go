// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package conf

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/qstd/conf/confmap"
	"github.com/qstd/conf/schema"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-viper/mapstructure/v2"
)

// Validator turns a raw mapping into a validated configuration value.
// A non-nil error means the mapping was rejected and the returned value
// must not be used.
type Validator[T any] interface {
	Validate(m confmap.Map) (T, error)
}

// ModelValidator is the default Validator. It decodes the raw mapping
// into T by matching "config" struct tags (falling back to field
// names), coercing raw string values where the target type allows, and
// then runs the model's own Validate method when it implements
// [validation.Validatable].
//
// ModelValidator also implements the storage Codec: Encode derives the
// raw mapping back from a validated value, which is what shared
// storage writes into the cross-process context.
type ModelValidator[T any] struct{}

// NewModelValidator returns a ModelValidator for T.
func NewModelValidator[T any]() ModelValidator[T] {
	return ModelValidator[T]{}
}

// Validate implements the Validator interface.
func (v ModelValidator[T]) Validate(m confmap.Map) (T, error) {
	var value T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           &value,
		WeaklyTypedInput: true,
		DecodeHook: composeDecodeHooks(
			textUnmarshalerHookFunc(),
			timeDurationHookFunc(),
		),
	})
	if err != nil {
		return value, err
	}

	err = dec.Decode(map[string]any(m))
	if err != nil {
		return value, decodeValidationError(err)
	}

	err = validateModel(&value)
	if err != nil {
		return value, err
	}
	return value, nil
}

// Decode implements the storage Codec interface.
func (v ModelValidator[T]) Decode(m confmap.Map) (T, error) {
	return v.Validate(m)
}

// Encode implements the storage Codec interface. It derives the raw
// mapping form of a validated value by walking the value with the same
// field naming rules Validate decodes with.
func (ModelValidator[T]) Encode(value T) (confmap.Map, error) {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return make(confmap.Map), nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.New("configuration value is not a struct")
	}
	return encodeStruct(v), nil
}

func encodeStruct(v reflect.Value) confmap.Map {
	m := make(confmap.Map)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, ok := schema.FieldKey(t.Field(i))
		if !ok {
			continue
		}
		m[name] = encodeValue(v.Field(i))
	}
	return m
}

func encodeValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return encodeValue(v.Elem())
	case reflect.Struct:
		// time.Time survives as-is: it round-trips through its
		// text form and the TextUnmarshaler decode hook.
		if v.Type() == reflect.TypeOf(time.Time{}) {
			return v.Interface()
		}
		return encodeStruct(v)
	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = encodeValue(v.Index(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = encodeValue(iter.Value())
		}
		return out
	default:
		return v.Interface()
	}
}

func validateModel(value any) error {
	v, ok := value.(validation.Validatable)
	if !ok {
		return nil
	}

	err := v.Validate()
	if err == nil {
		return nil
	}

	var verr ValidationError
	collectFieldErrors(&verr, "", err)
	return verr
}

func collectFieldErrors(verr *ValidationError, path string, err error) {
	errs, ok := err.(validation.Errors)
	if !ok {
		verr.Fields = append(verr.Fields, FieldError{
			Path:   path,
			Reason: err.Error(),
		})
		return
	}

	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sub := key
		if path != "" {
			sub = path + "." + key
		}
		collectFieldErrors(verr, sub, errs[key])
	}
}

// decodeValidationError converts a mapstructure decode failure into a
// ValidationError, extracting the quoted field path each decode reason
// carries.
func decodeValidationError(err error) error {
	var merr *mapstructure.Error
	if !errors.As(err, &merr) {
		return ValidationError{
			Fields: []FieldError{{Reason: err.Error()}},
		}
	}

	verr := ValidationError{
		Fields: make([]FieldError, 0, len(merr.Errors)),
	}
	for _, reason := range merr.Errors {
		verr.Fields = append(verr.Fields, FieldError{
			Path:   quotedPath(reason),
			Reason: reason,
		})
	}
	return verr
}

func quotedPath(reason string) string {
	start := strings.IndexByte(reason, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(reason[start+1:], '\'')
	if end < 0 {
		return ""
	}
	return reason[start+1 : start+1+end]
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if errors.Is(err, errInvalidDecodeCondition) {
				continue
			}
			return nil, err
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t).Interface()
		u, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		err := u.UnmarshalText([]byte(data.(string)))
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}
		if f == t {
			return data, nil
		}

		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(data.(string))
		case reflect.Int, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()), nil
		case reflect.Float64:
			return time.Duration(int64(data.(float64))), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}
