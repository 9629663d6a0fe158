// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package conf

import (
	"reflect"
	"strings"
	"time"

	"github.com/qstd/conf/schema"
	"github.com/qstd/conf/storage"
)

// Proxy is a stable configuration handle for application code. It can
// be obtained before the real configuration exists, held permanently,
// and never needs re-binding across reloads: every read goes through to
// whichever value the bound storage currently holds.
type Proxy[T any] struct {
	storage storage.Storage[T]
}

// NewProxy returns an unbound Proxy.
func NewProxy[T any]() *Proxy[T] {
	return &Proxy[T]{}
}

// Bind attaches a storage to the proxy. A proxy binds exactly once;
// binding over an existing storage fails with AlreadyBoundError.
func (p *Proxy[T]) Bind(s storage.Storage[T]) error {
	if p.storage != nil {
		return AlreadyBoundError{}
	}
	p.storage = s
	return nil
}

// Ready reports whether a storage is bound and that storage is
// initialized.
func (p *Proxy[T]) Ready() bool {
	return p.storage != nil && p.storage.Initialized()
}

// Use returns the current configuration value. It fails with
// NotBoundError until Bind has been called.
func (p *Proxy[T]) Use() (T, error) {
	if p.storage == nil {
		var zero T
		return zero, NotBoundError{}
	}
	return p.storage.Current()
}

// Get reads one field of the current configuration value by its dotted
// raw mapping path, e.g. "nested.flag". A path the value does not
// contain fails with FieldNotFoundError, distinct from the NotBoundError
// an unbound proxy reports.
func (p *Proxy[T]) Get(path string) (any, error) {
	value, err := p.Use()
	if err != nil {
		return nil, err
	}

	v := reflect.ValueOf(value)
	for _, key := range strings.Split(path, ".") {
		v, err = fieldByKey(v, key, path)
		if err != nil {
			return nil, err
		}
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, nil
	}
	return v.Interface(), nil
}

func fieldByKey(v reflect.Value, key, path string) (reflect.Value, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, FieldNotFoundError{Path: path}
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if v.Type() == reflect.TypeOf(time.Time{}) {
			return reflect.Value{}, FieldNotFoundError{Path: path}
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			name, ok := schema.FieldKey(t.Field(i))
			if ok && name == key {
				return v.Field(i), nil
			}
		}
		return reflect.Value{}, FieldNotFoundError{Path: path}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, FieldNotFoundError{Path: path}
		}
		item := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !item.IsValid() {
			return reflect.Value{}, FieldNotFoundError{Path: path}
		}
		return item, nil
	default:
		return reflect.Value{}, FieldNotFoundError{Path: path}
	}
}
