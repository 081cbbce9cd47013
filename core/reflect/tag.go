package reflect

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTagTargetMustBePointer = errors.New("target must be a pointer")
	ErrTagTargetMustNotBeNil  = errors.New("target must not be nil")
	ErrTagUnsupportedType     = errors.New("unsupported type")
)

var durationType = reflect.TypeOf(time.Duration(0))

// TagOption configuration options
type TagOption struct {
	tag string // tag name for default values
}

// WithTag sets the tag name
func WithTag(tag string) func(*TagOption) {
	return func(o *TagOption) {
		o.tag = tag
	}
}

// SetDefaultTag fills zero-valued struct fields from their `default` tag.
// Nested structs are walked recursively even without a tag of their own.
func SetDefaultTag(target any, opts ...func(*TagOption)) error {
	t, v, err := validateTarget(target)
	if err != nil {
		return err
	}

	option := &TagOption{tag: "default"}
	for _, opt := range opts {
		opt(option)
	}

	return setStructDefaults(t, v, option.tag)
}

// validateTarget validates whether the target object is valid
func validateTarget(target any) (reflect.Type, reflect.Value, error) {
	valueOf := reflect.ValueOf(target)

	if valueOf.Kind() != reflect.Ptr {
		return nil, reflect.Value{}, ErrTagTargetMustBePointer
	}
	if valueOf.IsNil() {
		return nil, reflect.Value{}, ErrTagTargetMustNotBeNil
	}

	return valueOf.Type().Elem(), valueOf.Elem(), nil
}

func setStructDefaults(t reflect.Type, v reflect.Value, tagName string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tagValue := field.Tag.Get(tagName)
		fieldValue := v.Field(i)

		if !fieldValue.CanSet() || !fieldValue.IsZero() {
			continue
		}
		if tagValue == "" && field.Type.Kind() != reflect.Struct {
			continue
		}

		if err := setFieldValue(fieldValue, tagValue); err != nil {
			return err
		}
	}
	return nil
}

func setFieldValue(value reflect.Value, tagValue string) error {
	switch value.Kind() {
	case reflect.Struct:
		return SetDefaultTag(value.Addr().Interface())
	case reflect.Ptr:
		value.Set(reflect.New(value.Type().Elem()))
		return nil
	case reflect.Slice:
		return setSliceValue(value, tagValue)
	default:
		return parseSetValue(value, tagValue)
	}
}

// parseSetValue parses a tag string into a scalar field. time.Duration
// fields accept time.ParseDuration syntax ("30s", "1h30m").
func parseSetValue(value reflect.Value, str string) error {
	if value.Type() == durationType {
		d, err := time.ParseDuration(str)
		if err != nil {
			return err
		}
		value.SetInt(int64(d))
		return nil
	}

	switch value.Kind() {
	case reflect.String:
		value.SetString(str)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return err
		}
		value.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(str, 10, 64)
		if err != nil {
			return err
		}
		value.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		value.SetFloat(parsed)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(str)
		if err != nil {
			return err
		}
		value.SetBool(parsed)
	default:
		return ErrTagUnsupportedType
	}
	return nil
}

// setSliceValue splits a comma separated tag into slice elements.
func setSliceValue(value reflect.Value, tagValue string) error {
	if tagValue == "" {
		return nil
	}

	parts := strings.Split(tagValue, ",")
	slice := reflect.MakeSlice(value.Type(), len(parts), len(parts))

	for i, part := range parts {
		if err := parseSetValue(slice.Index(i), part); err != nil {
			return err
		}
	}

	value.Set(slice)
	return nil
}
