package client

import (
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Object returns the body as a JSON object, or ErrNotJSON/ErrNotObject.
func (r *Response) Object() (ldvalue.Value, error) {
	if !r.IsJSON() {
		if r.ParseErr != nil {
			return ldvalue.Null(), fmt.Errorf("%w: %s", ErrNotJSON, r.ParseErr)
		}
		return ldvalue.Null(), ErrNotJSON
	}
	if r.Body.Type() != ldvalue.ObjectType {
		return ldvalue.Null(), fmt.Errorf("%w (got %s)", ErrNotObject, r.Body.Type())
	}
	return r.Body, nil
}

// Field returns a top-level field of a JSON object body. A missing key is reported as a
// *FieldError with Reason FieldAbsent; a key that is present with a null value is not.
func (r *Response) Field(key string) (ldvalue.Value, error) {
	obj, err := r.Object()
	if err != nil {
		return ldvalue.Null(), err
	}
	for _, k := range obj.Keys() {
		if k == key {
			return obj.GetByKey(key), nil
		}
	}
	return ldvalue.Null(), &FieldError{Key: key, Reason: FieldAbsent}
}

// HasField returns true if the body is a JSON object containing the key.
func (r *Response) HasField(key string) bool {
	_, err := r.Field(key)
	return err == nil
}

// StringField returns a top-level string field. If the field is present but not a string,
// the error is a *FieldError with Reason FieldWrongType.
func (r *Response) StringField(key string) (string, error) {
	v, err := r.Field(key)
	if err != nil {
		return "", err
	}
	if v.Type() != ldvalue.StringType {
		return "", &FieldError{Key: key, Reason: FieldWrongType, Expected: "string", Actual: v.Type().String()}
	}
	return v.StringValue(), nil
}
