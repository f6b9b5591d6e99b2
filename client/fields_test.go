package client

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func responseWithBody(body string) *Response {
	r := &Response{StatusCode: 200, RawBody: []byte(body), Body: ldvalue.Null()}
	if body != "" {
		if err := json.Unmarshal([]byte(body), &r.Body); err != nil {
			r.ParseErr = err
			r.Body = ldvalue.Null()
		}
	}
	return r
}

func TestStringField(t *testing.T) {
	s, err := responseWithBody(`{"message":"Breakly API - Ready!"}`).StringField("message")
	require.NoError(t, err)
	assert.Equal(t, "Breakly API - Ready!", s)
}

func TestAbsentFieldIsDistinguishedFromWrongType(t *testing.T) {
	_, err := responseWithBody(`{"other":1}`).StringField("error")
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, FieldAbsent, fe.Reason)
	assert.Equal(t, `field "error" is absent`, err.Error())

	_, err = responseWithBody(`{"error":42}`).StringField("error")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, FieldWrongType, fe.Reason)
	assert.Equal(t, `field "error" is present but is a number, not a string`, err.Error())
}

func TestNullFieldIsPresent(t *testing.T) {
	resp := responseWithBody(`{"error":null}`)
	assert.True(t, resp.HasField("error"))
	v, err := resp.Field("error")
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestFieldOfNonJSONBody(t *testing.T) {
	_, err := responseWithBody("not json").Field("error")
	assert.True(t, errors.Is(err, ErrNotJSON))

	_, err = responseWithBody("").Field("error")
	assert.True(t, errors.Is(err, ErrNotJSON))
}

func TestFieldOfNonObjectBody(t *testing.T) {
	_, err := responseWithBody(`["a"]`).Field("error")
	assert.True(t, errors.Is(err, ErrNotObject))
	assert.False(t, responseWithBody(`"str"`).HasField("error"))
}
