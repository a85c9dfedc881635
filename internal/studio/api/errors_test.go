package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "detail preferred",
			err:  &Error{StatusCode: 422, Detail: "too short", Message: "Unprocessable Entity"},
			want: "HTTP 422: too short",
		},
		{
			name: "status without detail",
			err:  &Error{StatusCode: 500, Message: "Internal Server Error"},
			want: "HTTP 500: Internal Server Error",
		},
		{
			name: "transport only",
			err:  &Error{Message: "connection refused"},
			want: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Humanize(t *testing.T) {
	assert.Equal(t, "quota exceeded", (&Error{Detail: "quota exceeded", Message: "Bad Request"}).Humanize())
	assert.Equal(t, "Bad Request", (&Error{Message: "Bad Request"}).Humanize())
	assert.Equal(t, "request failed", (&Error{}).Humanize())
}

func TestError_Transient(t *testing.T) {
	assert.True(t, (&Error{}).Transient())
	assert.True(t, (&Error{StatusCode: 503}).Transient())
	assert.False(t, (&Error{StatusCode: 404}).Transient())
	assert.False(t, (&Error{StatusCode: 422}).Transient())
}

func TestConvert(t *testing.T) {
	assert.Nil(t, Convert(nil))

	orig := &Error{StatusCode: 404, Detail: "session not found"}
	assert.Same(t, orig, Convert(orig))

	wrapped := fmt.Errorf("get session: %w", orig)
	assert.Same(t, orig, Convert(wrapped))

	converted := Convert(errors.New("dial tcp: connection refused"))
	assert.Zero(t, converted.StatusCode)
	assert.NotEmpty(t, converted.Message)
}
