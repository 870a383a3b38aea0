package autoreg

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationError_Error(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      *RegistrationError
		expected string
	}{
		{"message only", &RegistrationError{Message: "scan failed"}, "scan failed"},
		{"with type", &RegistrationError{Message: "cannot register", ReferencedType: reflect.TypeOf((**scopedType)(nil)).Elem()},
			"cannot register: *autoreg.scopedType"},
		{"with key", &RegistrationError{Message: "cannot bind", ReferencedType: reflect.TypeOf((*configType)(nil)).Elem(), Key: "Foo"},
			`cannot bind: autoreg.configType (section "Foo")`},
		{"with source", &RegistrationError{Message: "cannot bind", Key: "Foo", SourceError: cause},
			`cannot bind (section "Foo") (boom)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestRegistrationError_Kind(t *testing.T) {
	cause := errors.New("boom")
	err := &RegistrationError{Message: "cannot bind", SourceError: cause, kind: ErrBinderInvocation}

	assert.ErrorIs(t, err, ErrBinderInvocation)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrContainer)
	assert.Equal(t, ErrBinderInvocation, err.Kind())
	assert.False(t, isFatal(err))
	assert.True(t, isFatal(&RegistrationError{kind: ErrAmbiguousBinder}))
}
