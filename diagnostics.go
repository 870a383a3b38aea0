package autoreg

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Status is a diagnostic tool that returns a string describing the
// registrations in the collection, one per line, sorted by service type.
// Registrations of the same service keep the order they were made in.
func (s *ServiceCollection) Status() string {
	descriptors := s.Descriptors()
	sort.SliceStable(descriptors, func(i, j int) bool {
		return descriptors[i].ServiceType.String() < descriptors[j].ServiceType.String()
	})

	result := strings.Builder{}
	for _, d := range descriptors {
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		var line string
		switch {
		case d.Instance != nil:
			line = fmt.Sprintf("%v - %s - instance of %v", d.ServiceType, d.Lifetime, d.ImplementationType)
		case d.ImplementationType == d.ServiceType:
			line = fmt.Sprintf("%v - %s", d.ServiceType, d.Lifetime)
		default:
			line = fmt.Sprintf("%v - %s - implemented by %v", d.ServiceType, d.Lifetime, d.ImplementationType)
		}
		result.WriteString(line)
	}
	return result.String()
}

// formatFuncSignature returns a string representation of a function's type.
// This is used instead of the native `%#v` formatter to not return the raw
// address of the function, which keeps error messages stable.
func formatFuncSignature(fn any) string {
	if fn == nil {
		return "-"
	}
	fnType := reflect.TypeOf(fn)
	if fnType.Kind() != reflect.Func {
		return fnType.String()
	}
	builder := strings.Builder{}
	builder.WriteString("(")
	for i := 0; i < fnType.NumIn(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fnType.In(i).String())
	}
	builder.WriteString(") ")
	for i := 0; i < fnType.NumOut(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fnType.Out(i).String())
	}
	return builder.String()
}
