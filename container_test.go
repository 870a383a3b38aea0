package autoreg

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCollection_Add(t *testing.T) {
	s := NewServiceCollection()

	require.NoError(t, s.AddTransient(reflect.TypeOf((**greeterImpl)(nil)).Elem(), reflect.TypeOf((*greeter)(nil)).Elem()))
	require.NoError(t, s.AddScoped(reflect.TypeOf((**scopedType)(nil)).Elem(), nil))
	require.NoError(t, s.AddSingleton(reflect.TypeOf((**singletonType)(nil)).Elem(), reflect.TypeOf((**singletonType)(nil)).Elem()))

	assert.Equal(t, []ServiceDescriptor{
		{ServiceType: reflect.TypeOf((*greeter)(nil)).Elem(), ImplementationType: reflect.TypeOf((**greeterImpl)(nil)).Elem(), Lifetime: LifetimeTransient},
		{ServiceType: reflect.TypeOf((**scopedType)(nil)).Elem(), ImplementationType: reflect.TypeOf((**scopedType)(nil)).Elem(), Lifetime: LifetimeScoped},
		{ServiceType: reflect.TypeOf((**singletonType)(nil)).Elem(), ImplementationType: reflect.TypeOf((**singletonType)(nil)).Elem(), Lifetime: LifetimeSingleton},
	}, s.Descriptors())
	assert.Equal(t, 3, s.Len())
}

func TestServiceCollection_Rejects(t *testing.T) {
	s := NewServiceCollection()

	assert.Error(t, s.AddSingleton(nil, reflect.TypeOf((*greeter)(nil)).Elem()))
	assert.Error(t, s.AddSingleton(reflect.TypeOf((*greeter)(nil)).Elem(), reflect.TypeOf((*greeter)(nil)).Elem()))
	assert.Error(t, s.AddSingleton(reflect.TypeOf((**notAGreeter)(nil)).Elem(), reflect.TypeOf((*greeter)(nil)).Elem()))
	assert.Error(t, s.AddSingletonInstance(nil, &greeterImpl{}))
	assert.Error(t, s.AddSingletonInstance(reflect.TypeOf((*greeter)(nil)).Elem(), nil))
	assert.Error(t, s.AddSingletonInstance(reflect.TypeOf((*greeter)(nil)).Elem(), &notAGreeter{}))

	assert.Equal(t, 0, s.Len())
}

func TestServiceCollection_Instances(t *testing.T) {
	s := NewServiceCollection()
	instance := &configType{Value: "bound"}

	require.NoError(t, s.AddSingletonInstance(reflect.TypeOf((**configType)(nil)).Elem(), instance))

	d, ok := s.Lookup(reflect.TypeOf((**configType)(nil)).Elem())
	require.True(t, ok)
	assert.Same(t, instance, d.Instance)
	assert.Equal(t, LifetimeSingleton, d.Lifetime)
	assert.Equal(t, reflect.TypeOf((**configType)(nil)).Elem(), d.ImplementationType)
}

func TestServiceCollection_LookupLatest(t *testing.T) {
	s := NewServiceCollection()
	require.NoError(t, s.AddSingleton(reflect.TypeOf((**greeterImpl)(nil)).Elem(), reflect.TypeOf((*greeter)(nil)).Elem()))
	require.NoError(t, s.AddScoped(reflect.TypeOf((**scopedGreeter)(nil)).Elem(), reflect.TypeOf((*greeter)(nil)).Elem()))

	d, ok := s.Lookup(reflect.TypeOf((*greeter)(nil)).Elem())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf((**scopedGreeter)(nil)).Elem(), d.ImplementationType)

	_, ok = s.Lookup(reflect.TypeOf((**plainType)(nil)).Elem())
	assert.False(t, ok)
}

func TestServiceCollection_DescriptorsIsCopy(t *testing.T) {
	s := NewServiceCollection()
	require.NoError(t, s.AddScoped(reflect.TypeOf((**scopedType)(nil)).Elem(), nil))

	d := s.Descriptors()
	d[0].Lifetime = LifetimeTransient

	assert.Equal(t, LifetimeScoped, s.Descriptors()[0].Lifetime)
}

func TestServiceCollection_Status(t *testing.T) {
	s := NewServiceCollection()
	require.NoError(t, s.AddSingleton(reflect.TypeOf((**singletonType)(nil)).Elem(), nil))
	require.NoError(t, s.AddScoped(reflect.TypeOf((**scopedGreeter)(nil)).Elem(), reflect.TypeOf((*greeter)(nil)).Elem()))
	require.NoError(t, s.AddSingletonInstance(reflect.TypeOf((**configType)(nil)).Elem(), &configType{}))

	expected := "*autoreg.configType - singleton - instance of *autoreg.configType\n" +
		"*autoreg.singletonType - singleton\n" +
		"autoreg.greeter - scoped - implemented by *autoreg.scopedGreeter"
	assert.Equal(t, expected, s.Status())

	assert.Equal(t, "", NewServiceCollection().Status())
}

func TestFormatFuncSignature(t *testing.T) {
	assert.Equal(t, "-", formatFuncSignature(nil))
	assert.Equal(t, "int", formatFuncSignature(1))
	assert.Equal(t, "(reflect.Type) autoreg.Binder, error",
		formatFuncSignature(func(reflect.Type) (Binder, error) { return nil, nil }))
	assert.Equal(t, "(autoreg.Container, autoreg.ConfigurationSection) error",
		formatFuncSignature(func(Container, ConfigurationSection) error { return nil }))
}
