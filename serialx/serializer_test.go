package serialx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewBuilder("Person").
		Field("name", NewField(nil, Required(), NotNull())).
		Field("age", NewField(nil, Required())).
		Build()
	require.NoError(t, err)
	return s
}

func TestNewRequiresExactlyOneSide(t *testing.T) {
	s := personSchema(t)

	_, err := New(s, nil, nil)
	assert.True(t, errx.IsCode(err, ErrInvalidArguments))
	assert.True(t, errx.IsType(err, errx.TypeInternal))
	assert.Equal(t, http.StatusInternalServerError, errx.StatusOf(err))
	assert.False(t, IsValidation(err))

	_, err = New(s, map[string]any{}, Record{})
	assert.True(t, errx.IsCode(err, ErrInvalidArguments))

	_, err = New(nil, map[string]any{}, nil)
	assert.True(t, errx.IsCode(err, ErrInvalidArguments))

	ser, err := New(s, map[string]any{}, nil)
	require.NoError(t, err)
	assert.Same(t, s, ser.Schema())
}

func TestDataToObjectScenario(t *testing.T) {
	s := personSchema(t)

	_, err := s.Load(map[string]any{})
	require.Error(t, err)
	assert.Equal(t, []string{"Field name is missing.", "Field age is missing."}, Messages(err))

	obj, err := s.Load(map[string]any{"name": "Ann", "age": nil})
	require.NoError(t, err)
	name, _ := obj.Get("name")
	age, ok := obj.Get("age")
	assert.Equal(t, "Ann", name)
	assert.True(t, ok)
	assert.Nil(t, age)

	_, err = s.Load(map[string]any{"name": nil, "age": 5})
	assert.Equal(t, []string{"name cannot be null/None"}, Messages(err))
}

func TestDataToObjectCollectsAllFieldErrors(t *testing.T) {
	failing := ValidatorFunc(func(f *Field, _ any) error {
		return Errorf("%s failed", f.Name())
	})
	s := NewBuilder("Many").
		Field("a", NewField(nil, Validators(failing))).
		Field("b", NewField(nil)).
		Field("c", NewField(nil, NotNull())).
		MustBuild()

	_, err := s.Load(map[string]any{"a": 1, "b": 2, "c": nil})
	assert.Equal(t, []string{"a failed", "c cannot be null/None"}, Messages(err))
}

func TestDataToObjectSkipsAbsentOptionalFields(t *testing.T) {
	s := NewBuilder("Optional").
		Field("name", NewField(nil)).
		Field("nick", NewField(nil)).
		MustBuild()

	obj, err := s.Load(map[string]any{"name": "Ann"})
	require.NoError(t, err)
	_, ok := obj.Get("nick")
	assert.False(t, ok, "absent optional attribute must stay unset")
}

func TestDataToObjectSeedsFromFactory(t *testing.T) {
	s := NewBuilder("Seeded").
		Meta(Options{ModelKwargs: map[string]any{"role": "guest", "name": "anon"}}).
		Field("name", NewField(nil)).
		Field("role", NewField(nil)).
		MustBuild()

	obj, err := s.Load(map[string]any{"name": "Ann"})
	require.NoError(t, err)
	role, _ := obj.Get("role")
	name, _ := obj.Get("name")
	assert.Equal(t, "guest", role)
	assert.Equal(t, "Ann", name)
}

func TestDataToObjectAbortsOnNonValidationError(t *testing.T) {
	boom := errors.New("boom")
	s := NewBuilder("Broken").
		Field("a", NewField(nil, Validators(ValidatorFunc(func(*Field, any) error { return boom })))).
		MustBuild()

	_, err := s.Load(map[string]any{"a": 1})
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsValidation(err))
}

func TestObjectToDataMissingRequiredAttribute(t *testing.T) {
	called := false
	tracking := &exportTracker{called: &called}
	s := NewBuilder("Tracked").
		Field("name", NewField(tracking, Required())).
		MustBuild()

	_, err := s.Dump(Record{})
	assert.Equal(t, []string{"Field name is missing from object."}, Messages(err))
	assert.False(t, called)
}

type exportTracker struct{ called *bool }

func (exportTracker) Name() string { return "tracked" }

func (exportTracker) Clean(_ *Field, v any) (any, error) { return v, nil }

func (e exportTracker) ToData(_ *Field, v any) (any, error) {
	*e.called = true
	return v, nil
}

func TestObjectToDataSeedsDefaults(t *testing.T) {
	s := NewBuilder("Defaults").
		Meta(Options{ModelKwargs: map[string]any{"status": "draft"}}).
		Field("title", NewField(nil, Key("Title"))).
		Field("status", NewField(nil)).
		MustBuild()

	data, err := s.Dump(Record{"title": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Title": "Hello", "status": "draft"}, data)
}

func TestObjectToDataCollectsErrors(t *testing.T) {
	s := NewBuilder("Strict").
		Field("a", NewField(nil, NotNull())).
		Field("b", NewField(nil, NotNull())).
		Field("c", NewField(nil)).
		MustBuild()

	_, err := s.Dump(Record{"a": nil, "b": nil, "c": 1})
	assert.Equal(t, []string{"a cannot be null/None", "b cannot be null/None"}, Messages(err))
}

func TestDefaultModelErrors(t *testing.T) {
	s := NewBuilder("BadDefault").
		Meta(Options{ModelKwargs: map[string]any{"name": nil}}).
		Field("name", NewField(nil, NotNull())).
		MustBuild()

	ser, err := FromObject(s, Record{"name": "x"})
	require.NoError(t, err)

	_, err = ser.DefaultModel()
	assert.Equal(t, []string{"DefaultModel Error: name cannot be null/None"}, Messages(err))

	_, err = s.Load(map[string]any{"name": "x"})
	assert.Equal(t, []string{"DefaultModel Error: name cannot be null/None"}, Messages(err))
}

func TestDefaultModelFactoryFailure(t *testing.T) {
	s := NewBuilder("Args").
		Meta(Options{ModelArgs: []any{1}}).
		Field("name", NewField(nil)).
		MustBuild()

	_, err := s.Load(map[string]any{"name": "x"})
	assert.True(t, errx.IsCode(err, ErrModelFactory))
}

func TestRoundTrip(t *testing.T) {
	s := NewBuilder("Round").
		Field("name", NewField(nil, Required(), Key("full_name"))).
		Field("age", NewField(nil, Required())).
		Field("tags", NewField(nil)).
		MustBuild()

	original := Record{"name": "Ann", "age": 31, "tags": []string{"a"}}
	data, err := s.Dump(original)
	require.NoError(t, err)
	assert.Equal(t, "Ann", data["full_name"])

	obj, err := s.Load(data)
	require.NoError(t, err)
	assert.Equal(t, original, obj)
}

func TestValidateDispatch(t *testing.T) {
	s := personSchema(t)
	ser, err := FromData(s, map[string]any{"name": "Ann", "age": 3})
	require.NoError(t, err)
	require.NoError(t, ser.Validate())
	require.NotNil(t, ser.Object())

	// once an object exists, Validate exports it again
	require.NoError(t, ser.Validate())
	assert.Equal(t, map[string]any{"name": "Ann", "age": 3}, ser.Data())
}

func TestStructModelConversion(t *testing.T) {
	type Person struct {
		Name  string
		Age   int
		Email *string `json:"email_address"`
	}

	s := NewBuilder("Person").
		Meta(Options{Model: StructFactory[Person]()}).
		Field("Name", NewField(nil, Key("name"), Required())).
		Field("Age", NewField(nil, Key("age"))).
		Field("email_address", NewField(nil, Key("email"))).
		MustBuild()

	obj, err := s.Load(map[string]any{"name": "Ann", "age": float64(31), "email": "a@b.c"})
	require.NoError(t, err)

	p := obj.(Unwrapper).Unwrap().(*Person)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, 31, p.Age)
	require.NotNil(t, p.Email)
	assert.Equal(t, "a@b.c", *p.Email)

	data, err := s.Dump(MustStruct(p))
	require.NoError(t, err)
	assert.Equal(t, "Ann", data["name"])
	assert.Equal(t, 31, data["age"])
}

func TestStructModelSetFailureIsCollected(t *testing.T) {
	type Item struct {
		Count int
	}
	s := NewBuilder("Item").
		Meta(Options{Model: StructFactory[Item]()}).
		Field("Count", NewField(nil, Key("count"))).
		Field("Missing", NewField(nil, Key("missing"))).
		MustBuild()

	_, err := s.Load(map[string]any{"count": "many", "missing": 1})
	msgs := Messages(err)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "Count:")
	assert.Contains(t, msgs[1], "Missing:")
}

func TestValidationErrorToErrx(t *testing.T) {
	err := NewValidationError("a", "b").ToErrx()
	assert.Equal(t, ErrValidationFailed, err.Code)
	assert.Equal(t, []string{"a", "b"}, err.Details["messages"])
	assert.Equal(t, 2, err.Details["error_count"])

	assert.Equal(t, []string{"validation failed"}, NewValidationError().Messages)
	assert.Nil(t, ToErrx(nil))
	assert.Equal(t, errx.TypeInternal, ToErrx(errors.New("x")).Type)
}
