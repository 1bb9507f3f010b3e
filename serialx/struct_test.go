package serialx

import (
	"errors"
	"testing"
	"time"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Address struct {
	City string `json:"city"`
	Zip  string `json:"zip"`
}

type Base struct {
	ID string `json:"id"`
}

type Customer struct {
	Base
	FullName  string             `json:"full_name"`
	Score     float64            `json:"score"`
	Home      Address            `json:"home"`
	Work      *Address           `json:"work"`
	Tags      []string           `json:"tags"`
	Branches  []Address          `json:"branches"`
	Regions   map[string]Address `json:"regions"`
	CreatedAt time.Time          `json:"created_at"`
	hidden    string
}


func (c *Customer) Init(args ...any) error {
	if len(args) > 1 {
		return errors.New("too many arguments")
	}
	if len(args) == 1 {
		c.FullName = args[0].(string)
	}
	return nil
}

func TestStructRejectsNonPointers(t *testing.T) {
	for _, v := range []any{Customer{}, (*Customer)(nil), 3, map[string]any{}} {
		_, err := Struct(v)
		assert.True(t, errx.IsCode(err, ErrInvalidModel), "%T", v)
		assert.True(t, errx.IsType(err, errx.TypeInternal), "%T", v)
	}

	rec := Record{}
	m, err := Struct(rec)
	require.NoError(t, err)
	assert.Equal(t, rec, m)
}

func TestStructAttributeResolution(t *testing.T) {
	c := &Customer{FullName: "Ann", hidden: "x"}
	c.ID = "c-1"
	m := MustStruct(c)

	v, ok := m.Get("FullName")
	assert.True(t, ok)
	assert.Equal(t, "Ann", v)

	v, ok = m.Get("full_name")
	assert.True(t, ok)
	assert.Equal(t, "Ann", v)

	v, ok = m.Get("fullname")
	assert.True(t, ok)
	assert.Equal(t, "Ann", v)

	v, ok = m.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "c-1", v)

	_, ok = m.Get("hidden")
	assert.False(t, ok)
	_, ok = m.Get("Base")
	assert.False(t, ok)
}

func TestStructSetConversions(t *testing.T) {
	c := &Customer{}
	m := MustStruct(c)

	require.NoError(t, m.Set("score", 7))
	assert.Equal(t, 7.0, c.Score)

	require.NoError(t, m.Set("home", map[string]any{"city": "Lima", "zip": "15001"}))
	assert.Equal(t, Address{City: "Lima", Zip: "15001"}, c.Home)

	require.NoError(t, m.Set("work", Record{"city": "Cusco"}))
	require.NotNil(t, c.Work)
	assert.Equal(t, "Cusco", c.Work.City)

	nested := &Address{City: "Arequipa"}
	require.NoError(t, m.Set("home", MustStruct(nested)))
	assert.Equal(t, "Arequipa", c.Home.City)

	require.NoError(t, m.Set("tags", []any{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, c.Tags)

	require.NoError(t, m.Set("created_at", "2024-05-01T10:00:00Z"))
	assert.Equal(t, 2024, c.CreatedAt.Year())

	require.NoError(t, m.Set("work", nil))
	assert.Nil(t, c.Work)

	assert.Error(t, m.Set("score", "high"))
	assert.Error(t, m.Set("unknown", 1))
}

func TestStructFactory(t *testing.T) {
	factory := StructFactory[Customer]()

	m, err := factory([]any{"Bob"}, map[string]any{"score": 2.5})
	require.NoError(t, err)
	c := m.(Unwrapper).Unwrap().(*Customer)
	assert.Equal(t, "Bob", c.FullName)
	assert.Equal(t, 2.5, c.Score)

	_, err = factory([]any{"a", "b"}, nil)
	assert.True(t, errx.IsCode(err, ErrModelFactory))

	_, err = StructFactory[Address]()([]any{1}, nil)
	assert.True(t, errx.IsCode(err, ErrModelFactory))
}

func TestStructNilPointerReadsAbsent(t *testing.T) {
	c := &Customer{}
	m := MustStruct(c)

	_, ok := m.Get("work")
	assert.False(t, ok)

	c.Work = &Address{City: "Puno"}
	v, ok := m.Get("work")
	assert.True(t, ok)
	assert.Equal(t, Address{City: "Puno"}, v)

	s := NewBuilder("Customer").
		Field("Work", NewField(nil, Key("work"), Required())).
		MustBuild()
	_, err := s.Dump(MustStruct(&Customer{}))
	assert.Equal(t, []string{"Field Work is missing from object."}, Messages(err))
}

func TestStructSetNestedModels(t *testing.T) {
	c := &Customer{}
	m := MustStruct(c)

	require.NoError(t, m.Set("branches", []any{
		MustStruct(&Address{City: "Lima"}),
		Record{"city": "Cusco", "zip": "08000"},
		nil,
	}))
	assert.Equal(t, []Address{{City: "Lima"}, {City: "Cusco", Zip: "08000"}, {}}, c.Branches)

	require.NoError(t, m.Set("regions", map[string]any{
		"south": MustStruct(&Address{City: "Tacna"}),
	}))
	assert.Equal(t, map[string]Address{"south": {City: "Tacna"}}, c.Regions)

	assert.Error(t, m.Set("branches", []any{"not an address"}))
}
