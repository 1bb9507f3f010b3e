package serialx

import (
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinePartitionsAttributes(t *testing.T) {
	name := NewField(nil, Required())
	age := NewField(nil, Key("years"))

	s, err := Define("User",
		Attr{Name: "name", Value: name},
		Attr{Name: "version", Value: 3},
		Attr{Name: "age", Value: age},
		Attr{Name: "Meta", Value: Options{ModelKwargs: map[string]any{"x": 1}}},
	)
	require.NoError(t, err)

	assert.Equal(t, "User", s.Name())
	assert.Equal(t, 2, s.Len())

	fields := s.Fields()
	assert.Equal(t, "name", fields[0].Attr())
	assert.Equal(t, "name", fields[0].Name())
	assert.Equal(t, "age", fields[1].Attr())
	assert.Equal(t, "years", fields[1].Name())
	for _, f := range fields {
		assert.Same(t, s, f.Parent())
	}

	v, ok := s.Extra("version")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, map[string]any{"x": 1}, s.Options().ModelKwargs)

	byKey, ok := s.FieldByKey("years")
	require.True(t, ok)
	assert.Equal(t, "age", byKey.Attr())
	_, ok = s.Field("years")
	assert.False(t, ok)

	// the declared fields are left untouched
	assert.Equal(t, "", name.Attr())
	assert.Nil(t, name.Parent())
}

func TestDeclarationOrderIsPreserved(t *testing.T) {
	b := NewBuilder("Ordered")
	names := []string{"zeta", "alpha", "mid", "beta"}
	for _, n := range names {
		b.Field(n, NewField(nil))
	}
	s := b.MustBuild()

	var got []string
	for _, f := range s.Fields() {
		got = append(got, f.Attr())
	}
	assert.Equal(t, names, got)
}

func TestSharedFieldAcrossSchemas(t *testing.T) {
	shared := NewField(nil, Required())
	a := NewBuilder("A").Field("one", shared).MustBuild()
	b := NewBuilder("B").Field("two", shared).MustBuild()

	fa, _ := a.Field("one")
	fb, _ := b.Field("two")
	assert.Same(t, a, fa.Parent())
	assert.Same(t, b, fb.Parent())
	assert.Equal(t, "two", fb.Name())
}

func TestInvalidDeclarations(t *testing.T) {
	var nilField *Field
	tests := []struct {
		name  string
		attrs []Attr
	}{
		{"empty name", []Attr{{Name: "", Value: NewField(nil)}}},
		{"duplicate attr", []Attr{{Name: "a", Value: NewField(nil)}, {Name: "a", Value: 1}}},
		{"shared key", []Attr{{Name: "a", Value: NewField(nil, Key("k"))}, {Name: "b", Value: NewField(nil, Key("k"))}}},
		{"nil field", []Attr{{Name: "a", Value: nilField}}},
		{"two options", []Attr{{Name: "Meta", Value: Options{}}, {Name: "Other", Value: &Options{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Define("Bad", tt.attrs...)
			require.Error(t, err)
			assert.True(t, errx.IsCode(err, ErrInvalidDeclaration))
		})
	}

	assert.Panics(t, func() {
		MustDefine("Bad", Attr{Name: ""})
	})
}

func TestDefaultOptions(t *testing.T) {
	s := NewBuilder("Plain").Field("a", NewField(nil)).MustBuild()
	opts := s.Options()
	require.NotNil(t, opts.Model)

	m, err := opts.Model(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Record{}, m)
}
