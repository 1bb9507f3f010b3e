package schemax

import (
	"context"
	"sync"
	"testing"

	"github.com/Conversia-AI/craftable-serialx/codecx"
	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/fieldx"
	"github.com/Conversia-AI/craftable-serialx/fsx"
	"github.com/Conversia-AI/craftable-serialx/fsx/providers/fsxlocal"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userYAML = `
schemas:
  - name: User
    fields:
      - attr: name
        type: string
        required: true
        rules: min=2
      - attr: email
        key: email_address
        type: string
        nullable: false
        rules: email
      - attr: role
        type: enum
        values: [admin, member]
      - attr: born
        type: time
        layout: "2006-01-02"
      - attr: addresses
        type: "[object]"
        schema: Address
  - name: Address
    model:
      kwargs:
        country: PE
    fields:
      - attr: city
        type: string
        required: true
`

func TestLoadBytesResolvesForwardReferences(t *testing.T) {
	reg := NewRegistry()
	schemas, err := reg.LoadBytes([]byte(userYAML), codecx.YAML())
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	assert.Equal(t, "User", schemas[0].Name())
	assert.Equal(t, []string{"Address", "User"}, reg.Names())

	user, err := reg.Get("User")
	require.NoError(t, err)

	email, ok := user.Field("email")
	require.True(t, ok)
	assert.Equal(t, "email_address", email.Name())
	assert.False(t, email.AllowsNull())

	addresses, _ := user.Field("addresses")
	list, ok := addresses.Type().(fieldx.ListType)
	require.True(t, ok)
	address, _ := reg.Get("Address")
	assert.Same(t, address, list.Elem.(fieldx.ObjectType).Schema)

	m, err := user.Load(map[string]any{
		"name":          "Ann",
		"email_address": "ann@example.com",
		"role":          "admin",
		"born":          "1990-04-02",
		"addresses":     []any{map[string]any{"city": "Lima"}},
	})
	require.NoError(t, err)
	rec := m.(serialx.Record)
	assert.Equal(t, "Ann", rec["name"])
	nested := rec["addresses"].([]any)[0].(serialx.Record)
	assert.Equal(t, "Lima", nested["city"])
	assert.Equal(t, "PE", nested["country"])

	data, err := user.Dump(m)
	require.NoError(t, err)
	assert.Equal(t, "1990-04-02", data["born"])
}

func TestLoadedSchemaCollectsMessages(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.LoadBytes([]byte(userYAML), codecx.YAML())
	require.NoError(t, err)
	user, _ := reg.Get("User")

	_, err = user.Load(map[string]any{
		"name":          "A",
		"email_address": nil,
		"role":          "owner",
		"addresses":     []any{map[string]any{}},
	})
	require.Error(t, err)
	msgs := serialx.Messages(err)
	assert.Contains(t, msgs, "name must be at least 2")
	assert.Contains(t, msgs, "email_address/email cannot be null/None")
	assert.Contains(t, msgs, "role must be one of: admin, member")
	assert.Len(t, msgs, 4)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errx.Code
	}{
		{
			name: "cycle",
			src: `{"schemas": [
				{"name": "A", "fields": [{"attr": "b", "type": "object", "schema": "B"}]},
				{"name": "B", "fields": [{"attr": "a", "type": "[object]", "schema": "A"}]}
			]}`,
			code: ErrReferenceCycle,
		},
		{
			name: "unknown reference",
			src:  `{"schemas": [{"name": "A", "fields": [{"attr": "b", "type": "object", "schema": "Missing"}]}]}`,
			code: ErrUnknownReference,
		},
		{
			name: "unknown key",
			src:  `{"schemas": [{"name": "A", "fields": [{"attr": "b", "type": "string", "optional": true}]}]}`,
			code: ErrInvalidDefinition,
		},
		{
			name: "unsupported type",
			src:  `{"schemas": [{"name": "A", "fields": [{"attr": "b", "type": "decimal"}]}]}`,
			code: ErrInvalidDefinition,
		},
		{
			name: "unknown rule",
			src:  `{"schemas": [{"name": "A", "fields": [{"attr": "b", "type": "string", "rules": "shiny"}]}]}`,
			code: ErrInvalidDefinition,
		},
		{
			name: "enum without values",
			src:  `{"schemas": [{"name": "A", "fields": [{"attr": "b", "type": "enum"}]}]}`,
			code: ErrInvalidDefinition,
		},
		{
			name: "duplicate name",
			src:  `{"schemas": [{"name": "A"}, {"name": "A"}]}`,
			code: ErrDuplicateSchema,
		},
		{
			name: "missing name",
			src:  `{"schemas": [{"fields": []}]}`,
			code: ErrInvalidDefinition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			_, err := reg.LoadBytes([]byte(tt.src), codecx.JSON())
			require.Error(t, err)
			assert.True(t, errx.IsCode(err, tt.code), "got %v", err)
			assert.Empty(t, reg.Names())
		})
	}
}

func TestReferencesToRegisteredSchemas(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.LoadBytes([]byte(`{"schemas": [{"name": "Tag", "fields": [{"attr": "label", "type": "string"}]}]}`), codecx.JSON())
	require.NoError(t, err)

	_, err = reg.LoadBytes([]byte(`{"schemas": [{"name": "Post", "fields": [{"attr": "tags", "type": "map[object]", "schema": "Tag"}]}]}`), codecx.JSON())
	require.NoError(t, err)

	_, err = reg.LoadBytes([]byte(`{"schemas": [{"name": "Tag"}]}`), codecx.JSON())
	assert.True(t, errx.IsCode(err, ErrDuplicateSchema))

	_, err = reg.Get("Comment")
	assert.True(t, errx.IsCode(err, ErrSchemaNotFound))
}

func TestLoadFile(t *testing.T) {
	ctx := context.Background()
	fs := fsxlocal.NewLocalFS(t.TempDir())
	require.NoError(t, fs.WriteFile(ctx, "defs/user.yaml", []byte(userYAML)))
	require.NoError(t, fs.WriteFile(ctx, "defs/bad.yml", []byte("schemas: [{name: X, fields: [{attr: a, type: nope}]}]")))

	reg := NewRegistry()
	schemas, err := reg.LoadFile(ctx, fs, "defs/user.yaml")
	require.NoError(t, err)
	assert.Len(t, schemas, 2)

	_, err = reg.LoadFile(ctx, fs, "defs/missing.json")
	assert.True(t, errx.IsCode(err, fsx.ErrNotFound))

	_, err = reg.LoadFile(ctx, fs, "defs/user.txt")
	assert.True(t, errx.IsCode(err, codecx.ErrUnknownCodec))

	_, err = reg.LoadFile(ctx, fs, "defs/bad.yml")
	require.Error(t, err)
	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "defs/bad.yml", xerr.Details["path"])
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := serialx.NewBuilder(string(rune('a'+i))).Field("x", fieldx.Int()).MustBuild()
			assert.NoError(t, reg.Register(s))
			_, err := reg.Get(s.Name())
			assert.NoError(t, err)
			_ = reg.Names()
		}(i)
	}
	wg.Wait()
	assert.Len(t, reg.Names(), 20)
}
