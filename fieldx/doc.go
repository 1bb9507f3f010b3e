// Package fieldx provides the concrete field types used to declare serialx schemas.
//
// Scalars:
//
//	serialx.NewBuilder("Event").
//		Field("id", fieldx.UUID(serialx.Required())).
//		Field("title", fieldx.String(serialx.NotNull())).
//		Field("at", fieldx.Time("", serialx.Key("occurred_at"))).
//		Field("level", fieldx.Enum([]string{"low", "high"})).
//		MustBuild()
//
// Composites:
//
//	fieldx.List(fieldx.StringType{})      // tags[1] must be a string.  Got int.
//	fieldx.Map(fieldx.IntType{})          // counts[a] must be a int.  Got string.
//	fieldx.Object(addressSchema)          // address.Field city is missing.
//
// Type strings, as used in schema definition files:
//
//	typ, err := fieldx.ParseType("[uuid]")
//	field := serialx.NewField(typ, serialx.Required())
package fieldx
