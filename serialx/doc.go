// Package serialx converts between raw structured data and domain objects.
//
// Fields are declared once into an immutable Schema. A Serializer then runs a
// single flat pass over the field list in either direction, enforcing the
// required/nullable contract and per-field validators, and collecting every
// violation into one ValidationError.
//
// Declaring a schema:
//
//	import (
//		"github.com/Conversia-AI/craftable-serialx/fieldx"
//		"github.com/Conversia-AI/craftable-serialx/serialx"
//		"github.com/Conversia-AI/craftable-serialx/validatex"
//	)
//
//	userSchema := serialx.NewBuilder("User").
//		Field("name", fieldx.String(serialx.Required(), serialx.NotNull(),
//			serialx.Validators(validatex.Rules("min=2,max=50")))).
//		Field("age", fieldx.Int(serialx.Required())).
//		Field("email", fieldx.String(serialx.Key("email_address"))).
//		MustBuild()
//
// Data to object:
//
//	obj, err := userSchema.Load(map[string]any{"name": "Ann", "age": 31})
//	if err != nil {
//		fmt.Println(serialx.Messages(err)) // e.g. [Field age is missing.]
//	}
//
// Object to data:
//
//	data, err := userSchema.Dump(obj)
//
// Struct models:
//
// Any pointer to a struct can act as a domain object through Struct, and
// StructFactory makes it the schema's default model:
//
//	type User struct {
//		Name string
//		Age  int
//	}
//
//	schema := serialx.NewBuilder("User").
//		Meta(serialx.Options{Model: serialx.StructFactory[User]()}).
//		Field("Name", fieldx.String(serialx.Key("name"))).
//		Field("Age", fieldx.Int(serialx.Key("age"))).
//		MustBuild()
//
// Explicit serializers:
//
// Load and Dump are shorthands for a Serializer, which can also be driven
// directly when the default model or its exported data is needed:
//
//	ser, err := serialx.New(schema, data, nil) // exactly one of data/object
//	if err != nil {
//		// programmer error: both or neither supplied
//	}
//	if err := ser.Validate(); err != nil {
//		// err is a *ValidationError
//	}
//	obj := ser.Object()
//
// Errors:
//
// Validation failures are *ValidationError values whose messages are ordered
// by field declaration order. ToErrx converts them into errx errors for HTTP,
// CLI or Lambda transports.
package serialx
