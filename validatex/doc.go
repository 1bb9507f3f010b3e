// Package validatex provides serialx field validators built from tag-style rules,
// with error handling via errx.
//
// Rules are written in the familiar tag grammar and attached to fields:
//
//	import (
//		"github.com/Conversia-AI/craftable-serialx/fieldx"
//		"github.com/Conversia-AI/craftable-serialx/serialx"
//		"github.com/Conversia-AI/craftable-serialx/validatex"
//	)
//
//	schema := serialx.NewBuilder("User").
//		Field("username", fieldx.String(serialx.Validators(validatex.Rules("required,min=3,max=50")))).
//		Field("email", fieldx.String(serialx.Validators(validatex.Email()))).
//		Field("role", fieldx.String(serialx.Validators(validatex.OneOf("admin", "user", "guest")))).
//		MustBuild()
//
//	_, err := schema.Load(map[string]any{"username": "jo", "email": "x", "role": "root"})
//	// serialx.Messages(err):
//	//   username must be at least 3
//	//   email must be a valid email address
//	//   role must be one of: admin user guest
//
// Available Validation Rules:
//
//   - required: field must not be empty
//   - email: field must be a valid email
//   - url: field must be a valid URL
//   - min=N: minimum value (for numbers) or length (for strings)
//   - max=N: maximum value (for numbers) or length (for strings)
//   - len=N: exact length
//   - oneof=V1 V2 V3: field must be one of the specified values
//   - regex=PATTERN: field must match the regular expression; write a comma
//     inside PATTERN as \, (regex=^\d{2\,4}$)
//   - uuid: field must be a valid UUID
//   - alphanum: field must contain only alphanumeric characters
//   - alpha: field must contain only alphabetic characters
//   - numeric: field must contain only numeric characters
//
// Rules other than required are skipped for empty strings and collections.
// Use ParseRules to get an error instead of a panic for an unknown rule name.
//
// Custom Validation:
//
//	validatex.RegisterValidationFunc("even", func(value any, param string) bool {
//		n, ok := value.(int)
//		return ok && n%2 == 0
//	})
//	validatex.SetCustomErrorMessage("even", "must be even")
//
// Plain functions can be used directly:
//
//	serialx.Validators(validatex.Func(func(v any) error {
//		if v.(string) == "root" {
//			return errors.New("is reserved")
//		}
//		return nil
//	}))
package validatex
