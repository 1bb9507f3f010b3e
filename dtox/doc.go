// Package dtox converts between raw data maps and typed structs.
//
// A Mapper derives a serialx schema from the struct's tags once, then runs the
// serialx engine in both directions. Keys come from json tags, required and
// nullable flags from dtox tags, and validators from validatex tags.
//
// Basic Example:
//
//	import (
//		"github.com/Conversia-AI/craftable-serialx/dtox"
//	)
//
//	type User struct {
//		ID        uuid.UUID `json:"id" dtox:"required,notnull"`
//		Name      string    `json:"name" dtox:"required" validatex:"min=2,max=50"`
//		Email     *string   `json:"email" validatex:"email"`
//		Age       int       `json:"age" validatex:"min=0"`
//		CreatedAt time.Time `json:"created_at"`
//		Secret    string    `dtox:"-"`
//	}
//
//	mapper := dtox.NewMapper[User]()
//
//	user, err := mapper.ToModel(map[string]any{"id": "5f0c...", "name": "Jo"})
//	if err != nil {
//		fmt.Println(serialx.Messages(err)) // [name must be at least 2]
//	}
//
//	data, err := mapper.ToData(user)
//
// Advanced Features:
//
// 1. Renaming and ignoring fields:
//
//	mapper := dtox.NewMapper[User]().
//		WithFieldMapping("Name", "full_name").
//		WithIgnoreField("Age")
//
// 2. Strict mode rejects unknown keys with "Field <key> is not allowed.":
//
//	mapper := dtox.NewMapper[User]().WithStrictMode(true)
//
// 3. Validation after conversion:
//
//	mapper := dtox.NewMapper[User]().
//		WithValidation(func(u User) error {
//			if u.Age > 0 && u.Email == nil {
//				return errors.New("email is required for adults")
//			}
//			return nil
//		})
//
// 4. Batch Conversion:
//
//	users, err := mapper.ToModels(ctx, rows)
//	if err != nil {
//		// *errx.Error with code DTOX_BATCH_CONVERSION; details["errors"]
//		// maps the failed indexes to their messages
//	}
package dtox
