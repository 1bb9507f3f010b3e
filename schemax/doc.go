// Package schemax loads schema declarations from YAML, JSON or BSON files.
//
//	schemas:
//	  - name: User
//	    fields:
//	      - attr: name
//	        type: string
//	        required: true
//	        rules: min=2,max=50
//	      - attr: addresses
//	        type: "[object]"
//	        schema: Address
//	  - name: Address
//	    model:
//	      kwargs: {country: PE}
//	    fields:
//	      - {attr: city, type: string, required: true}
//
// Object fields reference schemas by name, in any order, including schemas a
// Registry already holds. Cycles are rejected.
//
//	reg := schemax.NewRegistry()
//	if _, err := reg.LoadFile(ctx, fsxlocal.NewLocalFS("./defs"), "user.yaml"); err != nil {
//		return err
//	}
//	user, _ := reg.Get("User")
//	model, err := user.Load(data)
package schemax
