// Package handlerx exposes a schemax registry over HTTP and AWS Lambda.
//
// Fiber:
//
//	reg := schemax.NewRegistry()
//	_, _ = reg.LoadFile(ctx, fsxlocal.NewLocalFS("."), "schemas.yaml")
//	app := handlerx.NewFiberApp(handlerx.NewService(reg))
//	log.Fatal(app.Listen(":8080"))
//
// net/http with gorilla/mux:
//
//	http.ListenAndServe(":8080", handlerx.NewRouter(handlerx.NewService(reg)))
//
// Lambda behind API Gateway, with a {name} path parameter:
//
//	lambda.Start(handlerx.LambdaHandler(handlerx.NewService(reg)))
//
// A validation request posts one object or a list of objects:
//
//	POST /schemas/User/validate
//	{"name": "A"}
//
//	400 {"error": {"code": "SERIALX_VALIDATION_FAILED", "type": "VALIDATION",
//	     "message": "Validation failed",
//	     "details": {"messages": ["name must be at least 2"], "error_count": 1}}}
package handlerx
