package handlerx

import (
	"github.com/Conversia-AI/craftable-serialx/errx/errxfiber"
	"github.com/gofiber/fiber/v2"
)

// NewFiberApp serves the service over Fiber:
//
//	GET  /schemas                 -> {"schemas": [...]}
//	GET  /schemas/:name           -> SchemaInfo
//	POST /schemas/:name/validate  -> {"data": {...}} or {"data": [...]}
func NewFiberApp(svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          errxfiber.FiberErrorHandler(),
		BodyLimit:             svc.bodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(func(c *fiber.Ctx) error {
		if err := svc.Authorize(c.Get(fiber.HeaderAuthorization), c.Method()); err != nil {
			return err
		}
		return c.Next()
	})

	app.Get("/schemas", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"schemas": svc.Schemas()})
	})

	app.Get("/schemas/:name", func(c *fiber.Ctx) error {
		info, err := svc.Describe(c.Params("name"))
		if err != nil {
			return err
		}
		return c.JSON(info)
	})

	app.Post("/schemas/:name/validate", func(c *fiber.Ctx) error {
		out, err := svc.ValidateBody(c.UserContext(), c.Params("name"), c.Get(fiber.HeaderContentType), c.Body())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": out})
	})

	return app
}
