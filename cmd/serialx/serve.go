package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Conversia-AI/craftable-serialx/auth"
	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/handlerx"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr, engine, secret string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schema validation over HTTP",
		Long: `Serve exposes the loaded schemas:

  GET  /schemas
  GET  /schemas/{name}
  POST /schemas/{name}/validate

The fiber and mux engines listen on --addr. The lambda engine runs as an
AWS Lambda behind API Gateway and ignores --addr.

With --jwt-secret (or SERIALX_JWT_SECRET) every route requires a bearer
token issued by "serialx token".`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&engine, "engine", "fiber", "HTTP engine: fiber, mux or lambda")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Batch validation workers, 0 for the default")
	cmd.Flags().StringVar(&secret, "jwt-secret", "", "HS256 secret protecting the API")

	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		svc, err := a.service(ctx)
		if err != nil {
			return err
		}
		if concurrency > 0 {
			svc = svc.WithConcurrency(concurrency)
		}
		if secret != "" {
			tokens, err := auth.NewTokenService([]byte(secret), 0)
			if err != nil {
				return err
			}
			svc = svc.WithAuthorizer(tokens)
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a.logger.Info("serving schemas",
			zap.String("engine", engine),
			zap.String("addr", addr),
			zap.Bool("auth", secret != ""),
			zap.Strings("schemas", svc.Schemas()))

		switch engine {
		case "fiber":
			return serveFiber(ctx, svc, addr)
		case "mux":
			return serveMux(ctx, svc, addr)
		case "lambda":
			lambda.Start(handlerx.LambdaHandler(svc))
			return nil
		}
		return errx.New("Unsupported engine, expected fiber, mux or lambda", errx.TypeBadRequest).
			WithDetail("engine", engine)
	})
	return cmd
}

func serveFiber(ctx context.Context, svc *handlerx.Service, addr string) error {
	app := handlerx.NewFiberApp(svc)

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(shutdownTimeout)
	}()

	if err := app.Listen(addr); err != nil {
		return errx.Wrap(err, "HTTP server failed", errx.TypeSystem).WithDetail("addr", addr)
	}
	return nil
}

func serveMux(ctx context.Context, svc *handlerx.Service, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handlerx.NewRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errx.Wrap(err, "HTTP server failed", errx.TypeSystem).WithDetail("addr", addr)
	}
	return nil
}
