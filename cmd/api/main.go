package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/sharifulislamudoy/money-manager/internal/admin"
	"github.com/sharifulislamudoy/money-manager/internal/audit"
	"github.com/sharifulislamudoy/money-manager/internal/auth"
	"github.com/sharifulislamudoy/money-manager/internal/balance"
	"github.com/sharifulislamudoy/money-manager/internal/currency"
	apphttp "github.com/sharifulislamudoy/money-manager/internal/http"
	"github.com/sharifulislamudoy/money-manager/internal/ledger"
	"github.com/sharifulislamudoy/money-manager/internal/logger"
	"github.com/sharifulislamudoy/money-manager/internal/processor"
	"github.com/sharifulislamudoy/money-manager/internal/reports"
	"github.com/sharifulislamudoy/money-manager/internal/router"
)

func main() {
	log := logger.New()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	secret := mustJWTSecret()

	// database/sql handle for startup checks, pgxpool for the repos
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("error pinging database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating pgx pool")
	}
	defer pool.Close()

	rates := currency.RatesFromEnv()
	log.Info().
		Float64("bdt_to_usd", rates.BDTToUSD).
		Float64("usd_to_bdt", rates.USDToBDT).
		Msg("conversion rates loaded")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware())
	app.Use(requestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API Working")
	})

	// Dev token endpoint
	if strings.EqualFold(os.Getenv("ENV"), "dev") {
		app.Get("/dev/token", func(c *fiber.Ctx) error {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"user_id": "11111111-1111-1111-1111-111111111111",
				"exp":     time.Now().Add(24 * time.Hour).Unix(),
			})
			signed, err := token.SignedString(secret)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			return c.JSON(fiber.Map{"token": signed})
		})
	}

	balanceRepo := balance.NewRepo(pool)
	ledgerRepo := ledger.NewRepo(pool)
	proc := processor.New(balanceRepo, ledgerRepo, rates)
	auditor := &audit.Recorder{Pool: pool}

	authMiddleware := auth.Middleware(secret, pool)

	r := &router.Router{
		Google:              auth.NewGoogleFromEnv(pool, secret),
		BalanceHandler:      apphttp.NewBalanceHandler(proc, auditor),
		TransactionsHandler: apphttp.NewTransactionsHandler(proc, auditor),
		SessionHandler:      &apphttp.SessionHandler{DB: pool},
		ReportsHandler:      reports.NewHandler(pool),
		AdminHandler:        admin.NewHandler(pool),
		AuthMW:              authMiddleware,
		AdminMW:             admin.RequireAdminKey(),
	}
	r.RegisterRoutes(app)

	if r.Google == nil {
		log.Warn().Msg("GOOGLE_CLIENT_ID/SECRET not set, sign-in routes disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("listening")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}

// mustJWTSecret loads JWT_SECRET from the environment or exits the process.
func mustJWTSecret() []byte {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		log := logger.New()
		log.Fatal().Msg("JWT_SECRET is not set")
	}
	return []byte(secret)
}
