package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ParapenteColina/weather-api/internal/weather"
)

var validate = validator.New()

const errorDetails = "failed to fetch weather data, please try again later"

// NewApp builds the Fiber application: middleware, CORS, health endpoint and
// the two weather routes. defaultLocation is used when no location query
// parameter is present.
func NewApp(service *weather.Service, defaultLocation string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-api",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   err.Error(),
				"details": errorDetails,
			})
		},
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-api",
		})
	})

	RegisterRoutes(app, service, defaultLocation)

	return app
}

// cors attaches CORS headers to every response and answers preflight with an
// empty 200. Fiber's cors middleware answers preflight with 204, which the
// site frontend does not expect.
func cors() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Method() == fiber.MethodOptions {
			return c.Status(fiber.StatusOK).SendString("")
		}
		return c.Next()
	}
}

// RegisterRoutes wires the weather handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, defaultLocation string) {
	app.Get("/weather", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c, defaultLocation)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := service.CurrentWeather(c.Context(), loc)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(successEnvelope{
			Data:    result.Snapshot,
			Source:  result.Source,
			Message: sourceMessage(result.Source),
		})
	})

	app.Get("/forecast", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c, defaultLocation)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := service.Forecast(c.Context(), loc)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(successEnvelope{
			Data:    result.Snapshot,
			Source:  result.Source,
			Message: sourceMessage(result.Source),
		})
	})
}

// successEnvelope is the JSON body for every successful lookup.
type successEnvelope struct {
	Data    any            `json:"data"`
	Source  weather.Source `json:"source"`
	Message string         `json:"message"`
}

func sourceMessage(src weather.Source) string {
	switch src {
	case weather.SourceCache:
		return "served from cache"
	case weather.SourceMock:
		return "mock data (no API key configured)"
	default:
		return "fetched from weather API"
	}
}

// locationQuery holds the single query parameter both endpoints accept.
type locationQuery struct {
	Location string `validate:"required,max=85"`
}

func parseLocationQuery(c *fiber.Ctx, defaultLocation string) (string, error) {
	q := locationQuery{Location: c.Query("location", defaultLocation)}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.Location, nil
}
