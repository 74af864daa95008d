package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
	"github.com/i474232898/openmeteo-daily-aggregation/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *meteo.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/records", func(c *fiber.Ctx) error {
		var req recordsQuery
		req.bind(c)

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.From > req.To {
			return fiber.NewError(fiber.StatusBadRequest, "from must not be after to")
		}

		loc, err := meteo.NewLocation(req.Longitude, req.Latitude)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.GetRange(c.UserContext(), loc, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no records for requested location and range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch records")
		}

		return c.JSON(fiber.Map{
			"location": loc,
			"from":     req.From,
			"to":       req.To,
			"records":  records,
		})
	})
}

// recordsQuery holds query parameters for the records endpoint.
type recordsQuery struct {
	Longitude string `validate:"required,longitude"`
	Latitude  string `validate:"required,latitude"`
	From      string `validate:"required,datetime=2006-01-02"`
	To        string `validate:"required,datetime=2006-01-02"`
}

func (q *recordsQuery) bind(c *fiber.Ctx) {
	q.Longitude = c.Query("lon")
	q.Latitude = c.Query("lat")
	q.From = c.Query("from")
	q.To = c.Query("to")
}
