package bridge

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"watchface/internal/appmsg"
)

type outboxJSON struct {
	Messages []messageJSON `json:"messages"`
}

func (bridge *Bridge) routes() {
	bridge.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "watchface-bridge",
			"open":    bridge.endpoint.IsOpen(),
		})
	})

	bridge.app.Post("/inbox", func(c *fiber.Ctx) error {
		var message messageJSON
		if err := c.BodyParser(&message); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
		dict, err := message.dict()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := bridge.Send(dict)
		if err != nil {
			if errors.Is(err, appmsg.ErrNotOpen) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "bridge is not serving")
			}
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		if result != appmsg.ResultOK {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":  true,
				"result": string(result),
			})
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"result": string(result)})
	})

	bridge.app.Get("/outbox", func(c *fiber.Ctx) error {
		drained := bridge.Drain()
		response := outboxJSON{Messages: make([]messageJSON, 0, len(drained))}
		for _, dict := range drained {
			response.Messages = append(response.Messages, encodeDict(dict))
		}
		return c.JSON(response)
	})
}
