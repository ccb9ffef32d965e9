package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/alkanes")

	r.Get("/balances/:holder", h.GetBalances)
	r.Get("/balances/:holder/:asset", h.GetBalance)
	r.Get("/info/:id", h.GetTokenInfo)
	r.Post("/execute", h.Execute)
	return nil
}
