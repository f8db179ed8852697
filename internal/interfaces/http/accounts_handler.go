package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/accounts"
	"github.com/jhoicas/ventas-api/internal/application/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AccountsHandler cuentas por cobrar/pagar, abonos y reporte diario de ventas.
type AccountsHandler struct {
	uc *accounts.AccountsUseCase
}

// NewAccountsHandler construye el handler.
func NewAccountsHandler(uc *accounts.AccountsUseCase) *AccountsHandler {
	return &AccountsHandler{uc: uc}
}

// Receivables godoc
// @Summary      Clientes con saldo pendiente
// @Tags         accounts
// @Produce      json
// @Param        search  query  string  false  "Nombre, tienda o teléfono"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.BalanceListResponse
// @Router       /api/accounts/receivables [get]
func (h *AccountsHandler) Receivables(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.Receivables(c.UserContext(), c.Query("search"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Payables GET /api/accounts/payables
func (h *AccountsHandler) Payables(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.Payables(c.UserContext(), c.Query("search"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DailySales GET /api/accounts/dsr?date=2006-01-02 (sin fecha = hoy)
func (h *AccountsHandler) DailySales(c *fiber.Ctx) error {
	out, err := h.uc.DailySalesReport(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportDailySales GET /api/accounts/dsr/export?date=
func (h *AccountsHandler) ExportDailySales(c *fiber.Ctx) error {
	b, filename, err := h.uc.ExportDailySalesReport(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(b)
}

// RecordCustomerPayment godoc
// @Summary      Registrar abono de cliente
// @Description  Descuenta el saldo del cliente y, si se indica sale_id, actualiza pagado/pendiente y estado de la venta.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordCustomerPaymentRequest  true  "Abono"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounts/customer-payments [post]
func (h *AccountsHandler) RecordCustomerPayment(c *fiber.Ctx) error {
	var in dto.RecordCustomerPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordCustomerPayment(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordVendorPayment POST /api/accounts/vendor-payments
func (h *AccountsHandler) RecordVendorPayment(c *fiber.Ctx) error {
	var in dto.RecordVendorPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordVendorPayment(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
