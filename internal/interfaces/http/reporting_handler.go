package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/stock-api/internal/application/dto"
	"github.com/tallerpro/stock-api/internal/application/reporting"
	"github.com/tallerpro/stock-api/internal/application/stock"
	"github.com/tallerpro/stock-api/internal/domain/repository"
)

// ReportingHandler maneja disponibilidad, consumo, sugerencias de compra y el
// reporte PDF (protegido, solo lectura).
type ReportingHandler struct {
	uc      *reporting.AvailabilityUseCase
	advisor *stock.Advisor
}

// NewReportingHandler construye el handler.
func NewReportingHandler(uc *reporting.AvailabilityUseCase, advisor *stock.Advisor) *ReportingHandler {
	return &ReportingHandler{uc: uc, advisor: advisor}
}

// GetAvailability godoc
// @Summary      Disponibilidad agregada por repuesto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        part_id  query  string  false  "Filtrar por repuesto. Vacío = todos."
// @Success      200  {array}   dto.AvailabilityResponse
// @Router       /api/reports/availability [get]
func (h *ReportingHandler) GetAvailability(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rows, err := h.uc.GetPartAvailability(c.Context(), orgID, c.Query("part_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(rows), "availability": dto.ToAvailabilityResponses(rows)})
}

// GetAvailabilityByVehicle godoc
// @Summary      Disponibilidad de los repuestos movidos para un vehículo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Vehicle ID"
// @Success      200  {array}  dto.AvailabilityResponse
// @Router       /api/reports/availability/vehicle/{id} [get]
func (h *ReportingHandler) GetAvailabilityByVehicle(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rows, err := h.uc.GetAvailabilityByVehicle(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(rows), "availability": dto.ToAvailabilityResponses(rows)})
}

// GetAvailabilityByClient godoc
// @Summary      Disponibilidad de los repuestos movidos para un cliente
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Client ID"
// @Success      200  {array}  dto.AvailabilityResponse
// @Router       /api/reports/availability/client/{id} [get]
func (h *ReportingHandler) GetAvailabilityByClient(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rows, err := h.uc.GetAvailabilityByClient(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(rows), "availability": dto.ToAvailabilityResponses(rows)})
}

// GetConsumptionStats godoc
// @Summary      Consumo histórico por repuesto (movimientos OUT)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        vehicle_id        query  string  false  "Filtrar por vehículo"
// @Param        service_order_id  query  string  false  "Filtrar por orden de servicio"
// @Param        from              query  string  false  "Fecha inicial (RFC 3339)"
// @Param        to                query  string  false  "Fecha final (RFC 3339)"
// @Success      200  {array}   dto.ConsumptionStatResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/consumption [get]
func (h *ReportingHandler) GetConsumptionStats(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC 3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC 3339"})
	}
	rows, err := h.uc.GetConsumptionStats(c.Context(), orgID, repository.ConsumptionFilter{
		VehicleID:      c.Query("vehicle_id"),
		ServiceOrderID: c.Query("service_order_id"),
		From:           from,
		To:             to,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(rows), "stats": dto.ToConsumptionStatResponses(rows)})
}

// GetPurchaseSuggestions godoc
// @Summary      Sugerencias de compra para repuestos bajo mínimo
// @Description  Prioriza por historial de consumo. Si hay recomendador remoto
//
//	configurado se usa su ranking; ante fallo se cae al cálculo local.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  false  "Filtrar por ubicación. Vacío = todas."
// @Success      200  {array}  stock.PurchaseSuggestion
// @Router       /api/reports/purchase-suggestions [get]
func (h *ReportingHandler) GetPurchaseSuggestions(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	suggestions, err := h.advisor.SuggestPurchases(c.Context(), orgID, c.Query("location"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(suggestions), "suggestions": suggestions})
}

// GetStockReportPDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        org_name  query  string  false  "Nombre a mostrar en el encabezado"
// @Success      200  {file}    file
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.pdf [get]
func (h *ReportingHandler) GetStockReportPDF(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orgName := c.Query("org_name")
	if orgName == "" {
		orgName = "Taller"
	}
	pdfBytes, err := h.uc.GenerateStockReportPDF(c.Context(), orgID, orgName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	filename := "stock-" + time.Now().Format("20060102") + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
