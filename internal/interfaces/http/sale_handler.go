package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gimnasio-api/internal/application/dto"
	"github.com/jhoicas/gimnasio-api/internal/application/sales"
	"github.com/jhoicas/gimnasio-api/internal/application/sellers"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
)

// SaleHandler registra ventas y lista las recientes (protegido).
type SaleHandler struct {
	uc      *sales.CreateSaleUseCase
	sellers repository.SellerDirectory
}

// NewSaleHandler construye el handler. sellers resuelve el nombre mostrado de cada venta.
func NewSaleHandler(uc *sales.CreateSaleUseCase, sellers repository.SellerDirectory) *SaleHandler {
	return &SaleHandler{uc: uc, sellers: sellers}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida todas las líneas antes de descontar stock. Sin seller_id se usa el usuario del token.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	input := sales.CreateSaleInput{SellerID: in.SellerID, Total: in.Total}
	if input.SellerID == "" {
		input.SellerID = GetUserID(c)
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, sales.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}

	sale, err := h.uc.CreateSale(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.toResponses(c.UserContext(), []*entity.Sale{sale})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out[0])
}

// List godoc
// @Summary      Ventas recientes
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite (máx. 50)"  default(50)
// @Success      200    {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListRecent(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.toResponses(c.UserContext(), list)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SaleListResponse{Items: items})
}

func (h *SaleHandler) toResponses(ctx context.Context, list []*entity.Sale) ([]dto.SaleResponse, error) {
	names := sellers.NewNames(h.sellers)
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		name, err := names.Name(ctx, s.SellerID)
		if err != nil {
			return nil, err
		}
		r := dto.SaleResponse{
			ID:         s.ID,
			Items:      make([]dto.SaleItemResponse, 0, len(s.Items)),
			Total:      s.Total,
			SellerID:   s.SellerID,
			SellerName: name,
			Date:       s.Date,
		}
		for _, it := range s.Items {
			itemName := it.Name
			if itemName == "" {
				itemName = entity.ProductUnknown
			}
			r.Items = append(r.Items, dto.SaleItemResponse{
				ProductID: it.ProductID,
				Name:      itemName,
				Quantity:  it.Quantity,
				Price:     it.Price,
				Subtotal:  it.Subtotal(),
			})
		}
		out = append(out, r)
	}
	return out, nil
}
