package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/productos-api/internal/models"
	"github.com/Lixing-Zhang/productos-api/internal/repository"
	"github.com/Lixing-Zhang/productos-api/internal/service"
)

const (
	msgUpdated       = "Producto actualizado correctamente"
	msgDeleted       = "Producto eliminado correctamente"
	msgNotFound      = "Producto no encontrado"
	msgNothingToDo   = "No se proporcionaron datos para actualizar"
	msgMissingField  = "Falta el campo requerido: "
	msgEmptyName     = "El campo nombre no puede estar vacío"
	msgMalformedBody = "Cuerpo JSON inválido"
	msgInternal      = "Error interno del servidor"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
	// strict reports missing create fields as 400 instead of 500
	strict bool
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger, strict bool) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
		strict:  strict,
	}
}

// ListProducts handles GET /productos
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		WriteError(w, http.StatusInternalServerError, msgInternal, h.logger)
		return
	}

	resp := ListResponse{
		Success:   true,
		Productos: make([]ProductResponse, 0, len(products)),
	}
	for _, p := range products {
		resp.Productos = append(resp.Productos, toProductResponse(p))
	}

	WriteJSON(w, http.StatusOK, resp, h.logger)
}

// CreateProduct handles POST /productos
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("failed to decode create request", "error", err)
		WriteError(w, http.StatusBadRequest, msgMalformedBody, h.logger)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		var fieldErr *service.FieldError
		if errors.As(err, &fieldErr) {
			status := http.StatusInternalServerError
			if h.strict {
				status = http.StatusBadRequest
			}
			h.logger.Warn("rejected create request", "field", fieldErr.Field, "error", err)
			WriteError(w, status, msgMissingField+fieldErr.Field, h.logger)
			return
		}

		h.logger.Error("failed to create product", "error", err)
		WriteError(w, http.StatusInternalServerError, msgInternal, h.logger)
		return
	}

	h.logger.Info("product created", "id", product.ID)
	WriteJSON(w, http.StatusCreated, CreateResponse{Success: true, Producto: toCreatedProduct(product)}, h.logger)
}

// UpdateProduct handles PUT /productos/{id}
// - 200: updated
// - 400: no data supplied or malformed body
// - 404: unknown id
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, msgNotFound, h.logger)
		return
	}

	var req models.UpdateProductRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("failed to decode update request", "id", id, "error", err)
		WriteError(w, http.StatusBadRequest, msgMalformedBody, h.logger)
		return
	}

	err := h.service.UpdateProduct(r.Context(), id, req)
	switch {
	case err == nil:
		h.logger.Info("product updated", "id", id)
		WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: msgUpdated}, h.logger)
	case errors.Is(err, service.ErrNothingToUpdate):
		WriteError(w, http.StatusBadRequest, msgNothingToDo, h.logger)
	case errors.Is(err, service.ErrInvalidField):
		WriteError(w, http.StatusBadRequest, msgEmptyName, h.logger)
	case errors.Is(err, repository.ErrProductNotFound):
		h.logger.Info("product not found", "id", id)
		WriteError(w, http.StatusNotFound, msgNotFound, h.logger)
	default:
		h.logger.Error("failed to update product", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, msgInternal, h.logger)
	}
}

// DeleteProduct handles DELETE /productos/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, msgNotFound, h.logger)
		return
	}

	err := h.service.DeleteProduct(r.Context(), id)
	switch {
	case err == nil:
		h.logger.Info("product deleted", "id", id)
		WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: msgDeleted}, h.logger)
	case errors.Is(err, repository.ErrProductNotFound):
		h.logger.Info("product not found", "id", id)
		WriteError(w, http.StatusNotFound, msgNotFound, h.logger)
	default:
		h.logger.Error("failed to delete product", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, msgInternal, h.logger)
	}
}

// NotFound answers unknown routes with a failure envelope.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Recurso no encontrado", logger)
	}
}

// MethodNotAllowed answers known routes hit with an unsupported verb.
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Método no permitido", logger)
	}
}
