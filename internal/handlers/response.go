package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/productos-api/internal/models"
)

// Every response body is an envelope carrying a success flag.

// ErrorResponse is the envelope for any failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MessageResponse is the envelope for updates and deletes.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListResponse is the envelope for GET /productos.
type ListResponse struct {
	Success   bool              `json:"success"`
	Productos []ProductResponse `json:"productos"`
}

// CreateResponse is the envelope for POST /productos.
type CreateResponse struct {
	Success  bool           `json:"success"`
	Producto CreatedProduct `json:"producto"`
}

// ProductResponse is a stored product as listed.
type ProductResponse struct {
	ID            int64   `json:"id"`
	Nombre        string  `json:"nombre"`
	Precio        float64 `json:"precio"`
	Descripcion   string  `json:"descripcion"`
	Stock         int     `json:"stock"`
	FechaCreacion string  `json:"fecha_creacion"`
}

// CreatedProduct echoes a newly created product with its assigned id.
type CreatedProduct struct {
	ID          int64   `json:"id"`
	Nombre      string  `json:"nombre"`
	Precio      float64 `json:"precio"`
	Descripcion string  `json:"descripcion"`
	Stock       int     `json:"stock"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Nombre:        p.Name,
		Precio:        p.Price,
		Descripcion:   p.Description,
		Stock:         p.Stock,
		FechaCreacion: formatTimestamp(p.CreatedAt),
	}
}

func toCreatedProduct(p *models.Product) CreatedProduct {
	return CreatedProduct{
		ID:          p.ID,
		Nombre:      p.Name,
		Precio:      p.Price,
		Descripcion: p.Description,
		Stock:       p.Stock,
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(models.TimestampLayout)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a failure envelope
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Success: false, Error: message}, logger)
}
