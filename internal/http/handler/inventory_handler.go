package handler

import (
	"net/http"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/service"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// List godoc
// @Summary List inventory items
// @Tags Inventory
// @Produce json
// @Success 200 {array} domain.InventoryItemDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory [get]
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// LowStock godoc
// @Summary List items at or below their reorder level
// @Tags Inventory
// @Produce json
// @Success 200 {array} domain.InventoryItemDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/low-stock [get]
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *InventoryHandler) list(w http.ResponseWriter, r *http.Request, lowStockOnly bool) {
	items, err := h.inventoryService.List(r.Context(), lowStockOnly)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetByID godoc
// @Summary Get inventory item
// @Tags Inventory
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} domain.InventoryItemDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id} [get]
func (h *InventoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "inventory item")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// Create godoc
// @Summary Create inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body domain.InventoryItemRequest true "Item data"
// @Success 201 {object} domain.InventoryItemDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory [post]
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.InventoryItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.inventoryService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// Update godoc
// @Summary Update inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body domain.InventoryItemRequest true "Item data"
// @Success 200 {object} domain.InventoryItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id} [put]
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "inventory item")
	if !ok {
		return
	}

	var req domain.InventoryItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.inventoryService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete inventory item
// @Tags Inventory
// @Param id path int true "Item ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id} [delete]
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "inventory item")
	if !ok {
		return
	}

	if err := h.inventoryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordTransaction godoc
// @Summary Record a stock movement
// @Description IN adds to stock, OUT removes from it. OUT beyond current stock is rejected.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body domain.CreateInventoryTransactionRequest true "Movement"
// @Success 201 {object} domain.InventoryTransactionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Insufficient stock"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id}/transactions [post]
func (h *InventoryHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "inventory item")
	if !ok {
		return
	}

	var req domain.CreateInventoryTransactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	txn, err := h.inventoryService.RecordTransaction(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, txn)
}

// ListTransactions godoc
// @Summary List stock movements for an item
// @Tags Inventory
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {array} domain.InventoryTransactionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id}/transactions [get]
func (h *InventoryHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "inventory item")
	if !ok {
		return
	}

	txns, err := h.inventoryService.ListTransactions(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, txns)
}
