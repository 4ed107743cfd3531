package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RoGogDBD/inventory/internal/logger"
	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/query"
)

// ItemList - страница списка позиций.
type ItemList struct {
	Items      []models.Item    `json:"items"`
	Pagination query.Pagination `json:"pagination"`
}

// ListItems возвращает страницу позиций с фильтром и сортировкой.
// @Summary List items
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Substring of name or description"
// @Param category query string false "Substring of category"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param sortBy query string false "createdAt, name, quantity or price"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} Response{data=ItemList}
// @Failure 401 {object} Response
// @Router /items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := query.Build(query.ParamsFromValues(r.URL.Query()), h.opts.MaxPageSize)

	items, total, err := h.items.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}

	respondData(w, r, http.StatusOK, ItemList{
		Items:      items,
		Pagination: query.ComputePagination(total, q.Page.Number, q.Page.Limit),
	}, "")
}

// GetItem возвращает позицию по идентификатору. Сначала проверяется кеш.
// @Summary Get item
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} Response{data=models.Item}
// @Failure 404 {object} Response
// @Router /items/{id} [get]
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if item, ok := h.cache.Get(r.Context(), id); ok {
		respondData(w, r, http.StatusOK, item, "")
		return
	}

	item, err := h.items.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.fillCache(r.Context(), item)
	respondData(w, r, http.StatusOK, item, "")
}

// fillCache кладет позицию в кеш и сверяет ее с хранилищем: удаленная
// за это время позиция из кеша убирается, обновленная заменяется.
func (h *Handler) fillCache(ctx context.Context, item *models.Item) {
	h.cache.Set(ctx, item)

	current, err := h.items.GetByID(ctx, item.ID)
	switch {
	case errors.Is(err, models.ErrItemNotFound):
		h.cache.Delete(ctx, item.ID)
	case err != nil:
		logger.FromContext(ctx).Warn("item cache recheck failed", "item_id", item.ID, "error", err)
		h.cache.Delete(ctx, item.ID)
	case !current.UpdatedAt.Equal(item.UpdatedAt):
		h.cache.Set(ctx, current)
	}
}

// CreateItem создает позицию.
// @Summary Create item
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body itemRequest true "Item"
// @Success 201 {object} Response{data=models.Item}
// @Failure 400 {object} Response
// @Router /items/add [post]
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := h.validateItem(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.items.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.Set(r.Context(), item)
	h.opts.Metrics.ItemMutated(r.Context(), "create")
	h.publish(r.Context(), models.ItemEvent{Type: models.ItemCreated, Item: *item, OccurredAt: time.Now().UTC()})

	respondData(w, r, http.StatusCreated, item, "Item created successfully")
}

// UpdateItem перезаписывает изменяемые поля позиции.
// @Summary Update item
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param request body itemRequest true "Item"
// @Success 200 {object} Response{data=models.Item}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /items/{id} [put]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := h.validateItem(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.items.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.Set(r.Context(), item)
	h.opts.Metrics.ItemMutated(r.Context(), "update")
	h.publish(r.Context(), models.ItemEvent{Type: models.ItemUpdated, Item: *item, OccurredAt: time.Now().UTC()})

	respondData(w, r, http.StatusOK, item, "Item updated successfully")
}

// DeleteItem удаляет позицию.
// @Summary Delete item
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /items/{id} [delete]
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.items.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.Delete(r.Context(), id)
	h.opts.Metrics.ItemMutated(r.Context(), "delete")
	h.publish(r.Context(), models.ItemEvent{Type: models.ItemDeleted, Item: models.Item{ID: id}, OccurredAt: time.Now().UTC()})

	respondData(w, r, http.StatusOK, nil, "Item deleted successfully")
}

// ItemStats возвращает агрегаты для дашборда.
// @Summary Dashboard stats
// @Tags items
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=query.DashboardStats}
// @Router /items/stats [get]
func (h *Handler) ItemStats(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, query.ComputeDashboardStats(items), "")
}

// LowStock возвращает позиции с остатком меньше порога.
// @Summary Low stock items
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param threshold query int false "Quantity threshold (default 10)"
// @Success 200 {object} Response{data=query.LowStockResult}
// @Router /items/low-stock [get]
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := query.ParseThreshold(r.URL.Query().Get("threshold"))

	items, err := h.items.LowStock(r.Context(), threshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, query.NewLowStockResult(items, threshold), "")
}
