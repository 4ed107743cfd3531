package query

import (
	"slices"
	"strconv"
	"strings"

	"github.com/RoGogDBD/inventory/internal/models"
)

const (
	// DashboardLowStockThreshold - фиксированный порог для счетчика на дашборде.
	// Не зависит от порога, который пользователь передает в список low-stock.
	DashboardLowStockThreshold = 10
	// DefaultLowStockThreshold - порог списка low-stock, если он не передан.
	DefaultLowStockThreshold = 10
)

// CategoryCount - число позиций в категории.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DashboardStats - агрегаты для дашборда.
type DashboardStats struct {
	TotalItems    int             `json:"totalItems"`
	LowStockItems int             `json:"lowStockItems"`
	TotalValue    float64         `json:"totalValue"`
	Categories    []CategoryCount `json:"categories"`
}

// ComputeDashboardStats считает агрегаты по полному набору позиций.
// Позиции без категории в разбивку по категориям не попадают.
func ComputeDashboardStats(items []models.Item) DashboardStats {
	stats := DashboardStats{
		TotalItems: len(items),
		Categories: []CategoryCount{},
	}
	counts := make(map[string]int)
	for _, it := range items {
		if it.Quantity < DashboardLowStockThreshold {
			stats.LowStockItems++
		}
		stats.TotalValue += it.Value()
		if it.Category != "" {
			counts[it.Category]++
		}
	}
	for name, n := range counts {
		stats.Categories = append(stats.Categories, CategoryCount{Name: name, Count: n})
	}
	slices.SortFunc(stats.Categories, func(a, b CategoryCount) int {
		return strings.Compare(a.Name, b.Name)
	})
	return stats
}

// ParseThreshold разбирает порог low-stock. Нечисловое или пустое значение
// заменяется на DefaultLowStockThreshold.
func ParseThreshold(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultLowStockThreshold
	}
	return v
}

// LowStockResult - ответ списка позиций с низким остатком.
type LowStockResult struct {
	Items     []models.Item `json:"items"`
	Count     int           `json:"count"`
	Threshold int           `json:"threshold"`
}

// NewLowStockResult оформляет результат выборки.
func NewLowStockResult(items []models.Item, threshold int) LowStockResult {
	if items == nil {
		items = []models.Item{}
	}
	return LowStockResult{Items: items, Count: len(items), Threshold: threshold}
}

// SelectLowStock отбирает позиции с остатком меньше threshold и сортирует их
// по возрастанию остатка. Исходный срез не изменяется.
func SelectLowStock(items []models.Item, threshold int) []models.Item {
	f := LowStock{Threshold: threshold}
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Item) int {
		return a.Quantity - b.Quantity
	})
	return out
}
