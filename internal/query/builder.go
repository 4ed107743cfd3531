// Package query преобразует параметры запроса списка позиций в фильтр, сортировку и пагинацию,
// а также считает агрегаты для дашборда.
//
// Все функции пакета чистые: одинаковые входные данные дают одинаковый результат,
// некорректные значения не приводят к ошибке, а заменяются значениями по умолчанию.
package query

import (
	"cmp"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/RoGogDBD/inventory/internal/models"
)

const (
	// DefaultPage - номер страницы по умолчанию.
	DefaultPage = 1
	// DefaultLimit - размер страницы по умолчанию.
	DefaultLimit = 10
	// DefaultMaxLimit - верхняя граница размера страницы, если не задана другая.
	DefaultMaxLimit = 100
)

// SortField - поле, по которому сортируется список.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortName      SortField = "name"
	SortQuantity  SortField = "quantity"
	SortPrice     SortField = "price"
)

var sortColumns = map[SortField]string{
	SortCreatedAt: "created_at",
	SortName:      "name",
	SortQuantity:  "quantity",
	SortPrice:     "price",
}

// Column возвращает имя колонки в таблице items.
func (f SortField) Column() string {
	if c, ok := sortColumns[f]; ok {
		return c
	}
	return sortColumns[SortCreatedAt]
}

// Sort задает поле и направление сортировки.
type Sort struct {
	Field SortField
	Desc  bool
}

// OrderBy возвращает выражение для ORDER BY.
func (s Sort) OrderBy() string {
	if s.Desc {
		return s.Field.Column() + " DESC"
	}
	return s.Field.Column() + " ASC"
}

// Less сравнивает две позиции в порядке s. Равные элементы не упорядочиваются.
func (s Sort) Less(a, b models.Item) bool {
	var c int
	switch s.Field {
	case SortName:
		c = strings.Compare(a.Name, b.Name)
	case SortQuantity:
		c = cmp.Compare(a.Quantity, b.Quantity)
	case SortPrice:
		c = cmp.Compare(a.Price, b.Price)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if s.Desc {
		return c > 0
	}
	return c < 0
}

// Page - смещение и размер выборки.
type Page struct {
	Number int
	Skip   int
	Limit  int
}

// Bounds возвращает границы среза [lo:hi] для набора из total элементов.
func (p Page) Bounds(total int) (lo, hi int) {
	lo = min(p.Skip, total)
	hi = min(lo+p.Limit, total)
	return lo, hi
}

// Params - сырые строковые параметры запроса списка.
type Params struct {
	Search    string
	Category  string
	MinPrice  string
	MaxPrice  string
	SortBy    string
	SortOrder string
	Page      string
	Limit     string
}

// ParamsFromValues извлекает параметры списка из query string.
func ParamsFromValues(v url.Values) Params {
	return Params{
		Search:    v.Get("search"),
		Category:  v.Get("category"),
		MinPrice:  v.Get("minPrice"),
		MaxPrice:  v.Get("maxPrice"),
		SortBy:    v.Get("sortBy"),
		SortOrder: v.Get("sortOrder"),
		Page:      v.Get("page"),
		Limit:     v.Get("limit"),
	}
}

// ListQuery - типизированный запрос списка, готовый к выполнению хранилищем.
type ListQuery struct {
	Filter Filter
	Sort   Sort
	Page   Page
}

// Build собирает ListQuery из сырых параметров. maxLimit <= 0 означает DefaultMaxLimit.
func Build(p Params, maxLimit int) ListQuery {
	return ListQuery{
		Filter: BuildFilter(p.Search, p.Category, p.MinPrice, p.MaxPrice),
		Sort:   BuildSort(p.SortBy, p.SortOrder),
		Page:   Paginate(p.Page, p.Limit, maxLimit),
	}
}

// BuildFilter строит фильтр. Нечисловые границы цены игнорируются.
func BuildFilter(search, category, minPrice, maxPrice string) Filter {
	return Filter{
		Search:   strings.TrimSpace(search),
		Category: strings.TrimSpace(category),
		MinPrice: parsePrice(minPrice),
		MaxPrice: parsePrice(maxPrice),
	}
}

// BuildSort строит сортировку. Неизвестное поле заменяется на createdAt,
// любое направление кроме "asc" считается убывающим.
func BuildSort(sortBy, sortOrder string) Sort {
	field := SortField(strings.TrimSpace(sortBy))
	if field == "itemName" {
		field = SortName
	}
	if _, ok := sortColumns[field]; !ok {
		field = SortCreatedAt
	}
	return Sort{
		Field: field,
		Desc:  !strings.EqualFold(strings.TrimSpace(sortOrder), "asc"),
	}
}

// Paginate вычисляет смещение и размер страницы. Нечисловые значения заменяются
// значениями по умолчанию, значения меньше 1 поднимаются до 1, limit ограничен maxLimit.
func Paginate(page, limit string, maxLimit int) Page {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	pageNum := max(parseInt(page, DefaultPage), 1)
	limitNum := min(max(parseInt(limit, DefaultLimit), 1), maxLimit)

	skip := (pageNum - 1) * limitNum
	if pageNum-1 > math.MaxInt/limitNum {
		skip = math.MaxInt
	}
	return Page{Number: pageNum, Skip: skip, Limit: limitNum}
}

// Pagination - метаданные страницы в ответе списка.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// ComputePagination считает метаданные по общему числу найденных позиций.
func ComputePagination(total, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseInt(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}
