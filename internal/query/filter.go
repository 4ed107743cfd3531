package query

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/RoGogDBD/inventory/internal/models"
)

// Filter описывает условия отбора позиций. Пустые поля условий не накладывают.
type Filter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// IsEmpty сообщает, что фильтр не содержит ни одного условия.
func (f Filter) IsEmpty() bool {
	return f.Search == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Sqlizer возвращает предикат для squirrel. Все активные условия объединяются через AND,
// поиск по тексту проверяет name OR description без учета регистра.
func (f Filter) Sqlizer() sq.Sqlizer {
	and := sq.And{}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		and = append(and, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		})
	}
	if f.Category != "" {
		and = append(and, sq.ILike{"category": containsPattern(f.Category)})
	}
	if f.MinPrice != nil {
		and = append(and, sq.GtOrEq{"price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		and = append(and, sq.LtOrEq{"price": *f.MaxPrice})
	}
	return and
}

// Match проверяет позицию в памяти по тем же правилам, что и Sqlizer.
func (f Filter) Match(item models.Item) bool {
	if f.Search != "" {
		if !containsFold(item.Name, f.Search) && !containsFold(item.Description, f.Search) {
			return false
		}
	}
	if f.Category != "" && !containsFold(item.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && item.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	return true
}

// LowStock отбирает позиции с остатком строго меньше Threshold.
type LowStock struct {
	Threshold int
}

// Sqlizer возвращает предикат quantity < threshold.
func (l LowStock) Sqlizer() sq.Sqlizer {
	return sq.Lt{"quantity": l.Threshold}
}

// Match проверяет позицию в памяти.
func (l LowStock) Match(item models.Item) bool {
	return item.Quantity < l.Threshold
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern строит шаблон LIKE для поиска подстроки; метасимволы пользователя экранируются.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
