package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/validation"
)

// flexNumber принимает число или строку с числом ("12", "9.99").
type flexNumber struct {
	set   bool
	valid bool
	value float64
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}
	n.set = true
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.valid = true
	n.value = v
	return nil
}

// itemRequest - тело запроса создания и обновления позиции.
// Поле itemName принимается как синоним name.
type itemRequest struct {
	Name        string     `json:"name"`
	ItemName    string     `json:"itemName"`
	Quantity    flexNumber `json:"quantity" swaggertype:"number"`
	Price       flexNumber `json:"price" swaggertype:"number"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
}

// toInput переводит запрос в ItemInput. Значения, которые не удалось
// разобрать как число, возвращаются ошибками полей.
func (req itemRequest) toInput() (models.ItemInput, validation.Errors) {
	in := models.ItemInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = req.ItemName
	}

	var errs validation.Errors
	if req.Quantity.set {
		switch v := req.Quantity.value; {
		case !req.Quantity.valid:
			errs = append(errs, validation.FieldError{Field: "quantity", Message: "quantity must be a number"})
		case v != math.Trunc(v):
			errs = append(errs, validation.FieldError{Field: "quantity", Message: "quantity must be a whole number"})
		default:
			q := int(math.Max(math.Min(v, math.MaxInt32), math.MinInt32))
			in.Quantity = &q
		}
	}
	if req.Price.set {
		if req.Price.valid {
			p := req.Price.value
			in.Price = &p
		} else {
			errs = append(errs, validation.FieldError{Field: "price", Message: "price must be a number"})
		}
	}
	in.Normalize()
	return in, errs
}

// validateItem проверяет запрос целиком: сначала разбор чисел, затем правила ItemInput.
// Для каждого поля сообщается не больше одной ошибки.
func (h *Handler) validateItem(req itemRequest) (models.ItemInput, error) {
	in, errs := req.toInput()

	if err := h.validator.Struct(in); err != nil {
		verrs, ok := err.(validation.Errors)
		if !ok {
			return in, err
		}
		seen := make(map[string]bool, len(errs))
		for _, fe := range errs {
			seen[fe.Field] = true
		}
		for _, fe := range verrs {
			if !seen[fe.Field] {
				errs = append(errs, fe)
				seen[fe.Field] = true
			}
		}
	}
	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}
