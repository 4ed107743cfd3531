package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoGogDBD/inventory/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestValidateItem(t *testing.T) {
	tests := []struct {
		name      string
		input     models.ItemInput
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid",
			input: models.ItemInput{Name: "USB Cable", Quantity: intPtr(3), Price: floatPtr(9.5)},
		},
		{
			name:      "missing name",
			input:     models.ItemInput{Quantity: intPtr(1), Price: floatPtr(1)},
			wantField: "name",
			wantMsg:   "name is required",
		},
		{
			name:      "blank name",
			input:     models.ItemInput{Name: "   ", Quantity: intPtr(1), Price: floatPtr(1)},
			wantField: "name",
			wantMsg:   "name is required",
		},
		{
			name:      "short name",
			input:     models.ItemInput{Name: "A", Quantity: intPtr(1), Price: floatPtr(1)},
			wantField: "name",
			wantMsg:   "name must be at least 2 characters",
		},
		{
			name:      "missing quantity",
			input:     models.ItemInput{Name: "Cable", Price: floatPtr(1)},
			wantField: "quantity",
			wantMsg:   "quantity is required",
		},
		{
			name:      "negative quantity",
			input:     models.ItemInput{Name: "Cable", Quantity: intPtr(-1), Price: floatPtr(1)},
			wantField: "quantity",
			wantMsg:   "quantity must be a non-negative number",
		},
		{
			name:      "quantity too large",
			input:     models.ItemInput{Name: "Cable", Quantity: intPtr(1000001), Price: floatPtr(1)},
			wantField: "quantity",
			wantMsg:   "quantity must be less than or equal to 1000000",
		},
		{
			name:      "negative price",
			input:     models.ItemInput{Name: "Cable", Quantity: intPtr(1), Price: floatPtr(-0.01)},
			wantField: "price",
			wantMsg:   "price must be a non-negative number",
		},
		{
			name:      "long category",
			input:     models.ItemInput{Name: "Cable", Quantity: intPtr(1), Price: floatPtr(1), Category: strings.Repeat("c", 101)},
			wantField: "category",
			wantMsg:   "category must be at most 100 characters",
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var verrs Errors
			require.ErrorAs(t, err, &verrs)
			require.NotEmpty(t, verrs)
			assert.Equal(t, tt.wantField, verrs[0].Field)
			assert.Equal(t, tt.wantMsg, verrs[0].Message)
		})
	}
}

func TestValidateRegister(t *testing.T) {
	v := New()

	err := v.Struct(models.RegisterInput{Username: "admin", Email: "not-an-email", Password: "secret1"})
	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "email", verrs[0].Field)
	assert.Contains(t, err.Error(), "valid email")

	require.NoError(t, v.Struct(models.RegisterInput{Username: "admin", Email: "manager@inventory.com", Password: "manager123"}))
}

func TestValidatePasswordBytes(t *testing.T) {
	v := New()

	// 72 символа кириллицей занимают 144 байта.
	long := strings.Repeat("пароль", 12)
	err := v.Struct(models.RegisterInput{Username: "admin", Email: "manager@inventory.com", Password: long})
	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "password", verrs[0].Field)
	assert.Equal(t, "password must be at most 72 bytes", verrs[0].Message)

	require.NoError(t, v.Struct(models.RegisterInput{Username: "admin", Email: "manager@inventory.com", Password: strings.Repeat("пароль", 6)}))
}
