package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abcdefg1!", true},
		{"Zz9 zzzz", true},
		{"Abcdefg1", false},
		{"Abcdefg!", false},
		{"abcdefg1!", false},
		{"ABCDEFG1!", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isStrongPassword(tt.password), "password %q", tt.password)
	}
}

func TestValidateStruct_ProductLengths(t *testing.T) {
	long := strings.Repeat("a", 256)
	price := 1.0

	err := validateStruct(CreateProductRequest{Title: long, Price: &price, Sizes: []string{"M"}, Gender: "men"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "title", verr.Fields[0].Field)

	err = validateStruct(CreateProductRequest{Title: "Tee", Slug: long, Sizes: []string{"M"}, Gender: "men"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slug", verr.Fields[0].Field)

	err = validateStruct(UpdateProductRequest{Title: &long})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Fields[0].Field)

	err = validateStruct(UpdateProductRequest{Slug: &long})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slug", verr.Fields[0].Field)

	limit := strings.Repeat("a", 255)
	assert.NoError(t, validateStruct(CreateProductRequest{Title: limit, Slug: limit, Sizes: []string{"M"}, Gender: "men"}))
}
