package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{99, "$0.99"},
		{100, "$1.00"},
		{30000, "$300.00"},
		{123456, "$1234.56"},
		{-250, "-$2.50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.amount))
		})
	}
}

func TestBuildOrderConfirmationBody(t *testing.T) {
	body := BuildOrderConfirmationBody("order-123", 30000, []OrderItem{
		{ProductID: "p-1", Name: "Widget", Quantity: 3, UnitPrice: 10000},
	})

	assert.Contains(t, body, "order-123")
	assert.Contains(t, body, "Widget")
	assert.Contains(t, body, "$100.00")
	assert.Contains(t, body, "$300.00")
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
}

func TestBuildOrderConfirmationBody_NamelessItemUsesProductID(t *testing.T) {
	body := BuildOrderConfirmationBody("order-123", 500, []OrderItem{
		{ProductID: "p-ghost", Quantity: 1, UnitPrice: 500},
	})

	assert.Contains(t, body, "p-ghost")
}
