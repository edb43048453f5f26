package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestProductStatusDerivation(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		product Product
		want    ProductStatus
	}{
		{
			name:    "no stock wins over everything",
			product: Product{Quantity: 0, Price: 0, ExpiresAt: datePtr(now.Add(-time.Hour))},
			want:    ProductStatusOutOfStock,
		},
		{
			name:    "free when price is zero",
			product: Product{Quantity: 5, Price: 0},
			want:    ProductStatusFree,
		},
		{
			name:    "expired when date is past",
			product: Product{Quantity: 5, Price: 100, ExpiresAt: datePtr(now.Add(-time.Hour))},
			want:    ProductStatusExpired,
		},
		{
			name:    "expiring soon within three days",
			product: Product{Quantity: 5, Price: 100, ExpiresAt: datePtr(now.Add(48 * time.Hour))},
			want:    ProductStatusExpiringSoon,
		},
		{
			name:    "available when expiry is far away",
			product: Product{Quantity: 5, Price: 100, ExpiresAt: datePtr(now.Add(10 * 24 * time.Hour))},
			want:    ProductStatusAvailable,
		},
		{
			name:    "available with no expiry date",
			product: Product{Quantity: 5, Price: 100},
			want:    ProductStatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.Status(now))
		})
	}
}

func TestProductRequestable(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, (&Product{Quantity: 3, Price: 10}).Requestable(now))
	assert.True(t, (&Product{Quantity: 3, Price: 0}).Requestable(now))
	assert.True(t, (&Product{Quantity: 3, Price: 10, ExpiresAt: datePtr(now.Add(24 * time.Hour))}).Requestable(now))
	assert.False(t, (&Product{Quantity: 0, Price: 10}).Requestable(now))
	assert.False(t, (&Product{Quantity: 3, Price: 10, ExpiresAt: datePtr(now.Add(-time.Hour))}).Requestable(now))
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusApproved))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusRejected))
	assert.True(t, OrderStatusApproved.CanTransitionTo(OrderStatusDelivered))

	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusApproved.CanTransitionTo(OrderStatusRejected))
	assert.False(t, OrderStatusRejected.CanTransitionTo(OrderStatusApproved))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusPending))
}
