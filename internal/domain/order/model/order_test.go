package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusConfirmed, StatusInTransit},
		{StatusConfirmed, StatusCancelled},
		{StatusInTransit, StatusDelivered},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to string }{
		// PENDING 只能由支付确认或买家取消推进，卖家不能碰
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusInTransit},
		// 终态不可离开
		{StatusDelivered, StatusInTransit},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusConfirmed},
		// 不允许回退或跳步
		{StatusInTransit, StatusConfirmed},
		{StatusInTransit, StatusCancelled},
		{StatusConfirmed, StatusDelivered},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestIsValidVendorStatus(t *testing.T) {
	assert.True(t, IsValidVendorStatus(StatusInTransit))
	assert.True(t, IsValidVendorStatus(StatusDelivered))
	assert.True(t, IsValidVendorStatus(StatusCancelled))
	assert.False(t, IsValidVendorStatus(StatusPending))
	assert.False(t, IsValidVendorStatus("REFUNDED"))
	assert.False(t, IsValidVendorStatus(""))
}
