package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 管道核心指标
var (
	// OrdersCreated 成功创建的订单数
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gasorder_orders_created_total",
		Help: "Total number of orders created",
	})

	// OrdersCancelled 买家取消的订单数
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gasorder_orders_cancelled_total",
		Help: "Total number of orders cancelled by customers",
	})

	// PaymentsConfirmed 确认成功并入托管的支付数
	PaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gasorder_payments_confirmed_total",
		Help: "Total number of payments confirmed and moved to escrow",
	})

	// WebhookEventsDropped 被丢弃的回调事件数，按原因区分
	WebhookEventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gasorder_webhook_events_dropped_total",
		Help: "Total number of webhook events dropped without state change",
	}, []string{"reason"})

	// EscrowReleased 托管释放次数
	EscrowReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gasorder_escrow_released_total",
		Help: "Total number of escrow releases",
	})

	// PayoutBatches 结算批次结果，按成功/失败区分
	PayoutBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gasorder_payout_batches_total",
		Help: "Total number of per-vendor payout batches, by result",
	}, []string{"result"})
)
