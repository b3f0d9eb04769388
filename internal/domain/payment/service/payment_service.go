package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	customerRepo "github.com/cypher6783/gasOrder/internal/domain/customer/repository"
	orderModel "github.com/cypher6783/gasOrder/internal/domain/order/model"
	"github.com/cypher6783/gasOrder/internal/domain/payment/gateway"
	"github.com/cypher6783/gasOrder/internal/domain/payment/model"
	"github.com/cypher6783/gasOrder/internal/domain/payment/repository"
	"github.com/cypher6783/gasOrder/internal/pkg/apperr"
	"github.com/cypher6783/gasOrder/pkg/logger"
	"github.com/cypher6783/gasOrder/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitiateResult 发起支付的返回：买家跳转地址 + 网关引用
type InitiateResult struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

type PaymentService interface {
	InitiatePayment(customerID, orderID string) (*InitiateResult, error)
	// HandleWebhookEvent 处理网关异步回调（at-least-once，可能重复或乱序）
	// 签名已在边界层校验；返回非 nil 仅表示可重试的暂时性失败
	HandleWebhookEvent(ctx context.Context, raw []byte) error
	// VerifyPayment 买家回跳后的同步核验，与回调共用同一确认路径
	VerifyPayment(reference string) (*gateway.VerifyData, error)
	// ReleaseEscrow 送达后释放托管，重复调用幂等
	ReleaseEscrow(orderID string) error
}

type paymentService struct {
	repo        repository.PaymentRepository
	customers   customerRepo.CustomerRepository
	gw          gateway.Client
	callbackURL string
}

func NewPaymentService(
	repo repository.PaymentRepository,
	customers customerRepo.CustomerRepository,
	gw gateway.Client,
	callbackURL string,
) PaymentService {
	return &paymentService{
		repo:        repo,
		customers:   customers,
		gw:          gw,
		callbackURL: callbackURL,
	}
}

func (s *paymentService) InitiatePayment(customerID, orderID string) (*InitiateResult, error) {
	// 1. 订单必须存在且待支付
	order, err := s.repo.GetOrderForPayment(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}

	if order.CustomerID != customerID {
		return nil, apperr.PermissionDenied("you can only pay for your own orders")
	}

	if order.Status != orderModel.StatusPending {
		return nil, apperr.InvalidState("order is not in pending state")
	}

	// 2. 已完成的支付不允许再次发起
	existing, err := s.repo.GetByOrderID(orderID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status == model.PaymentStatusCompleted {
		return nil, apperr.InvalidState("payment already completed for this order")
	}

	// 3. 每次尝试都生成全新的本地关联号
	reference := s.gw.GenerateReference()

	// 4. 买家邮箱用于网关收款
	customer, err := s.customers.GetByID(order.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("customer not found")
		}
		return nil, err
	}

	// 5. 调用网关，失败原样抛给调用方重试
	initData, err := s.gw.InitializeTransaction(customer.Email, order.Total, s.callbackURL, gateway.Metadata{
		OrderID: order.ID,
	})
	if err != nil {
		return nil, err
	}

	// 6. 按订单 upsert 支付行：首次建行，重试只换引用
	payment := &model.Payment{
		OrderID:        orderID,
		Amount:         order.Total,
		PaymentMethod:  "paystack",
		TransactionRef: reference,
		GatewayRef:     initData.Reference,
		Status:         model.PaymentStatusPending,
		EscrowState:    model.EscrowPending,
	}
	if err := s.repo.Upsert(payment); err != nil {
		return nil, err
	}

	return &InitiateResult{
		AuthorizationURL: initData.AuthorizationURL,
		Reference:        initData.Reference,
	}, nil
}

// webhookEvent 网关回调报文
type webhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type webhookData struct {
	Reference string           `json:"reference"`
	Amount    int64            `json:"amount"` // kobo
	Metadata  gateway.Metadata `json:"metadata"`
}

func (s *paymentService) HandleWebhookEvent(ctx context.Context, raw []byte) error {
	var event webhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		// 报文损坏没有重试价值，丢弃并记录
		logger.Log.Error("webhook: malformed event payload", zap.Error(err))
		metrics.WebhookEventsDropped.WithLabelValues("malformed").Inc()
		return nil
	}

	// 只关心成功收款事件，其余静默忽略
	if event.Event != "charge.success" {
		return nil
	}

	var data webhookData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		logger.Log.Error("webhook: malformed event data", zap.Error(err))
		metrics.WebhookEventsDropped.WithLabelValues("malformed").Inc()
		return nil
	}

	// 无法路由回订单的事件是运维缺口，不是静默失败
	if data.Metadata.OrderID == "" {
		logger.Log.Error("webhook: no order id found in event metadata",
			zap.String("reference", data.Reference))
		metrics.WebhookEventsDropped.WithLabelValues("unroutable").Inc()
		return nil
	}

	return s.confirmSuccess(data.Metadata.OrderID, data.Amount, event.Data, "webhook")
}

func (s *paymentService) VerifyPayment(reference string) (*gateway.VerifyData, error) {
	data, err := s.gw.VerifyTransaction(reference)
	if err != nil {
		return nil, err
	}

	if data.Status == "success" && data.Metadata.OrderID != "" {
		payload, _ := json.Marshal(data)
		if err := s.confirmSuccess(data.Metadata.OrderID, data.Amount, payload, "verify"); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// confirmSuccess 回调与同步核验共用的确认路径
// 幂等：已 COMPLETED 直接短路；金额不符丢弃事件，绝不改状态
func (s *paymentService) confirmSuccess(orderID string, amountKobo int64, payload json.RawMessage, source string) error {
	payment, err := s.repo.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Error("payment record not found for order",
				zap.String("order_id", orderID), zap.String("source", source))
			metrics.WebhookEventsDropped.WithLabelValues("no_payment").Inc()
			return nil
		}
		return err
	}

	// 重复投递是常态，按成功处理但不再记账
	if payment.Status == model.PaymentStatusCompleted {
		logger.Log.Info("payment already completed, ignoring duplicate",
			zap.String("order_id", orderID), zap.String("source", source))
		return nil
	}

	// 金额完整性校验：kobo 口径比对，防篡改；不符即丢弃
	if gateway.ToKobo(payment.Amount) != amountKobo {
		logger.Log.Error("webhook: amount mismatch, dropping event",
			zap.String("order_id", orderID),
			zap.Int64("expected_kobo", gateway.ToKobo(payment.Amount)),
			zap.Int64("got_kobo", amountKobo),
		)
		metrics.WebhookEventsDropped.WithLabelValues("amount_mismatch").Inc()
		return nil
	}

	// 支付与订单的双写在同一事务内提交
	if err := s.repo.ConfirmSuccess(payment.ID, orderID, time.Now(), payload); err != nil {
		return err
	}

	metrics.PaymentsConfirmed.Inc()
	logger.Log.Info("payment confirmed, funds held in escrow",
		zap.String("order_id", orderID), zap.String("source", source))
	return nil
}

func (s *paymentService) ReleaseEscrow(orderID string) error {
	payment, err := s.repo.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("payment not found for order %s", orderID)
		}
		return err
	}

	// 已释放直接幂等返回
	if payment.EscrowState == model.EscrowReleased {
		return nil
	}

	// 未入托管（支付从未完成）却意图释放，属于不一致状态，必须大声失败
	if payment.EscrowState != model.EscrowHeld {
		return apperr.InvalidState("funds are not in escrow state")
	}

	if err := s.repo.UpdateEscrowState(payment.ID, model.EscrowReleased); err != nil {
		return err
	}

	metrics.EscrowReleased.Inc()
	logger.Log.Info("escrow released", zap.String("order_id", orderID))
	return nil
}
