package service

import (
	"fmt"
	"time"

	"github.com/cypher6783/gasOrder/internal/domain/payment/model"
	"github.com/cypher6783/gasOrder/internal/domain/payment/repository"
	"github.com/cypher6783/gasOrder/pkg/logger"
	"github.com/cypher6783/gasOrder/pkg/metrics"

	"go.uber.org/zap"
)

// BatchSummary 一次结算运行的汇总
type BatchSummary struct {
	EligibleVendors int `json:"eligibleVendors"`
	BatchesCreated  int `json:"batchesCreated"`
	PaymentsSettled int `json:"paymentsSettled"`
}

type PayoutService interface {
	// ProcessPayouts 扫描已释放托管的支付，按卖家聚合建批。
	// 各卖家独立事务：单个卖家失败不影响其他卖家。
	ProcessPayouts() (*BatchSummary, error)
}

type payoutService struct {
	payments repository.PaymentRepository
}

func NewPayoutService(payments repository.PaymentRepository) PayoutService {
	return &payoutService{payments: payments}
}

// vendorBatch 内存里按卖家聚合的一批候选
type vendorBatch struct {
	paymentIDs []string
	amount     float64
}

func generatePayoutReference(vendorID string) string {
	suffix := vendorID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("PAYOUT-%d-%s", time.Now().UnixMilli(), suffix)
}

func (s *payoutService) ProcessPayouts() (*BatchSummary, error) {
	candidates, err := s.payments.ListPayoutCandidates()
	if err != nil {
		metrics.PayoutBatches.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(candidates) == 0 {
		logger.Log.Info("Payout run: no eligible payments")
		return &BatchSummary{}, nil
	}

	batches := make(map[string]*vendorBatch)
	for _, c := range candidates {
		b, ok := batches[c.VendorID]
		if !ok {
			b = &vendorBatch{}
			batches[c.VendorID] = b
		}
		b.paymentIDs = append(b.paymentIDs, c.PaymentID)
		b.amount += c.Amount
	}

	summary := &BatchSummary{EligibleVendors: len(batches)}
	for vendorID, b := range batches {
		payout := &model.Payout{
			VendorID:  vendorID,
			Amount:    b.amount,
			Reference: generatePayoutReference(vendorID),
			Status:    model.PayoutStatusPending,
		}
		if err := s.payments.CreatePayoutBatch(payout, b.paymentIDs); err != nil {
			// 单卖家失败只记日志，继续处理剩余卖家
			logger.Log.Error("Payout batch creation failed",
				zap.String("vendorId", vendorID),
				zap.Int("payments", len(b.paymentIDs)),
				zap.Error(err))
			metrics.PayoutBatches.WithLabelValues("failed").Inc()
			continue
		}
		summary.BatchesCreated++
		summary.PaymentsSettled += len(b.paymentIDs)
		metrics.PayoutBatches.WithLabelValues("created").Inc()
		logger.Log.Info("Payout batch created",
			zap.String("vendorId", vendorID),
			zap.String("reference", payout.Reference),
			zap.Float64("amount", b.amount),
			zap.Int("payments", len(b.paymentIDs)))
	}

	logger.Log.Info("Payout run finished",
		zap.Int("eligibleVendors", summary.EligibleVendors),
		zap.Int("batchesCreated", summary.BatchesCreated),
		zap.Int("paymentsSettled", summary.PaymentsSettled))
	return summary, nil
}
