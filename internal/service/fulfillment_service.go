package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/producer"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/pkg/claimcode"
	"github.com/rs/zerolog/log"
)

type IFulfillmentService interface {
	FulfillByClaimCode(ctx context.Context, claimCode string, staffID uint) (*model.Order, error)
}

// FulfillmentService 店員掃取貨碼出貨
// 狀態轉移靠DB條件更新保證同一張訂單只會成功出貨一次
type FulfillmentService struct {
	store          db.Store
	notifyProducer producer.IOrderNotifyProducer // 可為nil 此時不發通知
}

func NewFulfillmentService(store db.Store, notifyProducer producer.IOrderNotifyProducer) *FulfillmentService {
	return &FulfillmentService{
		store:          store,
		notifyProducer: notifyProducer,
	}
}

func (s *FulfillmentService) FulfillByClaimCode(ctx context.Context, code string, staffID uint) (*model.Order, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !claimcode.Valid(code) {
		return nil, ErrInvalidClaimCode
	}

	order, err := s.store.MarkOrderProcessed(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrClaimCodeNotFound):
			return nil, ErrInvalidClaimCode
		case errors.Is(err, db.ErrOrderAlreadyProcessed):
			return nil, ErrAlreadyProcessed
		case errors.Is(err, db.ErrOrderAlreadyCancelled):
			return nil, ErrAlreadyCancelled
		default:
			return nil, classifyErr("fulfillment.FulfillByClaimCode", err)
		}
	}

	s.notifyProcessed(order, staffID)
	return order, nil
}

// 通知為best effort 發送失敗只記log 不影響已完成的出貨
func (s *FulfillmentService) notifyProcessed(order *model.Order, staffID uint) {
	if s.notifyProducer == nil {
		return
	}

	titles := make([]string, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		titles = append(titles, item.Book.Title)
	}

	notification := model.OrderProcessedNotification{
		OrderID:     order.OrderID,
		MemberID:    order.MemberID,
		StaffID:     staffID,
		ClaimCode:   order.ClaimCode,
		Titles:      titles,
		TotalAmount: order.TotalAmount,
		ProcessedAt: time.Now().UTC(),
	}

	// 出貨已提交 通知不跟著request context一起被取消
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.notifyProducer.ProduceOrderProcessed(ctx, notification); err != nil {
		log.Error().Err(err).
			Uint("order_id", order.OrderID).
			Str("claim_code", order.ClaimCode).
			Msg("failed to produce order processed notification")
	}
}

var _ IFulfillmentService = (*FulfillmentService)(nil)
