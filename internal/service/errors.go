package service

import (
	"errors"
	"fmt"
)

// 使用者可見的業務錯誤 handler 會原樣轉給前端
var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrBookNotFound            = errors.New("book not found")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrQuantityOutOfRange      = errors.New("quantity out of range")
	ErrCartItemNotFound        = errors.New("cart item not found")
	ErrOrderNotExist           = errors.New("order is not exist")
	ErrInvalidClaimCode        = errors.New("invalid claim code")
	ErrAlreadyProcessed        = errors.New("order already processed")
	ErrAlreadyCancelled        = errors.New("order already cancelled")
	ErrCodeGenerationExhausted = errors.New("claim code generation exhausted")
	ErrCheckoutInProgress      = errors.New("checkout already in progress")
)

// TransientError 基礎設施層的暫時性錯誤 (DB timeout 連線中斷等)
// 核心操作都是原子的 呼叫端可以安全重試整個操作
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient error in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient 錯誤是否可重試
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// 已知業務錯誤原樣回傳 其餘視為暫時性基礎設施錯誤
func classifyErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrEmptyCart, ErrBookNotFound, ErrInsufficientStock, ErrQuantityOutOfRange,
		ErrCartItemNotFound, ErrOrderNotExist, ErrInvalidClaimCode,
		ErrAlreadyProcessed, ErrAlreadyCancelled, ErrCodeGenerationExhausted,
		ErrCheckoutInProgress,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return &TransientError{Op: op, Err: err}
}
