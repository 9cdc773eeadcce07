package redis_repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type CheckoutTokenError error

var (
	// ErrCheckoutInProgress 同一個結帳token有另一個請求正在處理中
	ErrCheckoutInProgress CheckoutTokenError = errors.New("checkout already in progress")
)

// placeholder 值 表示token已被占用但訂單尚未建立完成
const pendingPlaceholder = "pending"

// ICheckoutTokenRepository 結帳冪等token操作介面
// client 重試同一次結帳時 憑token取回原本建立的訂單 不會重複下單
type ICheckoutTokenRepository interface {
	// Acquire 占用token 回傳已綁定的訂單ID (0表示新占用成功)
	Acquire(ctx context.Context, token string) (uint, error)

	// BindOrder 下單成功後將訂單ID綁定到token
	BindOrder(ctx context.Context, token string, orderID uint) error

	// Release 下單失敗時釋放token 讓client重試
	Release(ctx context.Context, token string) error
}

type CheckoutTokenRepo struct {
	tokenCache *redis.Client
	ttl        time.Duration
}

func NewCheckoutTokenRepo(tokenCache *redis.Client, ttl time.Duration) *CheckoutTokenRepo {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CheckoutTokenRepo{tokenCache: tokenCache, ttl: ttl}
}

func generateCheckoutTokenKey(token string) string {
	return fmt.Sprintf("checkout:%s:token", token)
}

// Acquire 占用結帳token
// 使用 Lua 腳本確保檢查與占用的原子性
func (r *CheckoutTokenRepo) Acquire(ctx context.Context, token string) (uint, error) {
	key := generateCheckoutTokenKey(token)

	luaScript := `
		local v = redis.call('GET', KEYS[1])
		if v then
			return v
		end
		redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
		return false
	`

	result, err := r.tokenCache.Eval(ctx, luaScript, []string{key}, pendingPlaceholder, int(r.ttl.Seconds())).Result()
	if err == redis.Nil {
		// token 是新的 占用成功
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to acquire checkout token: %w", err)
	}

	val, ok := result.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected result type: %T", result)
	}
	if val == pendingPlaceholder {
		// 另一個請求正在用同一個token下單
		return 0, ErrCheckoutInProgress
	}

	orderID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid order id bound to token %s: %w", token, err)
	}
	return uint(orderID), nil
}

func (r *CheckoutTokenRepo) BindOrder(ctx context.Context, token string, orderID uint) error {
	key := generateCheckoutTokenKey(token)
	err := r.tokenCache.Set(ctx, key, strconv.FormatUint(uint64(orderID), 10), r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to bind order to checkout token: %w", err)
	}
	return nil
}

func (r *CheckoutTokenRepo) Release(ctx context.Context, token string) error {
	key := generateCheckoutTokenKey(token)

	// 只刪除仍是 placeholder 的token 已綁定訂單的不能釋放
	luaScript := `
		if redis.call('GET', KEYS[1]) == ARGV[1] then
			return redis.call('DEL', KEYS[1])
		end
		return 0
	`
	_, err := r.tokenCache.Eval(ctx, luaScript, []string{key}, pendingPlaceholder).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release checkout token: %w", err)
	}
	return nil
}

var _ ICheckoutTokenRepository = (*CheckoutTokenRepo)(nil)
