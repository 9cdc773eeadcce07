package claimcode

import (
	"crypto/rand"
	"fmt"
)

// 取貨碼字母表 32個符號 排除容易誤認的 I O 0 1
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length 取貨碼長度 32^8 的碼空間
const Length = 8

// Generate 產生一組取貨碼
// 產生器本身沒有全域狀態 不保證唯一性
// 呼叫端必須對目前有效訂單檢查碰撞並重試
func Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate claim code: %w", err)
	}

	code := make([]byte, Length)
	for i, b := range buf {
		// 32 整除 256 取餘數不會有偏差
		code[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(code), nil
}

// Valid 檢查字串是否為合法的取貨碼格式
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !isAlphabetChar(code[i]) {
			return false
		}
	}
	return true
}

func isAlphabetChar(c byte) bool {
	for i := 0; i < len(Alphabet); i++ {
		if Alphabet[i] == c {
			return true
		}
	}
	return false
}
