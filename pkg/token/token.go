package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSignature 表示token被篡改或由其他密钥签发
	ErrInvalidSignature = errors.New("token签名无效")
	// ErrMalformed 表示token的格式不正确
	ErrMalformed = errors.New("token格式错误")
)

// Signer 用HMAC-SHA256为任意可序列化的数据签名。
// token格式为 base64(payload) + "." + base64(signature)。
type Signer struct {
	secret []byte
}

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
func GenerateSecretKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	return key
}

// NewSigner 使用给定的密钥创建签名器。密钥为空时生成一个随机密钥，
// 此时重启后旧的token会全部失效。
func NewSigner(secret []byte) *Signer {
	if len(secret) == 0 {
		secret = GenerateSecretKey()
		fmt.Println("未配置token密钥，已生成临时HMAC密钥。")
	}
	return &Signer{secret: secret}
}

func (s *Signer) sum(data []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(data)
	return mac.Sum(nil)
}

// Sign 序列化payload并返回带签名的token
func (s *Signer) Sign(payload any) (string, error) {
	// 1. 将payload序列化为JSON
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("无法序列化token payload: %w", err)
	}

	// 2. 计算签名并拼接
	enc := base64.RawURLEncoding
	return enc.EncodeToString(data) + "." + enc.EncodeToString(s.sum(data)), nil
}

// Verify 校验token的签名，并把payload反序列化到out
func (s *Signer) Verify(token string, out any) error {
	encodedPayload, encodedSig, ok := strings.Cut(token, ".")
	if !ok {
		return ErrMalformed
	}

	enc := base64.RawURLEncoding
	data, err := enc.DecodeString(encodedPayload)
	if err != nil {
		return ErrMalformed
	}
	sig, err := enc.DecodeString(encodedSig)
	if err != nil {
		return ErrMalformed
	}

	// 时间恒定的比较，防止时序攻击
	if !hmac.Equal(s.sum(data), sig) {
		return ErrInvalidSignature
	}
	if err := json.Unmarshal(data, out); err != nil {
		return ErrMalformed
	}
	return nil
}
