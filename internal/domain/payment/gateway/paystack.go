package gateway

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/cypher6783/gasOrder/internal/pkg/apperr"
)

// PaystackClient Paystack REST API 客户端
type PaystackClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewPaystackClient(baseURL, secretKey string) *PaystackClient {
	return &PaystackClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// envelope Paystack 统一响应包裹
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"` // kobo
	CallbackURL string   `json:"callback_url"`
	Metadata    Metadata `json:"metadata"`
}

// ToKobo 主单位金额转最小单位，四舍五入避免浮点尾差
func ToKobo(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (c *PaystackClient) InitializeTransaction(email string, amount float64, callbackURL string, meta Metadata) (*InitializeData, error) {
	body, err := json.Marshal(initializeRequest{
		Email:       email,
		Amount:      ToKobo(amount),
		CallbackURL: callbackURL,
		Metadata:    meta,
	})
	if err != nil {
		return nil, err
	}

	var data InitializeData
	if err := c.do(http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &data); err != nil {
		return nil, apperr.ExternalService("payment initialization failed", err)
	}
	return &data, nil
}

func (c *PaystackClient) VerifyTransaction(reference string) (*VerifyData, error) {
	var data VerifyData
	path := "/transaction/verify/" + reference
	if err := c.do(http.MethodGet, path, nil, &data); err != nil {
		return nil, apperr.ExternalService("payment verification failed", err)
	}
	return &data, nil
}

// do 发送请求并把响应的 data 段解析进 out
func (c *PaystackClient) do(method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("gateway returned invalid response (HTTP %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 400 || !env.Status {
		return fmt.Errorf("gateway error (HTTP %d): %s", resp.StatusCode, env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("gateway data decode failed: %w", err)
		}
	}
	return nil
}

// VerifyWebhookSignature 对原始报文做 HMAC-SHA512，与回调头部签名比对
func (c *PaystackClient) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// GenerateReference 本地关联号：时间戳 + 随机数
// 每次尝试都生成新号，避免网关对失败过的引用报重复
func (c *PaystackClient) GenerateReference() string {
	return fmt.Sprintf("TRX-%d-%d", time.Now().UnixMilli(), rand.Intn(1000000))
}

// 确保实现了接口
var _ Client = (*PaystackClient)(nil)
