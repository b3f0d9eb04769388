package gateway

// Metadata 随支付请求透传给网关的业务元数据
// 回调和核验响应里会原样带回，用于把网关事件路由回订单
type Metadata struct {
	OrderID string `json:"orderId"`
}

// InitializeData 发起收款的网关响应
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyData 主动核验的网关响应
// Amount 为最小货币单位（kobo）
type VerifyData struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"`
	PaidAt    string   `json:"paid_at"`
	Metadata  Metadata `json:"metadata"`
}

// Client 支付网关客户端
type Client interface {
	// InitializeTransaction 发起收款，amount 为主货币单位（naira）
	InitializeTransaction(email string, amount float64, callbackURL string, meta Metadata) (*InitializeData, error)

	// VerifyTransaction 按网关引用主动核验一笔交易
	VerifyTransaction(reference string) (*VerifyData, error)

	// VerifyWebhookSignature 校验回调签名（对原始报文做 HMAC）
	VerifyWebhookSignature(body []byte, signature string) bool

	// GenerateReference 生成本地关联号，每次发起支付都用新的
	GenerateReference() string
}
