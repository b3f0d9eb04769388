package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 账户/权限错误 100xx
	ErrTokenInvalid    = 10001
	ErrNoPermission    = 10002
	ErrProfileNotFound = 10003

	// 订单模块错误 200xx
	ErrOrderNotFound     = 20001
	ErrOrderInvalidState = 20002
	ErrInsufficientStock = 20003
	ErrVendorNotVerified = 20004
	ErrProductNotFound   = 20005
	ErrAddressNotFound   = 20006

	// 支付模块错误 300xx
	ErrPaymentNotFound    = 30001
	ErrPaymentCompleted   = 30002
	ErrEscrowInvalidState = 30003
	ErrGatewayFailed      = 30004
	ErrInvalidSignature   = 30005

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
