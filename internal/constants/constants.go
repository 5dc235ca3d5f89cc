package constants

// 结账会话状态常量（由服务端驱动）
const (
	CheckoutStatusInitiated      = "INITIATED"
	CheckoutStatusPaymentPending = "PAYMENT_PENDING"
	CheckoutStatusApproved       = "APPROVED"
	CheckoutStatusFailed         = "FAILED"
	CheckoutStatusExpired        = "EXPIRED"
	CheckoutStatusConsumed       = "CONSUMED"
)

// 支付结果常量
const (
	PaymentResultApproved = "APPROVED"
	PaymentResultDeclined = "DECLINED"
)

// 支付方式提供方
const (
	PaymentProviderCard = "CARD"
)

// 订单履约状态常量
const (
	OrderStatusReceived       = "ORDER_RECEIVED"
	OrderStatusProcessing     = "PROCESSING_PACKING"
	OrderStatusShipped        = "SHIPPED"
	OrderStatusInTransit      = "IN_TRANSIT"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"
)

// 角色常量
const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleCustomer = "ROLE_CUSTOMER"
)

// 游客购物车常量
const (
	GuestCartID         = "guest-cart"
	GuestCustomerID     = "guest"
	GuestCartStorageKey = "ecommerce_guest_cart_v1"
	AuthStorageKey      = "ecommerce_auth"
)

// 存储驱动常量
const (
	StorageDriverSqlite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// 响应缓存驱动常量
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)
