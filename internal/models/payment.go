package models

// PaymentMethod 已保存的支付方式
type PaymentMethod struct {
	ID             ID     `json:"id"`
	Provider       string `json:"provider"`
	CardHolderName string `json:"cardHolderName"`
	Brand          string `json:"brand"`
	Last4          string `json:"last4"`
	ExpiryMonth    int    `json:"expiryMonth"`
	ExpiryYear     int    `json:"expiryYear"`
	BillingAddress string `json:"billingAddress,omitempty"`
	DefaultMethod  bool   `json:"defaultMethod"`
	Enabled        bool   `json:"enabled"`
	CreatedAt      string `json:"createdAt"`
}

// PaymentMethodInput 新增支付方式请求体
type PaymentMethodInput struct {
	Provider       string `json:"provider,omitempty"`
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	Brand          string `json:"brand,omitempty"`
	ExpiryMonth    int    `json:"expiryMonth"`
	ExpiryYear     int    `json:"expiryYear"`
	BillingAddress string `json:"billingAddress,omitempty"`
	DefaultMethod  bool   `json:"defaultMethod,omitempty"`
}

// PaymentTransaction 支付流水
type PaymentTransaction struct {
	ID                  ID     `json:"id"`
	OrderID             ID     `json:"orderId"`
	CustomerID          ID     `json:"customerId"`
	PaymentMethodID     ID     `json:"paymentMethodId"`
	Status              string `json:"status"`
	Amount              Money  `json:"amount"`
	Currency            string `json:"currency"`
	GatewayResponseCode string `json:"gatewayResponseCode,omitempty"`
	GatewayMessage      string `json:"gatewayMessage,omitempty"`
	ProcessedAt         string `json:"processedAt"`
}
