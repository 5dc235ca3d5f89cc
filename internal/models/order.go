package models

// OrderItem 订单项
type OrderItem struct {
	ID          ID     `json:"id"`
	ProductID   ID     `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unitPrice"`
	Subtotal    Money  `json:"subtotal"`
}

// OrderCustomer 订单客户摘要
type OrderCustomer struct {
	ID       ID     `json:"id"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Order 订单
type Order struct {
	ID            ID             `json:"id"`
	OrderNumber   string         `json:"orderNumber"`
	Status        string         `json:"status"`
	TotalAmount   Money          `json:"totalAmount"`
	CreatedAt     string         `json:"createdAt"`
	CustomerID    ID             `json:"customerId"`
	Items         []OrderItem    `json:"items"`
	CustomerName  string         `json:"customerName,omitempty"`
	CustomerEmail string         `json:"customerEmail,omitempty"`
	Customer      *OrderCustomer `json:"customer,omitempty"`
}

// OrderTrackingEvent 订单轨迹节点
type OrderTrackingEvent struct {
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// OrderTracking 订单轨迹
type OrderTracking struct {
	OrderID         ID                   `json:"orderId"`
	OrderNumber     string               `json:"orderNumber,omitempty"`
	CurrentStatus   string               `json:"currentStatus"`
	PaymentApproved bool                 `json:"paymentApproved"`
	Events          []OrderTrackingEvent `json:"events"`
}
