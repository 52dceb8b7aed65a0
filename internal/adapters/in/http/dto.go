package http

import (
	"time"

	"campusmarket/internal/core/application/usecases/commands"
	"campusmarket/internal/core/application/usecases/queries"
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/services"
)

type CartLineRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity"  validate:"gt=0"`
}

// CreateOrderRequest is the buyer's cart. An empty item list is answered
// with EMPTY_CART rather than a validation error.
type CreateOrderRequest struct {
	Campus string            `json:"campus" validate:"required,campus"`
	Locale string            `json:"locale" validate:"omitempty,max=16"`
	Items  []CartLineRequest `json:"items"  validate:"dive"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
	Reason string `json:"reason" validate:"max=500"`
}

// ValidateOTPRequest is not validated here; the command rejects a malformed
// code with INVALID_OTP_FORMAT.
type ValidateOTPRequest struct {
	Code string `json:"code"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type PaymentCapturedRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
}

type AdminChangeStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
	Reason string `json:"reason" validate:"max=500"`
}

type AdminRefundRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type OrderItemResponse struct {
	LineNo          int    `json:"lineNo"`
	ProductID       string `json:"productId"`
	ShopID          string `json:"shopId"`
	ProductName     string `json:"productName"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"priceAtPurchase"`
	OriginCity      string `json:"originCity"`
}

type StatusChangeResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	At        time.Time `json:"at"`
	ActorID   string    `json:"actorId"`
	ActorRole string    `json:"actorRole"`
}

type OrderResponse struct {
	ID                 string                 `json:"id"`
	BuyerID            string                 `json:"buyerId"`
	Campus             string                 `json:"campus"`
	Locale             string                 `json:"locale"`
	Status             string                 `json:"status"`
	Items              []OrderItemResponse    `json:"items"`
	TotalAmount        string                 `json:"totalAmount"`
	DeliveryFee        string                 `json:"deliveryFee"`
	EtaMinMinutes      int                    `json:"etaMinMinutes"`
	EtaMaxMinutes      int                    `json:"etaMaxMinutes"`
	OTPCode            *string                `json:"otpCode,omitempty"`
	OTPAttempts        int                    `json:"otpAttempts"`
	Locked             bool                   `json:"locked"`
	CancellationReason *string                `json:"cancellationReason,omitempty"`
	RefundInitiated    bool                   `json:"refundInitiated"`
	RefundAmount       *string                `json:"refundAmount,omitempty"`
	EscrowReleasedAt   *time.Time             `json:"escrowReleasedAt,omitempty"`
	History            []StatusChangeResponse `json:"history"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

type OrderSummaryResponse struct {
	ID          string    `json:"id"`
	BuyerID     string    `json:"buyerId"`
	Campus      string    `json:"campus"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"totalAmount"`
	DeliveryFee string    `json:"deliveryFee"`
	Subtotal    string    `json:"subtotal"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type QuoteResponse struct {
	Fee           string `json:"fee"`
	EtaMinMinutes int    `json:"etaMinMinutes"`
	EtaMaxMinutes int    `json:"etaMaxMinutes"`
}

func orderResponseOf(v queries.OrderView) OrderResponse {
	items := make([]OrderItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = OrderItemResponse{
			LineNo:          it.LineNo,
			ProductID:       it.ProductID.String(),
			ShopID:          it.ShopID.String(),
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase.String(),
			OriginCity:      it.OriginCity.String(),
		}
	}

	history := make([]StatusChangeResponse, len(v.History))
	for i, h := range v.History {
		history[i] = StatusChangeResponse{
			From:      h.From.String(),
			To:        h.To.String(),
			At:        h.At,
			ActorID:   h.ActorID.String(),
			ActorRole: h.ActorRole.String(),
		}
	}

	var refund *string
	if v.RefundAmount != nil {
		s := v.RefundAmount.String()
		refund = &s
	}

	return OrderResponse{
		ID:                 v.ID.String(),
		BuyerID:            v.BuyerID.String(),
		Campus:             v.Campus.String(),
		Locale:             v.Locale,
		Status:             v.Status.String(),
		Items:              items,
		TotalAmount:        v.TotalAmount.String(),
		DeliveryFee:        v.DeliveryFee.String(),
		EtaMinMinutes:      minutesOf(v.ETA.Min()),
		EtaMaxMinutes:      minutesOf(v.ETA.Max()),
		OTPCode:            v.OTPCode,
		OTPAttempts:        v.OTPAttempts,
		Locked:             v.Locked,
		CancellationReason: v.CancellationReason,
		RefundInitiated:    v.RefundInitiated,
		RefundAmount:       refund,
		EscrowReleasedAt:   v.EscrowReleasedAt,
		History:            history,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func summaryResponsesOf(summaries []queries.OrderSummary) []OrderSummaryResponse {
	out := make([]OrderSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = OrderSummaryResponse{
			ID:          s.ID.String(),
			BuyerID:     s.BuyerID.String(),
			Campus:      s.Campus.String(),
			Status:      s.Status.String(),
			TotalAmount: s.TotalAmount.String(),
			DeliveryFee: s.DeliveryFee.String(),
			Subtotal:    s.Subtotal.String(),
			ItemCount:   s.ItemCount,
			CreatedAt:   s.CreatedAt,
		}
	}
	return out
}

func quoteResponseOf(q services.Quote) QuoteResponse {
	return QuoteResponse{
		Fee:           q.Fee.String(),
		EtaMinMinutes: minutesOf(q.ETA.Min()),
		EtaMaxMinutes: minutesOf(q.ETA.Max()),
	}
}

func minutesOf(d time.Duration) int {
	return int(d / time.Minute)
}

func cartLinesOf(items []CartLineRequest) ([]commands.CartLine, error) {
	lines := make([]commands.CartLine, len(items))
	for i, it := range items {
		id, err := kernel.UUIDFromString(it.ProductID)
		if err != nil {
			return nil, err
		}
		lines[i] = commands.CartLine{ProductID: id, Quantity: it.Quantity}
	}
	return lines, nil
}
