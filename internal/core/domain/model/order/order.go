package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/pkg/errs"
)

// DefaultLocale is used for notifications when the buyer did not pick one.
const DefaultLocale = "en"

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrEscrowAlreadyReleased guards the single fund release of an order.
	ErrEscrowAlreadyReleased = errors.New("escrow already released")

	// ErrRefundNotAwaitingDispatch is returned when a refund hand-off is
	// recorded for an order that has nothing to hand off.
	ErrRefundNotAwaitingDispatch = errors.New("refund is not awaiting dispatch")
)

// Order is the aggregate root of the purchase lifecycle.
//
// Order follows these invariants:
//   - items are non-empty and never change after creation
//   - totalAmount equals Σ(priceAtPurchase × quantity) computed once at creation
//   - deliveryFee and eta are computed once at creation
//   - statusHistory only grows, by exactly one entry per accepted transition
//   - otpCode never changes; otpAttempts never decreases and stops at MaxOTPAttempts
//   - escrowReleasedAt is set at most once
//
// Every mutating method validates first and mutates only on success, so a
// rejected call leaves the order untouched. The exception is VerifyOTP,
// whose wrong-code branch deliberately records the attempt.
type Order struct {
	id      kernel.UUID
	buyerID kernel.UUID
	campus  kernel.Campus
	locale  string

	items       []Item
	totalAmount kernel.Money
	deliveryFee kernel.Money
	eta         kernel.ETA

	status  Status
	history []StatusChange

	otpCode     OTPCode
	otpAttempts int

	cancellationReason *string
	refund             Refund
	escrowReleasedAt   *time.Time

	// version is the optimistic concurrency token; persistence bumps it on every write.
	version   int
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder places a PENDING order for buyer.
//
// Parameters:
//   - id: identifier of the new order
//   - buyer: the placing actor, must have the BUYER role
//   - campus: delivery destination
//   - locale: notification locale, DefaultLocale when empty
//   - items: purchased lines, at least one
//   - deliveryFee, eta: the delivery quote for the items
//   - otp: the delivery confirmation code
//   - now: creation time
//
// Returns errs.ErrEmptyCart for an empty item list, errs.ErrUnauthorizedAction
// for a non-buyer, and the joined validation errors otherwise.
func NewOrder(
	id kernel.UUID,
	buyer kernel.Actor,
	campus kernel.Campus,
	locale string,
	items []Item,
	deliveryFee kernel.Money,
	eta kernel.ETA,
	otp OTPCode,
	now time.Time,
) (*Order, error) {
	if len(items) == 0 {
		return nil, errs.ErrEmptyCart
	}
	if !buyer.Is(kernel.RoleBuyer) {
		return nil, errs.NewBusinessError(errs.CodeUnauthorizedAction, "only buyers place orders")
	}

	now = now.UTC()
	o := &Order{
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyer.ID()),
		o.setCampus(campus),
		o.setItems(items),
		o.setOTP(otp),
		o.setETA(eta),
	); err != nil {
		return nil, err
	}
	o.setLocale(locale)
	o.deliveryFee = deliveryFee

	first, err := NewStatusChange(StatusNone, StatusPending, now, buyer.ID(), buyer.Role())
	if err != nil {
		return nil, err
	}
	o.history = []StatusChange{first}

	return o, nil
}

// State is the persisted form of an Order, used by RestoreOrder.
type State struct {
	ID                 kernel.UUID
	BuyerID            kernel.UUID
	Campus             kernel.Campus
	Locale             string
	Items              []Item
	TotalAmount        kernel.Money
	DeliveryFee        kernel.Money
	ETA                kernel.ETA
	Status             Status
	History            []StatusChange
	OTPCode            OTPCode
	OTPAttempts        int
	CancellationReason *string
	Refund             Refund
	EscrowReleasedAt   *time.Time
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RestoreOrder rebuilds an order loaded from storage. totalAmount is taken
// from storage as is; it is never recomputed from current prices.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		totalAmount:        s.TotalAmount,
		deliveryFee:        s.DeliveryFee,
		cancellationReason: s.CancellationReason,
		refund:             s.Refund,
		escrowReleasedAt:   copyTime(s.EscrowReleasedAt),
		version:            s.Version,
		createdAt:          s.CreatedAt.UTC(),
		updatedAt:          s.UpdatedAt.UTC(),
		isConstructed:      true,
	}

	if len(s.Items) == 0 {
		return nil, errs.ErrEmptyCart
	}

	var attemptsErr, historyErr error
	if s.OTPAttempts < 0 || s.OTPAttempts > MaxOTPAttempts {
		attemptsErr = errs.NewValueIsOutOfRangeError("otpAttempts", s.OTPAttempts, 0, MaxOTPAttempts)
	}
	if len(s.History) == 0 || s.History[len(s.History)-1].To() != s.Status {
		historyErr = errs.NewValueIsInvalidErrorWithCause(
			"statusHistory",
			fmt.Errorf("history does not end in %s", s.Status),
		)
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setBuyerID(s.BuyerID),
		o.setCampus(s.Campus),
		o.setItemsRestored(s.Items),
		o.setOTP(s.OTPCode),
		o.setETA(s.ETA),
		s.Status.Validate(),
		attemptsErr,
		historyErr,
	); err != nil {
		return nil, err
	}

	o.setLocale(s.Locale)
	o.status = s.Status
	o.otpAttempts = s.OTPAttempts
	o.history = slices.Clone(s.History)

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

func (o *Order) Campus() kernel.Campus {
	return o.campus
}

func (o *Order) Locale() string {
	return o.locale
}

// Items returns a copy of the purchased lines in line order.
func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

func (o *Order) ETA() kernel.ETA {
	return o.eta
}

func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the status history, oldest first.
func (o *Order) History() []StatusChange {
	return slices.Clone(o.history)
}

func (o *Order) OTPCode() OTPCode {
	return o.otpCode
}

func (o *Order) OTPAttempts() int {
	return o.otpAttempts
}

// IsLocked reports whether the OTP attempt budget is spent.
func (o *Order) IsLocked() bool {
	return o.otpAttempts >= MaxOTPAttempts
}

func (o *Order) CancellationReason() *string {
	if o.cancellationReason == nil {
		return nil
	}
	r := *o.cancellationReason
	return &r
}

func (o *Order) Refund() Refund {
	return o.refund
}

func (o *Order) EscrowReleasedAt() *time.Time {
	return copyTime(o.escrowReleasedAt)
}

func (o *Order) Version() int {
	return o.version
}

// SetVersion records the version the store holds after a successful write.
func (o *Order) SetVersion(version int) {
	o.version = version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsBuyer reports whether actor placed this order.
func (o *Order) IsBuyer(actor kernel.Actor) bool {
	return actor.Is(kernel.RoleBuyer) && actor.ID().IsEqual(o.buyerID)
}

// ContainsShop reports whether any item was sold by shopID.
func (o *Order) ContainsShop(shopID kernel.UUID) bool {
	return slices.ContainsFunc(o.items, func(i Item) bool {
		return i.shopID.IsEqual(shopID)
	})
}

// ShopIDs returns the distinct shops of the order in ascending id order.
func (o *Order) ShopIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(o.items))
	for _, item := range o.items {
		if !slices.ContainsFunc(ids, item.shopID.IsEqual) {
			ids = append(ids, item.shopID)
		}
	}
	slices.SortFunc(ids, kernel.UUID.Compare)
	return ids
}

// Advance performs an actor-gated, non-cancelling transition.
//
// Business rules:
//   - the edge must exist in the lifecycle table (errs.ErrInvalidTransition)
//   - the actor's role must be permitted for it (errs.ErrUnauthorizedAction)
//   - a shop owner may only dispatch orders holding their shop's items
//   - COMPLETED is reached only through VerifyOTP
//   - CANCELLED is reached only through Cancel, so stock and refunds stay consistent
func (o *Order) Advance(to Status, actor kernel.Actor, now time.Time) error {
	if err := AuthorizeTransition(o.status, to, actor.Role()); err != nil {
		return err
	}
	if to == StatusCancelled {
		return errs.NewBusinessError(errs.CodeInvalidTransition, "cancellation must go through Cancel")
	}
	if actor.Is(kernel.RoleShopOwner) {
		shopID, ok := actor.ShopID()
		if !ok || !o.ContainsShop(shopID) {
			return errs.NewBusinessError(errs.CodeUnauthorizedAction, "order holds no items of this shop")
		}
	}

	return o.moveTo(to, actor, now)
}

// ValidateCancel checks whether actor may cancel the order now, without
// changing it.
func (o *Order) ValidateCancel(actor kernel.Actor) error {
	if o.refund.Initiated() {
		return errs.NewBusinessError(errs.CodeCannotCancel, "refund already initiated")
	}
	if o.status != StatusPending && o.status != StatusPaidEscrow {
		return errs.NewBusinessError(errs.CodeCannotCancel, "order is "+o.status.String())
	}
	if err := AuthorizeTransition(o.status, StatusCancelled, actor.Role()); err != nil {
		return err
	}
	if actor.Is(kernel.RoleBuyer) && !o.IsBuyer(actor) {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, "order belongs to another buyer")
	}
	return nil
}

// Cancel moves a PENDING or PAID_ESCROW order to CANCELLED. A paid order
// gets a refund intent for everything captured (total plus delivery fee);
// an unpaid one records an explicit NoRefund. Restoring stock is the
// caller's job and must happen in the same unit of work.
func (o *Order) Cancel(actor kernel.Actor, reason string, now time.Time) error {
	if err := o.ValidateCancel(actor); err != nil {
		return err
	}

	refund := NoRefund()
	if o.status == StatusPaidEscrow {
		refund = initiatedRefund(o.capturedAmount(), now)
	}

	return o.cancel(actor, reason, refund, now)
}

// ValidateAdminRefund checks whether an admin may refund the order now.
// Unlike buyer cancellation it covers orders already on their way.
func (o *Order) ValidateAdminRefund(actor kernel.Actor) error {
	if !actor.Is(kernel.RoleAdmin) {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, "only admins issue refunds")
	}
	if o.refund.Initiated() {
		return errs.NewBusinessError(errs.CodeCannotCancel, "refund already initiated")
	}
	switch o.status {
	case StatusPaidEscrow, StatusDispatched, StatusArrived:
		return nil
	default:
		return errs.NewBusinessError(errs.CodeCannotCancel, "order is "+o.status.String())
	}
}

// AdminRefund cancels a paid order and records the refund intent.
func (o *Order) AdminRefund(actor kernel.Actor, reason string, now time.Time) error {
	if err := o.ValidateAdminRefund(actor); err != nil {
		return err
	}
	return o.cancel(actor, reason, initiatedRefund(o.capturedAmount(), now), now)
}

func (o *Order) cancel(actor kernel.Actor, reason string, refund Refund, now time.Time) error {
	if err := o.moveTo(StatusCancelled, actor, now); err != nil {
		return err
	}
	r := strings.TrimSpace(reason)
	o.cancellationReason = &r
	o.refund = refund
	return nil
}

// VerifyOTP checks the code a runner typed in at hand-over.
//
// The checks run in this order:
//   - status must be ARRIVED (errs.ErrOrderNotArrived)
//   - the order must not be locked (errs.ErrOrderLocked, even for the right code)
//   - a wrong code records the attempt and fails with errs.ErrInvalidOTP,
//     or errs.ErrOrderLocked when that attempt spends the budget
//   - the right code moves the order to COMPLETED
//
// recorded is true whenever the order changed and must be persisted, which
// includes the wrong-code failures.
func (o *Order) VerifyOTP(code OTPCode, actor kernel.Actor, now time.Time) (recorded bool, err error) {
	if !actor.Is(kernel.RoleRunner) {
		return false, errs.NewBusinessError(errs.CodeUnauthorizedAction, "only runners confirm delivery")
	}
	if o.status != StatusArrived {
		return false, errs.ErrOrderNotArrived
	}
	if o.IsLocked() {
		return false, errs.ErrOrderLocked
	}

	if !o.otpCode.Matches(code) {
		o.otpAttempts++
		o.updatedAt = now.UTC()
		if o.IsLocked() {
			return true, errs.ErrOrderLocked
		}
		return true, errs.ErrInvalidOTP
	}

	if err = o.moveTo(StatusCompleted, actor, now); err != nil {
		return false, err
	}
	return true, nil
}

// ForceStatus sets any status regardless of the lifecycle table. It returns
// the status the order had before. Forcing CANCELLED stores reason as the
// cancellation reason but neither restores stock nor initiates a refund.
func (o *Order) ForceStatus(to Status, admin kernel.Actor, reason string, now time.Time) (Status, error) {
	if !admin.Is(kernel.RoleAdmin) {
		return "", errs.NewBusinessError(errs.CodeUnauthorizedAction, "only admins override status")
	}
	if err := to.Validate(); err != nil {
		return "", err
	}
	if to == o.status {
		return "", errs.NewBusinessError(errs.CodeInvalidTransition, "order is already "+to.String())
	}

	previous := o.status
	if err := o.moveTo(to, admin, now); err != nil {
		return "", err
	}
	if to == StatusCancelled {
		r := strings.TrimSpace(reason)
		o.cancellationReason = &r
	}
	return previous, nil
}

// NeedsEscrowRelease reports whether the order is COMPLETED and its funds
// were never released.
func (o *Order) NeedsEscrowRelease() bool {
	return o.status == StatusCompleted && o.escrowReleasedAt == nil
}

// MarkEscrowReleased records the one and only fund release.
func (o *Order) MarkEscrowReleased(now time.Time) error {
	if o.escrowReleasedAt != nil {
		return ErrEscrowAlreadyReleased
	}
	if o.status != StatusCompleted {
		return errs.NewBusinessError(errs.CodeInvalidTransition, "escrow is released only for completed orders")
	}
	at := now.UTC()
	o.escrowReleasedAt = &at
	o.updatedAt = at
	return nil
}

// MarkRefundDispatched records that the refund request reached the payment
// processor collaborator.
func (o *Order) MarkRefundDispatched(now time.Time) error {
	if !o.refund.AwaitingDispatch() {
		return ErrRefundNotAwaitingDispatch
	}
	at := now.UTC()
	o.refund.dispatchedAt = &at
	o.updatedAt = at
	return nil
}

func (o *Order) capturedAmount() kernel.Money {
	return o.totalAmount.Add(o.deliveryFee)
}

func (o *Order) moveTo(to Status, actor kernel.Actor, now time.Time) error {
	change, err := NewStatusChange(o.status, to, now, actor.ID(), actor.Role())
	if err != nil {
		return err
	}
	o.history = append(o.history, change)
	o.status = to
	o.updatedAt = change.At()
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.buyerID = id
	return nil
}

func (o *Order) setCampus(campus kernel.Campus) error {
	if err := campus.Validate(); err != nil {
		return err
	}
	o.campus = campus
	return nil
}

func (o *Order) setLocale(locale string) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	o.locale = locale
}

func (o *Order) setOTP(otp OTPCode) error {
	if otp.IsZero() {
		return errs.NewValueIsRequiredError("otpCode")
	}
	o.otpCode = otp
	return nil
}

func (o *Order) setETA(eta kernel.ETA) error {
	if eta.IsZero() {
		return errs.NewValueIsRequiredError("eta")
	}
	o.eta = eta
	return nil
}

// setItems stores the lines and computes totalAmount from them.
func (o *Order) setItems(items []Item) error {
	if err := o.setItemsRestored(items); err != nil {
		return err
	}
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.Total())
	}
	o.totalAmount = total
	return nil
}

func (o *Order) setItemsRestored(items []Item) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item.lineNo <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("items", errors.New("item was not created via NewItem"))
		}
		if _, dup := seen[item.lineNo]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("line %d appears twice", item.lineNo))
		}
		seen[item.lineNo] = struct{}{}
	}

	o.items = slices.Clone(items)
	slices.SortFunc(o.items, func(a, b Item) int { return a.lineNo - b.lineNo })
	return nil
}
