package checkout_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/salustyck/storefront/internal/checkout"
	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/ports"
	"github.com/salustyck/storefront/internal/ports/mocks"
)

type noopLogger struct{}

func (noopLogger) Debugf(ctx context.Context, format string, args ...any) {}
func (noopLogger) Infof(ctx context.Context, format string, args ...any)  {}
func (noopLogger) Warnf(ctx context.Context, format string, args ...any)  {}
func (noopLogger) Errorf(ctx context.Context, format string, args ...any) {}
func (noopLogger) Sync() error                                            { return nil }

// fakeCart — управляемая замена менеджера корзины.
type fakeCart struct {
	mu       sync.Mutex
	items    domain.Cart
	totals   domain.Totals
	cleared  int
	clearErr error
}

func (f *fakeCart) Snapshot() domain.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items.Clone()
}

func (f *fakeCart) Totals() domain.Totals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totals
}

func (f *fakeCart) Policy() domain.ShippingPolicy {
	return domain.ShippingPolicy{FreeShippingThreshold: 500, ShippingFee: 49}
}

func (f *fakeCart) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.items = domain.Cart{}
	return nil
}

// replace — подмена содержимого корзины (другая «вкладка» между шагами).
func (f *fakeCart) replace(items domain.Cart, totals domain.Totals) {
	f.mu.Lock()
	f.items = items
	f.totals = totals
	f.mu.Unlock()
}

func (f *fakeCart) clearCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

func testItems() domain.Cart {
	return domain.Cart{{
		ID:            "entrecote_500",
		ProductID:     "entrecote",
		Name:          "Entrecôte",
		WeightGrams:   500,
		UnitPrice:     445,
		Quantity:      2,
		AddedAtMillis: 1700000000000,
	}}
}

func validForm() *domain.OrderForm {
	return &domain.OrderForm{
		FirstName:      "Anna",
		LastName:       "Svensson",
		Email:          "anna@example.com",
		Phone:          "+46701234567",
		Address:        "Storgatan 1",
		PostalCode:     "11122",
		City:           "Stockholm",
		DeliveryWindow: "12-15",
		PaymentMethod:  "card",
	}
}

func newTestMachine(t *testing.T, cart *fakeCart, orders ports.OrderLog, validator ports.FormValidator) *checkout.Machine {
	t.Helper()
	cfg := checkout.Config{ProcessingDelay: 0, ConfirmDisplay: time.Minute}
	return checkout.NewMachine(cfg, cart, orders, validator, noopLogger{})
}

func TestMachine_StartEmptyCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTestMachine(t, &fakeCart{}, mocks.NewMockOrderLog(ctrl), mocks.NewMockFormValidator(ctrl))

	if err := m.Start(context.Background()); !errors.Is(err, checkout.ErrEmptyCart) {
		t.Fatalf("ожидалась ErrEmptyCart, получено: %v", err)
	}
	if got := m.State(); got != checkout.StateIdle {
		t.Fatalf("состояние должно остаться idle, получено: %s", got)
	}
}

func TestMachine_HappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cart := &fakeCart{
		items:  testItems(),
		totals: domain.Totals{Subtotal: 890, ShippingFee: 0, GrandTotal: 890},
	}
	orders := mocks.NewMockOrderLog(ctrl)
	validator := mocks.NewMockFormValidator(ctrl)

	form := validForm()
	validator.EXPECT().Validate(gomock.Any(), form).Return(nil)

	var appended *domain.Order
	orders.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *domain.Order) error {
			appended = o
			return nil
		})

	m := newTestMachine(t, cart, orders, validator)
	ctx := context.Background()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := m.State(); got != checkout.StateReviewingCart {
		t.Fatalf("после Start ожидалось reviewing_cart, получено: %s", got)
	}

	if err := m.Proceed(ctx); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	if got := m.Totals(); got.GrandTotal != 890 {
		t.Fatalf("итог при переходе к форме: ожидалось 890, получено %d", got.GrandTotal)
	}

	order, fieldErrs, err := m.Submit(ctx, form)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("неожиданные ошибки полей: %v", fieldErrs)
	}
	if order == nil || appended == nil || order.OrderUID != appended.OrderUID {
		t.Fatalf("возвращённый заказ должен совпадать с записанным")
	}
	if order.OrderUID == "" {
		t.Fatalf("у заказа должен быть UID")
	}
	if !strings.HasPrefix(order.Reference, "SS-") {
		t.Fatalf("номер заказа должен начинаться с SS-, получен: %s", order.Reference)
	}
	if len(order.Items) != 1 || order.Items[0].ID != "entrecote_500" {
		t.Fatalf("позиции заказа не совпадают со снимком корзины: %+v", order.Items)
	}
	if order.Totals.GrandTotal != 890 {
		t.Fatalf("итог заказа: ожидалось 890, получено %d", order.Totals.GrandTotal)
	}
	if cart.clearCount() != 1 {
		t.Fatalf("корзина должна очищаться ровно один раз, очисток: %d", cart.clearCount())
	}
	if got := m.State(); got != checkout.StateConfirmed {
		t.Fatalf("после Submit ожидалось confirmed, получено: %s", got)
	}
	if last := m.LastOrder(); last == nil || last.OrderUID != order.OrderUID {
		t.Fatalf("LastOrder должен возвращать подтверждённый заказ")
	}
}

func TestMachine_SubmitInvalidFormStaysFilling(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cart := &fakeCart{items: testItems(), totals: domain.Totals{Subtotal: 890, GrandTotal: 890}}
	orders := mocks.NewMockOrderLog(ctrl)
	validator := mocks.NewMockFormValidator(ctrl)

	validator.EXPECT().
		Validate(gomock.Any(), gomock.Any()).
		Return(ports.FieldErrors{"email": "введите корректный email"})
	orders.EXPECT().Append(gomock.Any(), gomock.Any()).Times(0)

	m := newTestMachine(t, cart, orders, validator)
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Proceed(ctx); err != nil {
		t.Fatalf("Proceed: %v", err)
	}

	order, fieldErrs, err := m.Submit(ctx, &domain.OrderForm{})
	if !errors.Is(err, checkout.ErrInvalidForm) {
		t.Fatalf("ожидалась ErrInvalidForm, получено: %v", err)
	}
	if order != nil {
		t.Fatalf("заказ не должен создаваться при невалидной форме")
	}
	if fieldErrs["email"] == "" {
		t.Fatalf("ожидалась ошибка поля email, получено: %v", fieldErrs)
	}
	if got := m.State(); got != checkout.StateFillingForm {
		t.Fatalf("состояние должно остаться filling_form, получено: %s", got)
	}
	if cart.clearCount() != 0 {
		t.Fatalf("корзина не должна очищаться")
	}
}

func TestMachine_AppendFailureReturnsToForm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cart := &fakeCart{items: testItems(), totals: domain.Totals{Subtotal: 890, GrandTotal: 890}}
	orders := mocks.NewMockOrderLog(ctrl)
	validator := mocks.NewMockFormValidator(ctrl)

	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	appendErr := errors.New("disk full")
	gomock.InOrder(
		orders.EXPECT().Append(gomock.Any(), gomock.Any()).Return(appendErr),
		orders.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil),
	)

	m := newTestMachine(t, cart, orders, validator)
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Proceed(ctx); err != nil {
		t.Fatalf("Proceed: %v", err)
	}

	order, _, err := m.Submit(ctx, validForm())
	if !errors.Is(err, appendErr) {
		t.Fatalf("ожидалась ошибка записи журнала, получено: %v", err)
	}
	if order != nil {
		t.Fatalf("заказ не должен возвращаться при ошибке записи")
	}
	if got := m.State(); got != checkout.StateFillingForm {
		t.Fatalf("после сбоя ожидался возврат в filling_form, получено: %s", got)
	}
	if cart.clearCount() != 0 {
		t.Fatalf("корзина не должна очищаться при сбое записи")
	}

	// Повторная отправка с той же формы проходит.
	if _, _, err := m.Submit(ctx, validForm()); err != nil {
		t.Fatalf("повторный Submit: %v", err)
	}
	if got := m.State(); got != checkout.StateConfirmed {
		t.Fatalf("после повтора ожидалось confirmed, получено: %s", got)
	}
	if cart.clearCount() != 1 {
		t.Fatalf("после успешного повтора корзина очищается один раз, очисток: %d", cart.clearCount())
	}
}

func TestMachine_CancelBeforeSubmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cart := &fakeCart{items: testItems(), totals: domain.Totals{Subtotal: 890, GrandTotal: 890}}
	m := newTestMachine(t, cart, mocks.NewMockOrderLog(ctrl), mocks.NewMockFormValidator(ctrl))
	ctx := context.Background()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Cancel(ctx); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := m.State(); got != checkout.StateCancelled {
		t.Fatalf("после Cancel ожидалось cancelled, получено: %s", got)
	}
	if cart.clearCount() != 0 {
		t.Fatalf("отмена не должна трогать корзину")
	}

	// Из Cancelled можно начать заново.
	if err := m.Start(ctx); err != nil {
		t.Fatalf("повторный Start после отмены: %v", err)
	}
	if got := m.State(); got != checkout.StateReviewingCart {
		t.Fatalf("после повторного Start ожидалось reviewing_cart, получено: %s", got)
	}
}

func TestMachine_CancelFromIdleRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTestMachine(t, &fakeCart{}, mocks.NewMockOrderLog(ctrl), mocks.NewMockFormValidator(ctrl))
	if err := m.Cancel(context.Background()); !errors.Is(err, checkout.ErrInvalidState) {
		t.Fatalf("ожидалась ErrInvalidState, получено: %v", err)
	}
}

func TestMachine_DismissConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cart := &fakeCart{items: testItems(), totals: domain.Totals{Subtotal: 890, GrandTotal: 890}}
	orders := mocks.NewMockOrderLog(ctrl)
	validator := mocks.NewMockFormValidator(ctrl)
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	orders.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	m := newTestMachine(t, cart, orders, validator)
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Proceed(ctx); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	if _, _, err := m.Submit(ctx, validForm()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := m.Dismiss(); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if got := m.State(); got != checkout.StateIdle {
		t.Fatalf("после Dismiss ожидалось idle, получено: %s", got)
	}
	// Заказ остаётся доступен после закрытия подтверждения.
	if m.LastOrder() == nil {
		t.Fatalf("LastOrder должен сохраняться после Dismiss")
	}

	if err := m.Dismiss(); !errors.Is(err, checkout.ErrInvalidState) {
		t.Fatalf("повторный Dismiss из idle: ожидалась ErrInvalidState, получено: %v", err)
	}
}

func TestMachine_ConfirmationAutoDismiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cart := &fakeCart{items: testItems(), totals: domain.Totals{Subtotal: 890, GrandTotal: 890}}
	orders := mocks.NewMockOrderLog(ctrl)
	validator := mocks.NewMockFormValidator(ctrl)
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	orders.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	cfg := checkout.Config{ProcessingDelay: 0, ConfirmDisplay: 30 * time.Millisecond}
	m := checkout.NewMachine(cfg, cart, orders, validator, noopLogger{})
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Proceed(ctx); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	if _, _, err := m.Submit(ctx, validForm()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := m.State(); got != checkout.StateConfirmed {
		t.Fatalf("после Submit ожидалось confirmed, получено: %s", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.State() != checkout.StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("подтверждение не сбросилось автоматически, состояние: %s", m.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMachine_ProceedAfterCartEmptied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cart := &fakeCart{items: testItems(), totals: domain.Totals{Subtotal: 890, GrandTotal: 890}}
	m := newTestMachine(t, cart, mocks.NewMockOrderLog(ctrl), mocks.NewMockFormValidator(ctrl))
	ctx := context.Background()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Другая вкладка опустошила корзину между шагами.
	cart.replace(domain.Cart{}, domain.Totals{})

	if err := m.Proceed(ctx); !errors.Is(err, checkout.ErrEmptyCart) {
		t.Fatalf("ожидалась ErrEmptyCart, получено: %v", err)
	}
	if got := m.State(); got != checkout.StateIdle {
		t.Fatalf("после опустевшей корзины ожидалось idle, получено: %s", got)
	}
}

// Заказ — снимок: изменения корзины во время имитации обработки
// не попадают ни в позиции, ни в суммы записанного заказа.
func TestMachine_SubmitIgnoresCartChangesDuringProcessing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cheap := domain.Cart{{
		ID:          "flaskfile_350",
		ProductID:   "flaskfile",
		Name:        "Fläskfilé",
		WeightGrams: 350,
		UnitPrice:   45,
		Quantity:    1,
	}}
	expensive := domain.Cart{{
		ID:          "oxfile_1000",
		ProductID:   "oxfile",
		Name:        "Oxfilé",
		WeightGrams: 1000,
		UnitPrice:   1490,
		Quantity:    1,
	}}

	cart := &fakeCart{items: cheap, totals: domain.Totals{Subtotal: 45, ShippingFee: 49, GrandTotal: 94}}
	orders := mocks.NewMockOrderLog(ctrl)
	validator := mocks.NewMockFormValidator(ctrl)
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)

	var appended *domain.Order
	orders.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *domain.Order) error {
			appended = o
			return nil
		})

	cfg := checkout.Config{ProcessingDelay: 100 * time.Millisecond, ConfirmDisplay: time.Minute}
	m := checkout.NewMachine(cfg, cart, orders, validator, noopLogger{})
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Proceed(ctx); err != nil {
		t.Fatalf("Proceed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, _, err := m.Submit(ctx, validForm())
		done <- err
	}()

	// Другая «вкладка» подменяет корзину, пока заказ «обрабатывается».
	time.Sleep(30 * time.Millisecond)
	cart.replace(expensive, domain.Totals{Subtotal: 1490, ShippingFee: 0, GrandTotal: 1490})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Submit не завершился")
	}

	if appended == nil {
		t.Fatalf("заказ должен быть записан")
	}
	if len(appended.Items) != 1 || appended.Items[0].ID != "flaskfile_350" {
		t.Fatalf("позиции заказа должны быть из снимка до обработки: %+v", appended.Items)
	}
	itemsSubtotal := domain.Cart(appended.Items).Subtotal()
	if appended.Totals.Subtotal != itemsSubtotal {
		t.Fatalf("суммы заказа расходятся с позициями: subtotal=%d, по позициям=%d",
			appended.Totals.Subtotal, itemsSubtotal)
	}
	if appended.Totals.Subtotal != 45 || appended.Totals.ShippingFee != 49 || appended.Totals.GrandTotal != 94 {
		t.Fatalf("суммы заказа должны считаться по снимку: %+v", appended.Totals)
	}
}

func TestMachine_SubmitCancelledByContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cart := &fakeCart{items: testItems(), totals: domain.Totals{Subtotal: 890, GrandTotal: 890}}
	orders := mocks.NewMockOrderLog(ctrl)
	validator := mocks.NewMockFormValidator(ctrl)
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	orders.EXPECT().Append(gomock.Any(), gomock.Any()).Times(0)

	cfg := checkout.Config{ProcessingDelay: 5 * time.Second, ConfirmDisplay: time.Minute}
	m := checkout.NewMachine(cfg, cart, orders, validator, noopLogger{})
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Proceed(ctx); err != nil {
		t.Fatalf("Proceed: %v", err)
	}

	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := m.Submit(cancelCtx, validForm()); !errors.Is(err, context.Canceled) {
		t.Fatalf("ожидалась context.Canceled, получено: %v", err)
	}
	if got := m.State(); got != checkout.StateFillingForm {
		t.Fatalf("после отменённого контекста ожидался возврат в filling_form, получено: %s", got)
	}
	if cart.clearCount() != 0 {
		t.Fatalf("корзина не должна очищаться")
	}
}
