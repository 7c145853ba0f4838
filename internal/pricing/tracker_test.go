package pricing

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/cargo-calc-bot/internal/gateway"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCalc отдаёт цену по box_count; release задерживает ответ до сигнала.
type fakeCalc struct {
	mu      sync.Mutex
	release map[int]chan struct{}
}

func newFakeCalc() *fakeCalc {
	return &fakeCalc{release: map[int]chan struct{}{}}
}

func (c *fakeCalc) hold(boxCount int) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{})
	c.release[boxCount] = ch
	return ch
}

func (c *fakeCalc) CalculatePrice(ctx context.Context, f order.Form) (*gateway.PriceResponse, error) {
	n := f.Quantities[order.KindBox]
	c.mu.Lock()
	ch := c.release[n]
	c.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &gateway.PriceResponse{
		TotalPrice: "100." + string(rune('0'+n)),
		Currency:   "RUB",
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func priceForm(boxCount int) order.Form {
	f := order.NewForm()
	f.Marketplace = "ozon"
	f.Warehouse = "1"
	f.ToggleKind(order.KindBox)
	f.Quantities[order.KindBox] = boxCount
	return f
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("пересчёт не завершился вовремя")
	}
}

func TestRecalculateAppliesResult(t *testing.T) {
	tr := NewTracker(newFakeCalc(), testLogger(), time.Second)

	done := make(chan struct{})
	tr.Recalculate(1, priceForm(3), func() { close(done) })
	waitDone(t, done)

	res, loading := tr.Current(1)
	require.NotNil(t, res)
	assert.False(t, loading)
	assert.Equal(t, "100.3", res.Total)
	assert.Equal(t, "RUB", res.Currency)
}

func TestRecalculatePreconditionClearsWithoutNetwork(t *testing.T) {
	tr := NewTracker(newFakeCalc(), testLogger(), time.Second)

	done := make(chan struct{})
	tr.Recalculate(1, priceForm(3), func() { close(done) })
	waitDone(t, done)

	// склад сброшен — предусловие ложно, цена чистится синхронно
	f := priceForm(3)
	f.Warehouse = ""
	called := false
	tr.Recalculate(1, f, func() { called = true })

	assert.True(t, called, "onDone при сбросе вызывается синхронно")
	res, loading := tr.Current(1)
	assert.Nil(t, res)
	assert.False(t, loading)
}

func TestRecalculateLastRevisionWins(t *testing.T) {
	calc := newFakeCalc()
	tr := NewTracker(calc, testLogger(), 2*time.Second)

	slow := calc.hold(1) // первый запрос зависает до сигнала

	first := make(chan struct{})
	tr.Recalculate(1, priceForm(1), func() { close(first) })

	second := make(chan struct{})
	tr.Recalculate(1, priceForm(2), func() { close(second) })
	waitDone(t, second)

	res, _ := tr.Current(1)
	require.NotNil(t, res)
	assert.Equal(t, "100.2", res.Total)

	// опоздавший ранний ответ не должен затереть свежую цену
	close(slow)
	time.Sleep(100 * time.Millisecond)

	res, loading := tr.Current(1)
	require.NotNil(t, res)
	assert.Equal(t, "100.2", res.Total)
	assert.False(t, loading)

	select {
	case <-first:
		t.Fatal("onDone устаревшей ревизии не должен вызываться")
	default:
	}
}

func TestReset(t *testing.T) {
	tr := NewTracker(newFakeCalc(), testLogger(), time.Second)

	done := make(chan struct{})
	tr.Recalculate(1, priceForm(3), func() { close(done) })
	waitDone(t, done)

	tr.Reset(1)
	res, loading := tr.Current(1)
	assert.Nil(t, res)
	assert.False(t, loading)
}
