package pricing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Spok95/cargo-calc-bot/internal/gateway"
	"github.com/Spok95/cargo-calc-bot/internal/infra/metrics"
	"github.com/Spok95/cargo-calc-bot/internal/order"
)

// Calculator — то, что умеет считать стоимость. В проде это gateway.Client.
type Calculator interface {
	CalculatePrice(ctx context.Context, f order.Form) (*gateway.PriceResponse, error)
}

type Result struct {
	Total    string
	Currency string
	Details  gateway.PriceDetails
}

// Tracker пересчитывает стоимость по мере изменения формы. Каждый пересчёт
// получает номер ревизии; применяется только результат последней ревизии,
// так что медленный ранний ответ не может затереть более свежую цену.
type Tracker struct {
	calc    Calculator
	log     *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	revs    map[int64]uint64
	results map[int64]*Result
	pending map[int64]int
}

func NewTracker(calc Calculator, log *slog.Logger, timeout time.Duration) *Tracker {
	return &Tracker{
		calc:    calc,
		log:     log,
		timeout: timeout,
		revs:    map[int64]uint64{},
		results: map[int64]*Result{},
		pending: map[int64]int{},
	}
}

// Recalculate запускает пересчёт для чата. Если предусловие расчёта не
// выполнено, цена сбрасывается без похода в сеть. onDone (опционально)
// вызывается после применения результата — в нём бот перерисовывает экран.
func (t *Tracker) Recalculate(chatID int64, f order.Form, onDone func()) {
	t.mu.Lock()
	t.revs[chatID]++
	rev := t.revs[chatID]

	if !order.CanCalculatePrice(f) {
		t.results[chatID] = nil
		t.mu.Unlock()
		if onDone != nil {
			onDone()
		}
		return
	}

	t.pending[chatID]++
	t.mu.Unlock()

	go t.run(chatID, rev, f, onDone)
}

func (t *Tracker) run(chatID int64, rev uint64, f order.Form, onDone func()) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	resp, err := t.calc.CalculatePrice(ctx, f)

	t.mu.Lock()
	t.pending[chatID]--
	if t.revs[chatID] != rev {
		// устаревшая ревизия — результат не применяем
		t.mu.Unlock()
		return
	}
	if err != nil {
		t.results[chatID] = nil
		t.mu.Unlock()
		metrics.PriceRequests.WithLabelValues("error").Inc()
		t.log.Warn("price calculation failed", "chat_id", chatID, "err", err)
		if onDone != nil {
			onDone()
		}
		return
	}
	t.results[chatID] = &Result{
		Total:    resp.TotalPrice,
		Currency: resp.Currency,
		Details:  resp.Details,
	}
	t.mu.Unlock()
	metrics.PriceRequests.WithLabelValues("ok").Inc()
	if onDone != nil {
		onDone()
	}
}

// Current возвращает последнюю применённую цену (nil, если её нет) и признак
// выполняющегося пересчёта.
func (t *Tracker) Current(chatID int64) (*Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.results[chatID], t.pending[chatID] > 0
}

// Reset забывает цену чата (новый заказ, отмена).
func (t *Tracker) Reset(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revs[chatID]++
	t.results[chatID] = nil
}
