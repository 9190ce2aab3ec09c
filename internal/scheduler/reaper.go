package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/swaps"
)

const (
	// Максимум обменов, обрабатываемых за один проход
	batchLimit = 100

	// Количество попыток на один обмен при временных сбоях хранилища
	maxAttempts = 3

	// Таймаут обработки одного обмена
	itemTimeout = 10 * time.Second
)

// Completer завершает обмен и начисляет награды
type Completer interface {
	Complete(ctx context.Context, swap *models.Swap) error
}

// Source возвращает обмены с истекшим временем автозавершения
type Source interface {
	FindExpired(ctx context.Context, now time.Time, limit int) ([]models.Swap, error)
}

// Reaper — фоновая задача автозавершения: периодически находит обмены в
// статусе scheduled/active с истекшим auto_expire_at и проводит их через
// общий путь завершения. Гонка с интерактивным завершением безопасна:
// начисление защищено атомарным захватом флага skillcoins_awarded.
type Reaper struct {
	source    Source
	completer Completer
	interval  time.Duration
	now       swaps.Clock
	stop      chan struct{}
	done      chan struct{}
}

// NewReaper создает новый экземпляр Reaper
func NewReaper(source Source, completer Completer, interval time.Duration) *Reaper {
	return &Reaper{
		source:    source,
		completer: completer,
		interval:  interval,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// WithClock заменяет источник времени (для тестов)
func (r *Reaper) WithClock(now swaps.Clock) *Reaper {
	r.now = now
	return r
}

// Start запускает цикл обработки в отдельной горутине
func (r *Reaper) Start() {
	log.Printf("🚀 Фоновая задача автозавершения запущена (интервал %s)", r.interval)
	go r.loop()
}

// Stop останавливает цикл и дожидается завершения текущего прохода
func (r *Reaper) Stop() {
	close(r.stop)
	<-r.done
	log.Println("⏸️ Фоновая задача автозавершения остановлена")
}

func (r *Reaper) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(context.Background())
		case <-r.stop:
			return
		}
	}
}

// RunOnce выполняет один проход: находит истекшие обмены и завершает их.
// Сбой на одном обмене логируется и не прерывает обработку остальных.
func (r *Reaper) RunOnce(ctx context.Context) {
	now := r.now()

	expired, err := r.source.FindExpired(ctx, now, batchLimit)
	if err != nil {
		log.Printf("❌ Ошибка поиска истекших обменов: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}
	log.Printf("🔄 Обрабатываем %d истекших обменов", len(expired))

	for i := range expired {
		swap := &expired[i]
		if err := r.completeWithRetry(ctx, swap); err != nil {
			log.Printf("❌ Не удалось завершить обмен %s: %v", swap.ID, err)
			continue
		}
		log.Printf("✅ Обмен %s автоматически завершен", swap.ID)
	}
}

// completeWithRetry завершает один обмен с ограниченным числом повторов.
// Повтор безопасен: захват флага идемпотентен.
func (r *Reaper) completeWithRetry(ctx context.Context, swap *models.Swap) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		itemCtx, cancel := context.WithTimeout(ctx, itemTimeout)
		err := r.completer.Complete(itemCtx, swap)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
	}
	return lastErr
}
