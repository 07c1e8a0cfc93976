package utils

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Shutdown отменяет контекст по SIGINT/SIGTERM и выполняет зарегистрированные
// хуки в обратном порядке (как defer).
//
//	ctx, shutdown := utils.SetupGracefulShutdown(context.Background())
//	defer shutdown.Run()
//	shutdown.OnShutdown(func() { _ = store.Close() })
type Shutdown struct {
	mu    sync.Mutex
	hooks []func()
	once  sync.Once
	stop  func()
}

// SetupGracefulShutdown возвращает контекст, который отменяется по сигналу.
//
// Лог закрывается последним хуком, поэтому сообщения остальных хуков
// попадают в файл.
func SetupGracefulShutdown(parent context.Context) (context.Context, *Shutdown) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			Info("Received signal, shutting down gracefully", "signal", sig.String())
			cancel()
		case <-done:
		}
	}()

	s := &Shutdown{
		hooks: []func(){Close},
		stop: func() {
			signal.Stop(sigChan)
			close(done)
			cancel()
		},
	}
	return ctx, s
}

// OnShutdown регистрирует хук.
func (s *Shutdown) OnShutdown(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Run выполняет хуки один раз. Повторные вызовы ничего не делают.
func (s *Shutdown) Run() {
	s.once.Do(func() {
		s.stop()

		s.mu.Lock()
		hooks := s.hooks
		s.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i]()
		}
	})
}
