package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// serve は HTTP サーバーを起動し、SIGINT/SIGTERM を受けたら停止して cleanup を呼ぶ。
func serve(httpServer *http.Server, logger *zap.Logger, cleanup func(context.Context)) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP サーバー起動", zap.String("addr", httpServer.Addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, logger, cleanup)
}

func waitForShutdown(httpServer *http.Server, errChan <-chan error, logger *zap.Logger, cleanup func(context.Context)) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("サーバーが異常終了", zap.Error(err))
			runErr = err
		}
	case sig := <-sigChan:
		logger.Info("シグナルを受信。サーバー停止処理を開始します", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Warn("サーバー停止時にエラー", zap.Error(err))
		}
	}

	if cleanup != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cleanup(ctx)
	}
	return runErr
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
