package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/fixture"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/handler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/notify"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/store"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("无法加载时区", "error", err)
		return
	}
	anchor, err := cfg.DemoAnchor(loc)
	if err != nil {
		logger.Error("无法解析演示锚定日期", "error", err)
		return
	}

	/**********************************************
	 * 创建 fixture loader，可选地通过 redis 缓存
	 **********************************************/
	var fetcher fixture.Fetcher = fixture.NewHTTPFetcher(cfg.Fixture.URL, time.Duration(cfg.Fixture.Timeout)*time.Second)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			// redis 只是缓存，连不上时不影响启动
			logger.Warn("无法连接到 redis，将不使用缓存", "error", err)
		} else {
			fetcher = fixture.NewCachedFetcher(fetcher, rdb, cfg.Fixture.CacheKey, time.Duration(cfg.Redis.FixtureTTL)*time.Second, logger)
		}
	}

	loader := fixture.NewLoader(fetcher, loc)

	/**********************************************
	 * 创建指标收集器和 store
	 **********************************************/
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	st := store.New(loader,
		store.WithAnchor(anchor),
		store.WithLocation(loc),
		store.WithTemplateStartHour(cfg.Schedule.TemplateStartHour),
		store.WithLogger(logger),
		store.WithMetrics(metrics.NewCollector(registry)),
	)

	// 启动时加载一次，失败时前端可以重试
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Duration(cfg.Fixture.Timeout)*time.Second)
	if err := st.LoadShifts(loadCtx); err != nil {
		logger.Warn("启动时加载排班数据失败", "error", err)
	}
	cancelLoad()

	/**********************************************
	 * 连接 rabbitmq 并发布排班事件（可选）
	 **********************************************/
	publisherCtx, stopPublisher := context.WithCancel(context.Background())
	defer stopPublisher()

	var publisher *notify.Publisher
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("无法连接到 rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		// 建立通道
		ch, err := conn.Channel()
		if err != nil {
			logger.Error("无法建立通道", "error", err)
			return
		}
		defer ch.Close()

		// 声明队列
		_, err = ch.QueueDeclare(
			cfg.RabbitMQ.Queue,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			logger.Error("无法声明队列", "error", err)
			return
		}

		publisher = notify.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second, logger)
		publisher.Run(publisherCtx, st)
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, st, loader, registry)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	defer handler.Close()
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}

	// 服务器关闭后不会再产生新的事件，把已入队的事件发送完
	if publisher != nil {
		stopPublisher()
		publisher.Wait()
	}
	logger.Info("服务器已成功关闭")
}
