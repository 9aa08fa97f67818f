// Package notify 把排班变更事件发布到 RabbitMQ，并负责把事件转换成通知邮件
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// Channel 是 *amqp.Channel 中发布消息所需的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EventSource 由 store 实现
type EventSource interface {
	Subscribe(fn func(domain.Event)) func()
}

// Publisher 在后台 goroutine 中发布事件，避免排班操作被消息队列阻塞
type Publisher struct {
	channel Channel
	queue   string
	timeout time.Duration
	logger  *slog.Logger

	events chan domain.Event
	wg     sync.WaitGroup
}

func NewPublisher(ch Channel, queue string, timeout time.Duration, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		channel: ch,
		queue:   queue,
		timeout: timeout,
		logger:  logger,
		events:  make(chan domain.Event, 64),
	}
}

// Publish 同步发布一个事件
func (p *Publisher) Publish(ctx context.Context, ev domain.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Type:         string(ev.Type),
			Timestamp:    ev.At,
			Body:         body,
		},
	)
}

// Enqueue 把事件放入发送队列，队列已满时丢弃事件并记录日志
func (p *Publisher) Enqueue(ev domain.Event) {
	select {
	case p.events <- ev:
	default:
		p.logger.Warn("事件队列已满，丢弃事件", "type", ev.Type)
	}
}

// Run 订阅 source 的事件并持续发布，直到 ctx 被取消；返回前会发送完已入队的事件
func (p *Publisher) Run(ctx context.Context, source EventSource) {
	unsubscribe := source.Subscribe(p.Enqueue)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		for {
			select {
			case ev := <-p.events:
				p.send(ev)
			case <-ctx.Done():
				unsubscribe()
				for {
					select {
					case ev := <-p.events:
						p.send(ev)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait 等待 Run 启动的 goroutine 退出
func (p *Publisher) Wait() {
	p.wg.Wait()
}

func (p *Publisher) send(ev domain.Event) {
	if err := p.Publish(context.Background(), ev); err != nil {
		p.logger.Error("无法发布排班事件", "type", ev.Type, "error", err)
		return
	}
	p.logger.Debug("已发布排班事件", "type", ev.Type, "shifts", len(ev.ShiftIDs))
}
