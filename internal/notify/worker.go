package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

// Sender 是 *mail.Client 中发送邮件所需的部分
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// PermanentError 表示消息本身有问题，重新投递也不会成功
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

type Worker struct {
	sender Sender
	from   string
}

func NewWorker(sender Sender, from string) *Worker {
	return &Worker{sender: sender, from: from}
}

// Handle 处理一条事件消息，返回发送的邮件数量
func (w *Worker) Handle(ctx context.Context, body []byte) (int, error) {
	var ev domain.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return 0, &PermanentError{Err: fmt.Errorf("事件反序列化失败: %w", err)}
	}

	msgs, err := BuildAssignmentMails(ev, w.from)
	if err != nil {
		return 0, &PermanentError{Err: err}
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	if err := w.sender.DialAndSendWithContext(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("邮件发送失败: %w", err)
	}
	return len(msgs), nil
}
