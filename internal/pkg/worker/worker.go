package worker

import (
	"context"
	"log"
	"time"
)

// WebhookTask 待处理的网关回调事件（原始报文，签名已在边界层校验）
type WebhookTask struct {
	Event []byte
	Retry int // 重试次数
}

// ProcessFunc 事件处理函数，由支付引擎提供
type ProcessFunc func(ctx context.Context, event []byte) error

// WebhookPool 回调事件处理池
// HTTP 层先回 2xx 确认收货，再由这里异步处理，
// 把网关的重试计时器和本地处理耗时解耦
type WebhookPool struct {
	TaskQueue  chan WebhookTask
	RetryQueue chan WebhookTask // 重试队列
	process    ProcessFunc
	WorkerNum  int
	MaxRetry   int // 最大重试次数
}

func NewWebhookPool(process ProcessFunc, workerNum int, bufferSize int) *WebhookPool {
	return &WebhookPool{
		TaskQueue:  make(chan WebhookTask, bufferSize),
		RetryQueue: make(chan WebhookTask, bufferSize/2),
		process:    process,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
	}
}

func (p *WebhookPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	log.Printf("Webhook pool started with %d workers", p.WorkerNum)
}

func (p *WebhookPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.process(context.Background(), task.Event); err != nil {
			log.Printf("[Worker %d] Failed to process webhook event: %v", id, err)

			// 如果未达到最大重试次数，加入重试队列
			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
					log.Printf("[Worker %d] Event added to retry queue (attempt %d/%d)",
						id, task.Retry, p.MaxRetry)
				default:
					log.Printf("[Worker %d] Retry queue full, event dropped", id)
					p.logFailedTask(task, err)
				}
			} else {
				log.Printf("[Worker %d] Event exceeded max retries, dropped", id)
				p.logFailedTask(task, err)
			}
		}
	}
}

func (p *WebhookPool) retryWorker() {
	for task := range p.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * time.Second)

		// 重新加入主队列
		select {
		case p.TaskQueue <- task:
		default:
			log.Printf("[RetryWorker] Main queue full, event dropped")
			p.logFailedTask(task, nil)
		}
	}
}

// logFailedTask 死信记录：处理彻底失败的事件原文落日志，供人工补账
// 网关侧同样会按 at-least-once 重发，所以这里只记录不告警
func (p *WebhookPool) logFailedTask(task WebhookTask, err error) {
	log.Printf("[DeadLetter] Webhook event failed permanently: err=%v payload=%s", err, string(task.Event))
}

// Enqueue 事件入队，队列满时丢弃并记录（网关会重试投递）
func (p *WebhookPool) Enqueue(event []byte) {
	select {
	case p.TaskQueue <- WebhookTask{Event: event}:
		// 入队成功
	default:
		log.Printf("Webhook pool queue full, dropping event")
		p.logFailedTask(WebhookTask{Event: event}, nil)
	}
}
