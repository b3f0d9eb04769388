package scheduler

import (
	"context"
	"time"

	"github.com/cypher6783/gasOrder/pkg/logger"

	"go.uber.org/zap"
)

// Job 定时任务，跑完即返回
type Job func(ctx context.Context)

// DailyJob 按每日固定时刻触发的任务
// 同一时刻只会有一次执行：任务跑完才计算下一次触发点，天然不重叠
type DailyJob struct {
	name   string
	hour   int
	minute int
	job    Job
}

func NewDailyJob(name string, hour, minute int, job Job) *DailyJob {
	return &DailyJob{
		name:   name,
		hour:   hour,
		minute: minute,
		job:    job,
	}
}

// nextFire 计算下一次触发时间
func (d *DailyJob) nextFire(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), d.hour, d.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Start 启动调度协程，ctx 取消时退出
func (d *DailyJob) Start(ctx context.Context) {
	go func() {
		for {
			next := d.nextFire(time.Now())
			logger.Log.Info("scheduler: next run planned",
				zap.String("job", d.name),
				zap.Time("at", next),
			)

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				logger.Log.Info("scheduler: stopped", zap.String("job", d.name))
				return
			case <-timer.C:
				d.job(ctx)
			}
		}
	}()
}
