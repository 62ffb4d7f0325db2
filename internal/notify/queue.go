package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"shareit/internal/logger"
	"shareit/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	queueKey  = "booking:events"
	failedKey = "booking:events:failed"

	maxTries = 3
)

type Config struct {
	From     string
	FromName string
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Queue stores booking notifications in a Redis list and delivers them over SMTP.
type Queue struct {
	redis      *redis.Client
	cfg        Config
	send       sendFunc
	retryDelay time.Duration
}

func New(rdb *redis.Client, cfg Config) *Queue {
	return &Queue{
		redis:      rdb,
		cfg:        cfg,
		send:       smtp.SendMail,
		retryDelay: 5 * time.Second,
	}
}

func (q *Queue) Enqueue(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.Tries = 0
	ev.Created = time.Now()

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := q.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		metrics.RecordNotification(string(ev.Kind), "queue_failed")
		return fmt.Errorf("queue notification %s: %w", ev.ID, err)
	}

	logger.Info("notification queued", "id", ev.ID, "kind", ev.Kind, "booking_id", ev.BookingID)
	return nil
}

// Start consumes the queue until ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	logger.Info("notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		default:
			q.processNext(ctx)
			metrics.SetNotificationQueueLength(q.QueueLength(ctx))
		}
	}
}

func (q *Queue) processNext(ctx context.Context) {
	result, err := q.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.WithError(err).Warn("notification queue unavailable")
			q.wait(ctx, time.Second)
		}
		return
	}

	var ev Event
	if err := json.Unmarshal([]byte(result[1]), &ev); err != nil {
		logger.Errorf("bad notification payload: %v", err)
		return
	}

	ev.Tries++
	if err := q.sendNow(ev); err != nil {
		logger.WithError(err).Warnw("notification delivery failed", "id", ev.ID, "to", ev.To, "attempt", ev.Tries)

		if ev.Tries >= maxTries {
			q.saveFailed(ev, err)
			metrics.RecordNotification(string(ev.Kind), "failed")
			return
		}

		q.wait(ctx, q.retryDelay)
		if rerr := q.requeue(ev); rerr != nil {
			logger.WithError(rerr).Errorw("notification requeue failed", "id", ev.ID, "to", ev.To)
			q.saveFailed(ev, fmt.Errorf("requeue after %v: %w", err, rerr))
			metrics.RecordNotification(string(ev.Kind), "requeue_failed")
			return
		}
		metrics.RecordNotification(string(ev.Kind), "retried")
		return
	}

	metrics.RecordNotification(string(ev.Kind), "sent")
	logger.Info("notification sent", "id", ev.ID, "to", ev.To)
}

// wait sleeps for d or until ctx is done.
func (q *Queue) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// requeue uses a fresh context so a pending retry survives worker shutdown.
func (q *Queue) requeue(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return q.redis.LPush(context.Background(), queueKey, string(data)).Err()
}

var headerReplacer = strings.NewReplacer("\r", " ", "\n", " ")

// headerValue keeps user supplied text on a single header line.
func headerValue(v string) string {
	return headerReplacer.Replace(v)
}

func (q *Queue) sendNow(ev Event) error {
	subject, body := render(ev)

	message := fmt.Sprintf("From: %s <%s>\r\n", headerValue(q.cfg.FromName), headerValue(q.cfg.From))
	message += fmt.Sprintf("To: %s\r\n", headerValue(ev.To))
	message += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	message += "\r\n" + body

	var auth smtp.Auth
	if q.cfg.SMTPUser != "" && q.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", q.cfg.SMTPUser, q.cfg.SMTPPass, q.cfg.SMTPHost)
	}

	addr := q.cfg.SMTPHost + ":" + strconv.Itoa(q.cfg.SMTPPort)
	return q.send(addr, auth, q.cfg.From, []string{ev.To}, []byte(message))
}

func (q *Queue) saveFailed(ev Event, err error) {
	failed := map[string]interface{}{
		"event": ev,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, merr := json.Marshal(failed)
	if merr != nil {
		logger.WithError(merr).Errorw("notification dropped", "id", ev.ID, "to", ev.To, "cause", err.Error())
		return
	}
	if perr := q.redis.LPush(context.Background(), failedKey, string(data)).Err(); perr != nil {
		logger.WithError(perr).Errorw("notification dropped", "id", ev.ID, "to", ev.To, "payload", string(data))
		return
	}
	logger.Error("notification moved to failed queue", "id", ev.ID, "to", ev.To)
}

func (q *Queue) QueueLength(ctx context.Context) int64 {
	length, _ := q.redis.LLen(ctx, queueKey).Result()
	return length
}

func (q *Queue) Close() error {
	return q.redis.Close()
}
