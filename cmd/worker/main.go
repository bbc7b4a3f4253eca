package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/suPer8Hu/melvis/internal/app"
	"github.com/suPer8Hu/melvis/internal/config"
	"github.com/suPer8Hu/melvis/internal/logger"
	"github.com/suPer8Hu/melvis/internal/store/rabbitmq"
)

func workerConcurrency(n int) int {
	if n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.With("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("init app", "err", err)
	}
	defer a.Close()

	//  strict concurrency control
	concurrency := workerConcurrency(cfg.WorkerConcurrency)

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, cfg.RabbitQueue, concurrency)
	if err != nil {
		log.Fatal("rabbit consumer", "err", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		log.Fatal("consume", "err", err)
	}

	log.Info("worker started", "queue", cfg.RabbitQueue, "concurrency", concurrency)

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				jobID, err := rabbitmq.DecodeJob(d.Body)
				if err != nil {
					log.Warn("bad message", "worker", workerID, "err", err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := a.Chat.ProcessJob(ctx, jobID); err != nil {
					log.Error("job failed", "worker", workerID, "job_id", jobID, "cost", time.Since(start), "err", err)
					_ = d.Nack(false, false)
					continue
				}
				if cost := time.Since(start); cost > 2*time.Second {
					log.Info("slow job", "worker", workerID, "job_id", jobID, "cost", cost)
				}

				if err := d.Ack(false); err != nil {
					log.Warn("ack failed", "worker", workerID, "job_id", jobID, "err", err)
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Warn("delivery channel closed")
				close(jobs)
				wg.Wait()
				return
			}
			jobs <- d
		}
	}
}
