// Package generator synthesizes realistic transaction events and publishes
// them to the event log. It stands in for the core banking system on the
// producer side.
package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
)

type (
	Publisher interface {
		Publish(ctx context.Context, tx *entity.Transaction) (string, error)
	}
)

type Generator struct {
	publisher Publisher
	logger    logger.Interface

	interval  time.Duration
	customers int
	timeStep  time.Duration

	baseTimestamp int64
	count         int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(
	publisher Publisher,
	l logger.Interface,
	interval time.Duration,
	customers int,
	timeStep time.Duration,
) *Generator {
	return &Generator{
		publisher:     publisher,
		logger:        l,
		interval:      interval,
		customers:     customers,
		timeStep:      timeStep,
		baseTimestamp: time.Now().UnixMilli(),
	}
}

func (g *Generator) Start(ctx context.Context) error {
	if !g.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Generator - Start - generator already started")
	}

	g.ctx, g.cancel = context.WithCancel(ctx)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()

		for {
			select {
			case <-g.ctx.Done():
				return
			case <-ticker.C:
				g.publishOne(g.ctx)
			}
		}
	}()

	return nil
}

func (g *Generator) publishOne(ctx context.Context) {
	tx := g.next()

	entryID, err := g.publisher.Publish(ctx, tx)
	if err != nil {
		g.logger.Error(err, "Generator - publishOne - g.publisher.Publish")

		return
	}

	g.logger.Info("[%6d] %s | %-25s | $%8.2f | %s | %s",
		g.count, tx.TransactionID, tx.Merchant, tx.Amount, tx.CustomerID, tx.Category)
	g.logger.Debug("Generator - publishOne - entry %s", entryID)
}

// next advances event time by one stride per event, so the time-series view
// covers a meaningful window even at a fast publish rate.
func (g *Generator) next() *entity.Transaction {
	tx := RandomTransaction(g.customers)
	tx.Timestamp = g.baseTimestamp + g.count*g.timeStep.Milliseconds()
	g.count++

	return tx
}

func (g *Generator) Shutdown(ctx context.Context) error {
	if !g.started.Load() {
		return nil
	}

	if g.cancel != nil {
		g.cancel()
	}

	done := make(chan struct{})

	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// RandomTransaction draws a category, then a merchant and an amount typical
// for it.
func RandomTransaction(customers int) *entity.Transaction {
	categories := entity.Categories()
	category := categories[rand.IntN(len(categories))]

	names := merchants[category]
	merchant := names[rand.IntN(len(names))]

	bounds := amountRanges[category]
	amount := math.Round((bounds[0]+rand.Float64()*(bounds[1]-bounds[0]))*100) / 100

	return &entity.Transaction{
		TransactionID: "tx_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		CustomerID:    fmt.Sprintf("cust_%03d", rand.IntN(customers)+1),
		Amount:        amount,
		Merchant:      merchant,
		Category:      category,
		Timestamp:     time.Now().UnixMilli(),
		Location:      locations[rand.IntN(len(locations))],
		CardLast4:     fmt.Sprintf("%04d", rand.IntN(9000)+1000),
	}
}
