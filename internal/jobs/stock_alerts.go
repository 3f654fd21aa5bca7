package jobs

import (
	"context"
	"log"
	"time"

	"shopkart/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// StockAlertScheduler periodically sweeps the catalog for products running
// low on stock. The order workflow clamps stock at zero without signalling,
// so this sweep is how depleted products get noticed.
type StockAlertScheduler struct {
	scheduler   gocron.Scheduler
	productRepo repositories.ProductRepository
	threshold   int
}

func NewStockAlertScheduler(productRepo repositories.ProductRepository, threshold int) (*StockAlertScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &StockAlertScheduler{
		scheduler:   scheduler,
		productRepo: productRepo,
		threshold:   threshold,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(s.sweep),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the periodic sweep.
func (s *StockAlertScheduler) Start() {
	log.Println("Starting low-stock sweep")
	s.scheduler.Start()
}

// Stop shuts the scheduler down.
func (s *StockAlertScheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *StockAlertScheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := s.productRepo.ListLowStock(ctx, s.threshold)
	if err != nil {
		log.Printf("low-stock sweep failed: %v", err)
		return
	}
	for _, product := range products {
		if product.StockQuantity == 0 {
			log.Printf("ALERT: product %d (%s) is out of stock", product.ID, product.Name)
			continue
		}
		log.Printf("ALERT: product %d (%s) is low on stock: %d left", product.ID, product.Name, product.StockQuantity)
	}
}
