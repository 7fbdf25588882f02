package services

import (
	"hypeshelf/config"
	"hypeshelf/internal/database"
)

type Service struct {
	Clerk       *ClerkService
	Transaction *TransactionService
	Scheduler   *SchedulerService
}

func New(db database.DB, config config.Config) (Service, error) {
	clerkService, err := NewClerkService(config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Clerk:       clerkService,
		Transaction: NewTransactionService(db),
		Scheduler:   NewSchedulerService(),
	}, nil
}
