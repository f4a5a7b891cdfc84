package service

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
	"go.uber.org/zap"
)

// ContractorService manages the single contractor profile
type ContractorService interface {
	Get(ctx context.Context) (*domain.Contractor, error)
	IsSetUp(ctx context.Context) (bool, error)
	// Create fails with ErrInvalidState once a profile exists
	Create(ctx context.Context, contractor *domain.Contractor) error
	Update(ctx context.Context, contractor *domain.Contractor) error
	// Save creates the profile on first use and updates it afterwards
	Save(ctx context.Context, contractor *domain.Contractor) error
}

type contractorService struct {
	tx             db.TransactionManager
	contractorRepo repository.ContractorRepository
	logger         *zap.Logger
}

func NewContractorService(
	tx db.TransactionManager,
	contractorRepo repository.ContractorRepository,
	logger *zap.Logger,
) ContractorService {
	return &contractorService{
		tx:             tx,
		contractorRepo: contractorRepo,
		logger:         logger,
	}
}

func (s *contractorService) Get(ctx context.Context) (*domain.Contractor, error) {
	return s.contractorRepo.Get(ctx)
}

func (s *contractorService) IsSetUp(ctx context.Context) (bool, error) {
	return s.contractorRepo.Exists(ctx)
}

func (s *contractorService) Create(ctx context.Context, c *domain.Contractor) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		exists, err := s.contractorRepo.Exists(txCtx)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: contractor profile already exists", domain.ErrInvalidState)
		}
		return s.contractorRepo.Create(txCtx, c)
	})
	if err != nil {
		logFailure(s.logger, "contractor create failed", err)
		return err
	}

	s.logger.Info("contractor created", zap.String("name", c.Name))
	return nil
}

func (s *contractorService) Update(ctx context.Context, c *domain.Contractor) error {
	if err := s.contractorRepo.Update(ctx, c); err != nil {
		logFailure(s.logger, "contractor update failed", err)
		return err
	}

	s.logger.Info("contractor updated", zap.String("name", c.Name))
	return nil
}

func (s *contractorService) Save(ctx context.Context, c *domain.Contractor) error {
	exists, err := s.contractorRepo.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return s.Update(ctx, c)
	}
	return s.Create(ctx, c)
}
