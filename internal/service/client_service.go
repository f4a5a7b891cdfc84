package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
	"go.uber.org/zap"
)

// ClientService manages clients and guards deletion of clients that are
// still referenced by invoices.
type ClientService interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Client, error)
	// Resolve accepts a numeric ID or an exact client name
	Resolve(ctx context.Context, idOrName string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
}

type clientService struct {
	tx          db.TransactionManager
	clientRepo  repository.ClientRepository
	invoiceRepo repository.InvoiceRepository
	logger      *zap.Logger
}

func NewClientService(
	tx db.TransactionManager,
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
	logger *zap.Logger,
) ClientService {
	return &clientService{
		tx:          tx,
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

func (s *clientService) Create(ctx context.Context, client *domain.Client) error {
	client.Name = strings.TrimSpace(client.Name)
	if err := s.clientRepo.Create(ctx, client); err != nil {
		logFailure(s.logger, "client create failed", err, zap.String("name", client.Name))
		return err
	}
	s.logger.Info("client created", zap.Int64("client_id", client.ID), zap.String("name", client.Name))
	return nil
}

func (s *clientService) Update(ctx context.Context, client *domain.Client) error {
	client.Name = strings.TrimSpace(client.Name)
	if err := s.clientRepo.Update(ctx, client); err != nil {
		logFailure(s.logger, "client update failed", err, zap.Int64("client_id", client.ID))
		return err
	}
	s.logger.Info("client updated", zap.Int64("client_id", client.ID))
	return nil
}

func (s *clientService) Delete(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		client, err := s.clientRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		n, err := s.invoiceRepo.CountByClient(txCtx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: client %s has %d invoice(s)", domain.ErrInvalidState, client.Name, n)
		}

		return s.clientRepo.Delete(txCtx, id)
	})
	if err != nil {
		logFailure(s.logger, "client delete failed", err, zap.Int64("client_id", id))
		return err
	}

	s.logger.Info("client deleted", zap.Int64("client_id", id))
	return nil
}

func (s *clientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *clientService) Resolve(ctx context.Context, idOrName string) (*domain.Client, error) {
	if id, err := strconv.ParseInt(idOrName, 10, 64); err == nil {
		return s.clientRepo.GetByID(ctx, id)
	}
	return s.clientRepo.GetByName(ctx, strings.TrimSpace(idOrName))
}

func (s *clientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx)
}
