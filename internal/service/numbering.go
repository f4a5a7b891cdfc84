package service

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/repository"
)

// NumberGenerator issues human-readable document numbers. Values come from
// persisted counters, so a number is never handed out twice even after the
// document it named is deleted.
type NumberGenerator interface {
	NextInvoiceNumber(ctx context.Context) (string, error)
	NextReceiptNumber(ctx context.Context) (string, error)
}

type numberGenerator struct {
	seqRepo       repository.SequenceRepository
	invoicePrefix string
	receiptPrefix string
}

// NewNumberGenerator creates a generator producing e.g. INV-0001 and REC-0001
func NewNumberGenerator(seqRepo repository.SequenceRepository, invoicePrefix, receiptPrefix string) NumberGenerator {
	return &numberGenerator{
		seqRepo:       seqRepo,
		invoicePrefix: invoicePrefix,
		receiptPrefix: receiptPrefix,
	}
}

func (g *numberGenerator) NextInvoiceNumber(ctx context.Context) (string, error) {
	seq, err := g.seqRepo.Next(ctx, repository.SequenceInvoice)
	if err != nil {
		return "", err
	}
	return FormatNumber(g.invoicePrefix, seq), nil
}

func (g *numberGenerator) NextReceiptNumber(ctx context.Context) (string, error) {
	seq, err := g.seqRepo.Next(ctx, repository.SequenceReceipt)
	if err != nil {
		return "", err
	}
	return FormatNumber(g.receiptPrefix, seq), nil
}

// FormatNumber zero-pads seq to at least four digits. Wider values are
// printed in full: INV-10000.
func FormatNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}
