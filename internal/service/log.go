package service

import (
	"errors"

	"github.com/andy/invoicer/internal/domain"
	"go.uber.org/zap"
)

// logFailure records store failures at error level and rejected requests
// at debug level. The error is always returned to the caller as well.
func logFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if errors.Is(err, domain.ErrStore) {
		logger.Error(msg, fields...)
		return
	}
	logger.Debug(msg, fields...)
}
