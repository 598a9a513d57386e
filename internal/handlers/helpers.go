package handlers

import (
	"github.com/statuspond/statuspond/internal/errors"
	"go.uber.org/zap"
)

func logError(err error) error {
	if err == nil {
		return nil
	}
	zap.L().Error("error while processing request", zap.Error(err))
	return errors.Wrap(err, 1)
}
