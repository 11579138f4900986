package testutil

import (
	"io"

	"github.com/elioraretreat/registration-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
