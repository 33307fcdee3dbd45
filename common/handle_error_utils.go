package common

import (
	"errors"

	"campaign-platform/domain"
)

func IsRecordNotFound(err error) bool {
	return errors.Is(err, domain.ErrRecordNotFound)
}

func IsDetailError(err error) (*domain.DetailedError, bool) {
	return domain.AsDetailedError(err)
}
