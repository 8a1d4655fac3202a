package handler

import (
	"errors"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

func asValidation(err error, target **domain.ValidationError) bool {
	return errors.As(err, target)
}
