package services

import (
	"context"
	"errors"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type QueryService struct {
	orderRepo application.FlightOrderRepository
}

func NewQueryService(orderRepo application.FlightOrderRepository) *QueryService {
	return &QueryService{orderRepo: orderRepo}
}

func (s *QueryService) FindByOrderID(ctx context.Context, orderID string) ([]domain.FlightOrderRow, error) {
	if orderID == "" {
		return nil, application.NewValidationError(domain.NewMissingRequiredFieldError("orderID"))
	}
	rows, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, application.ErrFlightOrderNotFound) {
			return nil, application.NewNotFoundError(err)
		}
		return nil, application.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, application.NewNotFoundError(application.ErrFlightOrderNotFound)
	}
	return rows, nil
}
