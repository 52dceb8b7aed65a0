package queries

import (
	"errors"
	"slices"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/guard"
)

var ErrQuoteDeliveryQueryIsNotConstructed = errors.New(
	"QuoteDeliveryQuery must be created via NewQuoteDeliveryQuery constructor",
)

// QuoteDeliveryQuery prices a delivery to campus from one shop per origin.
// Two shops in the same city pay two fees, so origins may repeat.
type QuoteDeliveryQuery struct {
	origins []kernel.City
	campus  kernel.Campus

	guard guard.ConstructorGuard
}

func NewQuoteDeliveryQuery(origins []kernel.City, campus kernel.Campus) (QuoteDeliveryQuery, error) {
	if len(origins) == 0 {
		return QuoteDeliveryQuery{}, errs.NewValueIsRequiredError("origins")
	}

	checks := []error{campus.Validate()}
	for _, origin := range origins {
		checks = append(checks, origin.Validate())
	}
	if err := errors.Join(checks...); err != nil {
		return QuoteDeliveryQuery{}, err
	}

	return QuoteDeliveryQuery{
		origins: slices.Clone(origins),
		campus:  campus,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q QuoteDeliveryQuery) Origins() []kernel.City {
	return slices.Clone(q.origins)
}

func (q QuoteDeliveryQuery) Campus() kernel.Campus {
	return q.campus
}

func (q QuoteDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrQuoteDeliveryQueryIsNotConstructed)
}

// QuoteDeliveryQueryHandler answers from the pricing table; it touches no
// storage.
type QuoteDeliveryQueryHandler struct {
	pricing services.PricingEngine
}

func NewQuoteDeliveryQueryHandler(pricing services.PricingEngine) QuoteDeliveryQueryHandler {
	return QuoteDeliveryQueryHandler{pricing: pricing}
}

// Handle sums the route fee of every origin and widens the ETA to cover
// the slowest one, the same way checkout prices a multi-shop cart.
func (h QuoteDeliveryQueryHandler) Handle(query QuoteDeliveryQuery) (services.Quote, error) {
	if err := query.Validate(); err != nil {
		return services.Quote{}, err
	}

	total := services.Quote{Fee: kernel.ZeroMoney()}
	for _, origin := range query.origins {
		q, err := h.pricing.Quote(origin, query.campus)
		if err != nil {
			return services.Quote{}, err
		}
		total.Fee = total.Fee.Add(q.Fee)
		if total.ETA.IsZero() {
			total.ETA = q.ETA
		} else {
			total.ETA = total.ETA.Widen(q.ETA)
		}
	}

	return total, nil
}
