package services

import (
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/errs"
)

// Quote is a delivery fee with its time band.
type Quote struct {
	Fee kernel.Money
	ETA kernel.ETA
}

type route struct {
	origin kernel.City
	campus kernel.Campus
}

// PricingEngine prices deliveries over the fixed "Eastern Triangle" table:
// two cities and three campuses, one of them halfway between the cities.
//
//	             HARAR_CAMPUS   HARAMAYA_MAIN   DIRE_DAWA_CAMPUS
//	HARAR        40, 30-60m     100, 60-120m    150, 120-180m
//	DIRE_DAWA    150, 120-180m  100, 60-120m    40, 30-60m
//
// A multi-shop cart pays the route fee of every distinct shop, summed, and
// gets the widest ETA band among them.
//
// Example usage:
//
//	q, err := services.NewPricingEngine().Quote(kernel.CityHarar, kernel.CampusHaramaya)
//	// q.Fee == 100, q.ETA == 60-120 min
type PricingEngine struct {
	table map[route]Quote
}

// NewPricingEngine builds the table. The engine is immutable and safe for
// concurrent use.
func NewPricingEngine() PricingEngine {
	sameCity := mustQuote(40, 30, 60)
	midpoint := mustQuote(100, 60, 120)
	crossCity := mustQuote(150, 120, 180)

	return PricingEngine{table: map[route]Quote{
		{kernel.CityHarar, kernel.CampusHarar}:       sameCity,
		{kernel.CityHarar, kernel.CampusHaramaya}:    midpoint,
		{kernel.CityHarar, kernel.CampusDireDawa}:    crossCity,
		{kernel.CityDireDawa, kernel.CampusHarar}:    crossCity,
		{kernel.CityDireDawa, kernel.CampusHaramaya}: midpoint,
		{kernel.CityDireDawa, kernel.CampusDireDawa}: sameCity,
	}}
}

// Quote returns the fee and ETA of a single route. Unknown cities or
// campuses are validation errors.
func (e PricingEngine) Quote(origin kernel.City, campus kernel.Campus) (Quote, error) {
	q, ok := e.table[route{origin, campus}]
	if !ok {
		if err := origin.Validate(); err != nil {
			return Quote{}, err
		}
		if err := campus.Validate(); err != nil {
			return Quote{}, err
		}
		return Quote{}, errs.NewValueIsInvalidError("route")
	}
	return q, nil
}

// QuoteItems prices a cart. Each distinct shop is charged once, from the
// origin city of its items.
func (e PricingEngine) QuoteItems(items []order.Item, campus kernel.Campus) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, errs.ErrEmptyCart
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	total := Quote{Fee: kernel.ZeroMoney()}
	for _, item := range items {
		if _, ok := seen[item.ShopID()]; ok {
			continue
		}
		seen[item.ShopID()] = struct{}{}

		q, err := e.Quote(item.OriginCity(), campus)
		if err != nil {
			return Quote{}, err
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

func mustQuote(fee int64, minMinutes, maxMinutes int) Quote {
	money, err := kernel.MoneyFromInt(fee)
	if err != nil {
		panic(err)
	}
	eta, err := kernel.NewETA(time.Duration(minMinutes)*time.Minute, time.Duration(maxMinutes)*time.Minute)
	if err != nil {
		panic(err)
	}
	return Quote{Fee: money, ETA: eta}
}
