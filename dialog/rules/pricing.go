package rules

import (
	"fmt"

	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
	extractx "github.com/studio-nexa/tsm-orchestrator/dialog/extract"
)

// Hourly rates in rubles.
const (
	bulkMinHours = 8

	priceBulkUpTo10     = 700
	priceBulkMoreThan10 = 1100

	priceDaytimeUpTo10     = 900
	priceDaytimeMoreThan10 = 1100
	priceEveningUpTo10     = 1300
	priceEveningMoreThan10 = 1500
)

// Booking terms applied when the catalog carries no rental rules.
const (
	defaultPrepaymentPercent = 50
	defaultMinBookingHours   = 12
)

// Quote is one rental price computation. Rule is a stable identifier of the
// tier that fired, kept for audit and debug traces.
type Quote struct {
	Price   int
	Rule    string
	Message string
}

// RentalPrice computes the hourly rental price. hours is the explicit
// booking duration, 0 when the user never named one; 8 hours and more
// switch to the bulk tier. The evaluator never fails: absent catalog rules
// fall back to defaults.
func RentalPrice(timeBucket string, peopleCount int, rental catalogx.RentalRules, hours int) Quote {
	var q Quote

	if hours >= bulkMinHours {
		if peopleCount <= 10 {
			q.Price = priceBulkUpTo10
			q.Rule = "bulk_up_to_10"
		} else {
			q.Price = priceBulkMoreThan10
			q.Rule = "bulk_more_than_10"
		}
		q.Message = fmt.Sprintf("Стоимость аренды: %d руб/час (оптовая цена при аренде от 8 часов).", q.Price)
	} else if timeBucket == extractx.BucketDaytime {
		if peopleCount <= 10 {
			q.Price = priceDaytimeUpTo10
			q.Rule = "daytime_up_to_10"
		} else {
			q.Price = priceDaytimeMoreThan10
			q.Rule = "daytime_more_than_10"
		}
		q.Message = fmt.Sprintf("Стоимость аренды: %d руб/час.", q.Price)
	} else {
		if peopleCount <= 10 {
			q.Price = priceEveningUpTo10
			q.Rule = "evening_up_to_10"
		} else {
			q.Price = priceEveningMoreThan10
			q.Rule = "evening_more_than_10"
		}
		q.Message = fmt.Sprintf("Стоимость аренды: %d руб/час.", q.Price)
	}

	prepayment := rental.PrepaymentPercent
	if prepayment <= 0 {
		prepayment = defaultPrepaymentPercent
	}
	minBooking := rental.MinBookingHours
	if minBooking <= 0 {
		minBooking = defaultMinBookingHours
	}
	q.Message += fmt.Sprintf("\n\nПредоплата: %d%%\nБронь минимум за %d часов.", prepayment, minBooking)

	return q
}
