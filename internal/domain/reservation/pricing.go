package reservation

import "parkshare/internal/domain/money"

type PriceCalculator interface {
	Price(hourlyRate money.Money, slot TimeSlot) money.Money
}

// HourlyPriceCalculator charges rate × elapsed hours, rounded half-up to the cent.
type HourlyPriceCalculator struct{}

func NewHourlyPriceCalculator() HourlyPriceCalculator {
	return HourlyPriceCalculator{}
}

func (HourlyPriceCalculator) Price(hourlyRate money.Money, slot TimeSlot) money.Money {
	return hourlyRate.ForDuration(slot.Duration())
}
