package model

// FuelType is the kind of fuel a pump dispenses and a loan or purchase
// refers to.
type FuelType string

const (
	FuelPetrol FuelType = "petrol"
	FuelDiesel FuelType = "diesel"
)

func (f FuelType) Valid() bool {
	return f == FuelPetrol || f == FuelDiesel
}

// FuelTypes lists the supported fuel types in a fixed order.
func FuelTypes() []FuelType {
	return []FuelType{FuelPetrol, FuelDiesel}
}
