package common

import "fmt"

// ValidatePin checks that pin is exactly PinLength ASCII digits.
func ValidatePin(pin string) error {
	if len(pin) != PinLength {
		return fmt.Errorf("%w: PIN must be %d digits", ErrValidation, PinLength)
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return fmt.Errorf("%w: PIN must be %d digits", ErrValidation, PinLength)
		}
	}
	return nil
}
