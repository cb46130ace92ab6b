package enums

import "fmt"

// ShotType is the espresso shot option on a cart line.
type ShotType string

const (
	ShotTypeSingle ShotType = "Single"
	ShotTypeDouble ShotType = "Double"
)

var validShotTypes = []ShotType{ShotTypeSingle, ShotTypeDouble}

func (s ShotType) String() string { return string(s) }

func (s ShotType) IsValid() bool {
	for _, candidate := range validShotTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseShotType(value string) (ShotType, error) {
	for _, candidate := range validShotTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shot type %q", value)
}

// DrinkType is the hot/cold preparation option.
type DrinkType string

const (
	DrinkTypeHot  DrinkType = "Hot"
	DrinkTypeCold DrinkType = "Cold"
)

var validDrinkTypes = []DrinkType{DrinkTypeHot, DrinkTypeCold}

func (d DrinkType) String() string { return string(d) }

func (d DrinkType) IsValid() bool {
	for _, candidate := range validDrinkTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

func ParseDrinkType(value string) (DrinkType, error) {
	for _, candidate := range validDrinkTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid drink type %q", value)
}

// CupSize is the cup size option.
type CupSize string

const (
	CupSizeSmall  CupSize = "Small"
	CupSizeMedium CupSize = "Medium"
	CupSizeLarge  CupSize = "Large"
)

var validCupSizes = []CupSize{CupSizeSmall, CupSizeMedium, CupSizeLarge}

func (c CupSize) String() string { return string(c) }

func (c CupSize) IsValid() bool {
	for _, candidate := range validCupSizes {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseCupSize(value string) (CupSize, error) {
	for _, candidate := range validCupSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cup size %q", value)
}

// IceLevel is the 0..2 ice option on a cart line.
type IceLevel int

const (
	IceLevelLow    IceLevel = 0
	IceLevelMedium IceLevel = 1
	IceLevelHigh   IceLevel = 2
)

// IsValid reports whether the value is a known IceLevel.
func (i IceLevel) IsValid() bool {
	return i >= IceLevelLow && i <= IceLevelHigh
}

// ParseIceLevel converts the wire integer into a validated IceLevel.
func ParseIceLevel(value int) (IceLevel, error) {
	level := IceLevel(value)
	if !level.IsValid() {
		return 0, fmt.Errorf("invalid ice level %d", value)
	}
	return level, nil
}
