package hap

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownValue is returned (wrapped) when a TXT record value has no entry
// in the table it is classified against.
var ErrUnknownValue = errors.New("unknown enum value")

// UnknownValueError reports the table and the value that could not be classified.
type UnknownValueError struct {
	Enum  string
	Value int
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("%s: %d is not a known %s", ErrUnknownValue, e.Value, e.Enum)
}

// Unwrap lets errors.Is match ErrUnknownValue.
func (e *UnknownValueError) Unwrap() error {
	return ErrUnknownValue
}

// Category is the accessory category advertised in the "ci" TXT key.
type Category int

// Accessory categories (HAP table 12-3).
const (
	CategoryOther              Category = 1
	CategoryBridge             Category = 2
	CategoryFan                Category = 3
	CategoryGarage             Category = 4
	CategoryLightbulb          Category = 5
	CategoryDoorLock           Category = 6
	CategoryOutlet             Category = 7
	CategorySwitch             Category = 8
	CategoryThermostat         Category = 9
	CategorySensor             Category = 10
	CategorySecuritySystem     Category = 11
	CategoryDoor               Category = 12
	CategoryWindow             Category = 13
	CategoryWindowCovering     Category = 14
	CategoryProgrammableSwitch Category = 15
	CategoryRangeExtender      Category = 16
	CategoryIPCamera           Category = 17
	CategoryVideoDoorbell      Category = 18
	CategoryAirPurifier        Category = 19
	CategoryHeater             Category = 20
	CategoryAirConditioner     Category = 21
	CategoryHumidifier         Category = 22
	CategoryDehumidifier       Category = 23
	CategoryAppleTV            Category = 24
	CategoryHomePod            Category = 25
	CategorySpeaker            Category = 26
	CategoryAirPort            Category = 27
	CategorySprinkler          Category = 28
	CategoryFaucet             Category = 29
	CategoryShowerHead         Category = 30
	CategoryTelevision         Category = 31
	CategoryTargetController   Category = 32
	CategoryRouter             Category = 33
	CategoryAudioReceiver      Category = 34
	CategoryTVSetTopBox        Category = 35
	CategoryTVStreamingStick   Category = 36
)

var categoryNames = map[Category]string{
	CategoryOther:              "Other",
	CategoryBridge:             "Bridge",
	CategoryFan:                "Fan",
	CategoryGarage:             "Garage Door Opener",
	CategoryLightbulb:          "Lightbulb",
	CategoryDoorLock:           "Door Lock",
	CategoryOutlet:             "Outlet",
	CategorySwitch:             "Switch",
	CategoryThermostat:         "Thermostat",
	CategorySensor:             "Sensor",
	CategorySecuritySystem:     "Security System",
	CategoryDoor:               "Door",
	CategoryWindow:             "Window",
	CategoryWindowCovering:     "Window Covering",
	CategoryProgrammableSwitch: "Programmable Switch",
	CategoryRangeExtender:      "Range Extender",
	CategoryIPCamera:           "IP Camera",
	CategoryVideoDoorbell:      "Video Doorbell",
	CategoryAirPurifier:        "Air Purifier",
	CategoryHeater:             "Heater",
	CategoryAirConditioner:     "Air Conditioner",
	CategoryHumidifier:         "Humidifier",
	CategoryDehumidifier:       "Dehumidifier",
	CategoryAppleTV:            "Apple TV",
	CategoryHomePod:            "HomePod",
	CategorySpeaker:            "Speaker",
	CategoryAirPort:            "AirPort",
	CategorySprinkler:          "Sprinkler",
	CategoryFaucet:             "Faucet",
	CategoryShowerHead:         "Shower Head",
	CategoryTelevision:         "Television",
	CategoryTargetController:   "Target Controller",
	CategoryRouter:             "Wi-Fi Router",
	CategoryAudioReceiver:      "Audio Receiver",
	CategoryTVSetTopBox:        "TV Set Top Box",
	CategoryTVStreamingStick:   "TV Streaming Stick",
}

// ParseCategory maps a "ci" value onto the category table.
func ParseCategory(v int) (Category, error) {
	c := Category(v)
	if _, ok := categoryNames[c]; !ok {
		return 0, &UnknownValueError{Enum: "category", Value: v}
	}
	return c, nil
}

// String returns the human-readable category name
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// MarshalText renders the category name in JSON and YAML output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
