package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration for the calendar service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	BusinessStartHour int
	BusinessEndHour   int
	SlotStep          time.Duration
	SearchHorizonDays int
}

// Load parses configuration values from the current process environment.
//
// Defaults match the documented scheduling rules: business hours 09:00-17:00,
// 30 minute slot granularity, and a 7 day search horizon. Invalid entries are
// accumulated and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:          8080,
		SQLiteDSN:         "file:calendar.db",
		BusinessStartHour: 9,
		BusinessEndHour:   17,
		SlotStep:          30 * time.Minute,
		SearchHorizonDays: 7,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("CALENDAR_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "CALENDAR_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("CALENDAR_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if startValue := strings.TrimSpace(os.Getenv("CALENDAR_BUSINESS_START_HOUR")); startValue != "" {
		hour, err := strconv.Atoi(startValue)
		if err != nil || hour < 0 || hour > 23 {
			invalid = append(invalid, "CALENDAR_BUSINESS_START_HOUR")
		} else {
			cfg.BusinessStartHour = hour
		}
	}

	if endValue := strings.TrimSpace(os.Getenv("CALENDAR_BUSINESS_END_HOUR")); endValue != "" {
		hour, err := strconv.Atoi(endValue)
		if err != nil || hour < 1 || hour > 24 {
			invalid = append(invalid, "CALENDAR_BUSINESS_END_HOUR")
		} else {
			cfg.BusinessEndHour = hour
		}
	}

	if stepValue := strings.TrimSpace(os.Getenv("CALENDAR_SLOT_STEP")); stepValue != "" {
		step, err := time.ParseDuration(stepValue)
		if err != nil || step <= 0 {
			invalid = append(invalid, "CALENDAR_SLOT_STEP")
		} else {
			cfg.SlotStep = step
		}
	}

	if horizonValue := strings.TrimSpace(os.Getenv("CALENDAR_SEARCH_HORIZON_DAYS")); horizonValue != "" {
		days, err := strconv.Atoi(horizonValue)
		if err != nil || days <= 0 {
			invalid = append(invalid, "CALENDAR_SEARCH_HORIZON_DAYS")
		} else {
			cfg.SearchHorizonDays = days
		}
	}

	if cfg.BusinessStartHour >= cfg.BusinessEndHour {
		invalid = append(invalid, "CALENDAR_BUSINESS_START_HOUR/CALENDAR_BUSINESS_END_HOUR")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
