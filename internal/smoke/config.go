package smoke

import (
	"time"

	"github.com/okian/addressbook/internal/domain/contact"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Contacts int           // Contacts created by the concurrent burst
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for run output
	Verbose  bool          // Enable verbose logging
}

// Contact is a record as the API returns it.
type Contact = contact.Contact

// contactAck is the body of create and update responses.
type contactAck struct {
	Message string  `json:"message"`
	Contact Contact `json:"contact"`
}

// messageBody is the body of delete and not-found responses.
type messageBody struct {
	Message string `json:"message"`
}

// interestBody is the compound interest response.
type interestBody struct {
	Result *float64 `json:"result"`
	Date   string   `json:"date"`
}

// Stats holds run statistics
type Stats struct {
	ScenariosPassed int
	BurstSubmitted  int
	BurstSuccessful int
	BurstFailed     int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
