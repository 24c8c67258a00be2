package smoke

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusCreated  = 201
	StatusNotFound = 404
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	// ExpectedInterest is round(1000 * 1.1^2).
	ExpectedInterest = 1210
)
