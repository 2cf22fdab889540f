package constants

// HTTP Response Messages
const (
	ResponseInvalidRequestBody  = "invalid request body"
	ResponseEncodeFailed        = "failed to encode response"
	ResponseMissingLicenseFile  = "missing license file"
	ResponseMissingLicenseText  = "missing license text"
	ResponseMissingRouteEnds    = "source and destination are required"
	ResponseInvalidCoordinates  = "invalid lat/lon"
	ResponseInvalidPredictionID = "invalid prediction ID"
	ResponsePredictionNotFound  = "prediction not found"
	ResponseInternalError       = "internal server error"
	ResponseInvalidLimit        = "invalid limit"
	ResponseNotFound            = "not found"
)

// Error Messages for Logging
const (
	LogWriteFailed = "w.Write failed: %v"
)
