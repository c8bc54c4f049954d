package constants

const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04"
	// DisplayDateFormat is the day-first layout used on statements.
	DisplayDateFormat = "02/01/2006"
)
