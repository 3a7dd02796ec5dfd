package solar

import "errors"

var (
	ErrMissingCredentials = errors.New("missing portal credentials")
	ErrFieldsNotFound     = errors.New("could not locate the login fields")
	ErrInvalidCredentials = errors.New("portal rejected the credentials")
	ErrStillOnLogin       = errors.New("still on the login page after submitting")

	ErrListViewUnreachable = errors.New("could not reach the list view")
	ErrNoMainTable         = errors.New("no plant table on the page")
)

// FailureReason maps an error from this package onto the stable
// reason strings recorded in logs and session results.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, ErrFieldsNotFound):
		return "fields_not_found"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrStillOnLogin):
		return "still_on_login"
	case errors.Is(err, ErrListViewUnreachable):
		return "list_view_unreachable"
	case errors.Is(err, ErrNoMainTable):
		return "no_main_table"
	default:
		return "navigation_error"
	}
}
