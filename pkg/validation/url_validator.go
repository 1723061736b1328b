package validation

import (
	"net/netip"
	"net/url"
	"slices"
	"strings"

	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
)

// URLValidator decides whether a remote card image may be fetched
type URLValidator struct {
	allowedSchemes    []string
	allowedHosts      []string
	blockPrivateHosts bool
}

// URLOption configures a URLValidator
type URLOption func(*URLValidator)

// WithSchemes replaces the accepted schemes
func WithSchemes(schemes ...string) URLOption {
	return func(v *URLValidator) {
		v.allowedSchemes = lowerAll(schemes)
	}
}

// WithHosts restricts fetching to the listed host names. An empty list allows every host.
func WithHosts(hosts ...string) URLOption {
	return func(v *URLValidator) {
		v.allowedHosts = lowerAll(hosts)
	}
}

// WithPrivateHostsBlocked rejects loopback, private and link-local IP literals
func WithPrivateHostsBlocked() URLOption {
	return func(v *URLValidator) {
		v.blockPrivateHosts = true
	}
}

// NewURLValidator accepts http and https URLs for any host unless options narrow it
func NewURLValidator(opts ...URLOption) *URLValidator {
	v := &URLValidator{
		allowedSchemes: []string{"http", "https"},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateImageURL returns a validation AppError when imageURL may not be fetched
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !slices.Contains(v.allowedSchemes, strings.ToLower(parsedURL.Scheme)) {
		return apperrors.NewValidationError("URL scheme not allowed", nil).WithDetails(parsedURL.Scheme)
	}

	host := strings.ToLower(parsedURL.Hostname())
	if host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if len(v.allowedHosts) > 0 && !slices.Contains(v.allowedHosts, host) {
		return apperrors.NewValidationError("URL host not allowed", nil).WithDetails(host)
	}

	if v.blockPrivateHosts && isPrivateHost(host) {
		return apperrors.NewValidationError("URL host is not publicly routable", nil).WithDetails(host)
	}

	return nil
}

// isPrivateHost only inspects IP literals and localhost; names are not resolved
func isPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
