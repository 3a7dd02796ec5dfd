package solar

import (
	"context"
	"fmt"
	"os"
	"solarsync-backend/lib/browser"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("solarsync.lib.scrapers.solar")

type Credentials struct {
	Username string
	Password string
}

// CredentialsFromEnv reads the vendor's credentials from the
// environment. ok is false when either half is missing, in which
// case the vendor must not run.
func CredentialsFromEnv(profile VendorProfile) (Credentials, bool) {
	creds := Credentials{
		Username: os.Getenv(profile.UsernameEnv),
		Password: os.Getenv(profile.PasswordEnv),
	}
	return creds, creds.Username != "" && creds.Password != ""
}

// Session is an authenticated (or failed) portal login bound to one
// page. FailureReason is empty on success.
type Session struct {
	Page          browser.Page
	Vendor        string
	FailureReason string
}

type SessionManager struct {
	Pacing browser.Pacing
	// bounded wait for the url to leave the login pattern
	LoginWait time.Duration
	Attempts  int
}

func NewSessionManager(pacing browser.Pacing) SessionManager {
	return SessionManager{
		Pacing:    pacing,
		LoginWait: 30 * time.Second,
		Attempts:  3,
	}
}

func (m SessionManager) attempts() int {
	if m.Attempts <= 0 {
		return 3
	}
	return m.Attempts
}

// Open logs the page into the vendor portal. The returned session
// always carries the page so callers can release it on every path;
// on failure FailureReason holds the stable reason string.
func (m SessionManager) Open(ctx context.Context, page browser.Page, profile VendorProfile, creds Credentials) (*Session, error) {
	ctx, span := tracer.Start(ctx, "session:Open")
	defer span.End()
	span.SetAttributes(attribute.String("vendor", profile.Name))

	profile = profile.withDefaults()
	sess := &Session{Page: page, Vendor: profile.Name}

	if creds.Username == "" || creds.Password == "" {
		err := fmt.Errorf("%s: %w", profile.Name, ErrMissingCredentials)
		sess.FailureReason = FailureReason(err)
		span.SetStatus(codes.Error, "missing credentials")
		return sess, err
	}

	err := page.Navigate(ctx, profile.LoginURL)
	if err != nil {
		sess.FailureReason = FailureReason(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open login page")
		return sess, fmt.Errorf("%s: failed to open login page: %w", profile.Name, err)
	}
	m.Pacing.Sleep(ctx)

	m.dismissOverlays(ctx, page, profile)

	var lastErr error
	for attempt := 1; attempt <= m.attempts(); attempt++ {
		if attempt > 1 {
			m.Pacing.Sleep(ctx)
		}
		// the prototype setter only matters once a plain assignment
		// has been reverted by the page's framework
		native := attempt > 1

		var filled bool
		err := page.Evaluate(ctx, fillLoginScript(creds.Username, creds.Password, native), &filled)
		if err != nil {
			lastErr = err
			continue
		}
		if !filled {
			lastErr = fmt.Errorf("%s: %w", profile.Name, ErrFieldsNotFound)
			continue
		}
		m.Pacing.Sleep(ctx)

		var submitted bool
		err = page.Evaluate(ctx, submitLoginScript, &submitted)
		if err == nil && !submitted {
			err = page.PressEnter(ctx)
		}
		if err != nil {
			lastErr = err
			continue
		}

		if m.waitLoggedIn(ctx, page, profile) {
			span.SetStatus(codes.Ok, "logged in")
			return sess, nil
		}
		if m.invalidCredentials(ctx, page) {
			err := fmt.Errorf("%s: %w", profile.Name, ErrInvalidCredentials)
			sess.FailureReason = FailureReason(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid credentials")
			return sess, err
		}
		lastErr = fmt.Errorf("%s: %w", profile.Name, ErrStillOnLogin)
	}

	sess.FailureReason = FailureReason(lastErr)
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "login failed")
	return sess, lastErr
}

// cookie banners, compliance modals and the pre-login controls some
// portals require. all best effort: a missing overlay is the normal
// case.
func (m SessionManager) dismissOverlays(ctx context.Context, page browser.Page, profile VendorProfile) {
	var acted bool
	if err := page.Evaluate(ctx, consentScript, &acted); err == nil && acted {
		m.Pacing.Sleep(ctx)
	}
	if err := page.Evaluate(ctx, dismissDialogScript, &acted); err == nil && acted {
		m.Pacing.Sleep(ctx)
	}
	if profile.AccountPasswordTab {
		if err := page.Evaluate(ctx, accountTabScript, &acted); err == nil && acted {
			m.Pacing.Sleep(ctx)
		}
	}
	if profile.ServerSitePicker {
		if err := page.Evaluate(ctx, sitePickerScript, &acted); err == nil && acted {
			m.Pacing.Sleep(ctx)
		}
	}
}

func (m SessionManager) waitLoggedIn(ctx context.Context, page browser.Page, profile VendorProfile) bool {
	wait := m.LoginWait
	if wait <= 0 {
		wait = 30 * time.Second
	}
	deadline := time.Now().Add(wait)
	for {
		loc, err := page.Location(ctx)
		if err == nil && loc != "" && !onLoginPage(loc, profile) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func onLoginPage(loc string, profile VendorProfile) bool {
	if strings.Contains(loc, profile.LoginPathPattern) {
		return true
	}
	return strings.TrimSuffix(loc, "/") == strings.TrimSuffix(profile.LoginURL, "/")
}

func (m SessionManager) invalidCredentials(ctx context.Context, page browser.Page) bool {
	var rejected bool
	err := page.Evaluate(ctx, invalidCredentialsScript, &rejected)
	return err == nil && rejected
}
