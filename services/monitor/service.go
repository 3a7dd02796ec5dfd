// Package monitor runs the scrape rounds: one authenticated pass over
// every configured vendor portal, persisting plants and readings page
// by page.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"solarsync-backend/lib/browser"
	"solarsync-backend/lib/plantstore"
	"solarsync-backend/lib/scrapers/solar"
	"solarsync-backend/lib/timezone"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("solarsync.services.monitor")

// CredentialSource resolves a vendor's portal credentials. ok must be
// false when they are absent; the vendor then fails closed.
type CredentialSource func(profile solar.VendorProfile) (solar.Credentials, bool)

type Options struct {
	Browser     browser.Browser
	Gateway     plantstore.Gateway
	Profiles    []solar.VendorProfile
	Credentials CredentialSource
	Pacing      browser.Pacing
	Sessions    solar.SessionManager
	// observation clock, timezone.Now when nil
	Now func() time.Time
}

type Service struct {
	browser     browser.Browser
	gateway     plantstore.Gateway
	profiles    []solar.VendorProfile
	credentials CredentialSource
	pacing      browser.Pacing
	sessions    solar.SessionManager
	now         func() time.Time
}

func NewService(options Options) Service {
	if options.Credentials == nil {
		options.Credentials = solar.CredentialsFromEnv
	}
	if options.Now == nil {
		options.Now = timezone.Now
	}
	return Service{
		browser:     options.Browser,
		gateway:     options.Gateway,
		profiles:    options.Profiles,
		credentials: options.Credentials,
		pacing:      options.Pacing,
		sessions:    options.Sessions,
		now:         options.Now,
	}
}

// RunVendor scrapes one portal end to end. Each page is committed as
// soon as it is extracted, so a navigation failure on page n keeps
// pages 1..n-1.
func (s Service) RunVendor(ctx context.Context, profile solar.VendorProfile) error {
	ctx, span := tracer.Start(ctx, "monitor:RunVendor")
	defer span.End()
	span.SetAttributes(attribute.String("vendor", profile.Name))

	creds, ok := s.credentials(profile)
	if !ok {
		err := fmt.Errorf("%s: %w", profile.Name, solar.ErrMissingCredentials)
		span.SetStatus(codes.Error, "missing credentials")
		return err
	}

	page, err := s.browser.NewPage(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to acquire page")
		return fmt.Errorf("%s: failed to acquire page: %w", profile.Name, err)
	}
	defer page.Close()

	sess, err := s.sessions.Open(ctx, page, profile, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		slog.WarnContext(ctx, "vendor login failed",
			"vendor", profile.Name, "reason", sess.FailureReason)
		return err
	}

	committed := 0
	nav := solar.NewNavigator(page, profile, s.pacing)
	for nav.Next(ctx) {
		batch := solar.BuildBatch(nav.Rows(), profile, s.now())
		if len(batch) == 0 {
			continue
		}

		req := plantstore.CommitRequest{
			Brand:      profile.Name,
			ObservedAt: batch[0].ObservedAt,
			Rows:       make([]plantstore.CommitRow, len(batch)),
		}
		for i, r := range batch {
			req.Rows[i] = plantstore.CommitRow{
				Name:          r.Name,
				Status:        string(r.Status),
				CapacityKwp:   r.CapacityKwp,
				PowerKw:       r.PowerKw,
				DailyYieldKwh: r.DailyYieldKwh,
			}
		}

		err := s.gateway.Commit(ctx, req)
		if err != nil {
			// the next round retries; losing one page beats losing
			// the traversal position
			slog.WarnContext(ctx, "failed to commit page",
				"vendor", profile.Name, "page", nav.PageNum(), "err", err)
			continue
		}
		committed += len(batch)
	}

	span.SetAttributes(
		attribute.Int("pages", nav.PageNum()),
		attribute.Int("plants", committed),
	)
	if err := nav.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "navigation failed")
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// RunRound scrapes every vendor serially. A vendor failing, or even
// panicking, never takes down the round.
func (s Service) RunRound(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "monitor:RunRound")
	defer span.End()

	for _, profile := range s.profiles {
		if ctx.Err() != nil {
			return
		}
		err := s.runVendorSafely(ctx, profile)
		if err != nil {
			slog.WarnContext(ctx, "vendor run failed",
				"vendor", profile.Name, "err", err)
			continue
		}
		slog.InfoContext(ctx, "vendor run finished", "vendor", profile.Name)
	}
}

func (s Service) runVendorSafely(ctx context.Context, profile solar.VendorProfile) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", profile.Name, r)
		}
	}()
	return s.RunVendor(ctx, profile)
}
