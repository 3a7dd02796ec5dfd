package monitor

import (
	"context"
	"solarsync-backend/lib/browser"
	"solarsync-backend/lib/plantstore"
	"solarsync-backend/lib/scrapers/solar"
	"solarsync-backend/lib/testutil"
	"solarsync-backend/lib/timezone"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testVendorProfile() solar.VendorProfile {
	return solar.VendorProfile{
		Name:     "Huawei",
		LoginURL: "https://portal.example/login",
		Fallback: solar.FallbackColumns{Name: 0, Status: 1, Capacity: 2, Power: 3, Yield: 4},
	}
}

const portalList = `<table>
<thead><tr>
  <th>Nome da Planta</th><th>Status</th><th>Potência Instalada</th>
  <th>Potência Atual</th><th>Geração Hoje</th>
</tr></thead>
<tbody>
  <tr><td>Fazenda A</td><td>Online</td><td>100 kWp</td><td>45,3 kW</td><td>120,5 kWh</td></tr>
  <tr><td>Fazenda A</td><td>Online</td><td>100 kWp</td><td>44,0 kW</td><td>119,0 kWh</td></tr>
  <tr><td>Fazenda B</td><td>Offline</td><td>50 kWp</td><td>0 W</td><td>0</td></tr>
</tbody>
</table>`

type portalPage struct {
	loggedIn  bool
	denyLogin bool
	closed    int
}

func (p *portalPage) Navigate(ctx context.Context, url string) error { return nil }

func (p *portalPage) Location(ctx context.Context) (string, error) {
	if p.loggedIn {
		return "https://portal.example/plants", nil
	}
	return "https://portal.example/login", nil
}

func (p *portalPage) HTML(ctx context.Context) (string, error) {
	if !p.loggedIn {
		return `<form><input type="text"/><input type="password"/></form>`, nil
	}
	return portalList, nil
}

func (p *portalPage) PressEnter(ctx context.Context) error { return nil }

func (p *portalPage) Evaluate(ctx context.Context, expr string, out any) error {
	set := func(v bool) {
		if b, ok := out.(*bool); ok {
			*b = v
		}
	}
	switch {
	case strings.Contains(expr, "type === 'password'"):
		set(!p.denyLogin)
	case strings.Contains(expr, "form.submit"):
		if !p.denyLogin {
			p.loggedIn = true
		}
		set(true)
	default:
		set(false)
	}
	return nil
}

func (p *portalPage) Close() error {
	p.closed++
	return nil
}

type portalBrowser struct {
	pages []*portalPage
	deny  bool
}

func (b *portalBrowser) NewPage(ctx context.Context) (browser.Page, error) {
	page := &portalPage{denyLogin: b.deny}
	b.pages = append(b.pages, page)
	return page, nil
}

func setupService(t *testing.T, deny bool) (Service, plantstore.Store, *portalBrowser) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "monitor",
		DbSchema: plantstore.Schema,
	})
	t.Cleanup(cleanup)

	store := plantstore.NewStore(res.DB)
	b := &portalBrowser{deny: deny}
	profile := testVendorProfile()

	service := NewService(Options{
		Browser:  b,
		Gateway:  plantstore.NewGateway(store),
		Profiles: []solar.VendorProfile{profile},
		Credentials: func(p solar.VendorProfile) (solar.Credentials, bool) {
			return solar.Credentials{Username: "ops@example.com", Password: "hunter2"}, true
		},
		Pacing: browser.NoPacing,
		Sessions: solar.SessionManager{
			Pacing:    browser.NoPacing,
			LoginWait: 10 * time.Millisecond,
			Attempts:  1,
		},
		Now: func() time.Time {
			return time.Date(2026, time.March, 10, 11, 0, 0, 0, timezone.Location)
		},
	})
	return service, store, b
}

func TestRunVendor(t *testing.T) {
	ctx := context.Background()
	service, store, b := setupService(t, false)
	profile := testVendorProfile()

	require.NoError(t, service.RunVendor(ctx, profile))
	// run again: plants update in place, readings accumulate
	require.NoError(t, service.RunVendor(ctx, profile))

	plants, err := store.ListPlants(ctx)
	require.NoError(t, err)
	require.Len(t, plants, 2)

	byName := map[string]plantstore.Plant{}
	for _, p := range plants {
		byName[p.Name] = p
	}

	a := byName["Fazenda A"]
	require.Equal(t, "Huawei", a.Brand)
	// 11h is outside the peak window: producing means online
	require.Equal(t, "online", a.Status)
	// the duplicated row lost: first occurrence wins
	require.Equal(t, 45.3, a.PowerKw)
	require.Equal(t, 120.5, a.DailyYieldKwh)
	require.NotNil(t, a.LastSeenOnlineAt)

	bPlant := byName["Fazenda B"]
	require.Equal(t, "offline", bPlant.Status)
	require.Equal(t, 0.0, bPlant.PowerKw)
	require.Nil(t, bPlant.LastSeenOnlineAt)

	for _, p := range plants {
		count, err := store.CountReadings(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, int64(2), count)
	}

	// every acquired page was released
	for _, page := range b.pages {
		require.Equal(t, 1, page.closed)
	}
}

func TestRunVendorLoginFailureAborts(t *testing.T) {
	ctx := context.Background()
	service, store, b := setupService(t, true)
	profile := testVendorProfile()

	err := service.RunVendor(ctx, profile)
	require.ErrorIs(t, err, solar.ErrFieldsNotFound)

	plants, listErr := store.ListPlants(ctx)
	require.NoError(t, listErr)
	require.Empty(t, plants)

	// the page is released even on the failure path
	require.Len(t, b.pages, 1)
	require.Equal(t, 1, b.pages[0].closed)
}

func TestRunVendorMissingCredentialsFailsClosed(t *testing.T) {
	ctx := context.Background()
	service, _, b := setupService(t, false)
	profile := testVendorProfile()

	service = NewService(Options{
		Browser:  b,
		Gateway:  service.gateway,
		Profiles: []solar.VendorProfile{profile},
		Credentials: func(p solar.VendorProfile) (solar.Credentials, bool) {
			return solar.Credentials{}, false
		},
		Pacing:   browser.NoPacing,
		Sessions: service.sessions,
		Now:      service.now,
	})

	err := service.RunVendor(ctx, profile)
	require.ErrorIs(t, err, solar.ErrMissingCredentials)
	// no page was even acquired
	require.Empty(t, b.pages)
}

func TestRunRoundSurvivesVendorFailure(t *testing.T) {
	ctx := context.Background()
	service, store, _ := setupService(t, true)

	// must not panic or abort; the failure is contained per vendor
	service.RunRound(ctx)

	plants, err := store.ListPlants(ctx)
	require.NoError(t, err)
	require.Empty(t, plants)
}
