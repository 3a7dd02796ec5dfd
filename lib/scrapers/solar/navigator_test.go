package solar

import (
	"context"
	"fmt"
	"solarsync-backend/lib/browser"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePage struct {
	html     func() string
	location func() string
	evaluate func(expr string, out any) error

	onEnter func()

	navigated    []string
	enterPressed int
	closed       bool
}

func setBool(out any, v bool) {
	if b, ok := out.(*bool); ok {
		*b = v
	}
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *fakePage) Location(ctx context.Context) (string, error) {
	if p.location != nil {
		return p.location(), nil
	}
	return "", nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	if p.html != nil {
		return p.html(), nil
	}
	return "", nil
}

func (p *fakePage) PressEnter(ctx context.Context) error {
	p.enterPressed++
	if p.onEnter != nil {
		p.onEnter()
	}
	return nil
}

func (p *fakePage) Evaluate(ctx context.Context, expr string, out any) error {
	if p.evaluate != nil {
		return p.evaluate(expr, out)
	}
	setBool(out, false)
	return nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

func pageWithRows(rows ...string) string {
	var b strings.Builder
	b.WriteString(`<table><thead><tr>
		<th>Nome da Planta</th><th>Status</th><th>Potência Instalada</th>
		<th>Potência Atual</th><th>Geração Hoje</th></tr></thead><tbody>`)
	for _, name := range rows {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>Online</td><td>10 kWp</td><td>5 kW</td><td>20 kWh</td></tr>`, name)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

// the advance click "succeeds" but the list never moves; the
// unchanged first row must end the traversal instead of looping
func TestNavigatorStuckPagination(t *testing.T) {
	page := &fakePage{
		html: func() string { return pageWithRows("Fazenda A", "Fazenda B") },
		evaluate: func(expr string, out any) error {
			setBool(out, strings.Contains(expr, "ant-pagination-next"))
			return nil
		},
	}
	nav := NewNavigator(page, testProfile(), browser.NoPacing)

	require.True(t, nav.Next(context.Background()))
	require.Len(t, nav.Rows(), 2)
	require.False(t, nav.Next(context.Background()))
	require.NoError(t, nav.Err())
}

func TestNavigatorPageBound(t *testing.T) {
	profile := testProfile()
	profile.MaxPages = 3

	serial := 0
	page := &fakePage{
		html: func() string {
			serial++
			return pageWithRows(fmt.Sprintf("Fazenda %d", serial))
		},
		evaluate: func(expr string, out any) error {
			setBool(out, strings.Contains(expr, "ant-pagination-next"))
			return nil
		},
	}
	nav := NewNavigator(page, profile, browser.NoPacing)

	pages := 0
	for nav.Next(context.Background()) {
		pages++
		require.Len(t, nav.Rows(), 1)
	}
	require.Equal(t, 3, pages)
	require.NoError(t, nav.Err())
}

func TestNavigatorAdvanceExhausted(t *testing.T) {
	serial := 0
	page := &fakePage{
		html: func() string {
			serial++
			return pageWithRows(fmt.Sprintf("Fazenda %d", serial))
		},
		// no pagination strategy ever reports a click
	}
	nav := NewNavigator(page, testProfile(), browser.NoPacing)

	require.True(t, nav.Next(context.Background()))
	require.False(t, nav.Next(context.Background()))
	require.NoError(t, nav.Err())
}

func TestNavigatorEmptyFirstPage(t *testing.T) {
	page := &fakePage{
		html: func() string { return pageWithRows() },
	}
	nav := NewNavigator(page, testProfile(), browser.NoPacing)

	require.False(t, nav.Next(context.Background()))
	require.NoError(t, nav.Err())
}

func TestNavigatorListViewUnreachable(t *testing.T) {
	page := &fakePage{
		html: func() string { return `<div>card view only</div>` },
	}
	nav := NewNavigator(page, testProfile(), browser.NoPacing)

	require.False(t, nav.Next(context.Background()))
	require.ErrorIs(t, nav.Err(), ErrListViewUnreachable)
}

func TestNavigatorTogglesIntoListView(t *testing.T) {
	toggled := false
	page := &fakePage{
		html: func() string {
			if !toggled {
				return `<div>card view</div>`
			}
			return pageWithRows("Fazenda A")
		},
		evaluate: func(expr string, out any) error {
			if strings.Contains(expr, "tableDisplay") {
				toggled = true
				setBool(out, true)
				return nil
			}
			setBool(out, false)
			return nil
		},
	}
	nav := NewNavigator(page, testProfile(), browser.NoPacing)

	require.True(t, nav.Next(context.Background()))
	require.Equal(t, "Fazenda A", nav.Rows()[0].Name)
	require.NoError(t, nav.Err())
}
