package solar

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func testProfile() VendorProfile {
	return VendorProfile{
		Name:     "Test",
		LoginURL: "https://portal.example/login",
		Fallback: FallbackColumns{Name: 0, Status: 1, Capacity: 2, Power: 3, Yield: 4},
	}.withDefaults()
}

const listPage = `<html><body>
<div class="toolbar"><table><tr><td>logo</td></tr></table></div>
<table>
<thead><tr>
  <th>Nome da Planta</th><th>Status</th><th>Potência Instalada</th>
  <th>Potência Atual</th><th>Geração Hoje</th>
</tr></thead>
<tbody>
  <tr><td>Fazenda A</td><td>Online</td><td>100 kWp</td><td>45,3 kW</td><td>120,5 kWh</td></tr>
  <tr><td>Nome da Planta</td><td>Status</td><td>Potência Instalada</td><td>Potência Atual</td><td>Geração Hoje</td></tr>
  <tr><td>Fazenda A</td><td>Online</td><td>100 kWp</td><td>44,0 kW</td><td>119,0 kWh</td></tr>
  <tr><td></td><td>Online</td><td>10 kWp</td><td>1 kW</td><td>2 kWh</td></tr>
  <tr><td>Fazenda B</td><td>Offline</td><td>50 kWp</td><td>0 W</td><td>0</td></tr>
</tbody>
</table>
</body></html>`

func TestExtract(t *testing.T) {
	records, err := Extract(doc(t, listPage), testProfile())
	require.NoError(t, err)

	// the repeated header row and the nameless row are dropped; the
	// duplicated plant survives, dedup is a later stage
	want := []RawPlantRecord{
		{Name: "Fazenda A", Status: "Online", Capacity: "100 kWp", Power: "45,3 kW", Yield: "120,5 kWh"},
		{Name: "Fazenda A", Status: "Online", Capacity: "100 kWp", Power: "44,0 kW", Yield: "119,0 kWh"},
		{Name: "Fazenda B", Status: "Offline", Capacity: "50 kWp", Power: "0 W", Yield: "0"},
	}
	require.Empty(t, cmp.Diff(want, records))
}

func TestExtractShuffledColumns(t *testing.T) {
	// header synonyms beat the positional defaults
	page := `<table>
	<thead><tr><th>Status</th><th>Daily Yield</th><th>Plant Name</th><th>Capacity</th><th>Current Power</th></tr></thead>
	<tbody><tr><td>Online</td><td>12 kWh</td><td>Sitio Verde</td><td>20 kWp</td><td>5 kW</td></tr></tbody>
	</table>`
	records, err := Extract(doc(t, page), testProfile())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, RawPlantRecord{
		Name: "Sitio Verde", Status: "Online",
		Capacity: "20 kWp", Power: "5 kW", Yield: "12 kWh",
	}, records[0])
}

func TestExtractFuzzyHeader(t *testing.T) {
	// a portal typo still resolves through the fuzzy pass
	page := `<table>
	<thead><tr><th>Plant Name</th><th>Statvs</th><th>Capacity</th><th>Current Power</th><th>Daily Yield</th></tr></thead>
	<tbody><tr><td>Fazenda C</td><td>Offline</td><td>30 kWp</td><td>0</td><td>0</td></tr></tbody>
	</table>`
	records, err := Extract(doc(t, page), testProfile())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Offline", records[0].Status)
}

func TestExtractPositionalFallback(t *testing.T) {
	// headerless body-only table, the vendor's column order applies
	page := `<table><tbody>
	<tr><td>Fazenda D</td><td>Online</td><td>80 kWp</td><td>30 kW</td><td>90 kWh</td></tr>
	</tbody></table>`
	records, err := Extract(doc(t, page), testProfile())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, RawPlantRecord{
		Name: "Fazenda D", Status: "Online",
		Capacity: "80 kWp", Power: "30 kW", Yield: "90 kWh",
	}, records[0])
}

func TestExtractNameFallsBackPastQuantityCell(t *testing.T) {
	// the primary name column holds a figure, the chain keeps looking
	profile := testProfile()
	profile.Fallback = FallbackColumns{Name: 1, Status: 0, Capacity: 2, Power: 3, Yield: 4}
	page := `<table><tbody>
	<tr><td>Online</td><td>12,5 kW</td><td>Usina Leste</td><td>1</td><td>2</td></tr>
	</tbody></table>`
	records, err := Extract(doc(t, page), profile)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Usina Leste", records[0].Name)
}

func TestExtractNoTable(t *testing.T) {
	_, err := Extract(doc(t, `<html><body><div>dashboard cards</div></body></html>`), testProfile())
	require.ErrorIs(t, err, ErrNoMainTable)
}

func TestExtractEmptyList(t *testing.T) {
	page := `<table>
	<thead><tr><th>Nome</th><th>Status</th><th>Capacidade</th><th>Potência Atual</th><th>Geração Hoje</th></tr></thead>
	<tbody></tbody>
	</table>`
	records, err := Extract(doc(t, page), testProfile())
	require.NoError(t, err)
	require.Empty(t, records)
}
