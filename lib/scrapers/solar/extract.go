package solar

import (
	"fmt"
	"regexp"
	"solarsync-backend/lib/htmlutil"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
)

// RawPlantRecord is one plant row exactly as the portal rendered it.
type RawPlantRecord struct {
	Name     string
	Status   string
	Capacity string
	Power    string
	Yield    string
}

// minimum similarity for the fuzzy header fallback
const headerSimilarity = 0.90

type columnRoles struct {
	name     int
	status   int
	capacity int
	power    int
	yield    int
}

// Extract decodes the plant rows out of a rendered list page. Rows
// without a resolvable name are dropped; header rows embedded in the
// body (ant/element tables repeat them) are excluded by content, not
// position. Returns ErrNoMainTable when the page has no plausible
// plant table at all.
func Extract(doc *goquery.Document, profile VendorProfile) ([]RawPlantRecord, error) {
	table := mainTable(doc)
	if table == nil {
		return nil, fmt.Errorf("%s: %w", profile.Name, ErrNoMainTable)
	}

	headers := headerCells(doc, table)
	roles := resolveRoles(headers, profile)

	var records []RawPlantRecord
	dataRows(table).Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, htmlutil.CellText(cell))
		})
		if len(cells) == 0 || isHeaderRow(cells, profile) {
			return
		}
		name := resolveName(cells, roles, profile)
		if name == "" {
			return
		}
		records = append(records, RawPlantRecord{
			Name:     name,
			Status:   cellAt(cells, roles.status),
			Capacity: cellAt(cells, roles.capacity),
			Power:    cellAt(cells, roles.power),
			Yield:    cellAt(cells, roles.yield),
		})
	})
	return records, nil
}

// the table most likely to be the plant list: enough rows and columns
// to be a listing, with the row count breaking ties. falls back to the
// largest table on the page.
func mainTable(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestRows := 0
	var largest *goquery.Selection
	largestRows := 0

	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		rows := t.Find("tr").Length()
		cols := t.Find("tr").First().Find("th,td").Length()
		if rows > largestRows {
			largest, largestRows = t, rows
		}
		if rows >= 2 && cols >= 3 && rows > bestRows {
			best, bestRows = t, rows
		}
	})
	if best != nil {
		return best
	}
	return largest
}

func headerCells(doc *goquery.Document, table *goquery.Selection) []string {
	header := table.Find("thead tr").Last()
	if header.Length() == 0 {
		first := table.Find("tr").First()
		if first.Find("th").Length() > 0 {
			header = first
		}
	}
	// ant-design renders the header as a separate single-row table
	if header.Length() == 0 {
		doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
			if t.Find("tr").Length() == 1 && t.Find("th").Length() >= 3 {
				header = t.Find("tr").First()
				return false
			}
			return true
		})
	}

	var out []string
	header.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, htmlutil.CellText(cell))
	})
	return out
}

func resolveRoles(headers []string, profile VendorProfile) columnRoles {
	return columnRoles{
		name:     resolveColumn(headers, profile.Synonyms.Name, profile.Fallback.Name),
		status:   resolveColumn(headers, profile.Synonyms.Status, profile.Fallback.Status),
		capacity: resolveColumn(headers, profile.Synonyms.Capacity, profile.Fallback.Capacity),
		power:    resolveColumn(headers, profile.Synonyms.Power, profile.Fallback.Power),
		yield:    resolveColumn(headers, profile.Synonyms.Yield, profile.Fallback.Yield),
	}
}

// substring match first, most specific synonyms first, then a fuzzy
// pass for headers the portals misspell or truncate
func resolveColumn(headers []string, synonyms []string, fallback int) int {
	for _, syn := range synonyms {
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), syn) {
				return i
			}
		}
	}
	for _, syn := range synonyms {
		for i, h := range headers {
			if matchr.JaroWinkler(strings.ToLower(h), syn, false) >= headerSimilarity {
				return i
			}
		}
	}
	return fallback
}

func dataRows(table *goquery.Selection) *goquery.Selection {
	body := table.Find("tbody tr")
	if body.Length() > 0 {
		return body
	}
	return table.Find("tr")
}

// a body row whose cells are mostly header spellings is the repeated
// header, not a plant
func isHeaderRow(cells []string, profile VendorProfile) bool {
	all := [][]string{
		profile.Synonyms.Name, profile.Synonyms.Status,
		profile.Synonyms.Capacity, profile.Synonyms.Power,
		profile.Synonyms.Yield,
	}
	hits := 0
	for _, cell := range cells {
		lower := strings.ToLower(cell)
		if lower == "" {
			continue
		}
		for _, group := range all {
			matched := false
			for _, syn := range group {
				if strings.Contains(lower, syn) {
					hits++
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}
	return hits >= 2
}

var (
	quantityToken = regexp.MustCompile(`(?i)^[\d.,\s\-]*(k?w[hp]?|%)?$`)
	statusToken   = regexp.MustCompile(`(?i)^(on-?line|off-?line|on-?grid|off-?grid|normal|alarm|alerta?|falha|fault|ligad[oa]|desligad[oa]|partial|离线|在线|正常)$`)
)

func looksLikePlantName(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 2 || n > 100 {
		return false
	}
	return !quantityToken.MatchString(s) && !statusToken.MatchString(s)
}

// resolution chain: the role column, the vendor's positional default,
// the first column, then any cell that plausibly is a name
func resolveName(cells []string, roles columnRoles, profile VendorProfile) string {
	for _, idx := range []int{roles.name, profile.Fallback.Name, 0} {
		if v := cellAt(cells, idx); looksLikePlantName(v) {
			return v
		}
	}
	for _, v := range cells {
		if looksLikePlantName(v) {
			return v
		}
	}
	return ""
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
