package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// Number of cells one port occupies in each per-field array
const (
	pktsPerPort       = 4
	convolutedPerPort = 2 + pktsPerPort
)

var (
	maxPortNumPattern = regexp.MustCompile(`(?m)var\s+max_port_num\s*=\s*([^;\n]*);`)
	allInfoPattern    = regexp.MustCompile(`(?ms)var all_info = \{\n?(.*?)\n?\};$`)
	tmpInfoPattern    = regexp.MustCompile(`(?ms)tmp_info = "(.*?)";$`)
	tmpInfo2Pattern   = regexp.MustCompile(`(?ms)tmp_info2 = "(.*?)";$`)
	entrySplitPattern = regexp.MustCompile(`,?\n+`)
	paddingPattern    = regexp.MustCompile(`\[(.*),0,0\]`)
)

// ErrVariableNotFound is wrapped by every error about a script variable that
// is missing from the page
var ErrVariableNotFound = errors.New("script variable not found")

// RawStats holds the per-field arrays as read off the page, padding removed
type RawStats struct {
	MaxPortNum int
	State      []string
	LinkStatus []string
	Pkts       []string
}

// StatsParser extracts port statistics from the inline scripts of
// PortStatisticsRpm.htm
type StatsParser struct {
	log logrus.FieldLogger
}

// NewStatsParser creates a new statistics parser
func NewStatsParser(log logrus.FieldLogger) *StatsParser {
	return &StatsParser{log: log}
}

// Parse reads the statistics arrays out of doc using the strategy for layout
func (p *StatsParser) Parse(doc *goquery.Document, layout Layout) (*RawStats, error) {
	switch layout {
	case LayoutSimple:
		return p.parseSimple(doc)
	case LayoutConvoluted:
		return p.parseConvoluted(doc)
	default:
		return nil, fmt.Errorf("unsupported page layout %d", layout)
	}
}

func (p *StatsParser) parseSimple(doc *goquery.Document) (*RawStats, error) {
	script := scriptText(doc.Find("script").First())
	if script == "" {
		return nil, fmt.Errorf("no inline script on page: %w", ErrVariableNotFound)
	}
	p.log.Debugf("statistics script:\n%s", script)

	maxPortNum, err := findMaxPortNum(script)
	if err != nil {
		return nil, err
	}

	m := allInfoPattern.FindStringSubmatch(script)
	if m == nil {
		return nil, fmt.Errorf("all_info: %w", ErrVariableNotFound)
	}

	vars := p.parseEntries(m[1])

	state, err := requireEntry(vars, "state")
	if err != nil {
		return nil, err
	}
	linkStatus, err := requireEntry(vars, "link_status")
	if err != nil {
		return nil, err
	}
	pkts, err := requireEntry(vars, "pkts")
	if err != nil {
		return nil, err
	}

	raw := &RawStats{
		MaxPortNum: maxPortNum,
		State:      strings.Split(state, ","),
		LinkStatus: strings.Split(linkStatus, ","),
		Pkts:       strings.Split(pkts, ","),
	}
	if err := p.fitToPortCount(raw); err != nil {
		return nil, err
	}

	return raw, nil
}

func (p *StatsParser) parseConvoluted(doc *goquery.Document) (*RawStats, error) {
	var headScripts []string
	doc.Find("head script").Each(func(_ int, s *goquery.Selection) {
		headScripts = append(headScripts, scriptText(s))
	})
	head := strings.Join(headScripts, "\n")
	p.log.Debugf("head scripts:\n%s", head)

	maxPortNum, err := findMaxPortNum(head)
	if err != nil {
		return nil, err
	}

	body := scriptText(doc.Find("body script").First())
	p.log.Debugf("body script:\n%s", body)

	m1 := tmpInfoPattern.FindStringSubmatch(body)
	if m1 == nil {
		return nil, fmt.Errorf("tmp_info: %w", ErrVariableNotFound)
	}
	m2 := tmpInfo2Pattern.FindStringSubmatch(body)
	if m2 == nil {
		return nil, fmt.Errorf("tmp_info2: %w", ErrVariableNotFound)
	}

	// The simple layout ends every array with two zero cells that parseEntries
	// strips. Mirror that here so both layouts share one entry parser.
	joined := strings.TrimRightFunc(m1[1], unicode.IsSpace) + " " +
		strings.TrimRightFunc(m2[1], unicode.IsSpace)
	scriptVars := strings.ReplaceAll("tmp_info:["+joined+",0,0]", " ", ",")

	vars := p.parseEntries(scriptVars)
	info, err := requireEntry(vars, "tmp_info")
	if err != nil {
		return nil, err
	}

	raw, err := deinterleave(strings.Split(info, ","), maxPortNum)
	if err != nil {
		return nil, err
	}
	if err := p.fitToPortCount(raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// parseEntries splits a `key:[v,...,0,0]` list into key -> "v,..." with the two
// padding cells removed. Entries without the padding tail are skipped.
func (p *StatsParser) parseEntries(scriptVars string) map[string]string {
	entries := entrySplitPattern.Split(scriptVars, -1)
	p.log.Debugf("script entries: %q", entries)

	vars := make(map[string]string, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			continue
		}

		m := paddingPattern.FindStringSubmatch(parts[1])
		if m == nil {
			p.log.Debugf("skipping entry %q without padding cells", parts[0])
			continue
		}
		vars[strings.TrimSpace(parts[0])] = m[1]
	}

	p.log.Debugf("script variables: %v", vars)
	return vars
}

// fitToPortCount checks every array against MaxPortNum. Arrays with surplus
// cells are cut down, short arrays are an error.
func (p *StatsParser) fitToPortCount(raw *RawStats) error {
	fit := func(name string, cells []string, want int) ([]string, error) {
		if len(cells) < want {
			return nil, fmt.Errorf("%s has %d values, need %d for %d ports",
				name, len(cells), want, raw.MaxPortNum)
		}
		if len(cells) > want {
			p.log.Debugf("truncating %s from %d to %d values", name, len(cells), want)
		}
		return cells[:want], nil
	}

	var err error
	if raw.State, err = fit("state", raw.State, raw.MaxPortNum); err != nil {
		return err
	}
	if raw.LinkStatus, err = fit("link_status", raw.LinkStatus, raw.MaxPortNum); err != nil {
		return err
	}
	if raw.Pkts, err = fit("pkts", raw.Pkts, raw.MaxPortNum*pktsPerPort); err != nil {
		return err
	}
	return nil
}

// deinterleave redistributes (state, link, txGood, txBad, rxGood, rxBad)
// tuples into the per-field arrays of the simple layout
func deinterleave(cells []string, maxPortNum int) (*RawStats, error) {
	if len(cells) < maxPortNum*convolutedPerPort {
		return nil, fmt.Errorf("tmp_info has %d values, need %d for %d ports",
			len(cells), maxPortNum*convolutedPerPort, maxPortNum)
	}

	raw := &RawStats{
		MaxPortNum: maxPortNum,
		State:      make([]string, maxPortNum),
		LinkStatus: make([]string, maxPortNum),
		Pkts:       make([]string, maxPortNum*pktsPerPort),
	}
	for x := 0; x < maxPortNum; x++ {
		tuple := cells[x*convolutedPerPort : (x+1)*convolutedPerPort]
		raw.State[x] = tuple[0]
		raw.LinkStatus[x] = tuple[1]
		copy(raw.Pkts[x*pktsPerPort:(x+1)*pktsPerPort], tuple[2:])
	}

	return raw, nil
}

func findMaxPortNum(script string) (int, error) {
	m := maxPortNumPattern.FindStringSubmatch(script)
	if m == nil {
		return 0, fmt.Errorf("max_port_num: %w", ErrVariableNotFound)
	}

	n, err := strconv.Atoi(strings.TrimSpace(m[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid max_port_num %q: %w", m[1], err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid max_port_num %d", n)
	}
	return n, nil
}

func requireEntry(vars map[string]string, key string) (string, error) {
	v, ok := vars[key]
	if !ok {
		return "", fmt.Errorf("entry %s: %w", key, ErrVariableNotFound)
	}
	return v, nil
}

// scriptText returns the script source with CRLF line endings folded to LF
func scriptText(s *goquery.Selection) string {
	return strings.ReplaceAll(s.Text(), "\r\n", "\n")
}
