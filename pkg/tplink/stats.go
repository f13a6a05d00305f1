package tplink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Pitastic/zabbix-tplink-crawler/pkg/tplink/internal"
)

// NewStatsPage parses markup and resolves its layout. The layout is decided
// here once and travels with the page.
func NewStatsPage(markup string) (*StatsPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, NewParsingError("failed to parse statistics page", err)
	}

	return &StatsPage{
		Layout:   internal.DetectLayout(markup),
		Document: doc,
	}, nil
}

// ParseStatistics extracts the per-port statistics embedded in page. A nil
// log disables debug output.
func ParseStatistics(page *StatsPage, log logrus.FieldLogger) (*StatsSnapshot, error) {
	if log == nil {
		log = discardLogger()
	}

	raw, err := internal.NewStatsParser(log).Parse(page.Document, page.Layout)
	if err != nil {
		return nil, NewError(ErrUnexpectedPage.Type, ErrUnexpectedPage.Message, err)
	}

	snapshot := &StatsSnapshot{
		MaxPortNum: raw.MaxPortNum,
		Layout:     page.Layout,
		Ports:      make([]PortStat, raw.MaxPortNum),
	}

	for i := range snapshot.Ports {
		port, err := newPortStat(raw, i)
		if err != nil {
			return nil, NewError(ErrUnexpectedPage.Type, ErrUnexpectedPage.Message, err)
		}
		snapshot.Ports[i] = port
	}

	for _, p := range snapshot.Ports {
		log.WithFields(logrus.Fields{
			"port":        p.Port,
			"state":       p.State,
			"link_status": p.LinkStatus,
			"tx_good":     p.TxGood,
			"tx_bad":      p.TxBad,
			"rx_good":     p.RxGood,
			"rx_bad":      p.RxBad,
		}).Debug("port statistics")
	}

	return snapshot, nil
}

// newPortStat keeps state and link codes verbatim; only the packet counters
// must be numeric
func newPortStat(raw *internal.RawStats, i int) (PortStat, error) {
	port := PortStat{
		Port:       i + 1,
		State:      PortState(raw.State[i]),
		LinkStatus: LinkStatus(raw.LinkStatus[i]),
	}

	counters := []*uint64{&port.TxGood, &port.TxBad, &port.RxGood, &port.RxBad}
	for j, dst := range counters {
		cell := raw.Pkts[i*len(counters)+j]
		v, err := strconv.ParseUint(strings.TrimSpace(cell), 10, 64)
		if err != nil {
			return port, fmt.Errorf("port %d: invalid packet counter %q", port.Port, cell)
		}
		*dst = v
	}

	return port, nil
}
