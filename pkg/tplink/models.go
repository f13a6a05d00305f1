package tplink

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/Pitastic/zabbix-tplink-crawler/pkg/tplink/internal"
)

// Layout identifies which of the two statistics page structures a switch serves
type Layout = internal.Layout

const (
	// LayoutSimple is served by the TL-SG108E and TL-SG1016DE
	LayoutSimple = internal.LayoutSimple
	// LayoutConvoluted is served by the TL-SG1024DE
	LayoutConvoluted = internal.LayoutConvoluted
)

// PortState is the administrative state code of a port exactly as the page
// reports it
type PortState string

const (
	PortStateDisabled PortState = "0"
	PortStateEnabled  PortState = "1"
)

var portStateLabels = map[PortState]string{
	PortStateDisabled: "Disabled",
	PortStateEnabled:  "Enabled",
}

// String decodes the state code, "unknown" for codes outside the table
func (s PortState) String() string {
	if label, ok := portStateLabels[s]; ok {
		return label
	}
	return "unknown"
}

// LinkStatus is the negotiated speed/duplex code of a port exactly as the
// page reports it
type LinkStatus string

const (
	LinkStatusDown     LinkStatus = "0"
	LinkStatus1        LinkStatus = "1"
	LinkStatus10MHalf  LinkStatus = "2"
	LinkStatus10MFull  LinkStatus = "3"
	LinkStatus4        LinkStatus = "4"
	LinkStatus100MFull LinkStatus = "5"
	LinkStatus1000Full LinkStatus = "6"
)

var linkStatusLabels = map[LinkStatus]string{
	LinkStatusDown:     "Link Down",
	LinkStatus1:        "LS 1",
	LinkStatus10MHalf:  "10M Half",
	LinkStatus10MFull:  "10M Full",
	LinkStatus4:        "LS 4",
	LinkStatus100MFull: "100M Full",
	LinkStatus1000Full: "1000M Full",
}

// String decodes the link code, "unknown" for codes outside the table
func (l LinkStatus) String() string {
	if label, ok := linkStatusLabels[l]; ok {
		return label
	}
	return "unknown"
}

// PortStat holds the state and packet counters of one port
type PortStat struct {
	Port       int
	State      PortState
	LinkStatus LinkStatus
	TxGood     uint64
	TxBad      uint64
	RxGood     uint64
	RxBad      uint64
}

// StatsSnapshot is the statistics of every port as read from one page.
// Ports[i] describes physical port i+1.
type StatsSnapshot struct {
	MaxPortNum int
	Layout     Layout
	Ports      []PortStat
}

// StatsPage is a fetched PortStatisticsRpm.htm with its layout resolved
type StatsPage struct {
	Layout   Layout
	Document *goquery.Document
}
