package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Pitastic/zabbix-tplink-crawler/pkg/tplink"
)

// OutputFormat selects how port statistics are printed
type OutputFormat string

const (
	DefaultFormat   OutputFormat = "default"
	StatsOnlyFormat OutputFormat = "statsonly"
	OneLineFormat   OutputFormat = "1line"
	JsonFormat      OutputFormat = "json"
	DiscoveryFormat OutputFormat = "discover"
)

const timestampLayout = "2006-01-02 15:04:05"

// selectFormat resolves the output flags. Discovery wins over JSON, JSON over
// single line; stats-only only trims the default format.
func selectFormat(oneLine, json, statsOnly, discover bool) OutputFormat {
	switch {
	case discover:
		return DiscoveryFormat
	case json:
		return JsonFormat
	case oneLine:
		return OneLineFormat
	case statsOnly:
		return StatsOnlyFormat
	default:
		return DefaultFormat
	}
}

func printStats(w io.Writer, snapshot *tplink.StatsSnapshot, format OutputFormat, now time.Time) error {
	switch format {
	case DiscoveryFormat:
		return printJsonDiscovery(w, snapshot)
	case JsonFormat:
		return printJsonStats(w, snapshot)
	case OneLineFormat:
		return printOneLine(w, snapshot, now)
	case StatsOnlyFormat:
		return printPortLines(w, snapshot)
	case DefaultFormat:
		if _, err := fmt.Fprintf(w, "%s\nmax_port_num=%d\n", now.Format(timestampLayout), snapshot.MaxPortNum); err != nil {
			return err
		}
		return printPortLines(w, snapshot)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// printPortLines writes port;state;link;txGood,txBad,rxGood,rxBad per port
func printPortLines(w io.Writer, snapshot *tplink.StatsSnapshot) error {
	for _, p := range snapshot.Ports {
		_, err := fmt.Fprintf(w, "%d;%s;%s;%d,%d,%d,%d\n",
			p.Port, p.State, p.LinkStatus, p.TxGood, p.TxBad, p.RxGood, p.RxBad)
		if err != nil {
			return err
		}
	}
	return nil
}

func printOneLine(w io.Writer, snapshot *tplink.StatsSnapshot, now time.Time) error {
	fields := []string{now.Format(timestampLayout), fmt.Sprint(snapshot.MaxPortNum)}
	for _, p := range snapshot.Ports {
		fields = append(fields, fmt.Sprintf("%d,%s,%s,%d,%d,%d,%d",
			p.Port, p.State, p.LinkStatus, p.TxGood, p.TxBad, p.RxGood, p.RxBad))
	}

	_, err := fmt.Fprintln(w, strings.Join(fields, ","))
	return err
}
