package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Pitastic/zabbix-tplink-crawler/pkg/tplink"
)

type portRecord struct {
	Port       int    `json:"port"`
	State      string `json:"state"`
	LinkStatus string `json:"link_status"`
	TxGoodPkt  uint64 `json:"TxGoodPkt"`
	TxBadPkt   uint64 `json:"TxBadPkt"`
	RxGoodPkt  uint64 `json:"RxGoodPkt"`
	RxBadPkt   uint64 `json:"RxBadPkt"`
}

// discoveryRecord uses the Zabbix low-level discovery macro names
type discoveryRecord struct {
	PortNumber int    `json:"{#PORTNUMBER}"`
	PortState  string `json:"{#PORTSTATE}"`
}

func printJsonStats(w io.Writer, snapshot *tplink.StatsSnapshot) error {
	records := make([]portRecord, 0, len(snapshot.Ports))
	for _, p := range snapshot.Ports {
		records = append(records, portRecord{
			Port:       p.Port,
			State:      p.State.String(),
			LinkStatus: p.LinkStatus.String(),
			TxGoodPkt:  p.TxGood,
			TxBadPkt:   p.TxBad,
			RxGoodPkt:  p.RxGood,
			RxBadPkt:   p.RxBad,
		})
	}
	return writeJson(w, records)
}

// printJsonDiscovery lists every port with its state code as the switch
// reported it
func printJsonDiscovery(w io.Writer, snapshot *tplink.StatsSnapshot) error {
	records := make([]discoveryRecord, 0, len(snapshot.Ports))
	for _, p := range snapshot.Ports {
		records = append(records, discoveryRecord{
			PortNumber: p.Port,
			PortState:  string(p.State),
		})
	}
	return writeJson(w, records)
}

func writeJson(w io.Writer, v interface{}) error {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
