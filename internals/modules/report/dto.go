package report

import (
	"time"

	"statuspulse/config"
	"statuspulse/internals/modules/monitor"
	"statuspulse/internals/modules/result"
)

type MonitorSummary struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	UptimeWording string         `json:"uptimeWording"`
	Status        monitor.Status `json:"status"`
	TS            int64          `json:"ts"`
}

type OverviewResponse struct {
	Public   config.PublicConfig `json:"public"`
	Groups   []monitor.Group     `json:"groups"`
	Monitors []MonitorSummary    `json:"monitors"`
}

type HistoryResponse struct {
	ID   int                   `json:"id"`
	Name string                `json:"name"`
	Days []result.DayAggregate `json:"days"`
}

type IncidentResponse struct {
	ID          int64     `json:"id"`
	MonitorID   int       `json:"monitor_id"`
	MonitorName string    `json:"monitor_name"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}
