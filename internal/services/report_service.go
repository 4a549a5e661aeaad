package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	dbm "fieldvisit/internal/models/db_models"
	"fieldvisit/internal/repositories"
	"fieldvisit/pkg/geo"
	"fieldvisit/pkg/utils"
)

type ReportServiceInterface interface {
	// RenderVisitReport renders the inspection report document for a visit
	// and returns the document bytes plus a download filename.
	RenderVisitReport(ctx context.Context, visitId string) ([]byte, string, error)
}

type ReportService struct {
	visitRepo repositories.VisitRepository
}

func NewReportService(visitRepo repositories.VisitRepository) ReportServiceInterface {
	return &ReportService{visitRepo: visitRepo}
}

// visitReportView flattens a visit into the fields the report template
// prints. Fairness metrics (proximity, travel distance, duration) come
// from the shared geo engine and the visit's check-in/check-out stamps.
type visitReportView struct {
	VisitID       string
	Status        string
	ScheduledDate string
	StationName   string
	District      string
	Block         string
	StationType   string
	AgentName     string
	AgentEmail    string

	CheckInTime    string
	CheckOutTime   string
	Proximity      string
	TravelDistance string
	Duration       string

	Notes     string
	Technical map[string]string
	General   map[string]string
}

const visitReportTemplate = `FIELD VISIT INSPECTION REPORT
=============================

Visit ID:       {{.VisitID}}
Status:         {{.Status}}
Scheduled:      {{.ScheduledDate}}

Station:        {{.StationName}} ({{.StationType}})
District/Block: {{.District}} / {{.Block}}
Agent:          {{.AgentName}} <{{.AgentEmail}}>

FAIRNESS / INTEGRITY METRICS
----------------------------
Check-in:        {{.CheckInTime}}
Check-out:       {{.CheckOutTime}}
Proximity:       {{.Proximity}}
Travel distance: {{.TravelDistance}}
Duration:        {{.Duration}}

TECHNICAL INSPECTION
--------------------
{{- range $k, $v := .General}}
{{printf "%-18s %s" $k $v}}
{{- end}}
{{- range $k, $v := .Technical}}
{{printf "%-18s %s" $k $v}}
{{- end}}

Notes: {{if .Notes}}{{.Notes}}{{else}}-{{end}}
`

var reportTmpl = template.Must(template.New("visit_report").Parse(visitReportTemplate))

func (s *ReportService) RenderVisitReport(ctx context.Context, visitId string) ([]byte, string, error) {
	visit, err := s.visitRepo.GetByID(ctx, visitId)
	if err != nil {
		return nil, "", utils.ErrDatabaseError
	}
	if visit == nil {
		return nil, "", utils.ErrVisitNotFound
	}

	view := buildReportView(visit)

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, view); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("Visit_Report_%s.txt", visit.ID)
	return buf.Bytes(), filename, nil
}

func buildReportView(visit *dbm.Visit) visitReportView {
	view := visitReportView{
		VisitID:        visit.ID.String(),
		Status:         string(visit.Status),
		ScheduledDate:  visit.ScheduledDate.UTC().Format("2006-01-02"),
		StationName:    visit.Location.Name,
		District:       visit.Location.District,
		Block:          visit.Location.Block,
		StationType:    visit.Location.StationType,
		AgentName:      visit.Agent.Name,
		AgentEmail:     visit.Agent.Email,
		CheckInTime:    orNA(utils.FormatRFC3339(visit.CheckInTime)),
		CheckOutTime:   orNA(utils.FormatRFC3339(visit.CheckOutTime)),
		Proximity:      "N/A",
		TravelDistance: "N/A",
		Duration:       "N/A",
		Notes:          visit.Notes,
		General:        map[string]string{},
		Technical:      map[string]string{},
	}

	// Proximity: did the agent check in near the registered station?
	if visit.CheckInLat != nil && visit.CheckInLng != nil {
		d := geo.Distance(*visit.CheckInLat, *visit.CheckInLng, visit.Location.Latitude, visit.Location.Longitude)
		view.Proximity = fmt.Sprintf("%.2f KM", d)
	}
	if visit.TravelDistance != nil {
		view.TravelDistance = fmt.Sprintf("%.2f KM", *visit.TravelDistance)
	}
	if visit.CheckInTime != nil && visit.CheckOutTime != nil {
		view.Duration = visit.CheckOutTime.Sub(*visit.CheckInTime).Round(time.Minute).String()
	}

	if len(visit.ReportData) > 0 {
		var rd struct {
			PremiseCondition  string            `json:"premiseCondition"`
			InstalledPosition string            `json:"installedPosition"`
			EngineerName      string            `json:"engineerName"`
			SubmittedAt       string            `json:"submittedAt"`
			Technical         map[string]string `json:"technical"`
		}
		if err := json.Unmarshal(visit.ReportData, &rd); err == nil {
			setIf(view.General, "Condition", rd.PremiseCondition)
			setIf(view.General, "Mounting", rd.InstalledPosition)
			setIf(view.General, "Engineer", rd.EngineerName)
			setIf(view.General, "Submitted", rd.SubmittedAt)
			for k, v := range rd.Technical {
				setIf(view.Technical, k, v)
			}
		}
	}

	return view
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func setIf(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}
