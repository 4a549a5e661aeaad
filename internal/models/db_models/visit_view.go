package db_models

import (
	"encoding/json"
	"fieldvisit/internal/models/response_models"
	"fieldvisit/pkg/utils"
	"github.com/google/uuid"
	"time"
)

func BuildVisitResponse(v *Visit) *response_models.VisitResponse {
	out := &response_models.VisitResponse{
		ID:             v.ID.String(),
		OrganizationID: v.OrganizationID.String(),
		LocationID:     v.LocationID.String(),
		AgentID:        v.AgentID.String(),
		Status:         string(v.Status),
		ScheduledDate:  v.ScheduledDate.UTC().Format(time.RFC3339),
		CheckInTime:    utils.FormatRFC3339(v.CheckInTime),
		CheckInLat:     v.CheckInLat,
		CheckInLng:     v.CheckInLng,
		CheckOutTime:   utils.FormatRFC3339(v.CheckOutTime),
		CheckOutLat:    v.CheckOutLat,
		CheckOutLng:    v.CheckOutLng,
		TravelDistance: v.TravelDistance,
		Notes:          v.Notes,
		MediaURLs:      json.RawMessage(v.MediaURLs),
		ReportData:     json.RawMessage(v.ReportData),
		Version:        v.Version,
	}

	if v.Location.ID != uuid.Nil {
		out.Location = &response_models.LocationSummary{
			ID:          v.Location.ID.String(),
			Name:        v.Location.Name,
			Latitude:    v.Location.Latitude,
			Longitude:   v.Location.Longitude,
			District:    v.Location.District,
			Block:       v.Location.Block,
			StationType: v.Location.StationType,
		}
	}
	if v.Agent.ID != uuid.Nil {
		out.Agent = &response_models.AgentSummary{
			ID:    v.Agent.ID.String(),
			Name:  v.Agent.Name,
			Email: v.Agent.Email,
		}
	}
	return out
}

func BuildLocationResponse(l *Location) *response_models.LocationResponse {
	out := &response_models.LocationResponse{
		ID:            l.ID.String(),
		Name:          l.Name,
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		Address:       l.Address,
		District:      l.District,
		Block:         l.Block,
		StationType:   l.StationType,
		HasProblem:    l.HasProblem,
		LastVisitedAt: utils.FormatRFC3339(l.LastVisitedAt),
	}
	if l.AssignedAgent != nil && l.AssignedAgent.ID != uuid.Nil {
		out.AssignedAgent = &response_models.AgentSummary{
			ID:    l.AssignedAgent.ID.String(),
			Name:  l.AssignedAgent.Name,
			Email: l.AssignedAgent.Email,
		}
	}
	return out
}
