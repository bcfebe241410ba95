package request

import (
	"time"

	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ResourceID string    `json:"resource_id" binding:"required,uuid"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
}

func (r CreateReservationRequest) ToCommand() commands.CreateReservationRequest {
	// binding has already checked the uuid
	id, _ := uuid.Parse(r.ResourceID)
	return commands.CreateReservationRequest{
		ResourceID: id,
		Start:      r.Start.UTC(),
		End:        r.End.UTC(),
	}
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PageQuery struct {
	After string `form:"after"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

func (q PageQuery) Cursor() *queries.Cursor {
	if q.After == "" {
		return nil
	}
	return &queries.Cursor{After: q.After}
}
