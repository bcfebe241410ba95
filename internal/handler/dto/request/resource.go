package request

import "parkshare/internal/usecase/commands"

// Money fields are decimal strings ("10.00").
type CreateResourceRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	Address    string `json:"address" binding:"max=500"`
	HourlyRate string `json:"hourly_rate" binding:"required"`
}

func (r CreateResourceRequest) ToCommand() commands.CreateResourceRequest {
	return commands.CreateResourceRequest{Name: r.Name, Address: r.Address, HourlyRate: r.HourlyRate}
}

type UpdateResourceRequest struct {
	HourlyRate *string `json:"hourly_rate"`
	IsActive   *bool   `json:"is_active"`
}

func (r UpdateResourceRequest) ToCommand() commands.UpdateResourceRequest {
	return commands.UpdateResourceRequest{HourlyRate: r.HourlyRate, IsActive: r.IsActive}
}

type AddWindowRequest struct {
	Weekday *int   `json:"weekday" binding:"required,min=0,max=6"`
	Start   string `json:"start" binding:"required,hhmm"`
	End     string `json:"end" binding:"required,hhmm"`
	// defaults to true
	Open *bool `json:"open"`
}

func (r AddWindowRequest) ToCommand() commands.AddWindowRequest {
	open := true
	if r.Open != nil {
		open = *r.Open
	}
	return commands.AddWindowRequest{Weekday: *r.Weekday, Start: r.Start, End: r.End, Open: open}
}
