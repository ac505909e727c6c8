package domain

import "time"

type ShiftType struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	DisplayOrder int32     `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
