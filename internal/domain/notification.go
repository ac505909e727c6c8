package domain

import "time"

const NotificationTypeVacancy = "vacancy"

type Notification struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"userID"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	Type             string    `json:"type"`
	RelatedVacancyID *int64    `json:"relatedVacancyID,omitempty"`
	IsRead           bool      `json:"isRead"`
	CreatedAt        time.Time `json:"createdAt"`
}
