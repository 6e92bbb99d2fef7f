package promotion

import "time"

type CreateBusinessAdRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=120"`
	ImageURL  string `json:"image_url" validate:"omitempty,url"`
	TargetURL string `json:"target_url" validate:"required,url"`
	Months    int    `json:"months" validate:"required,gte=1,lte=12"`
}

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	Tier        string    `json:"tier" validate:"required,event_tier"`
	EventDate   time.Time `json:"event_date" validate:"required"`
}

type BusinessAdResponse struct {
	Ad      *BusinessAd `json:"ad"`
	Charged int64       `json:"charged"`
	Balance int64       `json:"balance"`
}

type EventResponse struct {
	Event   *Event `json:"event"`
	Charged int64  `json:"charged"`
	Balance int64  `json:"balance"`
}
