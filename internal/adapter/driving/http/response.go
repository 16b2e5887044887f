package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/basalt-site/internal/application"
	"github.com/ericfisherdev/basalt-site/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// messageResponse is the error body for the GitHub stats endpoints.
type messageResponse struct {
	Message string `json:"message"`
}

// StatRecordResponse is the JSON representation of a cached stats record.
type StatRecordResponse struct {
	ID         int64  `json:"id"`
	Repository string `json:"repository"`
	Stars      int    `json:"stars"`
	Forks      int    `json:"forks"`
	UpdatedAt  string `json:"updatedAt"`
}

// FetchResponse is the body returned by the live fetch endpoint.
type FetchResponse struct {
	Repository string `json:"repository"`
	Stars      int    `json:"stars"`
	Forks      int    `json:"forks"`
}

// SummaryResponse is the site-wide roll-up of the tracked repositories.
type SummaryResponse struct {
	TotalStars       int                  `json:"totalStars"`
	TotalForks       int                  `json:"totalForks"`
	ActiveDevelopers int                  `json:"activeDevelopers"`
	Repositories     []StatRecordResponse `json:"repositories"`
	UsingFallback    bool                 `json:"usingFallback"`
}

// UpdateStatsRequest is the JSON body for the stats update endpoint.
// Stars and forks are pointers so a missing field is distinguishable from zero.
type UpdateStatsRequest struct {
	Repository string `json:"repository"`
	Stars      *int   `json:"stars"`
	Forks      *int   `json:"forks"`
}

// SubscribeRequest is the JSON body for the newsletter signup endpoint.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscriptionResponse is the JSON representation of a newsletter subscription.
type SubscriptionResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Subscribed bool   `json:"subscribed"`
	CreatedAt  string `json:"createdAt"`
}

// SubscribeResponse is the body of every newsletter signup response.
type SubscribeResponse struct {
	Success      bool                  `json:"success"`
	Message      string                `json:"message"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toStatRecordResponse(rec model.StatRecord) StatRecordResponse {
	return StatRecordResponse{
		ID:         rec.ID,
		Repository: rec.Repository,
		Stars:      rec.Stars,
		Forks:      rec.Forks,
		UpdatedAt:  rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toStatRecordResponses(records []model.StatRecord) []StatRecordResponse {
	resp := make([]StatRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toStatRecordResponse(rec))
	}
	return resp
}

func toSubscriptionResponse(sub model.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:         sub.ID,
		Email:      sub.Email,
		Subscribed: sub.Subscribed,
		CreatedAt:  sub.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toSummaryResponse(s application.StatsSummary) SummaryResponse {
	return SummaryResponse{
		TotalStars:       s.TotalStars,
		TotalForks:       s.TotalForks,
		ActiveDevelopers: s.ActiveDevelopers,
		Repositories:     toStatRecordResponses(s.Repositories),
		UsingFallback:    s.UsingFallback,
	}
}
