package models

// Requests for the planner HTTP endpoints. Defined in domain for consistency and reuse.

type SessionRequest struct {
	SessionID string `param:"session_id" validate:"required,uuid"`
}

type DateDetailRequest struct {
	SessionID string `param:"session_id" validate:"required,uuid"`
	Date      string `param:"date" validate:"required,datetime=2006-01-02"`
}

type AddPoolRequest struct {
	SessionID   string   `param:"session_id" json:"-" validate:"required,uuid"`
	Name        string   `json:"name"`
	ExpiryDate  string   `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Tier        *int     `json:"tier" default:"3" validate:"required,gte=1,lte=4"`
	TVLMillions *float64 `json:"tvl_millions" default:"10" validate:"required,gte=0"`
}

type RemovePoolRequest struct {
	SessionID string `param:"session_id" validate:"required,uuid"`
	Index     int    `param:"index"`
}

type BeginRelaunchRequest struct {
	SessionID string `param:"session_id" json:"-" validate:"required,uuid"`
	Address   string `json:"address" validate:"required"`
}

type CommitRelaunchRequest struct {
	SessionID  string `param:"session_id" json:"-" validate:"required,uuid"`
	Address    string `param:"address" json:"-" validate:"required"`
	ExpiryDate string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Tier       *int   `json:"tier" default:"2" validate:"required,gte=1,lte=4"`
}

type DiscardRelaunchRequest struct {
	SessionID string `param:"session_id" validate:"required,uuid"`
	Address   string `param:"address" validate:"required"`
}
