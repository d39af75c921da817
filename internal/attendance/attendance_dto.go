package attendance

type MarkAttendanceRequest struct {
	UserID   string  `json:"user_id" binding:"required,uuid"`
	UserName string  `json:"user_name" binding:"required"`
	Status   string  `json:"status" binding:"required,oneof=present absent late"`
	Location *string `json:"location"`
}

type AttendanceResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	UserName    string  `json:"user_name"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	CheckInTime *string `json:"check_in_time,omitempty"`
	Location    *string `json:"location,omitempty"`
	Synced      bool    `json:"synced"`
	CreatedAt   string  `json:"created_at"`
}

type StatsResponse struct {
	Total          int64 `json:"total"`
	Present        int64 `json:"present"`
	Absent         int64 `json:"absent"`
	Late           int64 `json:"late"`
	PendingExcuses int64 `json:"pending_excuses"`
}
